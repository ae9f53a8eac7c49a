package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy defines exponential backoff between attempts of one run.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the wait before retry number attempt (1-based), clamped to MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := r.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}
	factor := r.BackoffFactor
	if factor <= 0 {
		factor = 2
	}
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * factor)
		if r.MaxDelay > 0 && delay >= r.MaxDelay {
			return r.MaxDelay
		}
	}
	if r.MaxDelay > 0 && delay > r.MaxDelay {
		delay = r.MaxDelay
	}
	return delay
}

// Task is one unit of housekeeping.
type Task func(ctx context.Context) error

// Periodic runs a task every Interval until its context is cancelled. A failed
// run is retried per Retry; the next tick starts fresh.
type Periodic struct {
	name     string
	interval time.Duration
	retry    RetryPolicy
	task     Task
	logger   zerolog.Logger
	sleep    func(ctx context.Context, d time.Duration) bool
}

func NewPeriodic(name string, interval time.Duration, retry RetryPolicy, task Task, logger *zerolog.Logger) *Periodic {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("worker", name).Logger()
	}
	return &Periodic{
		name:     name,
		interval: interval,
		retry:    retry,
		task:     task,
		logger:   l,
		sleep:    sleepCtx,
	}
}

// Start blocks until ctx is done. Run it in its own goroutine.
func (p *Periodic) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().Dur("interval", p.interval).Msg("worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			_ = p.RunOnce(ctx)
		}
	}
}

// RunOnce executes the task, retrying failures, and returns the last error.
func (p *Periodic) RunOnce(ctx context.Context) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = p.task(ctx); err == nil {
			return nil
		}
		if attempt >= p.retry.MaxRetries {
			p.logger.Error().Err(err).Int("attempts", attempt+1).Msg("task failed")
			return err
		}
		delay := p.retry.NextDelay(attempt + 1)
		p.logger.Warn().Err(err).Int("attempt", attempt+1).Dur("retry_in", delay).Msg("task failed, retrying")
		if !p.sleep(ctx, delay) {
			return ctx.Err()
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	ctxRequestID = "request_id"
	ctxUserID    = "user_id"

	requestIDHeader = "X-Request-ID"
	routeUnmatched  = "unmatched"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLogMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Error()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("request_id", c.GetString(ctxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = routeUnmatched
		}
		metrics.IncHTTP(route, c.Writer.Status())
	}
}

// requireUser resolves the caller from the X-Sharer-User-Id header.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(models.UserIDHeader))
		if raw == "" {
			badRequest(c, "missing "+models.UserIDHeader+" header")
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "invalid "+models.UserIDHeader+" header")
			return
		}
		c.Set(ctxUserID, id)
		c.Next()
	}
}

// userRateLimit applies a fixed-window request budget per caller. A store
// failure lets the request through.
func userRateLimit(store domain.RateLimitStore, cfg config.APIUserRateLimitConfig, logger *zerolog.Logger) gin.HandlerFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second
	return func(c *gin.Context) {
		if store == nil || !cfg.Enabled || cfg.Requests <= 0 {
			c.Next()
			return
		}

		userID := callerID(c)
		allowed, err := store.CheckRateLimit(c.Request.Context(), userID, cfg.Requests, window)
		if err != nil {
			logger.Warn().Err(err).Int64("user_id", userID).Msg("rate limit check failed")
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func callerID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

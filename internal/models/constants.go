package models

const (
	// DefaultPageSize is used when a list request carries no size.
	DefaultPageSize = 10

	// MaxPageSize caps the size of a single page.
	MaxPageSize = 100

	// UserIDHeader carries the caller's user id on every HTTP request.
	UserIDHeader = "X-Sharer-User-Id"

	// DefaultRateLimitWindow is the per-user request window in seconds.
	DefaultRateLimitWindow = 60

	// DefaultRateLimitRequests is the number of requests allowed per window.
	DefaultRateLimitRequests = 120
)

// Page selects a window of a list result.
type Page struct {
	From int
	Size int
}

// Unpaged returns everything.
var Unpaged = Page{}

func (p Page) IsUnpaged() bool {
	return p.Size <= 0
}

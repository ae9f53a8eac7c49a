package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Services bundles the application services the transports call into.
type Services struct {
	Users    *service.UserService
	Items    *service.ItemService
	Requests *service.RequestService
	Bookings *service.BookingService
}

// Readiness reports whether backing storage can serve requests.
type Readiness interface {
	Ready(ctx context.Context) error
}

// HTTPServer exposes the lending API over gin.
type HTTPServer struct {
	svc        Services
	ready      Readiness
	pagination config.PaginationConfig
	clock      domain.Clock
	engine     *gin.Engine
	server     *http.Server
	log        zerolog.Logger
}

func NewHTTPServer(
	cfg *config.Config,
	svc Services,
	ready Readiness,
	limits domain.RateLimitStore,
	logger *zerolog.Logger,
) *HTTPServer {
	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "http").Logger()
	}

	s := &HTTPServer{
		svc:        svc,
		ready:      ready,
		pagination: cfg.Pagination,
		clock:      domain.SystemClock{},
		log:        log,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestIDMiddleware(), accessLogMiddleware(&s.log), metricsMiddleware())

	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/readyz", s.handleReadyz)

	users := engine.Group("/users")
	users.POST("", s.createUser)
	users.GET("", s.listUsers)
	users.GET("/:id", s.getUser)
	users.PATCH("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)

	authed := engine.Group("", requireUser(), userRateLimit(limits, cfg.API.UserRateLimit, &s.log))

	items := authed.Group("/items")
	items.POST("", s.createItem)
	items.GET("", s.listOwnItems)
	items.GET("/search", s.searchItems)
	items.GET("/:itemId", s.getItem)
	items.PATCH("/:itemId", s.updateItem)
	items.POST("/:itemId/comment", s.addComment)

	requests := authed.Group("/requests")
	requests.POST("", s.createRequest)
	requests.GET("", s.listOwnRequests)
	requests.GET("/all", s.listOtherRequests)
	requests.GET("/:requestId", s.getRequest)

	bookings := authed.Group("/bookings")
	bookings.POST("", s.createBooking)
	bookings.GET("", s.listBookerBookings)
	bookings.GET("/owner", s.listOwnerBookings)
	bookings.GET("/owner/export", s.exportOwnerBookings)
	bookings.GET("/:bookingId", s.getBooking)
	bookings.PATCH("/:bookingId", s.confirmBooking)

	s.engine = engine
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.HTTP.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return s
}

// Handler returns the routed engine, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(c *gin.Context) {
	if s.ready != nil {
		if err := s.ready.Ready(c.Request.Context()); err != nil {
			s.log.Warn().Err(err).Msg("readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

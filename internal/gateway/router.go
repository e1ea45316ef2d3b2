package gateway

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit/internal/api"
	"github.com/nekogravitycat/shareit/internal/metrics"
)

// Config holds what the gateway needs to validate and forward requests.
type Config struct {
	IsProduction       bool
	ServerURL          string
	Timeout            time.Duration
	StrictBookingStart bool
	Logger             *zap.Logger
	// Limiter is optional; nil disables rate limiting.
	Limiter Limiter
	// Now overrides the clock used by booking time rules.
	Now func() time.Time
}

// NewRouter builds the gateway engine. Every public route is validated locally and
// then forwarded unchanged to the server tier.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	proxy, err := NewProxy(cfg.ServerURL, cfg.Timeout, logger)
	if err != nil {
		return nil, err
	}
	forward := proxy.Handler()
	v := rules{now: now, strict: cfg.StrictBookingStart}

	r := gin.New()
	r.Use(api.RequestID(), api.RequestLogger(logger), api.Metrics(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	public := r.Group("")
	if cfg.Limiter != nil {
		public.Use(RateLimit(cfg.Limiter, logger))
	}

	users := public.Group("/users")
	{
		users.POST("", v.createUser(), forward)
		users.GET("", forward)
		users.GET("/:id", v.byID(), forward)
		users.PATCH("/:id", v.updateUser(), forward)
		users.DELETE("/:id", v.byID(), forward)
	}

	items := public.Group("/items")
	{
		items.POST("", v.createItem(), forward)
		items.GET("", v.userPage(), forward)
		items.GET("/search", v.searchItems(), forward)
		items.GET("/:id", v.userByID(), forward)
		items.PATCH("/:id", v.updateItem(), forward)
		items.POST("/:id/comment", v.addComment(), forward)
	}

	requests := public.Group("/requests")
	{
		requests.POST("", v.createRequest(), forward)
		requests.GET("", v.user(), forward)
		requests.GET("/all", v.userPage(), forward)
		requests.GET("/:id", v.userByID(), forward)
	}

	bookings := public.Group("/bookings")
	{
		bookings.POST("", v.createBooking(), forward)
		bookings.GET("", v.listBookings(), forward)
		bookings.GET("/owner", v.listBookings(), forward)
		bookings.GET("/:id", v.userByID(), forward)
		bookings.PATCH("/:id", v.decideBooking(), forward)
	}

	return r, nil
}

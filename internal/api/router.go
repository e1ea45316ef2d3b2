package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit/internal/auth"
	"github.com/nekogravitycat/shareit/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit/internal/booking/http"
	"github.com/nekogravitycat/shareit/internal/item"
	itemHttp "github.com/nekogravitycat/shareit/internal/item/http"
	"github.com/nekogravitycat/shareit/internal/itemrequest"
	requestHttp "github.com/nekogravitycat/shareit/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit/internal/metrics"
	"github.com/nekogravitycat/shareit/internal/user"
	userHttp "github.com/nekogravitycat/shareit/internal/user/http"
)

// Config holds the services the router exposes.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger

	UserService    user.Service
	ItemService    item.Service
	RequestService itemrequest.Service
	BookingService booking.Service
}

// NewRouter assembles middleware and registers every module's routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger), Metrics(), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireUser := auth.RequireUser()
	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHttp.NewHandler(cfg.UserService))
		itemHttp.RegisterRoutes(root, itemHttp.NewHandler(cfg.ItemService), requireUser)
		requestHttp.RegisterRoutes(root, requestHttp.NewHandler(cfg.RequestService), requireUser)
		bookingHttp.RegisterRoutes(root, bookingHttp.NewHandler(cfg.BookingService), requireUser)
	}

	return r
}

func corsConfig(cfg Config) cors.Config {
	config := cors.DefaultConfig()
	var origins []string
	if cfg.IsProduction {
		for _, o := range strings.Split(cfg.ProdOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	if len(origins) > 0 {
		config.AllowOrigins = origins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", auth.UserIDHeader, RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	return config
}

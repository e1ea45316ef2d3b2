package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit/internal/api"
	"github.com/nekogravitycat/shareit/internal/booking"
	"github.com/nekogravitycat/shareit/internal/db"
	"github.com/nekogravitycat/shareit/internal/item"
	"github.com/nekogravitycat/shareit/internal/itemrequest"
	"github.com/nekogravitycat/shareit/internal/user"
)

// Config holds the dependencies and settings required to start the server tier.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	DBPool             *pgxpool.Pool
	Logger             *zap.Logger
	StrictBookingStart bool
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo)

	// Repositories with cross-module readers
	requestRepo := itemrequest.NewPgxRepository(cfg.DBPool)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Item Module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService, requestRepo, booking.NewItemLookup(bookingRepo))

	// Item Request Module
	requestService := itemrequest.NewService(requestRepo, userService, itemService)

	// Booking Module
	bookingService := booking.NewService(
		bookingRepo,
		itemService,
		userService,
		db.NewTxManager(cfg.DBPool),
		booking.Policy{RequireFutureStart: cfg.StrictBookingStart},
	)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         cfg.Logger,
		UserService:    userService,
		ItemService:    itemService,
		RequestService: requestService,
		BookingService: bookingService,
	})

	return &Container{Router: router}
}

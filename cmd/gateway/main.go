package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit/internal/config"
	"github.com/nekogravitycat/shareit/internal/gateway"
	"github.com/nekogravitycat/shareit/internal/logging"
	"github.com/nekogravitycat/shareit/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadGateway()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New("shareit-gateway", cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.Register()

	limiter, closeLimiter := newLimiter(ctx, cfg, logger)
	defer closeLimiter()

	router, err := gateway.NewRouter(gateway.Config{
		IsProduction:       cfg.IsProduction,
		ServerURL:          cfg.ServerURL,
		Timeout:            cfg.ProxyTimeout,
		StrictBookingStart: cfg.StrictBookingStart,
		Logger:             logger,
		Limiter:            limiter,
	})
	if err != nil {
		logger.Fatal("failed to build gateway", zap.Error(err))
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("gateway running", zap.String("addr", cfg.HTTPAddr), zap.String("server", cfg.ServerURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("gateway error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("gateway forced to shutdown", zap.Error(err))
	}

	logger.Info("gateway exited gracefully")
}

// newLimiter picks the rate limiter from config: none when RPS is 0, Redis when an
// address is set, otherwise in-process buckets.
func newLimiter(ctx context.Context, cfg *config.GatewayConfig, logger *zap.Logger) (gateway.Limiter, func()) {
	if cfg.RateLimitRPS <= 0 {
		return nil, func() {}
	}
	if cfg.RedisAddr == "" {
		logger.Info("rate limiting in process", zap.Int("rps", cfg.RateLimitRPS))
		return gateway.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	logger.Info("rate limiting via redis", zap.String("addr", cfg.RedisAddr), zap.Int("rps", cfg.RateLimitRPS))
	return gateway.NewRedisLimiter(client, cfg.RateLimitRPS, cfg.RateLimitBurst), func() { _ = client.Close() }
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// ServerConfig holds the server tier configuration loaded from environment.
type ServerConfig struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	DBDSN        string
	// AutoMigrate applies the embedded schema on startup.
	AutoMigrate bool
	// StrictBookingStart rejects bookings whose start lies in the past.
	StrictBookingStart bool
}

// GatewayConfig holds the gateway tier configuration loaded from environment.
type GatewayConfig struct {
	IsProduction       bool
	HTTPAddr           string
	ServerURL          string
	ProxyTimeout       time.Duration
	StrictBookingStart bool

	// Rate limiting (RPS 0 disables it). An empty RedisAddr selects the in-process limiter.
	RateLimitRPS   int
	RateLimitBurst int
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
}

// LoadServer loads server configuration from .env (optional) and environment variables.
func LoadServer() (*ServerConfig, error) {
	loadDotEnv()

	cfg := &ServerConfig{}
	var err error

	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":9090")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	cfg.AutoMigrate, err = getEnvAsBool("DB_MIGRATE", true)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIGRATE: %w", err)
	}

	cfg.StrictBookingStart, err = getEnvAsBool("BOOKING_STRICT_START", true)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_STRICT_START: %w", err)
	}

	return cfg, nil
}

// LoadGateway loads gateway configuration from .env (optional) and environment variables.
func LoadGateway() (*GatewayConfig, error) {
	loadDotEnv()

	cfg := &GatewayConfig{}
	var err error

	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING
	cfg.HTTPAddr = getEnv("GATEWAY_ADDR", ":8080")
	cfg.ServerURL = getEnv("SERVER_URL", "http://localhost:9090")

	// Upstream timeout, parsed as time.Duration (e.g. "10s").
	cfg.ProxyTimeout, err = getEnvAsDuration("GATEWAY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT: %w", err)
	}

	cfg.StrictBookingStart, err = getEnvAsBool("BOOKING_STRICT_START", true)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_STRICT_START: %w", err)
	}

	cfg.RateLimitRPS, err = getEnvAsInt("RATE_LIMIT_RPS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	cfg.RateLimitBurst, err = getEnvAsInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads a .env file if it exists.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid bool: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}

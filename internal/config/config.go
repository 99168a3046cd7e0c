package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Ticket Settings
	TicketTargetCount    int
	TicketPageSize       int
	SelectionTTLMinutes  int
	SoldCacheTTLSeconds  int
	TicketImageDir       string
	TicketImageWidth     int
	TicketImageHeight    int
	RechargeExpiryDays   int
	MinRechargeAmount    int
	PurchaseRateLimitSec int

	// Security
	JWTSecret         string
	SessionTimeoutMin int // admin session lifetime
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/quickloot?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Ticket Settings
		TicketTargetCount:    getEnvInt("TICKET_TARGET_COUNT", 5000),
		TicketPageSize:       getEnvInt("TICKET_PAGE_SIZE", 200),
		SelectionTTLMinutes:  getEnvInt("SELECTION_TTL_MINUTES", 30),
		SoldCacheTTLSeconds:  getEnvInt("SOLD_CACHE_TTL_SECONDS", 15),
		TicketImageDir:       getEnv("TICKET_IMAGE_DIR", "./data/tickets"),
		TicketImageWidth:     getEnvInt("TICKET_IMAGE_WIDTH", 640),
		TicketImageHeight:    getEnvInt("TICKET_IMAGE_HEIGHT", 260),
		RechargeExpiryDays:   getEnvInt("RECHARGE_EXPIRY_DAYS", 7),
		MinRechargeAmount:    getEnvInt("MIN_RECHARGE_AMOUNT", 100),
		PurchaseRateLimitSec: getEnvInt("PURCHASE_RATE_LIMIT_SECONDS", 2),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 240),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

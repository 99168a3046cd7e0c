package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/quickloot/backend/internal/api"
	"github.com/quickloot/backend/internal/config"
	"github.com/quickloot/backend/internal/database"
	"github.com/quickloot/backend/internal/migrations"
	"github.com/quickloot/backend/internal/recharge"
	"github.com/quickloot/backend/internal/redis"
	"github.com/quickloot/backend/internal/storage"
	"github.com/quickloot/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// Ticket images live on local disk behind the BlobStore interface
	blobs, err := storage.NewFSStore(cfg.TicketImageDir)
	if err != nil {
		log.Fatalf("Failed to init ticket image store: %v", err)
	}
	log.Printf("[STORAGE] Ticket images rooted at %s", cfg.TicketImageDir)

	// Wire Redis and start the sold-ticket event subscriber in the WS layer
	ws.SetRedisClient(rdb)
	ws.StartTicketEventSubscriber(context.Background())

	// Expire stale PENDING recharge requests in the background
	go recharge.StartExpiryWorker(context.Background(), db, cfg, 6)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, db, rdb, cfg, blobs)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Quickloot server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

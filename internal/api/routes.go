package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/api/handlers"
	"github.com/quickloot/backend/internal/config"
	"github.com/quickloot/backend/internal/middleware"
	"github.com/quickloot/backend/internal/storage"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config, blobs storage.BlobStore) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Auth
		auth := v1.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db, cfg))
			auth.POST("/login", handlers.Login(db, cfg))
		}

		// Game catalog and ticket grids (public: browsing needs no account)
		games := v1.Group("/games")
		{
			games.GET("", handlers.ListGames(db))
			games.GET("/:key/tickets", handlers.GetGameTickets(db, rdb, cfg))
			games.GET("/:key/ws", handlers.HandleGameWebSocket(db))
		}

		// Authenticated user surface
		user := v1.Group("")
		user.Use(handlers.AuthMiddleware(cfg))
		{
			user.GET("/me", handlers.GetMe(db))
			user.GET("/me/tickets", handlers.GetMyTickets(db))
			user.GET("/me/transactions", handlers.GetMyWalletTransactions(db))

			user.POST("/games/:key/selection/toggle", handlers.ToggleSelection(rdb, cfg))
			user.GET("/games/:key/selection", handlers.GetSelection(rdb))
			user.DELETE("/games/:key/selection", handlers.ClearSelection(rdb))

			user.POST("/games/:key/purchase", handlers.PurchaseTicket(db, rdb, cfg, blobs))

			user.POST("/recharge", handlers.SubmitRecharge(db, cfg))
			user.GET("/recharge", handlers.GetMyRecharges(db))
		}

		// Admin surface (cookie sessions, separate from user JWTs)
		adminGroup := v1.Group("/admin")
		{
			adminGroup.POST("/login", handlers.AdminLogin(db, rdb, cfg))

			protected := adminGroup.Group("")
			protected.Use(handlers.AdminSessionMiddleware(rdb))
			{
				protected.POST("/logout", handlers.AdminLogout(rdb))
				protected.GET("/me", handlers.AdminMe())
				protected.GET("/stats", handlers.GetAdminStats(db))
				protected.GET("/games/:key/purchases", handlers.GetAdminPurchases(db))
				protected.GET("/recharges", handlers.GetAdminRecharges(db))
				protected.POST("/recharges/:id/approve", handlers.AdminApproveRecharge(db))
				protected.POST("/recharges/:id/reject", handlers.AdminRejectRecharge(db))
				protected.DELETE("/recharges/:id", handlers.AdminDeleteRecharge(db))
				protected.GET("/audit", handlers.GetAdminAuditLogs(db))
			}
		}
	}
}

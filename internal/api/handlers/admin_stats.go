package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/ledger"
	"github.com/quickloot/backend/internal/recharge"
)

type gameStats struct {
	GameKey     string `db:"game_key" json:"game_key"`
	Name        string `db:"name" json:"name"`
	TargetCount int    `db:"target_count" json:"target_count"`
	SoldCount   int    `db:"sold_count" json:"sold_count"`
	Revenue     int64  `db:"revenue" json:"revenue"`
}

// GetAdminStats returns per-game sales figures plus a few global counters
func GetAdminStats(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var games []gameStats
		err := db.Select(&games, `
			SELECT g.game_key, g.name, g.target_count,
				COUNT(p.id) AS sold_count,
				COALESCE(SUM(p.price), 0) AS revenue
			FROM games g
			LEFT JOIN purchases p ON p.game_key = g.game_key
			GROUP BY g.game_key, g.name, g.target_count
			ORDER BY g.game_key
		`)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch game stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
			return
		}

		var userCount int
		if err := db.Get(&userCount, `SELECT COUNT(*) FROM users WHERE is_active=true`); err != nil {
			log.Printf("[ADMIN] Failed to count users: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
			return
		}

		var pendingRecharges int
		if err := db.Get(&pendingRecharges, `SELECT COUNT(*) FROM recharge_requests WHERE status=$1`, recharge.StatusPending); err != nil {
			log.Printf("[ADMIN] Failed to count pending recharges: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"games":             games,
			"active_users":      userCount,
			"pending_recharges": pendingRecharges,
		})
	}
}

// GetAdminPurchases lists purchases for a game, newest first
func GetAdminPurchases(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameKey := c.Param("key")
		limit, offset := pageParams(c, 50, 200)

		store := ledger.NewStore(db)
		purchases, err := store.ListPurchases(c.Request.Context(), gameKey, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Failed to list purchases for game %s: %v", gameKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch purchases"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"game_key": gameKey, "purchases": purchases})
	}
}

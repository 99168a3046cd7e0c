package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/game"
	"github.com/quickloot/backend/internal/ws"
)

// HandleGameWebSocket subscribes a browser to live sold-ticket events for a
// game so open grids grey out codes without polling
func HandleGameWebSocket(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameKey := c.Param("key")
		if _, err := game.GetGame(db, gameKey); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		ws.GameHub.ServeGame(c.Writer, c.Request, gameKey)
	}
}

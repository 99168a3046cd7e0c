package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickloot/backend/internal/config"
	"github.com/quickloot/backend/internal/ticket"
	"github.com/redis/go-redis/v9"
)

func selectionKey(uid, gameKey string) string {
	return fmt.Sprintf("selection:%s:%s", uid, gameKey)
}

func loadSelection(ctx context.Context, rdb *redis.Client, uid, gameKey string) *ticket.Selector {
	val, err := rdb.Get(ctx, selectionKey(uid, gameKey)).Result()
	if err != nil {
		return ticket.NewSelector()
	}
	var picks []int
	if err := json.Unmarshal([]byte(val), &picks); err != nil {
		return ticket.NewSelector()
	}
	return ticket.NewSelectorFrom(picks)
}

func saveSelection(ctx context.Context, rdb *redis.Client, cfg *config.Config, uid, gameKey string, s *ticket.Selector) error {
	payload, err := json.Marshal(s.Numbers())
	if err != nil {
		return err
	}
	ttl := time.Duration(cfg.SelectionTTLMinutes) * time.Minute
	return rdb.Set(ctx, selectionKey(uid, gameKey), payload, ttl).Err()
}

func selectionResponse(c *gin.Context, s *ticket.Selector) {
	c.JSON(http.StatusOK, gin.H{
		"numbers":  s.Numbers(),
		"count":    s.Count(),
		"complete": s.Complete(),
	})
}

// ToggleSelection flips one number in the session's selection for a game.
// Full selections silently ignore additions, mirroring the number grid.
func ToggleSelection(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			return
		}
		uid := c.GetString("uid")
		gameKey := c.Param("key")

		var req struct {
			Number int `json:"number" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "number required"})
			return
		}
		if req.Number < ticket.MinNumber || req.Number > ticket.MaxNumber {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("number must be in [%d,%d]", ticket.MinNumber, ticket.MaxNumber)})
			return
		}

		ctx := c.Request.Context()
		sel := loadSelection(ctx, rdb, uid, gameKey)
		sel.Toggle(req.Number)
		if err := saveSelection(ctx, rdb, cfg, uid, gameKey, sel); err != nil {
			log.Printf("Failed to save selection for %s/%s: %v", uid, gameKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save selection"})
			return
		}

		selectionResponse(c, sel)
	}
}

// GetSelection returns the session's current picks for a game
func GetSelection(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			return
		}
		uid := c.GetString("uid")
		sel := loadSelection(c.Request.Context(), rdb, uid, c.Param("key"))
		selectionResponse(c, sel)
	}
}

// ClearSelection resets the session's picks for a game (navigation away)
func ClearSelection(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			return
		}
		uid := c.GetString("uid")
		if err := rdb.Del(c.Request.Context(), selectionKey(uid, c.Param("key"))).Err(); err != nil {
			log.Printf("Failed to clear selection for %s: %v", uid, err)
		}
		c.JSON(http.StatusOK, gin.H{"cleared": true})
	}
}

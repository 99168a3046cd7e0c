package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/config"
	"github.com/quickloot/backend/internal/game"
	"github.com/quickloot/backend/internal/ledger"
	"github.com/quickloot/backend/internal/ticket"
	"github.com/redis/go-redis/v9"
)

// ListGames returns the active game catalog with draw dates and takings
func ListGames(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		games, err := game.ListGames(db)
		if err != nil {
			log.Printf("Failed to list games: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list games"})
			return
		}

		store := ledger.NewStore(db)
		now := time.Now()
		out := make([]gin.H, 0, len(games))
		for _, g := range games {
			total, err := store.SumTotal(c.Request.Context(), g.GameKey)
			if err != nil {
				log.Printf("Failed to sum total for %s: %v", g.GameKey, err)
			}
			out = append(out, gin.H{
				"game_key":    g.GameKey,
				"name":        g.Name,
				"category":    g.Category,
				"code_prefix": g.CodePrefix,
				"price":       g.Price,
				"next_draw":   game.NextDraw(g.Category, now).Format("02/01/2006"),
				"total_sales": total,
			})
		}

		c.JSON(http.StatusOK, gin.H{"games": out})
	}
}

// GetGameTickets returns a page of the game's generated code space, each
// code flagged sold or not. Supports the grid's substring search box via
// ?search= and offset/limit paging.
func GetGameTickets(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameKey := c.Param("key")
		g, err := game.GetGame(db, gameKey)
		if err == game.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		if err != nil {
			log.Printf("Failed to load game %s: %v", gameKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
			return
		}

		target := g.TargetCount
		if target <= 0 {
			target = cfg.TicketTargetCount
		}
		codes := ticket.GenerateCodes(game.Seeds(g), target)

		idx, err := loadSoldIndex(c.Request.Context(), db, rdb, cfg, gameKey)
		if err != nil {
			log.Printf("Failed to load sold set for %s: %v", gameKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sold tickets"})
			return
		}

		search := strings.TrimSpace(c.Query("search"))
		if search != "" {
			filtered := codes[:0]
			for _, code := range codes {
				if strings.Contains(strconv.FormatInt(code, 10), search) {
					filtered = append(filtered, code)
				}
			}
			codes = filtered
		}

		limit, offset := pageParams(c, cfg.TicketPageSize, 1000)
		totalMatched := len(codes)
		if offset > len(codes) {
			offset = len(codes)
		}
		end := offset + limit
		if end > len(codes) {
			end = len(codes)
		}
		page := codes[offset:end]

		tickets := make([]gin.H, 0, len(page))
		for _, code := range page {
			tickets = append(tickets, gin.H{
				"code":  code,
				"label": fmt.Sprintf("%s%d", g.CodePrefix, code),
				"sold":  idx.IsSold(code),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"game_key": gameKey,
			"price":    g.Price,
			"total":    totalMatched,
			"offset":   offset,
			"tickets":  tickets,
		})
	}
}

// loadSoldIndex reads the sold set through a short-lived Redis cache so a
// busy grid does not hammer the purchases table on every poll.
func loadSoldIndex(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config, gameKey string) (*ticket.SoldIndex, error) {
	cacheKey := fmt.Sprintf("sold:%s", gameKey)

	if rdb != nil {
		if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var codes []int64
			if err := json.Unmarshal([]byte(cached), &codes); err == nil {
				return ticket.NewSoldIndexFrom(gameKey, codes), nil
			}
		}
	}

	store := ledger.NewStore(db)
	codes, err := store.ListSoldCodes(ctx, gameKey)
	if err != nil {
		return nil, err
	}

	if rdb != nil {
		if payload, err := json.Marshal(codes); err == nil {
			rdb.Set(ctx, cacheKey, payload, time.Duration(cfg.SoldCacheTTLSeconds)*time.Second)
		}
	}
	return ticket.NewSoldIndexFrom(gameKey, codes), nil
}

// invalidateSoldCache drops the cached sold set after a purchase
func invalidateSoldCache(ctx context.Context, rdb *redis.Client, gameKey string) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, fmt.Sprintf("sold:%s", gameKey))
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/config"
	"github.com/quickloot/backend/internal/game"
	"github.com/quickloot/backend/internal/ledger"
	"github.com/quickloot/backend/internal/purchase"
	"github.com/quickloot/backend/internal/render"
	"github.com/quickloot/backend/internal/storage"
	"github.com/quickloot/backend/internal/ticket"
	"github.com/quickloot/backend/internal/wallet"
	"github.com/quickloot/backend/internal/ws"
	"github.com/redis/go-redis/v9"
)

// dbBalances adapts the wallet package to the workflow's reader interface
type dbBalances struct {
	db *sqlx.DB
}

func (b dbBalances) Balance(ctx context.Context, userID int) (int64, error) {
	return wallet.Balance(b.db, userID)
}

// PurchaseTicket buys one ticket code for the authenticated user. The
// numbers come from the session's saved selection, which must be complete.
func PurchaseTicket(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		uid := c.GetString("uid")
		email := c.GetString("email")
		gameKey := c.Param("key")

		var req struct {
			TicketCode int64 `json:"ticket_code" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ticket_code required"})
			return
		}

		ctx := c.Request.Context()

		// One purchase attempt per user at a time
		if rdb != nil && cfg.PurchaseRateLimitSec > 0 {
			key := fmt.Sprintf("purchase_rate:%s", uid)
			ok, err := rdb.SetNX(ctx, key, "1", time.Duration(cfg.PurchaseRateLimitSec)*time.Second).Result()
			if err == nil && !ok {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "purchase rate limit exceeded"})
				return
			}
		}

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
		if !ticket.CodeInSpace(game.Seeds(g), target, req.TicketCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ticket code is not part of this game"})
			return
		}

		sel := loadSelection(ctx, rdb, uid, gameKey)
		numbers := sel.Numbers()
		if !ticket.ValidPicks(numbers) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("select exactly %d numbers first", ticket.MaxPicks)})
			return
		}

		// Cheap pre-check for a friendlier error; the unique index is the
		// real guard.
		idx, err := loadSoldIndex(ctx, db, rdb, cfg, gameKey)
		if err == nil && idx.IsSold(req.TicketCode) {
			c.JSON(http.StatusConflict, gin.H{"error": "ticket already sold"})
			return
		}

		wf := &purchase.Workflow{
			Balances: dbBalances{db: db},
			Renderer: render.NewRenderer(cfg.TicketImageWidth, cfg.TicketImageHeight),
			Blobs:    blobs,
			Ledger:   ledger.NewStore(db),
		}

		out, err := wf.Execute(ctx, purchase.Request{
			Buyer:      purchase.Buyer{UserID: userID, UID: uid, Email: email},
			Game:       g,
			TicketCode: req.TicketCode,
			Numbers:    numbers,
		})
		if err != nil {
			switch {
			case errors.Is(err, purchase.ErrInsufficientBalance):
				c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient balance, please recharge"})
			case errors.Is(err, ledger.ErrTicketSold):
				c.JSON(http.StatusConflict, gin.H{"error": "ticket already sold"})
			default:
				log.Printf("Purchase failed for %s/%d by %s: %v", gameKey, req.TicketCode, uid, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase failed"})
			}
			return
		}

		// Post-commit bookkeeping: drop the cached sold set, tell the open
		// grids, clear the session's picks.
		invalidateSoldCache(ctx, rdb, gameKey)
		ws.PublishTicketSold(ctx, gameKey, req.TicketCode, out.Receipt.GameTotal)
		if rdb != nil {
			rdb.Del(ctx, selectionKey(uid, gameKey))
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      string(out.Status),
			"game_key":    gameKey,
			"ticket_code": req.TicketCode,
			"label":       fmt.Sprintf("%s%d", g.CodePrefix, req.TicketCode),
			"image_path":  out.ImageKey,
			"new_balance": out.Receipt.NewBalance,
			"game_total":  out.Receipt.GameTotal,
		})
	}
}

// GetMyTickets lists the authenticated user's purchased tickets
func GetMyTickets(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			return
		}
		uid := c.GetString("uid")

		store := ledger.NewStore(db)
		rows, err := store.ListUserPurchases(c.Request.Context(), uid)
		if err != nil {
			log.Printf("Failed to list tickets for %s: %v", uid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tickets": rows})
	}
}

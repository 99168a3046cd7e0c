package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/config"
	"github.com/quickloot/backend/internal/models"
	"github.com/quickloot/backend/internal/recharge"
)

// SubmitRecharge records a top-up request carrying the bank transfer's UTR
// number. Money only moves when an admin approves it.
func SubmitRecharge(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var req struct {
			Amount    int64  `json:"amount" binding:"required"`
			UTRNumber string `json:"utr_number" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount and utr_number required"})
			return
		}

		if req.Amount < int64(cfg.MinRechargeAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("minimum recharge is %d", cfg.MinRechargeAmount)})
			return
		}
		utr := strings.TrimSpace(req.UTRNumber)
		if utr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "utr_number required"})
			return
		}

		var reqID int
		err := db.QueryRowx(`INSERT INTO recharge_requests (user_id, amount, utr_number, status, created_at)
			VALUES ($1, $2, $3, $4, NOW()) RETURNING id`,
			userID, req.Amount, utr, recharge.StatusPending).Scan(&reqID)
		if err != nil {
			log.Printf("Failed to create recharge request for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recharge request"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"request_id": reqID, "amount": req.Amount, "status": recharge.StatusPending})
	}
}

// GetMyRecharges returns the authenticated user's recharge history
func GetMyRecharges(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var rows []models.RechargeRequest
		err := db.Select(&rows, `SELECT id, user_id, amount, utr_number, status, reviewed_by, note, created_at, processed_at
			FROM recharge_requests WHERE user_id=$1 ORDER BY created_at DESC`, userID)
		if err != nil {
			log.Printf("Failed to list recharges for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recharges"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"recharges": rows})
	}
}

// GetMyWalletTransactions returns the user's wallet ledger, newest first
func GetMyWalletTransactions(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		limit, offset := pageParams(c, 50, 200)
		var rows []models.WalletTransaction
		err := db.Select(&rows, `SELECT wt.id, wt.wallet_id, wt.entry_type, wt.amount, wt.balance_after, wt.reference_type, wt.reference_id, wt.description, wt.created_at
			FROM wallet_transactions wt
			JOIN wallets w ON wt.wallet_id = w.id
			WHERE w.user_id=$1
			ORDER BY wt.created_at DESC, wt.id DESC
			LIMIT $2 OFFSET $3`, userID, limit, offset)
		if err != nil {
			log.Printf("Failed to list wallet transactions for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transactions"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"transactions": rows})
	}
}

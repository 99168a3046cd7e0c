package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/admin"
	"github.com/quickloot/backend/internal/models"
	"github.com/quickloot/backend/internal/recharge"
	"github.com/quickloot/backend/internal/wallet"
)

// GetAdminRecharges lists recharge requests, optionally filtered by status
func GetAdminRecharges(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		limit, offset := pageParams(c, 50, 200)

		var reqs []models.RechargeRequest
		var err error
		if status != "" {
			err = db.Select(&reqs, `
				SELECT r.id, r.user_id, r.amount, r.utr_number, r.status, r.reviewed_by, r.note, r.created_at, r.processed_at
				FROM recharge_requests r
				WHERE r.status = $1
				ORDER BY r.created_at DESC
				LIMIT $2 OFFSET $3
			`, status, limit, offset)
		} else {
			err = db.Select(&reqs, `
				SELECT r.id, r.user_id, r.amount, r.utr_number, r.status, r.reviewed_by, r.note, r.created_at, r.processed_at
				FROM recharge_requests r
				ORDER BY r.created_at DESC
				LIMIT $1 OFFSET $2
			`, limit, offset)
		}
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch recharge requests: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recharge requests"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"recharges": reqs})
	}
}

// txApprovalStore backs the approval flow with one open transaction
type txApprovalStore struct {
	tx *sqlx.Tx
}

func (s txApprovalStore) LockPending(ctx context.Context, id int) (*models.RechargeRequest, error) {
	var rr models.RechargeRequest
	err := s.tx.GetContext(ctx, &rr, `
		SELECT id, user_id, amount, utr_number, status, reviewed_by, note, created_at, processed_at
		FROM recharge_requests WHERE id=$1 FOR UPDATE
	`, id)
	if err == sql.ErrNoRows {
		return nil, recharge.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rr, nil
}

func (s txApprovalStore) MarkApproved(ctx context.Context, id int, reviewer, note string) error {
	_, err := s.tx.ExecContext(ctx, `
		UPDATE recharge_requests SET status=$1, reviewed_by=$2, note=$3, processed_at=NOW() WHERE id=$4
	`, recharge.StatusApproved, reviewer, note, id)
	return err
}

func (s txApprovalStore) CreditWallet(ctx context.Context, userID int, amount int64, requestID int, memo string) (int64, error) {
	if err := wallet.EnsureWallet(s.tx, userID); err != nil {
		return 0, err
	}
	refID := sql.NullInt64{Int64: int64(requestID), Valid: true}
	return wallet.Credit(s.tx, userID, amount, wallet.RefRecharge, refID, memo)
}

// AdminApproveRecharge approves a pending recharge and credits the wallet.
// The status flip and the credit happen in one transaction so a crash can
// never leave an approved request without its money.
func AdminApproveRecharge(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rechargeID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recharge ID"})
			return
		}
		adminUsername := c.GetString("admin_username")

		var req struct {
			Note string `json:"note"`
		}
		c.ShouldBindJSON(&req)

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("[ADMIN] Failed to begin tx: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve recharge"})
			return
		}
		defer tx.Rollback()

		ctx := c.Request.Context()
		newBalance, err := recharge.Approve(ctx, txApprovalStore{tx: tx}, rechargeID, adminUsername, req.Note)
		if err != nil {
			switch {
			case errors.Is(err, recharge.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Recharge request not found"})
			case errors.Is(err, recharge.ErrAlreadyReviewed):
				c.JSON(http.StatusConflict, gin.H{"error": "Recharge request already reviewed"})
			default:
				log.Printf("[ADMIN] Failed to approve recharge %d: %v", rechargeID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve recharge"})
			}
			return
		}

		if err := tx.Commit(); err != nil {
			log.Printf("[ADMIN] Failed to commit recharge approval %d: %v", rechargeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve recharge"})
			return
		}

		admin.LogAction(db, adminUsername, c.ClientIP(), c.FullPath(), "approve_recharge", map[string]interface{}{
			"recharge_id": rechargeID,
		}, true)

		c.JSON(http.StatusOK, gin.H{"ok": true, "status": recharge.StatusApproved, "new_balance": newBalance})
	}
}

// AdminRejectRecharge rejects a pending recharge request
func AdminRejectRecharge(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rechargeID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recharge ID"})
			return
		}
		adminUsername := c.GetString("admin_username")

		var req struct {
			Note string `json:"note"`
		}
		c.ShouldBindJSON(&req)

		res, err := db.Exec(`
			UPDATE recharge_requests SET status=$1, reviewed_by=$2, note=$3, processed_at=NOW()
			WHERE id=$4 AND status=$5
		`, recharge.StatusRejected, adminUsername, req.Note, rechargeID, recharge.StatusPending)
		if err != nil {
			log.Printf("[ADMIN] Failed to reject recharge %d: %v", rechargeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reject recharge"})
			return
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Recharge request not found or already reviewed"})
			return
		}

		admin.LogAction(db, adminUsername, c.ClientIP(), c.FullPath(), "reject_recharge", map[string]interface{}{
			"recharge_id": rechargeID,
			"note":        req.Note,
		}, true)

		c.JSON(http.StatusOK, gin.H{"ok": true, "status": recharge.StatusRejected})
	}
}

// AdminDeleteRecharge removes a reviewed recharge request. Pending requests
// must be approved or rejected first so money movement stays auditable.
func AdminDeleteRecharge(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rechargeID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recharge ID"})
			return
		}
		adminUsername := c.GetString("admin_username")

		res, err := db.Exec(`DELETE FROM recharge_requests WHERE id=$1 AND status != $2`, rechargeID, recharge.StatusPending)
		if err != nil {
			log.Printf("[ADMIN] Failed to delete recharge %d: %v", rechargeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recharge"})
			return
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Recharge request not found or still pending"})
			return
		}

		admin.LogAction(db, adminUsername, c.ClientIP(), c.FullPath(), "delete_recharge", map[string]interface{}{
			"recharge_id": rechargeID,
		}, true)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

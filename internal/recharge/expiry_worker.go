package recharge

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/config"
)

// Recharge request statuses
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusExpired  = "EXPIRED"
)

// StartExpiryWorker runs a background job that expires PENDING recharge
// requests nobody reviewed within cfg.RechargeExpiryDays. Expired requests
// never credit a wallet; the buyer has to resubmit.
func StartExpiryWorker(ctx context.Context, db *sqlx.DB, cfg *config.Config, intervalHours int) {
	ticker := time.NewTicker(time.Duration(intervalHours) * time.Hour)
	defer ticker.Stop()

	log.Printf("[RECHARGE-EXPIRY] Starting recharge expiry worker (check every %dh, expire after %dd)",
		intervalHours, cfg.RechargeExpiryDays)

	// Run once immediately on startup
	expireStaleRequests(ctx, db, cfg)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[RECHARGE-EXPIRY] Expiry worker stopped")
			return
		case <-ticker.C:
			expireStaleRequests(ctx, db, cfg)
		}
	}
}

func expireStaleRequests(ctx context.Context, db *sqlx.DB, cfg *config.Config) {
	cutoff := time.Now().AddDate(0, 0, -cfg.RechargeExpiryDays)

	res, err := db.ExecContext(ctx, `
		UPDATE recharge_requests
		SET status=$1, processed_at=NOW(), note='expired without review'
		WHERE status=$2 AND created_at < $3
	`, StatusExpired, StatusPending, cutoff)
	if err != nil {
		log.Printf("[RECHARGE-EXPIRY] Failed to expire stale requests: %v", err)
		return
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		log.Printf("[RECHARGE-EXPIRY] Expired %d stale recharge request(s)", n)
	}
}

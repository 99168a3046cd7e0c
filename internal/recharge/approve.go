package recharge

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/quickloot/backend/internal/models"
)

// ErrNotFound is returned when no recharge request matches the id
var ErrNotFound = errors.New("recharge request not found")

// ErrAlreadyReviewed is returned when the request left PENDING before this
// reviewer got to it. The losing side of two concurrent approvals ends here.
var ErrAlreadyReviewed = errors.New("recharge request already reviewed")

// ApprovalStore is the transactional surface the approval flow needs. All
// three calls happen inside one transaction so a crash can never leave an
// approved request without its credit.
type ApprovalStore interface {
	// LockPending loads the request row with a row lock held for the
	// transaction. ErrNotFound when the id does not exist.
	LockPending(ctx context.Context, id int) (*models.RechargeRequest, error)
	// MarkApproved flips the request to APPROVED with reviewer and note
	MarkApproved(ctx context.Context, id int, reviewer, note string) error
	// CreditWallet adds amount to the user's wallet, creating the wallet
	// row if registration never did, and returns the new balance
	CreditWallet(ctx context.Context, userID int, amount int64, requestID int, memo string) (int64, error)
}

// Approve runs one approval to completion: lock, status flip, credit. The
// credit amount is exactly the requested amount, and a request that already
// left PENDING credits nothing.
func Approve(ctx context.Context, store ApprovalStore, id int, reviewer, note string) (int64, error) {
	rr, err := store.LockPending(ctx, id)
	if err != nil {
		return 0, err
	}
	if rr.Status != StatusPending {
		return 0, ErrAlreadyReviewed
	}

	if err := store.MarkApproved(ctx, id, reviewer, note); err != nil {
		return 0, fmt.Errorf("failed to mark recharge %d approved: %w", id, err)
	}

	memo := fmt.Sprintf("Recharge approved (UTR %s)", rr.UTRNumber)
	newBalance, err := store.CreditWallet(ctx, rr.UserID, rr.Amount, rr.ID, memo)
	if err != nil {
		return 0, fmt.Errorf("failed to credit wallet for recharge %d: %w", id, err)
	}

	log.Printf("[RECHARGE] Approved: id=%d reviewer=%s user=%d amount=%d balance_after=%d",
		id, reviewer, rr.UserID, rr.Amount, newBalance)
	return newBalance, nil
}

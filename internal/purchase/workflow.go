package purchase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/quickloot/backend/internal/game"
	"github.com/quickloot/backend/internal/ledger"
	"github.com/quickloot/backend/internal/models"
	"github.com/quickloot/backend/internal/render"
	"github.com/quickloot/backend/internal/storage"
)

// Status is the terminal state of one purchase attempt
type Status string

const (
	// StatusRejected means the balance check refused the purchase; nothing
	// was rendered, uploaded or written.
	StatusRejected Status = "REJECTED"
	// StatusFailed means a step after the balance check errored. Steps that
	// completed before it are not compensated: an uploaded image may exist
	// for a purchase that was never recorded.
	StatusFailed Status = "FAILED"
	// StatusPurchased means the ticket was recorded and the wallet debited
	StatusPurchased Status = "PURCHASED"
)

// ErrInsufficientBalance is the user-visible "please recharge" rejection
var ErrInsufficientBalance = errors.New("insufficient balance, please recharge")

// BalanceReader reads a user's current spendable balance
type BalanceReader interface {
	Balance(ctx context.Context, userID int) (int64, error)
}

// TicketRenderer turns a ticket layout into image bytes
type TicketRenderer interface {
	Render(t render.Ticket) ([]byte, error)
}

// Recorder atomically writes the purchase row and debits the wallet
type Recorder interface {
	Record(ctx context.Context, rec ledger.Record) (*ledger.Receipt, error)
}

// Buyer identifies who is purchasing
type Buyer struct {
	UserID int
	UID    string
	Email  string
}

// Request is one purchase attempt
type Request struct {
	Buyer      Buyer
	Game       *models.Game
	TicketCode int64
	Numbers    []int
}

// Outcome reports where the attempt ended up
type Outcome struct {
	Status   Status
	ImageKey string
	Receipt  *ledger.Receipt
}

// Workflow runs purchase attempts: CheckBalance, Render, Upload, then an
// atomic Record+Debit. Dependencies are injected so each collaborator stays
// behind a narrow interface.
type Workflow struct {
	Balances BalanceReader
	Renderer TicketRenderer
	Blobs    storage.BlobStore
	Ledger   Recorder

	// Now is the clock; nil means time.Now. Tests pin it.
	Now func() time.Time
}

// Execute runs one purchase attempt to a terminal state. The Outcome is
// always non-nil; the error describes why a non-purchased state was reached.
func (w *Workflow) Execute(ctx context.Context, req Request) (*Outcome, error) {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	// CheckBalance: refuse before touching anything else
	bal, err := w.Balances.Balance(ctx, req.Buyer.UserID)
	if err != nil {
		return &Outcome{Status: StatusFailed}, fmt.Errorf("balance check failed: %w", err)
	}
	if bal < req.Game.Price {
		log.Printf("[PURCHASE] Rejected: user=%d balance=%d price=%d game=%s",
			req.Buyer.UserID, bal, req.Game.Price, req.Game.GameKey)
		return &Outcome{Status: StatusRejected}, ErrInsufficientBalance
	}

	boughtAt := now()

	// Render
	img, err := w.Renderer.Render(render.Ticket{
		GameName:    req.Game.Name,
		CodePrefix:  req.Game.CodePrefix,
		Code:        req.TicketCode,
		Numbers:     req.Numbers,
		PurchasedAt: boughtAt,
		DrawDate:    game.NextDraw(req.Game.Category, boughtAt),
	})
	if err != nil {
		return &Outcome{Status: StatusFailed}, fmt.Errorf("ticket render failed: %w", err)
	}

	// Upload. Key has second granularity: two purchases by the same buyer
	// in the same second overwrite each other, last write wins.
	key := fmt.Sprintf("%s/%s_%s.png", req.Buyer.UID, req.Buyer.UID, boughtAt.Format("15-04-05"))
	if err := w.Blobs.Put(ctx, key, img); err != nil {
		return &Outcome{Status: StatusFailed}, fmt.Errorf("ticket upload failed: %w", err)
	}

	// Record + Debit, one transaction. The uploaded image is not removed if
	// this fails.
	receipt, err := w.Ledger.Record(ctx, ledger.Record{
		GameKey:    req.Game.GameKey,
		TicketCode: req.TicketCode,
		UserID:     req.Buyer.UserID,
		BuyerUID:   req.Buyer.UID,
		BuyerEmail: req.Buyer.Email,
		Numbers:    toInt64(req.Numbers),
		Price:      req.Game.Price,
		ImagePath:  key,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			// Balance moved between the pre-check and the debit
			return &Outcome{Status: StatusRejected, ImageKey: key}, ErrInsufficientBalance
		}
		return &Outcome{Status: StatusFailed, ImageKey: key}, err
	}

	log.Printf("[PURCHASE] Completed: game=%s code=%d buyer=%s new_balance=%d",
		req.Game.GameKey, req.TicketCode, req.Buyer.UID, receipt.NewBalance)

	return &Outcome{Status: StatusPurchased, ImageKey: key, Receipt: receipt}, nil
}

func toInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, n := range in {
		out[i] = int64(n)
	}
	return out
}

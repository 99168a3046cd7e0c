package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/quickloot/backend/internal/models"
	"github.com/quickloot/backend/internal/wallet"
)

// ErrTicketSold is returned when a code was already purchased for the game.
// The unique index on (game_key, ticket_code) makes the losing side of a
// concurrent purchase fail here before any money moves.
var ErrTicketSold = errors.New("ticket already sold")

// ErrInsufficientFunds mirrors the wallet sentinel for callers that only
// import the ledger.
var ErrInsufficientFunds = wallet.ErrInsufficientFunds

// Store is the append-only purchase ledger for all games. Totals and sold
// sets are derived from the rows, never read-modify-written.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps a DB handle
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Record is one purchase to be written
type Record struct {
	GameKey    string
	TicketCode int64
	UserID     int
	BuyerUID   string
	BuyerEmail string
	Numbers    []int64
	Price      int64
	ImagePath  string
}

// Receipt summarizes a committed purchase
type Receipt struct {
	PurchaseID int
	NewBalance int64
	GameTotal  int64
}

// Record writes the purchase row and debits the buyer's wallet in a single
// transaction. Either both happen or neither does.
func (s *Store) Record(ctx context.Context, rec Record) (*Receipt, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin purchase tx: %w", err)
	}
	defer tx.Rollback()

	var purchaseID int
	err = tx.QueryRowxContext(ctx, `INSERT INTO purchases (game_key, ticket_code, buyer_uid, buyer_email, numbers, price, image_path, purchased_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW()) RETURNING id`,
		rec.GameKey, rec.TicketCode, rec.BuyerUID, rec.BuyerEmail, pq.Int64Array(rec.Numbers), rec.Price, rec.ImagePath).Scan(&purchaseID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrTicketSold
		}
		return nil, fmt.Errorf("failed to insert purchase: %w", err)
	}

	newBalance, err := wallet.Debit(tx, rec.UserID, rec.Price, wallet.RefTicketPurchase,
		sql.NullInt64{Int64: int64(purchaseID), Valid: true},
		fmt.Sprintf("Ticket %s/%d", rec.GameKey, rec.TicketCode))
	if err != nil {
		return nil, err
	}

	var total int64
	if err := tx.GetContext(ctx, &total, `SELECT COALESCE(SUM(price),0) FROM purchases WHERE game_key=$1`, rec.GameKey); err != nil {
		return nil, fmt.Errorf("failed to read game total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	log.Printf("[LEDGER] Purchase recorded: game=%s code=%d buyer=%s price=%d total=%d",
		rec.GameKey, rec.TicketCode, rec.BuyerUID, rec.Price, total)

	return &Receipt{PurchaseID: purchaseID, NewBalance: newBalance, GameTotal: total}, nil
}

// ListSoldCodes returns every sold code for a game in purchase order. A
// game with no purchases returns an empty slice.
func (s *Store) ListSoldCodes(ctx context.Context, gameKey string) ([]int64, error) {
	codes := []int64{}
	if err := s.db.SelectContext(ctx, &codes, `SELECT ticket_code FROM purchases WHERE game_key=$1 ORDER BY purchased_at, id`, gameKey); err != nil {
		return nil, fmt.Errorf("failed to list sold codes for %s: %w", gameKey, err)
	}
	return codes, nil
}

// SumTotal returns the aggregate takings for a game
func (s *Store) SumTotal(ctx context.Context, gameKey string) (int64, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(price),0) FROM purchases WHERE game_key=$1`, gameKey); err != nil {
		return 0, fmt.Errorf("failed to sum total for %s: %w", gameKey, err)
	}
	return total, nil
}

// ListPurchases returns recent purchases for a game, newest first
func (s *Store) ListPurchases(ctx context.Context, gameKey string, limit, offset int) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := s.db.SelectContext(ctx, &rows, `SELECT id, game_key, ticket_code, buyer_uid, buyer_email, numbers, price, image_path, purchased_at
		FROM purchases WHERE game_key=$1 ORDER BY purchased_at DESC, id DESC LIMIT $2 OFFSET $3`, gameKey, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases for %s: %w", gameKey, err)
	}
	return rows, nil
}

// ListUserPurchases returns one buyer's tickets across all games
func (s *Store) ListUserPurchases(ctx context.Context, buyerUID string) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := s.db.SelectContext(ctx, &rows, `SELECT id, game_key, ticket_code, buyer_uid, buyer_email, numbers, price, image_path, purchased_at
		FROM purchases WHERE buyer_uid=$1 ORDER BY purchased_at DESC`, buyerUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases for buyer %s: %w", buyerUID, err)
	}
	return rows, nil
}

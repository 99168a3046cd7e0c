package wallet

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/models"
)

// ledger entry types
const (
	EntryCredit = "CREDIT"
	EntryDebit  = "DEBIT"
)

// reference types recorded on ledger entries
const (
	RefRecharge       = "RECHARGE"
	RefTicketPurchase = "TICKET_PURCHASE"
	RefAdminAdjust    = "ADMIN_ADJUST"
)

// ErrInsufficientFunds is returned when a debit would take a wallet negative
var ErrInsufficientFunds = errors.New("insufficient funds")

// GetOrCreateWallet returns the wallet for a user, creating it with a zero
// balance on first touch.
func GetOrCreateWallet(db *sqlx.DB, userID int) (*models.Wallet, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var w models.Wallet
	if err := db.Get(&w, `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id=$1`, userID); err == nil {
		return &w, nil
	}
	if _, err := db.Exec(`INSERT INTO wallets (user_id, balance, created_at, updated_at) VALUES ($1, 0, NOW(), NOW()) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return nil, err
	}
	if err := db.Get(&w, `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id=$1`, userID); err != nil {
		return nil, err
	}
	return &w, nil
}

// EnsureWallet creates the zero-balance wallet row inside an existing tx if
// it is missing. Credits against users whose registration never created a
// wallet go through here first.
func EnsureWallet(tx *sqlx.Tx, userID int) error {
	if tx == nil {
		return fmt.Errorf("tx is nil")
	}
	_, err := tx.Exec(`INSERT INTO wallets (user_id, balance, created_at, updated_at) VALUES ($1, 0, NOW(), NOW()) ON CONFLICT (user_id) DO NOTHING`, userID)
	return err
}

// Balance reads the current balance for a user. A user with no wallet row
// yet has a zero balance.
func Balance(db *sqlx.DB, userID int) (int64, error) {
	var bal int64
	err := db.Get(&bal, `SELECT balance FROM wallets WHERE user_id=$1`, userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance for user %d: %w", userID, err)
	}
	return bal, nil
}

// Debit subtracts amount from a user's wallet within an existing tx. The
// wallet row is locked FOR UPDATE and the balance is never allowed below
// zero; an append-only wallet_transactions row records the movement.
func Debit(tx *sqlx.Tx, userID int, amount int64, referenceType string, referenceID sql.NullInt64, description string) (int64, error) {
	return move(tx, userID, EntryDebit, amount, referenceType, referenceID, description)
}

// Credit adds amount to a user's wallet within an existing tx
func Credit(tx *sqlx.Tx, userID int, amount int64, referenceType string, referenceID sql.NullInt64, description string) (int64, error) {
	return move(tx, userID, EntryCredit, amount, referenceType, referenceID, description)
}

func move(tx *sqlx.Tx, userID int, entryType string, amount int64, referenceType string, referenceID sql.NullInt64, description string) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("tx is nil")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %d", amount)
	}

	// Lock the wallet row for the duration of the tx
	var w models.Wallet
	if err := tx.Get(&w, `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id=$1 FOR UPDATE`, userID); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("wallet not found for user %d", userID)
		}
		return 0, err
	}

	newBalance := w.Balance + amount
	if entryType == EntryDebit {
		if w.Balance < amount {
			return 0, ErrInsufficientFunds
		}
		newBalance = w.Balance - amount
	}

	if _, err := tx.Exec(`UPDATE wallets SET balance=$1, updated_at=NOW() WHERE id=$2`, newBalance, w.ID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`INSERT INTO wallet_transactions (wallet_id, entry_type, amount, balance_after, reference_type, reference_id, description, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())`, w.ID, entryType, amount, newBalance, referenceType, referenceID, description); err != nil {
		return 0, err
	}

	log.Printf("[WALLET] %s completed: user=%d amount=%d balance_after=%d ref_type=%s ref_id=%v desc=%s",
		entryType, userID, amount, newBalance, referenceType, referenceID, description)

	return newBalance, nil
}

package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// User represents a registered buyer
type User struct {
	ID           int            `db:"id" json:"id"`
	UID          string         `db:"uid" json:"uid"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	DisplayName  sql.NullString `db:"display_name" json:"display_name,omitempty"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	LastLogin    sql.NullTime   `db:"last_login" json:"last_login,omitempty"`
}

// Wallet holds a user's spendable balance (whole currency units)
type Wallet struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WalletTransaction is one append-only ledger entry against a wallet
type WalletTransaction struct {
	ID            int           `db:"id" json:"id"`
	WalletID      int           `db:"wallet_id" json:"wallet_id"`
	EntryType     string        `db:"entry_type" json:"entry_type"`
	Amount        int64         `db:"amount" json:"amount"`
	BalanceAfter  int64         `db:"balance_after" json:"balance_after"`
	ReferenceType string        `db:"reference_type" json:"reference_type"`
	ReferenceID   sql.NullInt64 `db:"reference_id" json:"reference_id,omitempty"`
	Description   string        `db:"description" json:"description,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// Game is one purchasable lottery game (draw series)
type Game struct {
	ID          int           `db:"id" json:"id"`
	GameKey     string        `db:"game_key" json:"game_key"`
	Name        string        `db:"name" json:"name"`
	Category    string        `db:"category" json:"category"` // weekly | monthly
	CodePrefix  string        `db:"code_prefix" json:"code_prefix"`
	Price       int64         `db:"price" json:"price"`
	SeedCodes   pq.Int64Array `db:"seed_codes" json:"seed_codes"`
	TargetCount int           `db:"target_count" json:"target_count"`
	IsActive    bool          `db:"is_active" json:"is_active"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// Purchase is one sold ticket: the append-only purchase ledger row.
// UNIQUE(game_key, ticket_code) is what keeps a code from selling twice.
type Purchase struct {
	ID          int           `db:"id" json:"id"`
	GameKey     string        `db:"game_key" json:"game_key"`
	TicketCode  int64         `db:"ticket_code" json:"ticket_code"`
	BuyerUID    string        `db:"buyer_uid" json:"buyer_uid"`
	BuyerEmail  string        `db:"buyer_email" json:"buyer_email"`
	Numbers     pq.Int64Array `db:"numbers" json:"numbers"`
	Price       int64         `db:"price" json:"price"`
	ImagePath   string        `db:"image_path" json:"image_path"`
	PurchasedAt time.Time     `db:"purchased_at" json:"purchased_at"`
}

// RechargeRequest is a user-submitted top-up awaiting admin review
type RechargeRequest struct {
	ID          int            `db:"id" json:"id"`
	UserID      int            `db:"user_id" json:"user_id"`
	Amount      int64          `db:"amount" json:"amount"`
	UTRNumber   string         `db:"utr_number" json:"utr_number"`
	Status      string         `db:"status" json:"status"` // PENDING | APPROVED | REJECTED | EXPIRED
	ReviewedBy  sql.NullString `db:"reviewed_by" json:"reviewed_by,omitempty"`
	Note        sql.NullString `db:"note" json:"note,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	ProcessedAt sql.NullTime   `db:"processed_at" json:"processed_at,omitempty"`
}

// AdminAccount represents a staff login
type AdminAccount struct {
	ID        int            `db:"id" json:"id"`
	Username  string         `db:"username" json:"username"`
	TokenHash string         `db:"token_hash" json:"-"`
	Roles     pq.StringArray `db:"roles" json:"roles"`
	IsActive  bool           `db:"is_active" json:"is_active"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	LastLogin sql.NullTime   `db:"last_login" json:"last_login,omitempty"`
}

// AdminAudit is one logged admin action
type AdminAudit struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	IP        string    `db:"ip" json:"ip"`
	Route     string    `db:"route" json:"route"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
	Success   bool      `db:"success" json:"success"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

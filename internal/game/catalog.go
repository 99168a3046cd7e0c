package game

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/models"
)

// Game categories
const (
	CategoryWeekly  = "weekly"
	CategoryMonthly = "monthly"
)

// ErrNotFound is returned when no active game matches a key
var ErrNotFound = errors.New("game not found")

// GetGame loads one active game by its key
func GetGame(db *sqlx.DB, gameKey string) (*models.Game, error) {
	var g models.Game
	err := db.Get(&g, `SELECT id, game_key, name, category, code_prefix, price, seed_codes, target_count, is_active, created_at
		FROM games WHERE game_key=$1 AND is_active=true`, gameKey)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", gameKey, err)
	}
	return &g, nil
}

// ListGames returns all active games, monthly draws first
func ListGames(db *sqlx.DB) ([]models.Game, error) {
	var games []models.Game
	err := db.Select(&games, `SELECT id, game_key, name, category, code_prefix, price, seed_codes, target_count, is_active, created_at
		FROM games WHERE is_active=true ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// Seeds returns the game's seed codes as a plain int64 slice
func Seeds(g *models.Game) []int64 {
	return []int64(g.SeedCodes)
}

package round

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fadedpez/angeleyes/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
)

const (
	createRoundsTableSQL = `
	CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		gambler_name TEXT NOT NULL,
		completed_at TIMESTAMP NOT NULL,
		dealer_cards TEXT NOT NULL,
		dealer_total INTEGER NOT NULL,
		dealer_blackjack INTEGER NOT NULL,
		dealer_busted INTEGER NOT NULL,
		gambler_blackjack INTEGER NOT NULL,
		pre_turn_over INTEGER NOT NULL,
		hands TEXT NOT NULL,
		bankroll_after INTEGER NOT NULL
	)`

	createRoundIndexesSQL = `
	CREATE INDEX IF NOT EXISTS idx_rounds_gambler ON rounds(gambler_name);
	CREATE INDEX IF NOT EXISTS idx_rounds_completed_at ON rounds(completed_at DESC)
	`

	roundTimeFormat = "2006-01-02 15:04:05"
)

// SQLiteRepository implements Repository using SQLite. Card lists and
// per-hand outcomes are stored as JSON columns.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite round repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, stmt := range []string{createRoundsTableSQL, createRoundIndexesSQL} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating rounds schema: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRoundResult persists a completed round
func (r *SQLiteRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	dealerCards, err := json.Marshal(result.DealerCards)
	if err != nil {
		return fmt.Errorf("error marshaling dealer cards: %w", err)
	}

	hands, err := json.Marshal(result.Hands)
	if err != nil {
		return fmt.Errorf("error marshaling hands: %w", err)
	}

	query := `
		INSERT INTO rounds (
			id, gambler_name, completed_at, dealer_cards, dealer_total,
			dealer_blackjack, dealer_busted, gambler_blackjack, pre_turn_over,
			hands, bankroll_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		result.ID,
		result.GamblerName,
		result.CompletedAt.Format(roundTimeFormat),
		string(dealerCards),
		result.DealerTotal,
		result.DealerBlackjack,
		result.DealerBusted,
		result.GamblerBlackjack,
		result.PreTurnOver,
		string(hands),
		result.BankrollAfter,
	)

	if err != nil {
		return fmt.Errorf("error saving round result: %w", err)
	}

	return nil
}

// GetGamblerResults retrieves recent rounds for a gambler, newest first
func (r *SQLiteRepository) GetGamblerResults(ctx context.Context, gamblerName string, limit int) ([]*entities.RoundResult, error) {
	query := `
		SELECT id, gambler_name, completed_at, dealer_cards, dealer_total,
			dealer_blackjack, dealer_busted, gambler_blackjack, pre_turn_over,
			hands, bankroll_after
		FROM rounds
		WHERE gambler_name = ?
		ORDER BY completed_at DESC
		LIMIT ?
	`

	if limit <= 0 {
		// SQLite treats a negative LIMIT as unlimited
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, query, gamblerName, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	var results []*entities.RoundResult

	for rows.Next() {
		var result entities.RoundResult
		var completedAt, dealerCards, hands string

		err := rows.Scan(
			&result.ID,
			&result.GamblerName,
			&completedAt,
			&dealerCards,
			&result.DealerTotal,
			&result.DealerBlackjack,
			&result.DealerBusted,
			&result.GamblerBlackjack,
			&result.PreTurnOver,
			&hands,
			&result.BankrollAfter,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning round row: %w", err)
		}

		result.CompletedAt, err = time.Parse(roundTimeFormat, completedAt)
		if err != nil {
			return nil, fmt.Errorf("error parsing timestamp '%s': %w", completedAt, err)
		}

		if err := json.Unmarshal([]byte(dealerCards), &result.DealerCards); err != nil {
			return nil, fmt.Errorf("error unmarshaling dealer cards: %w", err)
		}
		if err := json.Unmarshal([]byte(hands), &result.Hands); err != nil {
			return nil, fmt.Errorf("error unmarshaling hands: %w", err)
		}

		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating round rows: %w", err)
	}

	return results, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

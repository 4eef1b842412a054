package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fadedpez/angeleyes/pkg/entities"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite table schemas
const (
	createLedgersTableSQL = `
	CREATE TABLE IF NOT EXISTS ledgers (
		gambler_name TEXT PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createTransactionsTableSQL = `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		gambler_name TEXT NOT NULL,
		amount INTEGER NOT NULL,
		type TEXT NOT NULL,
		reference_id TEXT,
		description TEXT,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		balance_after INTEGER NOT NULL,
		FOREIGN KEY (gambler_name) REFERENCES ledgers(gambler_name)
	)`

	createTransactionIndexesSQL = `
	CREATE INDEX IF NOT EXISTS idx_transactions_gambler ON transactions(gambler_name);
	CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type);
	CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp DESC)
	`

	sqliteTimeFormat = "2006-01-02 15:04:05"
)

// timestampFormats covers the layouts SQLite may hand back
var timestampFormats = []string{
	sqliteTimeFormat,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-07:00",
	time.RFC3339,
}

func parseTimestamp(value string) (time.Time, error) {
	var parseErr error
	for _, format := range timestampFormats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}
	return time.Time{}, fmt.Errorf("error parsing timestamp '%s': %w", value, parseErr)
}

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, stmt := range []string{createLedgersTableSQL, createTransactionsTableSQL, createTransactionIndexesSQL} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating ledger schema: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// GetLedger retrieves a ledger by gambler name
func (r *SQLiteRepository) GetLedger(ctx context.Context, gamblerName string) (*entities.Ledger, error) {
	query := `SELECT gambler_name, balance, updated_at FROM ledgers WHERE gambler_name = ?`

	var ledger entities.Ledger
	var updatedAt string

	err := r.db.QueryRowContext(ctx, query, gamblerName).Scan(
		&ledger.GamblerName,
		&ledger.Balance,
		&updatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLedgerNotFound
		}
		return nil, fmt.Errorf("error getting ledger: %w", err)
	}

	ledger.LastUpdated, err = parseTimestamp(updatedAt)
	if err != nil {
		return nil, err
	}

	return &ledger, nil
}

// SaveLedger creates or updates a ledger
func (r *SQLiteRepository) SaveLedger(ctx context.Context, ledger *entities.Ledger) error {
	formattedTime := ledger.LastUpdated.Format(sqliteTimeFormat)

	query := `
		INSERT INTO ledgers (gambler_name, balance, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(gambler_name) DO UPDATE SET
			balance = ?,
			updated_at = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		ledger.GamblerName, ledger.Balance, formattedTime,
		ledger.Balance, formattedTime,
	)

	if err != nil {
		return fmt.Errorf("error saving ledger: %w", err)
	}

	return nil
}

// AddTransaction records a new transaction
func (r *SQLiteRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}

	query := `
		INSERT INTO transactions (
			id, gambler_name, amount, type, reference_id, description, timestamp, balance_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		transaction.ID,
		transaction.GamblerName,
		transaction.Amount,
		transaction.Type,
		transaction.ReferenceID,
		transaction.Description,
		transaction.Timestamp.Format(sqliteTimeFormat),
		transaction.BalanceAfter,
	)

	if err != nil {
		return fmt.Errorf("error adding transaction: %w", err)
	}

	return nil
}

// GetTransactions retrieves recent transactions for a gambler
func (r *SQLiteRepository) GetTransactions(ctx context.Context, gamblerName string, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, gambler_name, amount, type, reference_id, description, timestamp, balance_after
		FROM transactions
		WHERE gambler_name = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, gamblerName, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetTransactionsByType retrieves transactions of a specific type
func (r *SQLiteRepository) GetTransactionsByType(ctx context.Context, gamblerName string, transactionType entities.TransactionType, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, gambler_name, amount, type, reference_id, description, timestamp, balance_after
		FROM transactions
		WHERE gambler_name = ? AND type = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, gamblerName, transactionType, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions by type: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]*entities.Transaction, error) {
	var transactions []*entities.Transaction

	for rows.Next() {
		var tx entities.Transaction
		var timestamp string

		err := rows.Scan(
			&tx.ID,
			&tx.GamblerName,
			&tx.Amount,
			&tx.Type,
			&tx.ReferenceID,
			&tx.Description,
			&timestamp,
			&tx.BalanceAfter,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}

		tx.Timestamp, err = parseTimestamp(timestamp)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

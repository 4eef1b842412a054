package entities

import (
	"time"
)

// Ledger represents a gambler's bankroll. All amounts are in cents.
// The balance is never negative; debits that would overdraw it are
// rejected before any mutation.
type Ledger struct {
	GamblerName string
	Balance     int64
	LastUpdated time.Time
}

// TransactionType represents the type of ledger transaction
type TransactionType string

const (
	TransactionTypeDeposit   TransactionType = "DEPOSIT"
	TransactionTypeWager     TransactionType = "WAGER"
	TransactionTypeInsurance TransactionType = "INSURANCE"
	TransactionTypePayout    TransactionType = "PAYOUT"
)

// Transaction represents a single ledger transaction
type Transaction struct {
	ID           string          // Unique identifier
	GamblerName  string          // Gambler associated with the transaction
	Amount       int64           // Amount in cents (positive for credits, negative for debits)
	Type         TransactionType // Type of transaction
	ReferenceID  string          // Optional reference (e.g., round ID for wagers)
	Description  string          // Human-readable description
	Timestamp    time.Time       // When the transaction occurred
	BalanceAfter int64           // Balance after this transaction
}

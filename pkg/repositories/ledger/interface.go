package ledger

import (
	"context"

	"github.com/fadedpez/angeleyes/pkg/entities"
)

// Repository defines the interface for ledger data operations
type Repository interface {
	// GetLedger retrieves a ledger by gambler name
	GetLedger(ctx context.Context, gamblerName string) (*entities.Ledger, error)

	// SaveLedger creates or updates a ledger
	SaveLedger(ctx context.Context, ledger *entities.Ledger) error

	// AddTransaction records a new transaction
	AddTransaction(ctx context.Context, transaction *entities.Transaction) error

	// GetTransactions retrieves recent transactions for a gambler
	GetTransactions(ctx context.Context, gamblerName string, limit int) ([]*entities.Transaction, error)

	// GetTransactionsByType retrieves transactions of a specific type
	GetTransactionsByType(ctx context.Context, gamblerName string, transactionType entities.TransactionType, limit int) ([]*entities.Transaction, error)
}

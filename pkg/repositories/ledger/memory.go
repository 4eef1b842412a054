package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fadedpez/angeleyes/pkg/entities"
	"github.com/google/uuid"
)

var (
	ErrLedgerNotFound = errors.New("ledger not found")
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	ledgers      map[string]*entities.Ledger
	transactions map[string][]*entities.Transaction
	mu           sync.RWMutex
}

// NewMemoryRepository creates a new in-memory ledger repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		ledgers:      make(map[string]*entities.Ledger),
		transactions: make(map[string][]*entities.Transaction),
	}
}

// GetLedger retrieves a ledger by gambler name
func (r *MemoryRepository) GetLedger(ctx context.Context, gamblerName string) (*entities.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ledger, exists := r.ledgers[gamblerName]
	if !exists {
		return nil, ErrLedgerNotFound
	}

	// Return a copy to prevent concurrent modification
	ledgerCopy := *ledger
	return &ledgerCopy, nil
}

// SaveLedger creates or updates a ledger
func (r *MemoryRepository) SaveLedger(ctx context.Context, ledger *entities.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger.LastUpdated = time.Now()

	// Store a copy to prevent concurrent modification
	ledgerCopy := *ledger
	r.ledgers[ledger.GamblerName] = &ledgerCopy

	return nil
}

// AddTransaction records a new transaction
func (r *MemoryRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}

	txCopy := *transaction
	r.transactions[transaction.GamblerName] = append(r.transactions[transaction.GamblerName], &txCopy)

	return nil
}

// GetTransactions retrieves recent transactions for a gambler
func (r *MemoryRepository) GetTransactions(ctx context.Context, gamblerName string, limit int) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions, exists := r.transactions[gamblerName]
	if !exists {
		return make([]*entities.Transaction, 0), nil
	}

	// Most recent transactions up to the limit
	start := 0
	if len(transactions) > limit {
		start = len(transactions) - limit
	}

	result := make([]*entities.Transaction, 0, limit)
	for i := start; i < len(transactions); i++ {
		txCopy := *transactions[i]
		result = append(result, &txCopy)
	}

	return result, nil
}

// GetTransactionsByType retrieves transactions of a specific type
func (r *MemoryRepository) GetTransactionsByType(ctx context.Context, gamblerName string, transactionType entities.TransactionType, limit int) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions, exists := r.transactions[gamblerName]
	if !exists {
		return make([]*entities.Transaction, 0), nil
	}

	filtered := make([]*entities.Transaction, 0, limit)
	for i := len(transactions) - 1; i >= 0 && len(filtered) < limit; i-- {
		if transactions[i].Type == transactionType {
			txCopy := *transactions[i]
			filtered = append(filtered, &txCopy)
		}
	}

	return filtered, nil
}

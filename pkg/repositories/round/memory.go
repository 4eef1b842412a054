package round

import (
	"context"
	"sync"

	"github.com/fadedpez/angeleyes/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	results map[string][]*entities.RoundResult
	mu      sync.RWMutex
}

// NewMemoryRepository creates a new in-memory round repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		results: make(map[string][]*entities.RoundResult),
	}
}

// SaveRoundResult persists a completed round
func (r *MemoryRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	resultCopy := *result
	r.results[result.GamblerName] = append(r.results[result.GamblerName], &resultCopy)

	return nil
}

// GetGamblerResults retrieves recent rounds for a gambler, newest first
func (r *MemoryRepository) GetGamblerResults(ctx context.Context, gamblerName string, limit int) ([]*entities.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results, exists := r.results[gamblerName]
	if !exists {
		return make([]*entities.RoundResult, 0), nil
	}

	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}

	// Newest first
	out := make([]*entities.RoundResult, 0, limit)
	for i := len(results) - 1; i >= 0 && len(out) < limit; i-- {
		resultCopy := *results[i]
		out = append(out, &resultCopy)
	}

	return out, nil
}

// Close is a no-op for the in-memory repository
func (r *MemoryRepository) Close() error {
	return nil
}

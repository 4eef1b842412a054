package round

import (
	"context"

	"github.com/fadedpez/angeleyes/pkg/entities"
)

// Repository defines storage operations for completed round results
type Repository interface {
	// SaveRoundResult persists a completed round
	SaveRoundResult(ctx context.Context, result *entities.RoundResult) error

	// GetGamblerResults retrieves recent rounds for a gambler, newest first
	GetGamblerResults(ctx context.Context, gamblerName string, limit int) ([]*entities.RoundResult, error)

	// Close closes any resources used by the repository
	Close() error
}

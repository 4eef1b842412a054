package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/fadedpez/angeleyes/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryLedgers(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.GetLedger(ctx, "Tuco")
	assert.ErrorIs(t, err, ErrLedgerNotFound)

	require.NoError(t, repo.SaveLedger(ctx, &entities.Ledger{
		GamblerName: "Tuco",
		Balance:     100_00,
	}))

	ledger, err := repo.GetLedger(ctx, "Tuco")
	require.NoError(t, err)
	assert.Equal(t, int64(100_00), ledger.Balance)
	assert.False(t, ledger.LastUpdated.IsZero())

	// The returned copy is detached from the stored ledger
	ledger.Balance = 0
	again, err := repo.GetLedger(ctx, "Tuco")
	require.NoError(t, err)
	assert.Equal(t, int64(100_00), again.Balance)
}

func TestMemoryRepositoryTransactions(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for i, txType := range []entities.TransactionType{
		entities.TransactionTypeDeposit,
		entities.TransactionTypeWager,
		entities.TransactionTypeWager,
		entities.TransactionTypePayout,
	} {
		require.NoError(t, repo.AddTransaction(ctx, &entities.Transaction{
			GamblerName: "Tuco",
			Amount:      int64(i),
			Type:        txType,
			Timestamp:   time.Now(),
		}))
	}

	transactions, err := repo.GetTransactions(ctx, "Tuco", 2)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, int64(2), transactions[0].Amount)
	assert.Equal(t, int64(3), transactions[1].Amount)
	assert.NotEmpty(t, transactions[0].ID, "an ID is generated when missing")

	wagers, err := repo.GetTransactionsByType(ctx, "Tuco", entities.TransactionTypeWager, 10)
	require.NoError(t, err)
	assert.Len(t, wagers, 2)

	none, err := repo.GetTransactions(ctx, "Angel", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/fadedpez/angeleyes/pkg/entities"
	roundRepo "github.com/fadedpez/angeleyes/pkg/repositories/round"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundResult(id string, bankrollAfter int64, hands ...*entities.HandOutcome) *entities.RoundResult {
	return &entities.RoundResult{
		ID:            id,
		GamblerName:   "Tuco",
		CompletedAt:   time.Now(),
		Hands:         hands,
		BankrollAfter: bankrollAfter,
	}
}

func TestSummarize(t *testing.T) {
	results := []*entities.RoundResult{
		roundResult("r1", 115_00, &entities.HandOutcome{
			Wager: 10_00, Payout: 25_00, Outcome: entities.OutcomeBlackjack,
		}),
		roundResult("r2", 105_00, &entities.HandOutcome{
			Wager: 10_00, Outcome: entities.OutcomeLoss,
		}),
		roundResult("r3", 105_00, &entities.HandOutcome{
			Wager: 10_00, Insurance: 5_00, Payout: 15_00, Outcome: entities.OutcomeInsuranceWin,
		}),
		roundResult("r4", 125_00,
			&entities.HandOutcome{Wager: 10_00, Payout: 20_00, Outcome: entities.OutcomeWin},
			&entities.HandOutcome{Wager: 10_00, Payout: 10_00, Outcome: entities.OutcomePush},
		),
	}
	results[1].DealerBusted = false
	results[2].DealerBlackjack = true

	summary := Summarize("Tuco", results)

	assert.Equal(t, 4, summary.RoundsPlayed)
	assert.Equal(t, 5, summary.HandsPlayed)
	assert.Equal(t, 2, summary.Wins)
	assert.Equal(t, 2, summary.Losses)
	assert.Equal(t, 1, summary.Pushes)
	assert.Equal(t, 1, summary.Blackjacks)
	assert.Equal(t, 1, summary.InsuranceWins)
	assert.Equal(t, 1, summary.DealerBlackjacks)
	assert.Equal(t, int64(55_00), summary.TotalWagered)
	assert.Equal(t, int64(70_00), summary.TotalPaidOut)
	assert.Equal(t, int64(125_00), summary.HighestBankroll)
	assert.Equal(t, int64(105_00), summary.LowestBankroll)
	assert.Equal(t, int64(125_00), summary.FinalBankroll)
	assert.InDelta(t, 0.4, summary.WinRate, 0.0001)
}

func TestSummarizeCountsInsuranceLostOnWinningHand(t *testing.T) {
	summary := Summarize("Tuco", []*entities.RoundResult{
		roundResult("r1", 105_00, &entities.HandOutcome{
			Wager: 10_00, Insurance: 5_00, Payout: 20_00, Outcome: entities.OutcomeWin,
		}),
	})

	assert.Equal(t, 1, summary.Wins)
	assert.Equal(t, 1, summary.InsuranceLosses)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize("Tuco", nil)

	assert.Equal(t, 0, summary.RoundsPlayed)
	assert.Zero(t, summary.WinRate)
}

func TestSummarizeGamblerReordersNewestFirst(t *testing.T) {
	repo := roundRepo.NewMemoryRepository()
	ctx := context.Background()

	// Stored oldest to newest; the repository hands them back newest first
	require.NoError(t, repo.SaveRoundResult(ctx, roundResult("r1", 90_00, &entities.HandOutcome{
		Wager: 10_00, Outcome: entities.OutcomeLoss,
	})))
	require.NoError(t, repo.SaveRoundResult(ctx, roundResult("r2", 110_00, &entities.HandOutcome{
		Wager: 10_00, Payout: 20_00, Outcome: entities.OutcomeWin,
	})))

	summary, err := NewService(repo).SummarizeGambler(ctx, "Tuco", 100)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RoundsPlayed)
	assert.Equal(t, int64(110_00), summary.FinalBankroll)
	assert.Equal(t, int64(90_00), summary.LowestBankroll)
}

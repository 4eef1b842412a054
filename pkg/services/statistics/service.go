package statistics

import (
	"context"
	"time"

	"github.com/fadedpez/angeleyes/pkg/entities"
	roundRepo "github.com/fadedpez/angeleyes/pkg/repositories/round"
)

// Service provides methods for summarizing a gambler's play
type Service struct {
	repository roundRepo.Repository
}

// NewService creates a new statistics service
func NewService(repository roundRepo.Repository) *Service {
	return &Service{
		repository: repository,
	}
}

// SessionSummary aggregates a run of rounds for one gambler
type SessionSummary struct {
	GamblerName       string    `json:"gambler_name"`
	RoundsPlayed      int       `json:"rounds_played"`
	HandsPlayed       int       `json:"hands_played"`
	Wins              int       `json:"wins"`
	Losses            int       `json:"losses"`
	Pushes            int       `json:"pushes"`
	Blackjacks        int       `json:"blackjacks"`
	EvenMoneyTaken    int       `json:"even_money_taken"`
	InsuranceWins     int       `json:"insurance_wins"`
	InsuranceLosses   int       `json:"insurance_losses"`
	DealerBlackjacks  int       `json:"dealer_blackjacks"`
	DealerBusts       int       `json:"dealer_busts"`
	TotalWagered      int64     `json:"total_wagered"`
	TotalPaidOut      int64     `json:"total_paid_out"`
	HighestBankroll   int64     `json:"highest_bankroll"`
	LowestBankroll    int64     `json:"lowest_bankroll"`
	FinalBankroll     int64     `json:"final_bankroll"`
	WinRate           float64   `json:"win_rate"`
	LastUpdated       time.Time `json:"last_updated"`
}

// Summarize aggregates round results in the order they were played
func Summarize(gamblerName string, results []*entities.RoundResult) *SessionSummary {
	summary := &SessionSummary{
		GamblerName: gamblerName,
		LastUpdated: time.Now(),
	}

	for _, result := range results {
		summary.RoundsPlayed++

		if result.DealerBlackjack {
			summary.DealerBlackjacks++
		}
		if result.DealerBusted {
			summary.DealerBusts++
		}

		for _, hand := range result.Hands {
			summary.HandsPlayed++
			summary.TotalWagered += hand.Wager + hand.Insurance
			summary.TotalPaidOut += hand.Payout

			switch hand.Outcome {
			case entities.OutcomeWin:
				summary.Wins++
			case entities.OutcomeBlackjack:
				summary.Wins++
				summary.Blackjacks++
			case entities.OutcomeEvenMoney:
				summary.Wins++
				summary.EvenMoneyTaken++
			case entities.OutcomePush:
				summary.Pushes++
			case entities.OutcomeInsuranceWin:
				summary.Losses++
				summary.InsuranceWins++
			case entities.OutcomeLoss:
				summary.Losses++
				if hand.Insurance > 0 {
					summary.InsuranceLosses++
				}
			}

			// An insurance bet lost while the hand itself went on to win or push
			if hand.Insurance > 0 && hand.Outcome != entities.OutcomeInsuranceWin && hand.Outcome != entities.OutcomeLoss {
				summary.InsuranceLosses++
			}
		}

		if summary.RoundsPlayed == 1 || result.BankrollAfter > summary.HighestBankroll {
			summary.HighestBankroll = result.BankrollAfter
		}
		if summary.RoundsPlayed == 1 || result.BankrollAfter < summary.LowestBankroll {
			summary.LowestBankroll = result.BankrollAfter
		}
		summary.FinalBankroll = result.BankrollAfter
	}

	if summary.HandsPlayed > 0 {
		summary.WinRate = float64(summary.Wins) / float64(summary.HandsPlayed)
	}

	return summary
}

// SummarizeGambler loads a gambler's recent rounds from the repository and
// aggregates them. Repositories return rounds newest first; the summary
// walks them oldest first so bankroll extremes line up with play order.
func (s *Service) SummarizeGambler(ctx context.Context, gamblerName string, limit int) (*SessionSummary, error) {
	results, err := s.repository.GetGamblerResults(ctx, gamblerName, limit)
	if err != nil {
		return nil, err
	}

	ordered := make([]*entities.RoundResult, len(results))
	for i, result := range results {
		ordered[len(results)-1-i] = result
	}

	return Summarize(gamblerName, ordered), nil
}

package entities

import "time"

// Outcome represents how a hand (or a whole pre-turn round) resolved
type Outcome string

const (
	OutcomeWin          Outcome = "WIN"
	OutcomeLoss         Outcome = "LOSS"
	OutcomePush         Outcome = "PUSH"
	OutcomeBlackjack    Outcome = "BLACKJACK"
	OutcomeEvenMoney    Outcome = "EVEN_MONEY"
	OutcomeInsuranceWin Outcome = "INSURANCE_WIN"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsWin returns true if this outcome credited winnings beyond a reclaim
func (o Outcome) IsWin() bool {
	switch o {
	case OutcomeWin, OutcomeBlackjack, OutcomeEvenMoney, OutcomeInsuranceWin:
		return true
	}
	return false
}

// HandOutcome records how a single gambler hand ended
type HandOutcome struct {
	HandNumber int      `json:"hand_number"`
	Cards      []string `json:"cards"`
	Total      int      `json:"total"`
	Status     string   `json:"status"`
	Wager      int64    `json:"wager"`
	Insurance  int64    `json:"insurance"`
	Payout     int64    `json:"payout"` // total cents credited, reclaims included
	Outcome    Outcome  `json:"outcome"`
}

// RoundResult is the persisted record of one completed round
type RoundResult struct {
	ID               string         `json:"id"`
	GamblerName      string         `json:"gambler_name"`
	CompletedAt      time.Time      `json:"completed_at"`
	DealerCards      []string       `json:"dealer_cards"`
	DealerTotal      int            `json:"dealer_total"`
	DealerBlackjack  bool           `json:"dealer_blackjack"`
	DealerBusted     bool           `json:"dealer_busted"`
	GamblerBlackjack bool           `json:"gambler_blackjack"`
	PreTurnOver      bool           `json:"pre_turn_over"` // round ended during pre-turn resolution
	Hands            []*HandOutcome `json:"hands"`
	BankrollAfter    int64          `json:"bankroll_after"`
}

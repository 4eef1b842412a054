package blackjack

import (
	"context"
	"fmt"

	"github.com/fadedpez/angeleyes/internal/types"
	"github.com/fadedpez/angeleyes/pkg/entities"
)

// Odds expresses payout odds as antecedent:consequent (3:2, 2:1, 1:1)
type Odds struct {
	Antecedent int64
	Consequent int64
}

var (
	OddsEvenMoney = Odds{1, 1}
	OddsBlackjack = Odds{3, 2}
	OddsInsurance = Odds{2, 1}
)

func (o Odds) String() string {
	return fmt.Sprintf("%d:%d", o.Antecedent, o.Consequent)
}

// PayoutType identifies a single bankroll credit
type PayoutType string

const (
	PayoutWinningWager     PayoutType = "WINNING_WAGER"     // wager * N/D
	PayoutWagerReclaim     PayoutType = "WAGER_RECLAIM"     // principal return
	PayoutWinningInsurance PayoutType = "WINNING_INSURANCE" // insurance * N/D
	PayoutInsuranceReclaim PayoutType = "INSURANCE_RECLAIM" // side-bet principal return
)

// PayoutPolicy is a composite of payout types applied together
type PayoutPolicy string

const (
	PolicyWager     PayoutPolicy = "WAGER"     // winning_wager 1:1 + wager_reclaim
	PolicyBlackjack PayoutPolicy = "BLACKJACK" // winning_wager 3:2 + wager_reclaim
	PolicyInsurance PayoutPolicy = "INSURANCE" // winning_insurance 2:1 + insurance_reclaim
	PolicyPush      PayoutPolicy = "PUSH"      // wager_reclaim only
)

type payoutComponent struct {
	payoutType PayoutType
	odds       Odds
}

var policyComponents = map[PayoutPolicy][]payoutComponent{
	PolicyWager: {
		{PayoutWinningWager, OddsEvenMoney},
		{PayoutWagerReclaim, Odds{}},
	},
	PolicyBlackjack: {
		{PayoutWinningWager, OddsBlackjack},
		{PayoutWagerReclaim, Odds{}},
	},
	PolicyInsurance: {
		{PayoutWinningInsurance, OddsInsurance},
		{PayoutInsuranceReclaim, Odds{}},
	},
	PolicyPush: {
		{PayoutWagerReclaim, Odds{}},
	},
}

// payoutAmount computes the credit for a single payout type against a hand
func payoutAmount(hand *Hand, payoutType PayoutType, odds Odds) (int64, error) {
	switch payoutType {
	case PayoutWinningWager:
		return hand.Wager * odds.Antecedent / odds.Consequent, nil
	case PayoutWagerReclaim:
		return hand.Wager, nil
	case PayoutWinningInsurance:
		return hand.Insurance * odds.Antecedent / odds.Consequent, nil
	case PayoutInsuranceReclaim:
		return hand.Insurance, nil
	default:
		return 0, types.NewGameError(types.ErrInvalidPayoutType,
			fmt.Sprintf("unknown payout type %q", payoutType))
	}
}

// performPayout credits a single payout to the gambler's ledger and
// returns the amount credited.
func (t *Table) performPayout(ctx context.Context, hand *Hand, payoutType PayoutType, odds Odds) (int64, error) {
	amount, err := payoutAmount(hand, payoutType, odds)
	if err != nil {
		return 0, err
	}

	description := ""
	switch payoutType {
	case PayoutWinningWager:
		description = fmt.Sprintf("Winning hand payout at %s", odds)
		t.narrator.Announce("Adding winning hand payout of %s to bankroll.", entities.FormatCents(amount))
	case PayoutWagerReclaim:
		description = "Hand wager reclaim"
		t.narrator.Announce("Reclaiming hand wager of %s.", entities.FormatCents(amount))
	case PayoutWinningInsurance:
		description = fmt.Sprintf("Winning insurance payout at %s", odds)
		t.narrator.Announce("Adding winning insurance payout of %s to bankroll.", entities.FormatCents(amount))
	case PayoutInsuranceReclaim:
		description = "Insurance wager reclaim"
		t.narrator.Announce("Reclaiming insurance wager of %s.", entities.FormatCents(amount))
	}

	if err := t.ledger.Credit(ctx, t.gambler.Name, amount, entities.TransactionTypePayout, description); err != nil {
		return 0, fmt.Errorf("crediting payout: %w", err)
	}

	return amount, nil
}

// payOut applies a composite payout policy to a hand, never silently
// skipping a component, and returns the total credited.
func (t *Table) payOut(ctx context.Context, hand *Hand, policy PayoutPolicy) (int64, error) {
	components, ok := policyComponents[policy]
	if !ok {
		return 0, types.NewGameError(types.ErrInvalidPayoutType,
			fmt.Sprintf("unknown payout policy %q", policy))
	}

	total := int64(0)
	for _, component := range components {
		amount, err := t.performPayout(ctx, hand, component.payoutType, component.odds)
		if err != nil {
			return total, err
		}
		total += amount
	}

	return total, nil
}

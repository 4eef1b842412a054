package blackjack

import (
	"context"
	"fmt"

	"github.com/fadedpez/angeleyes/internal/types"
	"github.com/fadedpez/angeleyes/pkg/entities"
)

// RoundOutcome is the verdict of pre-turn resolution
type RoundOutcome string

const (
	RoundOver    RoundOutcome = "ROUND_OVER"    // settled before any action
	ContinuePlay RoundOutcome = "CONTINUE_PLAY" // proceed to the gambler's turn
)

// Decisions supplies the gambler's pre-turn choices. The resolution tree
// stays pure; yes/no questions are asked through here.
type Decisions interface {
	WantsEvenMoney(ctx context.Context) (bool, error)
	WantsInsurance(ctx context.Context) (bool, error)
}

// ResolvePreTurn walks the blackjack/even-money/insurance tree before any
// hand is played. Every path either settles the round (RoundOver) or
// releases it to normal play (ContinuePlay). Only the initial hand exists
// at this point.
func (t *Table) ResolvePreTurn(ctx context.Context, decisions Decisions) (RoundOutcome, error) {
	if t.dealerHand == nil {
		return "", types.NewGameError(types.ErrRoundNotDealt, "no round in progress")
	}

	hand := t.hands[0]
	upCard := t.DealerUpCard()

	if t.gamblerNatural {
		return t.resolveGamblerBlackjack(ctx, hand, upCard, decisions)
	}
	return t.resolveNoBlackjack(ctx, hand, upCard, decisions)
}

// resolveGamblerBlackjack handles a natural: even money against an Ace
// up-card, otherwise a dealer-blackjack check deciding push versus the
// 3:2 payout.
func (t *Table) resolveGamblerBlackjack(ctx context.Context, hand *Hand, upCard *entities.Card, decisions Decisions) (RoundOutcome, error) {
	t.narrator.Announce("%s has blackjack!", t.gambler.Name)

	if err := hand.Transition(StatusBlackjack); err != nil {
		return "", err
	}

	if IsAce(upCard) {
		t.narrator.Announce("The %s is showing an Ace.", t.dealer.Name)

		takeIt, err := decisions.WantsEvenMoney(ctx)
		if err != nil {
			return "", fmt.Errorf("asking for even money: %w", err)
		}

		if takeIt {
			// Even money pays immediately, before the buried card is looked at
			t.narrator.Announce("Taking even money.")
			credited, err := t.performPayout(ctx, hand, PayoutWinningWager, OddsEvenMoney)
			if err != nil {
				return "", err
			}
			reclaimed, err := t.performPayout(ctx, hand, PayoutWagerReclaim, Odds{})
			if err != nil {
				return "", err
			}
			return t.endPreTurn(hand, entities.OutcomeEvenMoney, credited+reclaimed), nil
		}
		t.narrator.Announce("Declining even money.")
	}

	// A low up-card cannot hide a dealer blackjack, so there is no peek
	if IsAce(upCard) || IsTenValue(upCard) {
		t.narrator.Announce("Checking the %s's hand for blackjack...", t.dealer.Name)

		if t.dealerHand.IsBlackjack() {
			t.narrator.Announce("The %s also has blackjack. Pushing.", t.dealer.Name)
			credited, err := t.payOut(ctx, hand, PolicyPush)
			if err != nil {
				return "", err
			}
			return t.endPreTurn(hand, entities.OutcomePush, credited), nil
		}

		t.narrator.Announce("The %s does not have blackjack.", t.dealer.Name)
	}

	credited, err := t.payOut(ctx, hand, PolicyBlackjack)
	if err != nil {
		return "", err
	}
	return t.endPreTurn(hand, entities.OutcomeBlackjack, credited), nil
}

// resolveNoBlackjack handles the ordinary opening: insurance against an
// Ace up-card, a silent blackjack peek against a ten-value up-card, and
// straight through to play otherwise.
func (t *Table) resolveNoBlackjack(ctx context.Context, hand *Hand, upCard *entities.Card, decisions Decisions) (RoundOutcome, error) {
	if IsAce(upCard) {
		return t.resolveInsurance(ctx, hand, decisions)
	}

	if IsTenValue(upCard) {
		t.narrator.Announce("Checking the %s's hand for blackjack...", t.dealer.Name)

		if t.dealerHand.IsBlackjack() {
			t.narrator.Announce("The %s has blackjack.", t.dealer.Name)
			t.narrator.Announce("%s hand wager lost.", entities.FormatCents(hand.Wager))
			return t.endPreTurn(hand, entities.OutcomeLoss, 0), nil
		}

		t.narrator.Announce("The %s does not have blackjack.", t.dealer.Name)
	}

	return ContinuePlay, nil
}

// resolveInsurance offers the half-wager side bet against a dealer Ace.
// The offer is withheld when the bankroll cannot cover it.
func (t *Table) resolveInsurance(ctx context.Context, hand *Hand, decisions Decisions) (RoundOutcome, error) {
	t.narrator.Announce("The %s is showing an Ace.", t.dealer.Name)

	cost := hand.Wager / 2

	balance, err := t.ledger.Balance(ctx, t.gambler.Name)
	if err != nil {
		return "", fmt.Errorf("checking bankroll: %w", err)
	}

	buying := false
	if balance < cost {
		t.narrator.Announce("Bankroll cannot cover %s insurance. Skipping the offer.", entities.FormatCents(cost))
	} else {
		buying, err = decisions.WantsInsurance(ctx)
		if err != nil {
			return "", fmt.Errorf("asking for insurance: %w", err)
		}
	}

	if buying {
		if err := t.ledger.Debit(ctx, t.gambler.Name, cost, entities.TransactionTypeInsurance,
			fmt.Sprintf("Insurance wager (round %s)", t.roundID)); err != nil {
			return "", err
		}
		hand.Insurance = cost
		t.narrator.Announce("Buying insurance for %s.", entities.FormatCents(cost))
	} else {
		t.narrator.Announce("Declining insurance.")
	}

	t.narrator.Announce("Checking the %s's hand for blackjack...", t.dealer.Name)

	if t.dealerHand.IsBlackjack() {
		t.narrator.Announce("The %s has blackjack.", t.dealer.Name)
		t.narrator.Announce("%s hand wager lost.", entities.FormatCents(hand.Wager))

		if hand.Insurance > 0 {
			credited, err := t.payOut(ctx, hand, PolicyInsurance)
			if err != nil {
				return "", err
			}
			return t.endPreTurn(hand, entities.OutcomeInsuranceWin, credited), nil
		}
		return t.endPreTurn(hand, entities.OutcomeLoss, 0), nil
	}

	t.narrator.Announce("The %s does not have blackjack.", t.dealer.Name)
	if hand.Insurance > 0 {
		t.narrator.Announce("%s insurance wager lost.", entities.FormatCents(hand.Insurance))
	}

	return ContinuePlay, nil
}

// endPreTurn records a pre-turn settlement and closes the round
func (t *Table) endPreTurn(hand *Hand, outcome entities.Outcome, credited int64) RoundOutcome {
	t.recordSettlement(hand, outcome, credited)
	t.preTurnOver = true
	return RoundOver
}

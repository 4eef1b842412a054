package blackjack

import (
	"context"
	"fmt"
	"time"

	"github.com/fadedpez/angeleyes/internal/logging"
	"github.com/fadedpez/angeleyes/internal/types"
	"github.com/fadedpez/angeleyes/pkg/entities"
	"github.com/google/uuid"
)

// Shoe is the card-dispensing collaborator
type Shoe interface {
	DealCard() (*entities.Card, error)
	DealN(n int) ([]*entities.Card, error)
}

// LedgerService guards the gambler's bankroll. Debit must fail with an
// INSUFFICIENT_BANKROLL error, without mutating anything, when the balance
// cannot cover the amount.
type LedgerService interface {
	Balance(ctx context.Context, gamblerName string) (int64, error)
	Credit(ctx context.Context, gamblerName string, amount int64, txType entities.TransactionType, description string) error
	Debit(ctx context.Context, gamblerName string, amount int64, txType entities.TransactionType, description string) error
}

// Action is a gambler decision on a live hand
type Action string

const (
	ActionHit    Action = "HIT"
	ActionStand  Action = "STAND"
	ActionDouble Action = "DOUBLE"
	ActionSplit  Action = "SPLIT"
)

// ActionChooser supplies gambler decisions from the outside world. Only
// actions from the legal list may be returned.
type ActionChooser interface {
	ChooseAction(ctx context.Context, hand *Hand, legal []Action) (Action, error)
}

// HandView is a render-ready snapshot of one hand
type HandView struct {
	Number    int
	Cards     []string
	Wager     int64
	Insurance int64
	TotalLow  int
	TotalHigh int
	Status    Status
}

// TableView is a render-ready snapshot of the table. When HideBuried is
// set, only the dealer's up-card (and its totals) are included.
type TableView struct {
	DealerName    string
	DealerCards   []string
	DealerLow     int
	DealerHigh    int
	HideBuried    bool
	DealerPlaying bool
	GamblerName   string
	Bankroll      int64
	Hands         []HandView
}

// Narrator receives the table talk. Decision logic stays pure; everything
// a human would see goes through here.
type Narrator interface {
	Announce(format string, args ...interface{})
	ShowTable(view *TableView)
}

// NopNarrator discards all narration
type NopNarrator struct{}

func (NopNarrator) Announce(string, ...interface{}) {}
func (NopNarrator) ShowTable(*TableView)            {}

// Settlement records how one hand was resolved and what it paid
type Settlement struct {
	Hand     *Hand
	Outcome  entities.Outcome
	Credited int64 // total cents credited, reclaims included
}

// Table drives one round at a time for a single gambler against the
// dealer: deal, pre-turn resolution, gambler hands, dealer hand,
// settlement. Hands live only for the round and are discarded at its end.
type Table struct {
	gambler  *entities.Gambler
	dealer   *entities.Dealer
	shoe     Shoe
	ledger   LedgerService
	narrator Narrator
	logger   *logging.Logger

	roundID        string
	hands          []*Hand
	pending        []int // indices of hands awaiting play, in play order
	dealerHand     *Hand
	settled        []Settlement
	preTurnOver    bool
	gamblerNatural bool
}

// NewTable seats a gambler and dealer over a shoe and a ledger
func NewTable(gambler *entities.Gambler, dealer *entities.Dealer, shoe Shoe, ledger LedgerService, narrator Narrator) *Table {
	if narrator == nil {
		narrator = NopNarrator{}
	}
	return &Table{
		gambler:  gambler,
		dealer:   dealer,
		shoe:     shoe,
		ledger:   ledger,
		narrator: narrator,
		logger:   logging.Default,
	}
}

// RoundID returns the identifier of the round in progress
func (t *Table) RoundID() string {
	return t.roundID
}

// GamblerHands returns the gambler's hands in play order
func (t *Table) GamblerHands() []*Hand {
	return t.hands
}

// DealerHand returns the dealer's hand for the round
func (t *Table) DealerHand() *Hand {
	return t.dealerHand
}

// DealerUpCard returns the dealer's face-up card
func (t *Table) DealerUpCard() *entities.Card {
	if t.dealerHand == nil || len(t.dealerHand.Cards) == 0 {
		return nil
	}
	return t.dealerHand.Cards[0]
}

// Deal opens a round: places the gambler's auto-wager and deals four
// cards in casino order (gambler, dealer, gambler, dealer). The bankroll
// check precedes every mutation, so a failed deal leaves no trace.
func (t *Table) Deal(ctx context.Context) error {
	if t.dealerHand != nil {
		return types.NewGameError(types.ErrRoundInProgress, "previous round has not been discarded")
	}

	wager := t.gambler.AutoWager
	if wager <= 0 {
		return types.NewGameError(types.ErrInvalidArgument, "no auto-wager set")
	}

	balance, err := t.ledger.Balance(ctx, t.gambler.Name)
	if err != nil {
		return fmt.Errorf("checking bankroll: %w", err)
	}
	if balance < wager {
		return types.NewGameError(types.ErrInsufficientBankroll,
			fmt.Sprintf("bankroll %s cannot cover wager %s", entities.FormatCents(balance), entities.FormatCents(wager)))
	}

	cards, err := t.shoe.DealN(4)
	if err != nil {
		return types.WrapError(types.ErrShoeExhausted, "dealing opening hands", err)
	}

	t.roundID = uuid.New().String()

	gamblerHand := NewHand(1, cards[0], cards[2])
	dealerHand := NewHand(1, cards[1], cards[3])

	if err := t.ledger.Debit(ctx, t.gambler.Name, wager, entities.TransactionTypeWager,
		fmt.Sprintf("Hand wager (round %s)", t.roundID)); err != nil {
		return fmt.Errorf("placing wager: %w", err)
	}
	gamblerHand.Wager = wager

	t.hands = []*Hand{gamblerHand}
	t.pending = []int{0}
	t.dealerHand = dealerHand
	t.gamblerNatural = gamblerHand.IsBlackjack()

	t.logger.Debug("Dealt round %s: gambler %v, dealer up-card %s",
		t.roundID, gamblerHand.CardNames(), dealerHand.Cards[0])

	return nil
}

// LegalActions lists the actions currently offered on a hand. Double and
// split are only offered when the bankroll can cover the extra wager, so
// an accepted action never fails its bankroll check.
func (t *Table) LegalActions(ctx context.Context, hand *Hand) ([]Action, error) {
	if hand.Status != StatusPlaying {
		return nil, types.NewGameError(types.ErrInvalidAction,
			fmt.Sprintf("hand %d is %s, not in play", hand.Number, hand.Status))
	}

	legal := []Action{ActionHit, ActionStand}

	balance, err := t.ledger.Balance(ctx, t.gambler.Name)
	if err != nil {
		return nil, fmt.Errorf("checking bankroll: %w", err)
	}

	if hand.CanDouble() && balance >= hand.Wager {
		legal = append(legal, ActionDouble)
	}
	if hand.CanSplit() && balance >= hand.Wager {
		legal = append(legal, ActionSplit)
	}

	return legal, nil
}

// ApplyAction executes one gambler action on a live hand and returns the
// resulting status. Actions on hands outside the PLAYING state are
// contract violations.
func (t *Table) ApplyAction(ctx context.Context, hand *Hand, action Action) (Status, error) {
	if hand.Status != StatusPlaying {
		return hand.Status, types.NewGameError(types.ErrInvalidAction,
			fmt.Sprintf("cannot %s a hand that is %s", action, hand.Status))
	}

	var err error
	switch action {
	case ActionHit:
		err = t.hit(hand)
	case ActionStand:
		t.narrator.Announce("Stood.")
		err = hand.Transition(StatusStood)
	case ActionDouble:
		err = t.double(ctx, hand)
	case ActionSplit:
		err = t.split(ctx, hand)
	default:
		err = types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("unknown action %q", action))
	}

	return hand.Status, err
}

// hit draws one card. Exactly 21 stands the hand; going over busts it.
func (t *Table) hit(hand *Hand) error {
	t.narrator.Announce("Hitting...")

	card, err := t.shoe.DealCard()
	if err != nil {
		return types.WrapError(types.ErrShoeExhausted, "hitting hand", err)
	}
	if err := hand.AddCard(card); err != nil {
		return err
	}

	if hand.IsBusted() {
		t.narrator.Announce("Busted!")
		return hand.Transition(StatusBusted)
	}
	if hand.Is21() {
		t.narrator.Announce("21!")
		return hand.Transition(StatusStood)
	}
	return nil
}

// double doubles the wager, draws exactly one card, and ends the hand
// whatever the total. A doubled bust is still settled as a loss.
func (t *Table) double(ctx context.Context, hand *Hand) error {
	if !hand.CanDouble() {
		return types.NewGameError(types.ErrInvalidAction, "double requires a two-card hand")
	}

	if err := t.ledger.Debit(ctx, t.gambler.Name, hand.Wager, entities.TransactionTypeWager,
		fmt.Sprintf("Double down wager (round %s)", t.roundID)); err != nil {
		return err
	}

	t.narrator.Announce("Doubling...")
	hand.Wager *= 2

	card, err := t.shoe.DealCard()
	if err != nil {
		return types.WrapError(types.ErrShoeExhausted, "doubling hand", err)
	}
	if err := hand.AddCard(card); err != nil {
		return err
	}

	if hand.IsBusted() {
		t.narrator.Announce("Busted!")
	}
	return hand.Transition(StatusDoubled)
}

// split moves the second card of a pair to a new hand carrying the same
// wager. Both hands stay live; the new hand joins the back of the play
// queue and receives its second card when played.
func (t *Table) split(ctx context.Context, hand *Hand) error {
	if !hand.CanSplit() {
		return types.NewGameError(types.ErrInvalidAction, "split requires a two-card pair")
	}

	if err := t.ledger.Debit(ctx, t.gambler.Name, hand.Wager, entities.TransactionTypeWager,
		fmt.Sprintf("Split hand wager (round %s)", t.roundID)); err != nil {
		return err
	}

	t.narrator.Announce("Splitting...")

	splitCard := hand.Cards[1]
	hand.Cards = hand.Cards[:1]

	newHand := NewHand(len(t.hands)+1, splitCard)
	newHand.Wager = hand.Wager

	t.hands = append(t.hands, newHand)
	t.pending = append(t.pending, len(t.hands)-1)

	return nil
}

// PlayGamblerTurn plays every gambler hand to completion, in the order the
// hands were created, draining the pending queue as splits grow it.
// Returns whether the dealer's hand must be played (some hand stood or
// doubled).
func (t *Table) PlayGamblerTurn(ctx context.Context, chooser ActionChooser) (bool, error) {
	if t.dealerHand == nil {
		return false, types.NewGameError(types.ErrRoundNotDealt, "no round in progress")
	}

	t.narrator.Announce("Playing %s's turn.", t.gambler.Name)

	for len(t.pending) > 0 {
		idx := t.pending[0]
		t.pending = t.pending[1:]
		if err := t.playHand(ctx, t.hands[idx], chooser); err != nil {
			return false, err
		}
	}

	for _, hand := range t.hands {
		if hand.Status == StatusStood || hand.Status == StatusDoubled {
			return true, nil
		}
	}
	return false, nil
}

// playHand drives one hand from PENDING to a terminal state
func (t *Table) playHand(ctx context.Context, hand *Hand, chooser ActionChooser) error {
	if hand.Status == StatusPending {
		if err := hand.Transition(StatusPlaying); err != nil {
			return err
		}
	}

	t.showTable(ctx, true, false)

	for hand.Status == StatusPlaying {
		// A split-derived hand arrives with one card and is filled before
		// any decision. Split Aces get that one card and nothing more.
		if len(hand.Cards) == 1 {
			t.narrator.Announce("Adding second card to split hand...")
			card, err := t.shoe.DealCard()
			if err != nil {
				return types.WrapError(types.ErrShoeExhausted, "filling split hand", err)
			}
			if err := hand.AddCard(card); err != nil {
				return err
			}

			if IsAce(hand.Cards[0]) {
				var err error
				if hand.Is21() {
					t.narrator.Announce("21!")
					err = hand.Transition(StatusBlackjack)
				} else {
					err = hand.Transition(StatusStood)
				}
				if err != nil {
					return err
				}
				t.showTable(ctx, true, false)
				continue
			}
		}

		legal, err := t.LegalActions(ctx, hand)
		if err != nil {
			return err
		}

		action, err := chooser.ChooseAction(ctx, hand, legal)
		if err != nil {
			return fmt.Errorf("choosing action for hand %d: %w", hand.Number, err)
		}
		if !actionAllowed(action, legal) {
			return types.NewGameError(types.ErrInvalidAction,
				fmt.Sprintf("%s is not offered on hand %d", action, hand.Number))
		}

		if _, err := t.ApplyAction(ctx, hand, action); err != nil {
			return err
		}

		t.showTable(ctx, true, false)
	}

	return nil
}

func actionAllowed(action Action, legal []Action) bool {
	for _, a := range legal {
		if a == action {
			return true
		}
	}
	return false
}

// PlayDealer plays the dealer's hand under the fixed house policy: hit
// below 17, hit a soft 17, otherwise stand. No decisions involved.
func (t *Table) PlayDealer(ctx context.Context) (Status, error) {
	if t.dealerHand == nil {
		return "", types.NewGameError(types.ErrRoundNotDealt, "no round in progress")
	}

	hand := t.dealerHand
	t.narrator.Announce("Playing the %s's turn.", t.dealer.Name)

	if hand.Status == StatusPending {
		if err := hand.Transition(StatusPlaying); err != nil {
			return hand.Status, err
		}
	}

	t.showTable(ctx, false, true)

	for hand.Status == StatusPlaying {
		if ShouldDealerHit(hand.Cards) {
			t.narrator.Announce("Hitting...")
			card, err := t.shoe.DealCard()
			if err != nil {
				return hand.Status, types.WrapError(types.ErrShoeExhausted, "dealer hitting", err)
			}
			if err := hand.AddCard(card); err != nil {
				return hand.Status, err
			}
			if hand.IsBusted() {
				t.narrator.Announce("Busted!")
				if err := hand.Transition(StatusBusted); err != nil {
					return hand.Status, err
				}
			}
		} else {
			t.narrator.Announce("Stood.")
			if err := hand.Transition(StatusStood); err != nil {
				return hand.Status, err
			}
		}

		t.showTable(ctx, false, true)
	}

	return hand.Status, nil
}

// Settle resolves every gambler hand against the dealer's hand, in hand
// order, crediting payouts as it goes. A busted gambler hand loses even
// when the dealer later busted.
func (t *Table) Settle(ctx context.Context) ([]Settlement, error) {
	if t.dealerHand == nil {
		return nil, types.NewGameError(types.ErrRoundNotDealt, "no round in progress")
	}

	t.narrator.Announce("Settling up.")

	settlements := make([]Settlement, 0, len(t.hands))
	for _, hand := range t.hands {
		settlement, err := t.settleHand(ctx, hand)
		if err != nil {
			return settlements, err
		}
		settlements = append(settlements, settlement)
	}

	t.settled = append(t.settled, settlements...)
	return settlements, nil
}

func (t *Table) settleHand(ctx context.Context, hand *Hand) (Settlement, error) {
	t.narrator.Announce("[ Hand %d ]", hand.Number)

	// A busted hand is a loss regardless of the dealer. A doubled hand
	// keeps StatusDoubled when it busts, so the check goes by the cards.
	if hand.IsBusted() {
		t.narrator.Announce("Outcome: LOSS")
		t.narrator.Announce("%s hand wager lost.", entities.FormatCents(hand.Wager))
		return Settlement{Hand: hand, Outcome: entities.OutcomeLoss}, nil
	}

	// Dealer bust pays every remaining hand
	if t.dealerHand.Status == StatusBusted {
		t.narrator.Announce("Outcome: WIN")
		credited, err := t.payOut(ctx, hand, PolicyWager)
		return Settlement{Hand: hand, Outcome: entities.OutcomeWin, Credited: credited}, err
	}

	handTotal := hand.FinalTotal()
	dealerTotal := t.dealerHand.FinalTotal()

	switch {
	case handTotal > dealerTotal:
		t.narrator.Announce("Outcome: WIN")
		credited, err := t.payOut(ctx, hand, PolicyWager)
		return Settlement{Hand: hand, Outcome: entities.OutcomeWin, Credited: credited}, err
	case handTotal == dealerTotal:
		t.narrator.Announce("Outcome: PUSH")
		credited, err := t.payOut(ctx, hand, PolicyPush)
		return Settlement{Hand: hand, Outcome: entities.OutcomePush, Credited: credited}, err
	default:
		t.narrator.Announce("Outcome: LOSS")
		t.narrator.Announce("%s hand wager lost.", entities.FormatCents(hand.Wager))
		return Settlement{Hand: hand, Outcome: entities.OutcomeLoss}, nil
	}
}

// recordSettlement notes a hand resolved outside Settle (pre-turn outcomes)
func (t *Table) recordSettlement(hand *Hand, outcome entities.Outcome, credited int64) {
	t.settled = append(t.settled, Settlement{Hand: hand, Outcome: outcome, Credited: credited})
}

// Settlements returns everything resolved so far this round, pre-turn
// outcomes included.
func (t *Table) Settlements() []Settlement {
	return t.settled
}

// RoundResult assembles the persistent record of the finished round
func (t *Table) RoundResult(ctx context.Context) (*entities.RoundResult, error) {
	if t.dealerHand == nil {
		return nil, types.NewGameError(types.ErrRoundNotDealt, "no round in progress")
	}

	balance, err := t.ledger.Balance(ctx, t.gambler.Name)
	if err != nil {
		return nil, fmt.Errorf("reading bankroll: %w", err)
	}

	byHand := make(map[*Hand]Settlement, len(t.settled))
	for _, settlement := range t.settled {
		byHand[settlement.Hand] = settlement
	}

	hands := make([]*entities.HandOutcome, 0, len(t.hands))
	for _, hand := range t.hands {
		outcome := entities.OutcomeLoss
		credited := int64(0)
		if settlement, ok := byHand[hand]; ok {
			outcome = settlement.Outcome
			credited = settlement.Credited
		}
		hands = append(hands, &entities.HandOutcome{
			HandNumber: hand.Number,
			Cards:      hand.CardNames(),
			Total:      hand.FinalTotal(),
			Status:     string(hand.Status),
			Wager:      hand.Wager,
			Insurance:  hand.Insurance,
			Payout:     credited,
			Outcome:    outcome,
		})
	}

	return &entities.RoundResult{
		ID:               t.roundID,
		GamblerName:      t.gambler.Name,
		CompletedAt:      time.Now(),
		DealerCards:      t.dealerHand.CardNames(),
		DealerTotal:      t.dealerHand.FinalTotal(),
		DealerBlackjack:  t.dealerHand.IsBlackjack(),
		DealerBusted:     t.dealerHand.Status == StatusBusted,
		GamblerBlackjack: t.gamblerNatural,
		PreTurnOver:      t.preTurnOver,
		Hands:            hands,
		BankrollAfter:    balance,
	}, nil
}

// Discard detaches all hands from the round. The gambler and dealer
// persist; hands do not.
func (t *Table) Discard() {
	t.roundID = ""
	t.hands = nil
	t.pending = nil
	t.dealerHand = nil
	t.settled = nil
	t.preTurnOver = false
	t.gamblerNatural = false
}

// PlayRound runs a full round end to end: deal, pre-turn resolution, the
// gambler's hands, the dealer's hand when needed, and settlement. The
// finished round's record is returned and the hands are discarded.
func (t *Table) PlayRound(ctx context.Context, decisions Decisions, chooser ActionChooser) (*entities.RoundResult, error) {
	if err := t.Deal(ctx); err != nil {
		return nil, err
	}

	t.showTable(ctx, true, false)

	outcome, err := t.ResolvePreTurn(ctx, decisions)
	if err != nil {
		return nil, err
	}

	if outcome == ContinuePlay {
		dealerPlays, err := t.PlayGamblerTurn(ctx, chooser)
		if err != nil {
			return nil, err
		}
		if dealerPlays {
			if _, err := t.PlayDealer(ctx); err != nil {
				return nil, err
			}
		}
		t.showTable(ctx, false, false)
		if _, err := t.Settle(ctx); err != nil {
			return nil, err
		}
	}

	result, err := t.RoundResult(ctx)
	if err != nil {
		return nil, err
	}

	t.Discard()
	return result, nil
}

// showTable publishes a snapshot of the table to the narrator
func (t *Table) showTable(ctx context.Context, hideBuried, dealerPlaying bool) {
	balance, err := t.ledger.Balance(ctx, t.gambler.Name)
	if err != nil {
		t.logger.Warn("Could not read bankroll for table view: %v", err)
	}

	view := &TableView{
		DealerName:    t.dealer.Name,
		HideBuried:    hideBuried,
		DealerPlaying: dealerPlaying,
		GamblerName:   t.gambler.Name,
		Bankroll:      balance,
	}

	dealerCards := t.dealerHand.Cards
	if hideBuried && len(dealerCards) > 0 {
		dealerCards = dealerCards[:1]
	}
	for _, card := range dealerCards {
		view.DealerCards = append(view.DealerCards, card.String())
	}
	view.DealerLow, view.DealerHigh = HandTotals(dealerCards)

	for _, hand := range t.hands {
		low, high := hand.Totals()
		view.Hands = append(view.Hands, HandView{
			Number:    hand.Number,
			Cards:     hand.CardNames(),
			Wager:     hand.Wager,
			Insurance: hand.Insurance,
			TotalLow:  low,
			TotalHigh: high,
			Status:    hand.Status,
		})
	}

	t.narrator.ShowTable(view)
}

package blackjack

import (
	"context"
	"testing"

	"github.com/fadedpez/angeleyes/internal/types"
	"github.com/fadedpez/angeleyes/pkg/entities"
	ledgerRepo "github.com/fadedpez/angeleyes/pkg/repositories/ledger"
	ledgerService "github.com/fadedpez/angeleyes/pkg/services/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedShoe deals a fixed sequence of cards
type scriptedShoe struct {
	cards []*entities.Card
}

func newScriptedShoe(ranks ...entities.Rank) *scriptedShoe {
	return &scriptedShoe{cards: cards(ranks...)}
}

func (s *scriptedShoe) DealCard() (*entities.Card, error) {
	if len(s.cards) == 0 {
		return nil, entities.ErrShoeExhausted
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

func (s *scriptedShoe) DealN(n int) ([]*entities.Card, error) {
	if len(s.cards) < n {
		return nil, entities.ErrShoeExhausted
	}
	dealt := s.cards[:n]
	s.cards = s.cards[n:]
	return dealt, nil
}

// scriptedChooser plays a fixed sequence of actions
type scriptedChooser struct {
	t       *testing.T
	actions []Action
}

func (c *scriptedChooser) ChooseAction(ctx context.Context, hand *Hand, legal []Action) (Action, error) {
	require.NotEmpty(c.t, c.actions, "chooser script exhausted for hand %d", hand.Number)
	action := c.actions[0]
	c.actions = c.actions[1:]
	return action, nil
}

// chooserFunc adapts a function to the ActionChooser interface
type chooserFunc func(ctx context.Context, hand *Hand, legal []Action) (Action, error)

func (f chooserFunc) ChooseAction(ctx context.Context, hand *Hand, legal []Action) (Action, error) {
	return f(ctx, hand, legal)
}

// scriptedDecisions answers the pre-turn questions with fixed choices
type scriptedDecisions struct {
	evenMoney      bool
	insurance      bool
	evenMoneyAsked bool
	insuranceAsked bool
}

func (d *scriptedDecisions) WantsEvenMoney(ctx context.Context) (bool, error) {
	d.evenMoneyAsked = true
	return d.evenMoney, nil
}

func (d *scriptedDecisions) WantsInsurance(ctx context.Context) (bool, error) {
	d.insuranceAsked = true
	return d.insurance, nil
}

// newTestTable seats a gambler with the given bankroll and standing wager
// over a scripted shoe. The first four ranks are the opening deal in
// casino order: gambler, dealer, gambler, dealer.
func newTestTable(t *testing.T, bankroll, wager int64, ranks ...entities.Rank) (*Table, *ledgerService.Service) {
	t.Helper()

	service := ledgerService.NewService(ledgerRepo.NewMemoryRepository())
	_, _, err := service.GetOrCreateLedger(context.Background(), "Tuco", bankroll)
	require.NoError(t, err)

	gambler := entities.NewGambler("Tuco", wager)
	table := NewTable(gambler, entities.NewDealer(), newScriptedShoe(ranks...), service, nil)
	return table, service
}

func balanceOf(t *testing.T, service *ledgerService.Service) int64 {
	t.Helper()
	balance, err := service.Balance(context.Background(), "Tuco")
	require.NoError(t, err)
	return balance
}

func TestDealPlacesWagerAndCards(t *testing.T) {
	table, service := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Nine, entities.Seven, entities.Five)

	require.NoError(t, table.Deal(context.Background()))

	hands := table.GamblerHands()
	require.Len(t, hands, 1)
	assert.Equal(t, []string{"10 of SPADES", "7 of SPADES"}, hands[0].CardNames())
	assert.Equal(t, []string{"9 of SPADES", "5 of SPADES"}, table.DealerHand().CardNames())
	assert.Equal(t, int64(10_00), hands[0].Wager)
	assert.Equal(t, int64(90_00), balanceOf(t, service))
	assert.NotEmpty(t, table.RoundID())
}

func TestDealInsufficientBankrollLeavesNoTrace(t *testing.T) {
	table, service := newTestTable(t, 5_00, 10_00,
		entities.Ten, entities.Nine, entities.Seven, entities.Five)

	err := table.Deal(context.Background())
	assert.True(t, types.IsGameError(err, types.ErrInsufficientBankroll))

	assert.Equal(t, int64(5_00), balanceOf(t, service))
	assert.Nil(t, table.DealerHand())
	assert.Empty(t, table.GamblerHands())
}

func TestDealRejectsSecondRound(t *testing.T) {
	table, _ := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Nine, entities.Seven, entities.Five)

	require.NoError(t, table.Deal(context.Background()))
	err := table.Deal(context.Background())
	assert.True(t, types.IsGameError(err, types.ErrRoundInProgress))
}

func TestLegalActionsRespectBankroll(t *testing.T) {
	// Balance after the deal is $5, not enough to double or split the $10 pair
	table, _ := newTestTable(t, 15_00, 10_00,
		entities.Eight, entities.Nine, entities.Eight, entities.Five)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))
	hand := table.GamblerHands()[0]
	require.NoError(t, hand.Transition(StatusPlaying))

	legal, err := table.LegalActions(ctx, hand)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Action{ActionHit, ActionStand}, legal)
}

func TestLegalActionsOffersDoubleAndSplit(t *testing.T) {
	table, _ := newTestTable(t, 100_00, 10_00,
		entities.Eight, entities.Nine, entities.Eight, entities.Five)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))
	hand := table.GamblerHands()[0]
	require.NoError(t, hand.Transition(StatusPlaying))

	legal, err := table.LegalActions(ctx, hand)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Action{ActionHit, ActionStand, ActionDouble, ActionSplit}, legal)
}

func TestApplyActionOnTerminalHand(t *testing.T) {
	table, _ := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Nine, entities.Seven, entities.Five)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))
	hand := table.GamblerHands()[0]
	require.NoError(t, hand.Transition(StatusPlaying))
	require.NoError(t, hand.Transition(StatusStood))

	_, err := table.ApplyAction(ctx, hand, ActionHit)
	assert.True(t, types.IsGameError(err, types.ErrInvalidAction))
}

func TestHitToTwentyOneStands(t *testing.T) {
	// 10+5, hit draws 6: exactly 21 stands the hand without another prompt
	table, _ := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Nine, entities.Five, entities.Seven,
		entities.Six)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))

	chooser := &scriptedChooser{t: t, actions: []Action{ActionHit}}
	dealerPlays, err := table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)

	hand := table.GamblerHands()[0]
	assert.Equal(t, StatusStood, hand.Status)
	assert.Equal(t, 21, hand.FinalTotal())
	assert.True(t, dealerPlays)
}

func TestHitToBust(t *testing.T) {
	table, service := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Nine, entities.Nine, entities.Seven,
		entities.Five)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))

	chooser := &scriptedChooser{t: t, actions: []Action{ActionHit}}
	dealerPlays, err := table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)

	hand := table.GamblerHands()[0]
	assert.Equal(t, StatusBusted, hand.Status)
	assert.False(t, dealerPlays, "dealer has nothing to beat")

	settlements, err := table.Settle(ctx)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, entities.OutcomeLoss, settlements[0].Outcome)
	assert.Equal(t, int64(90_00), balanceOf(t, service))
}

func TestDoubleDown(t *testing.T) {
	// 5+6 doubled against a dealer 17; draw 10 makes 21
	table, service := newTestTable(t, 100_00, 20_00,
		entities.Five, entities.Ten, entities.Six, entities.Seven,
		entities.Ten)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))

	outcome, err := table.ResolvePreTurn(ctx, &scriptedDecisions{})
	require.NoError(t, err)
	require.Equal(t, ContinuePlay, outcome)

	chooser := &scriptedChooser{t: t, actions: []Action{ActionDouble}}
	dealerPlays, err := table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)
	require.True(t, dealerPlays)

	hand := table.GamblerHands()[0]
	assert.Equal(t, StatusDoubled, hand.Status)
	assert.Equal(t, int64(40_00), hand.Wager)
	assert.Len(t, hand.Cards, 3)

	status, err := table.PlayDealer(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusStood, status)

	settlements, err := table.Settle(ctx)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, entities.OutcomeWin, settlements[0].Outcome)
	assert.Equal(t, int64(80_00), settlements[0].Credited)
	assert.Equal(t, int64(140_00), balanceOf(t, service))
}

func TestDoubledBustStaysDoubled(t *testing.T) {
	table, service := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Nine, entities.Six, entities.Eight,
		entities.King)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))

	chooser := &scriptedChooser{t: t, actions: []Action{ActionDouble}}
	dealerPlays, err := table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)

	hand := table.GamblerHands()[0]
	assert.Equal(t, StatusDoubled, hand.Status)
	assert.True(t, hand.IsBusted())
	assert.True(t, dealerPlays, "a doubled hand sends the dealer into play")

	_, err = table.PlayDealer(ctx)
	require.NoError(t, err)

	settlements, err := table.Settle(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.OutcomeLoss, settlements[0].Outcome)
	assert.Equal(t, int64(80_00), balanceOf(t, service))
}

func TestSplitPlaysBothHands(t *testing.T) {
	// The 8,8 pair splits against a dealer 17. Hand 1 fills to 18 and
	// stands; hand 2 fills to 13, hits to 20, stands.
	table, service := newTestTable(t, 100_00, 20_00,
		entities.Eight, entities.Seven, entities.Eight, entities.Ten,
		entities.Ten, entities.Five, entities.Seven)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))
	assert.Equal(t, int64(80_00), balanceOf(t, service))

	var balanceAfterSplit int64
	actions := []Action{ActionSplit, ActionStand, ActionHit, ActionStand}
	chooser := chooserFunc(func(ctx context.Context, hand *Hand, legal []Action) (Action, error) {
		action := actions[0]
		actions = actions[1:]
		if action == ActionStand && balanceAfterSplit == 0 {
			balanceAfterSplit = balanceOf(t, service)
		}
		return action, nil
	})

	dealerPlays, err := table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)
	require.True(t, dealerPlays)

	assert.Equal(t, int64(60_00), balanceAfterSplit, "split debits a second wager")

	hands := table.GamblerHands()
	require.Len(t, hands, 2)
	assert.Equal(t, 18, hands[0].FinalTotal())
	assert.Equal(t, StatusStood, hands[0].Status)
	assert.Equal(t, int64(20_00), hands[0].Wager)
	assert.Equal(t, 20, hands[1].FinalTotal())
	assert.Equal(t, StatusStood, hands[1].Status)
	assert.Equal(t, int64(20_00), hands[1].Wager)

	_, err = table.PlayDealer(ctx)
	require.NoError(t, err)

	settlements, err := table.Settle(ctx)
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	assert.Equal(t, entities.OutcomeWin, settlements[0].Outcome)
	assert.Equal(t, entities.OutcomeWin, settlements[1].Outcome)
	assert.Equal(t, int64(140_00), balanceOf(t, service))
}

func TestSplitAcesTakeOneCardEach(t *testing.T) {
	// Split aces: each hand gets exactly one card. The King makes a
	// two-card 21; the Five stands on 16 with no decision offered.
	table, _ := newTestTable(t, 100_00, 10_00,
		entities.Ace, entities.Ten, entities.Ace, entities.Eight,
		entities.King, entities.Five)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))

	outcome, err := table.ResolvePreTurn(ctx, &scriptedDecisions{})
	require.NoError(t, err)
	require.Equal(t, ContinuePlay, outcome)

	chooser := &scriptedChooser{t: t, actions: []Action{ActionSplit}}
	dealerPlays, err := table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)
	require.True(t, dealerPlays)

	hands := table.GamblerHands()
	require.Len(t, hands, 2)
	assert.Equal(t, StatusBlackjack, hands[0].Status)
	assert.Equal(t, 21, hands[0].FinalTotal())
	assert.Equal(t, StatusStood, hands[1].Status)
	assert.Equal(t, 16, hands[1].FinalTotal())

	_, err = table.PlayDealer(ctx)
	require.NoError(t, err)

	// Dealer stands on 18: the 21 wins at even money, the 16 loses
	settlements, err := table.Settle(ctx)
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	assert.Equal(t, entities.OutcomeWin, settlements[0].Outcome)
	assert.Equal(t, int64(20_00), settlements[0].Credited)
	assert.Equal(t, entities.OutcomeLoss, settlements[1].Outcome)
}

func TestDealerHitsSoftSeventeen(t *testing.T) {
	// Dealer shows A,6: soft 17 must draw again
	table, _ := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Ace, entities.Nine, entities.Six,
		entities.Four)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))

	chooser := &scriptedChooser{t: t, actions: []Action{ActionStand}}
	dealerPlays, err := table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)
	require.True(t, dealerPlays)

	status, err := table.PlayDealer(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusStood, status)
	assert.Len(t, table.DealerHand().Cards, 3)
	assert.Equal(t, 21, table.DealerHand().FinalTotal())
}

func TestDealerBustPaysStandingHands(t *testing.T) {
	table, service := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Ten, entities.Three, entities.Six,
		entities.King)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))

	outcome, err := table.ResolvePreTurn(ctx, &scriptedDecisions{})
	require.NoError(t, err)
	require.Equal(t, ContinuePlay, outcome)

	chooser := &scriptedChooser{t: t, actions: []Action{ActionStand}}
	_, err = table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)

	status, err := table.PlayDealer(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusBusted, status)

	settlements, err := table.Settle(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.OutcomeWin, settlements[0].Outcome)
	assert.Equal(t, int64(110_00), balanceOf(t, service))
}

func TestBustedHandLosesEvenWhenDealerBusts(t *testing.T) {
	// Hand 1 busts before the dealer does; its wager stays lost while the
	// standing hand 2 is paid.
	table, service := newTestTable(t, 100_00, 10_00,
		entities.Eight, entities.Ten, entities.Eight, entities.Six,
		entities.Ten, entities.King, entities.Ten, entities.Ten)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))

	outcome, err := table.ResolvePreTurn(ctx, &scriptedDecisions{})
	require.NoError(t, err)
	require.Equal(t, ContinuePlay, outcome)

	chooser := &scriptedChooser{t: t, actions: []Action{ActionSplit, ActionHit, ActionStand}}
	dealerPlays, err := table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)
	require.True(t, dealerPlays)

	hands := table.GamblerHands()
	require.Len(t, hands, 2)
	require.Equal(t, StatusBusted, hands[0].Status)
	require.Equal(t, StatusStood, hands[1].Status)

	status, err := table.PlayDealer(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusBusted, status)

	settlements, err := table.Settle(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.OutcomeLoss, settlements[0].Outcome)
	assert.Equal(t, entities.OutcomeWin, settlements[1].Outcome)

	// -10 -10 for the wagers, +20 for the winning hand
	assert.Equal(t, int64(100_00), balanceOf(t, service))
}

func TestPushReturnsWager(t *testing.T) {
	table, service := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Ten, entities.Nine, entities.Nine)

	ctx := context.Background()
	require.NoError(t, table.Deal(ctx))

	outcome, err := table.ResolvePreTurn(ctx, &scriptedDecisions{})
	require.NoError(t, err)
	require.Equal(t, ContinuePlay, outcome)

	chooser := &scriptedChooser{t: t, actions: []Action{ActionStand}}
	_, err = table.PlayGamblerTurn(ctx, chooser)
	require.NoError(t, err)

	_, err = table.PlayDealer(ctx)
	require.NoError(t, err)

	settlements, err := table.Settle(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.OutcomePush, settlements[0].Outcome)
	assert.Equal(t, int64(10_00), settlements[0].Credited)
	assert.Equal(t, int64(100_00), balanceOf(t, service))
}

func TestPlayRoundBuildsResultAndDiscards(t *testing.T) {
	table, _ := newTestTable(t, 100_00, 10_00,
		entities.Ten, entities.Ten, entities.Nine, entities.Eight,
		// second round
		entities.Ten, entities.Nine, entities.Seven, entities.Five,
		entities.Four)

	ctx := context.Background()
	chooser := &scriptedChooser{t: t, actions: []Action{ActionStand, ActionStand}}

	result, err := table.PlayRound(ctx, &scriptedDecisions{}, chooser)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Tuco", result.GamblerName)
	assert.Equal(t, 18, result.DealerTotal)
	assert.False(t, result.PreTurnOver)
	require.Len(t, result.Hands, 1)
	assert.Equal(t, 19, result.Hands[0].Total)
	assert.Equal(t, entities.OutcomeWin, result.Hands[0].Outcome)
	assert.Equal(t, int64(20_00), result.Hands[0].Payout)
	assert.Equal(t, int64(110_00), result.BankrollAfter)

	// The table is clear for the next round
	assert.Empty(t, table.GamblerHands())
	assert.Nil(t, table.DealerHand())

	_, err = table.PlayRound(ctx, &scriptedDecisions{}, chooser)
	require.NoError(t, err)
}

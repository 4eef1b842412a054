package blackjack

import (
	"fmt"

	"github.com/fadedpez/angeleyes/internal/types"
	"github.com/fadedpez/angeleyes/pkg/entities"
)

// Status represents the current state of a hand
type Status string

const (
	StatusPending   Status = "PENDING"   // dealt, not yet acted on
	StatusPlaying   Status = "PLAYING"   // actively being decided
	StatusStood     Status = "STOOD"     // terminal
	StatusDoubled   Status = "DOUBLED"   // terminal
	StatusBusted    Status = "BUSTED"    // terminal
	StatusBlackjack Status = "BLACKJACK" // terminal
)

// Terminal reports whether the hand can take no further action
func (s Status) Terminal() bool {
	switch s {
	case StatusStood, StatusDoubled, StatusBusted, StatusBlackjack:
		return true
	}
	return false
}

// validTransitions encodes the hand state machine. A natural blackjack
// short-circuits straight from PENDING during pre-turn resolution.
var validTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusPlaying:   true,
		StatusBlackjack: true,
	},
	StatusPlaying: {
		StatusStood:     true,
		StatusDoubled:   true,
		StatusBusted:    true,
		StatusBlackjack: true,
	},
}

// Hand represents one wagered hand at the table. A dealt hand starts with
// two cards; a split-derived hand starts with one and must receive exactly
// one more before it is playable.
type Hand struct {
	Cards     []*entities.Card
	Wager     int64 // cents
	Insurance int64 // cents, zero unless purchased
	Number    int   // ordinal for display/ordering across split hands
	Status    Status
}

// NewHand creates a hand in the PENDING state
func NewHand(number int, cards ...*entities.Card) *Hand {
	hand := &Hand{
		Cards:  make([]*entities.Card, 0, 2),
		Number: number,
		Status: StatusPending,
	}
	hand.Cards = append(hand.Cards, cards...)
	return hand
}

// Transition moves the hand to a new status, rejecting anything the state
// machine does not allow (e.g. acting on a stood hand).
func (h *Hand) Transition(to Status) error {
	if !validTransitions[h.Status][to] {
		return types.NewGameError(types.ErrInvalidTransition,
			fmt.Sprintf("hand %d cannot move from %s to %s", h.Number, h.Status, to))
	}
	h.Status = to
	return nil
}

// AddCard appends a dealt card. Cards may only be added while the hand is
// still live; status changes are the caller's responsibility.
func (h *Hand) AddCard(card *entities.Card) error {
	if card == nil {
		return types.NewGameError(types.ErrInvalidArgument, "cannot add a nil card")
	}
	if h.Status.Terminal() {
		return types.NewGameError(types.ErrInvalidAction,
			fmt.Sprintf("hand %d is %s and cannot receive cards", h.Number, h.Status))
	}
	h.Cards = append(h.Cards, card)
	return nil
}

// Totals returns the (low, high) totals of the hand
func (h *Hand) Totals() (int, int) {
	return HandTotals(h.Cards)
}

// FinalTotal returns the best total of the hand
func (h *Hand) FinalTotal() int {
	return FinalTotal(h.Cards)
}

// IsSoft reports whether the high total is in play
func (h *Hand) IsSoft() bool {
	return IsSoft(h.Cards)
}

// IsBlackjack reports a two-card 21
func (h *Hand) IsBlackjack() bool {
	return IsBlackjack(h.Cards)
}

// IsBusted reports whether the hand is over 21
func (h *Hand) IsBusted() bool {
	return IsBusted(h.Cards)
}

// Is21 reports whether the hand totals exactly 21
func (h *Hand) Is21() bool {
	return h.FinalTotal() == BlackjackTotal
}

// CanDouble reports whether the hand shape allows doubling (the bankroll
// check is the table's job)
func (h *Hand) CanDouble() bool {
	return len(h.Cards) == 2
}

// CanSplit reports whether the hand is a splittable pair
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && EqualRankValue(h.Cards[0], h.Cards[1])
}

// CardNames returns the hand's cards as display strings
func (h *Hand) CardNames() []string {
	names := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		names[i] = card.String()
	}
	return names
}

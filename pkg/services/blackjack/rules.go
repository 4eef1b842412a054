package blackjack

import (
	"strconv"

	"github.com/fadedpez/angeleyes/pkg/entities"
)

const (
	StandardDecks      = 6  // Standard number of decks in the shoe
	ReshuffleThreshold = 75 // Reshuffle when 75 cards remain (~25% of one shoe)

	BlackjackTotal   = 21
	DealerStandTotal = 17
)

// CardValue returns the low counting value of a card: Aces count 1 here,
// the 10-shift for a soft total is applied by HandTotals.
func CardValue(card *entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 1
	case entities.Ten, entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

func IsAce(card *entities.Card) bool {
	return card.Rank == entities.Ace
}

// IsTenValue reports whether the card counts ten (10, J, Q, K)
func IsTenValue(card *entities.Card) bool {
	return CardValue(card) == 10
}

// EqualRankValue reports whether two cards carry the same wager-splitting
// value. Face cards and tens are interchangeable for splits.
func EqualRankValue(a, b *entities.Card) bool {
	if IsAce(a) || IsAce(b) {
		return a.Rank == b.Rank
	}
	return CardValue(a) == CardValue(b)
}

// HandTotals computes the (low, high) totals of a hand. The low total
// counts every Ace as 1. The high total counts one Ace as 11 and is 0
// unless an Ace is present and the shift does not bust the hand.
func HandTotals(cards []*entities.Card) (int, int) {
	low := 0
	aces := 0

	for _, card := range cards {
		low += CardValue(card)
		if IsAce(card) {
			aces++
		}
	}

	high := 0
	if aces > 0 && low+10 <= BlackjackTotal {
		high = low + 10
	}

	return low, high
}

// FinalTotal returns the best total of a hand: the high total when it is
// in play, otherwise the low total.
func FinalTotal(cards []*entities.Card) int {
	low, high := HandTotals(cards)
	if high > 0 {
		return high
	}
	return low
}

// IsSoft reports whether the hand's high total is in play
func IsSoft(cards []*entities.Card) bool {
	_, high := HandTotals(cards)
	return high > 0
}

// IsBlackjack reports a two-card 21 (Ace plus a ten-value card)
func IsBlackjack(cards []*entities.Card) bool {
	return len(cards) == 2 && FinalTotal(cards) == BlackjackTotal
}

// IsBusted reports whether even the low total exceeds 21
func IsBusted(cards []*entities.Card) bool {
	low, _ := HandTotals(cards)
	return low > BlackjackTotal
}

// ShouldDealerHit implements the house drawing policy: hit below 17, and
// hit a soft 17.
func ShouldDealerHit(cards []*entities.Card) bool {
	total := FinalTotal(cards)
	if total < DealerStandTotal {
		return true
	}
	return total == DealerStandTotal && IsSoft(cards)
}

// NewTableShoe creates a shuffled shoe with the given number of decks
func NewTableShoe(decks int) *entities.Shoe {
	if decks < 1 {
		decks = StandardDecks
	}
	shoe := entities.NewShoe(decks)
	shoe.Shuffle()
	return shoe
}

// ShouldReshuffle checks if the shoe should be rebuilt based on the remaining cards
func ShouldReshuffle(shoe *entities.Shoe) bool {
	return shoe.Remaining() < ReshuffleThreshold
}

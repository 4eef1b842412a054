package entities

import (
	"errors"
	"math/rand"
	"time"
)

// ErrShoeExhausted is returned when the shoe has no cards left to deal
var ErrShoeExhausted = errors.New("shoe is exhausted")

// Shoe is the card-dispensing collaborator: one or more shuffled decks
// dealt from the top, one card at a time.
type Shoe struct {
	Cards []*Card
}

// NewShoe creates a shoe holding the given number of 52-card decks
func NewShoe(decks int) *Shoe {
	if decks < 1 {
		decks = 1
	}

	cards := make([]*Card, 0, decks*52)
	suits := []Suit{Hearts, Diamonds, Clubs, Spades}
	ranks := []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

	for i := 0; i < decks; i++ {
		for _, suit := range suits {
			for _, rank := range ranks {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}

	return &Shoe{Cards: cards}
}

func (s *Shoe) Shuffle() {
	// Create a new random source using current time as seed
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Use Go's built-in shuffle algorithm
	r.Shuffle(len(s.Cards), func(i, j int) {
		s.Cards[i], s.Cards[j] = s.Cards[j], s.Cards[i]
	})
}

// DealCard removes and returns the top card of the shoe
func (s *Shoe) DealCard() (*Card, error) {
	if len(s.Cards) == 0 {
		return nil, ErrShoeExhausted
	}
	card := s.Cards[0]
	s.Cards = s.Cards[1:]
	return card, nil
}

// DealN deals n cards in order, failing without dealing any if the shoe
// cannot cover the request
func (s *Shoe) DealN(n int) ([]*Card, error) {
	if len(s.Cards) < n {
		return nil, ErrShoeExhausted
	}
	cards := make([]*Card, n)
	for i := 0; i < n; i++ {
		cards[i] = s.Cards[i]
	}
	s.Cards = s.Cards[n:]
	return cards, nil
}

// Replenish rebuilds the shoe to a full set of decks and shuffles it
func (s *Shoe) Replenish(decks int) {
	s.Cards = NewShoe(decks).Cards
	s.Shuffle()
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.Cards)
}

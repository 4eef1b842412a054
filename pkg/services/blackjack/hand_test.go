package blackjack

import (
	"testing"

	"github.com/fadedpez/angeleyes/internal/types"
	"github.com/fadedpez/angeleyes/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandTransitions(t *testing.T) {
	t.Run("normal flow", func(t *testing.T) {
		hand := NewHand(1, card(entities.Ten), card(entities.Seven))
		assert.Equal(t, StatusPending, hand.Status)

		require.NoError(t, hand.Transition(StatusPlaying))
		require.NoError(t, hand.Transition(StatusStood))
		assert.True(t, hand.Status.Terminal())
	})

	t.Run("natural short-circuit", func(t *testing.T) {
		hand := NewHand(1, card(entities.Ace), card(entities.King))
		require.NoError(t, hand.Transition(StatusBlackjack))
	})

	t.Run("terminal hands reject transitions", func(t *testing.T) {
		hand := NewHand(1, card(entities.Ten), card(entities.Seven))
		require.NoError(t, hand.Transition(StatusPlaying))
		require.NoError(t, hand.Transition(StatusBusted))

		err := hand.Transition(StatusPlaying)
		assert.True(t, types.IsGameError(err, types.ErrInvalidTransition))
		assert.Equal(t, StatusBusted, hand.Status)
	})

	t.Run("pending cannot go straight to stood", func(t *testing.T) {
		hand := NewHand(1, card(entities.Ten), card(entities.Seven))
		err := hand.Transition(StatusStood)
		assert.True(t, types.IsGameError(err, types.ErrInvalidTransition))
	})
}

func TestHandAddCard(t *testing.T) {
	hand := NewHand(1, card(entities.Ten), card(entities.Seven))
	require.NoError(t, hand.Transition(StatusPlaying))
	require.NoError(t, hand.AddCard(card(entities.Two)))
	assert.Len(t, hand.Cards, 3)

	err := hand.AddCard(nil)
	assert.True(t, types.IsGameError(err, types.ErrInvalidArgument))

	require.NoError(t, hand.Transition(StatusStood))
	err = hand.AddCard(card(entities.Two))
	assert.True(t, types.IsGameError(err, types.ErrInvalidAction))
	assert.Len(t, hand.Cards, 3)
}

func TestHandCanDouble(t *testing.T) {
	hand := NewHand(1, card(entities.Five), card(entities.Six))
	assert.True(t, hand.CanDouble())

	require.NoError(t, hand.Transition(StatusPlaying))
	require.NoError(t, hand.AddCard(card(entities.Two)))
	assert.False(t, hand.CanDouble())
}

func TestHandCanSplit(t *testing.T) {
	assert.True(t, NewHand(1, card(entities.Eight), card(entities.Eight)).CanSplit())
	assert.True(t, NewHand(1, card(entities.King), card(entities.Ten)).CanSplit())
	assert.False(t, NewHand(1, card(entities.Eight), card(entities.Nine)).CanSplit())
	assert.False(t, NewHand(1, card(entities.Eight)).CanSplit())
}

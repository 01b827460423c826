package blackjack

import (
	"errors"
	"math/rand"
	"testing"

	"blackjack-lite/card"

	"github.com/stretchr/testify/require"
)

func TestShoeConservation(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		shoe := NewShoe(DefaultDecks, rand.New(rand.NewSource(seed)))
		require.Equal(t, 312, shoe.Remaining())

		counts := make(map[card.Card]int, 52)
		for i := 0; i < 312; i++ {
			got, err := shoe.Draw()
			require.NoError(t, err)
			counts[got]++
		}
		require.Len(t, counts, 52)
		for c, n := range counts {
			require.Equal(t, DefaultDecks, n, "card %v", c)
		}
		require.Equal(t, 0, shoe.Remaining())

		_, err := shoe.Draw()
		if !errors.Is(err, ErrShoeExhausted) {
			t.Fatalf("expected ErrShoeExhausted, got %v", err)
		}
	}
}

func TestShoeShuffleKeepsCards(t *testing.T) {
	shoe := NewShoe(1, rand.New(rand.NewSource(42)))
	first, err := shoe.Draw()
	require.NoError(t, err)
	shoe.Shuffle()
	require.Equal(t, 51, shoe.Remaining())

	for shoe.Remaining() > 0 {
		got, err := shoe.Draw()
		require.NoError(t, err)
		require.NotEqual(t, first, got)
	}
}

func TestHandDraw(t *testing.T) {
	shoe := NewShoe(1, rand.New(rand.NewSource(3)))
	var h Hand
	drawn, err := h.Draw(shoe, 2)
	require.NoError(t, err)
	require.Len(t, drawn, 2)
	require.Equal(t, 2, h.Len())
	require.Equal(t, Score(drawn), h.Score())

	cards := h.Cards()
	cards[0] = card.CardInvalid
	require.NotEqual(t, card.CardInvalid, h.Cards()[0], "Cards must return a copy")

	h.Reset()
	require.Equal(t, 0, h.Len())
}

func TestHandDrawExhausted(t *testing.T) {
	shoe := NewShoe(1, rand.New(rand.NewSource(3)))
	var h Hand
	_, err := h.Draw(shoe, 53)
	require.ErrorIs(t, err, ErrShoeExhausted)
	require.Equal(t, 52, h.Len())
}

package blackjack

import (
	"math/rand"

	"blackjack-lite/card"
)

// Shoe is the shuffled multi-deck card source for one round. It is not safe
// for concurrent use; the table's round driver owns it.
type Shoe struct {
	rng   *rand.Rand
	cards card.CardList
}

func NewShoe(decks int, rng *rand.Rand) *Shoe {
	s := &Shoe{
		rng:   rng,
		cards: make(card.CardList, 0, decks*52),
	}
	deck := card.StandardDeck()
	for i := 0; i < decks; i++ {
		s.cards.Add(deck...)
	}
	s.Shuffle()
	return s
}

func (s *Shoe) Shuffle() {
	s.cards.Shuffle(s.rng)
}

// Draw removes and returns the last card of the shoe.
func (s *Shoe) Draw() (card.Card, error) {
	c, ok := s.cards.PopCard()
	if !ok {
		return card.CardInvalid, ErrShoeExhausted
	}
	return c, nil
}

func (s *Shoe) Remaining() int {
	return s.cards.Count()
}

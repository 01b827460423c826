package blackjack

import "blackjack-lite/card"

// Hand is an ordered card sequence. The zero value is an empty hand. Callers
// synchronize access.
type Hand struct {
	cards card.CardList
}

func (h *Hand) Add(cards ...card.Card) {
	h.cards.Add(cards...)
}

// Draw takes count cards from the shoe into the hand.
func (h *Hand) Draw(shoe *Shoe, count int) ([]card.Card, error) {
	drawn := make([]card.Card, 0, count)
	for i := 0; i < count; i++ {
		c, err := shoe.Draw()
		if err != nil {
			return drawn, err
		}
		h.cards.Add(c)
		drawn = append(drawn, c)
	}
	return drawn, nil
}

// Cards returns a copy of the hand.
func (h *Hand) Cards() card.CardList {
	return h.cards.Clone()
}

func (h *Hand) Len() int     { return h.cards.Count() }
func (h *Hand) Score() int   { return Score(h.cards) }
func (h *Hand) Busted() bool { return IsBust(h.cards) }

func (h *Hand) Reset() {
	h.cards = nil
}

package card

import (
	"math/rand"
	"strings"
)

type CardList []Card

// StandardDeck returns an ordered 52-card deck, suit by suit.
func StandardDeck() CardList {
	deck := make(CardList, 0, 52)
	for _, s := range Suits {
		for r := RankAce; r <= RankKing; r++ {
			deck = append(deck, MustNew(r, s))
		}
	}
	return deck
}

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

func (ds CardList) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(ds), func(i, j int) {
		ds[i], ds[j] = ds[j], ds[i]
	})
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

// PopCard removes the last card. ok is false when the list is empty.
func (ds *CardList) PopCard() (Card, bool) {
	totalCount := ds.Count()
	if totalCount == 0 {
		return CardInvalid, false
	}
	c := (*ds)[totalCount-1]
	*ds = (*ds)[:totalCount-1]
	return c, true
}

func (ds CardList) Clone() CardList {
	out := make(CardList, len(ds))
	copy(out, ds)
	return out
}

// Join renders the cards separated by ", ".
func (ds CardList) Join() string {
	parts := make([]string, len(ds))
	for i, c := range ds {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// String renders the list in brackets, e.g. "[Ace of Spades, 9 of Hearts]".
func (ds CardList) String() string {
	return "[" + ds.Join() + "]"
}

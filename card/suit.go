package card

import (
	"fmt"
	"strings"
)

type Suit byte

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

func (s Suit) String() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	}
	return "?"
}

func ParseSuit(s string) (Suit, error) {
	switch strings.ToUpper(s) {
	case "H", "HEARTS":
		return Hearts, nil
	case "D", "DIAMONDS":
		return Diamonds, nil
	case "C", "CLUBS":
		return Clubs, nil
	case "S", "SPADES":
		return Spades, nil
	}
	return 0, fmt.Errorf("invalid suit: %s", s)
}

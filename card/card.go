package card

import (
	"fmt"
	"strings"
)

// Card 牌值
//
// Encoding:
// - high 4 bits: suit (0:Hearts, 1:Diamonds, 2:Clubs, 3:Spades)
// - low 4 bits: rank (1:Ace, 2..10, 11:Jack, 12:Queen, 13:King)
type Card byte

const CardInvalid Card = 0

// New builds a card from a rank (1..13) and a suit.
func New(rank Rank, suit Suit) (Card, error) {
	if rank < RankAce || rank > RankKing {
		return CardInvalid, fmt.Errorf("invalid rank: %d", rank)
	}
	if suit > Spades {
		return CardInvalid, fmt.Errorf("invalid suit: %d", suit)
	}
	return Card(byte(suit)<<4 | byte(rank)), nil
}

// MustNew is New for constant inputs.
func MustNew(rank Rank, suit Suit) Card {
	c, err := New(rank, suit)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Card) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return c.Rank().String() + " of " + c.Suit().String()
}

// Rank returns 1-13 (Ace=1, King=13).
func (c Card) Rank() Rank {
	return Rank(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) Valid() bool {
	r := c.Rank()
	return r >= RankAce && r <= RankKing && c.Suit() <= Spades
}

func (c Card) IsAce() bool {
	return c.Rank() == RankAce
}

// Points is the blackjack value of a single card with aces counted high.
func (c Card) Points() int {
	r := c.Rank()
	switch {
	case r == RankAce:
		return 11
	case r >= RankTen:
		return 10
	default:
		return int(r)
	}
}

// Parse converts "Queen of Hearts", "10 of clubs" or "A of S" back to a Card.
func Parse(s string) (Card, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 3 || !strings.EqualFold(parts[1], "of") {
		return CardInvalid, fmt.Errorf("invalid card string: %q", s)
	}
	rank, err := ParseRank(parts[0])
	if err != nil {
		return CardInvalid, err
	}
	suit, err := ParseSuit(parts[2])
	if err != nil {
		return CardInvalid, err
	}
	return New(rank, suit)
}

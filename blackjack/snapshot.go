package blackjack

import "blackjack-lite/card"

type SeatSnapshot struct {
	ID     int
	Status SeatStatus
	Hand   []card.Card
	Score  int

	Soft      bool
	Blackjack bool
}

// Snapshot is a point-in-time copy of a table. DealerHand is only filled once
// the dealer's hole card has been revealed.
type Snapshot struct {
	TableID string
	Round   uint32
	Phase   Phase
	InRound bool

	MaxPlayers int
	Seats      []SeatSnapshot

	DealerVisible card.Card
	DealerHand    []card.Card
	DealerScore   int

	ShoeRemaining int
}

package blackjack

// BustLimit is the highest score that is not a bust.
const BustLimit = 21

// Phase 回合阶段
type Phase byte

const (
	PhaseLobby       Phase = 0
	PhaseDealing     Phase = 1
	PhasePlayerTurns Phase = 2
	PhaseDealerTurn  Phase = 3
	PhaseResolution  Phase = 4
	PhaseReset       Phase = 5
)

var PhaseDictionary = map[Phase]string{
	PhaseLobby:       "lobby",
	PhaseDealing:     "dealing",
	PhasePlayerTurns: "player_turns",
	PhaseDealerTurn:  "dealer_turn",
	PhaseResolution:  "resolution",
	PhaseReset:       "reset",
}

func (p Phase) String() string {
	if s, ok := PhaseDictionary[p]; ok {
		return s
	}
	return "unknown"
}

// SeatStatus is a seat's turn status within one round.
type SeatStatus byte

const (
	SeatActive       SeatStatus = 0
	SeatStood        SeatStatus = 1
	SeatBusted       SeatStatus = 2
	SeatDisconnected SeatStatus = 3
)

var SeatStatusDictionary = map[SeatStatus]string{
	SeatActive:       "ACTIVE",
	SeatStood:        "STOOD",
	SeatBusted:       "BUSTED",
	SeatDisconnected: "DISCONNECTED",
}

func (s SeatStatus) String() string {
	if v, ok := SeatStatusDictionary[s]; ok {
		return v
	}
	return "UNKNOWN"
}

// Done reports whether the seat has finished its turn for the round.
func (s SeatStatus) Done() bool {
	return s != SeatActive
}

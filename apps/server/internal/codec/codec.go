// Package codec encodes and decodes the line protocol spoken between the
// table and its seats.
//
// Server → client lines are either prefixed (`STATE|`, `INFO|`, `RESULT|`) or
// plain text (turn signals and informational lines). Client → server lines
// carry one command each: HIT, STAND or DISCONNECT, case-insensitive.
package codec

import (
	"fmt"
	"strings"

	"blackjack-lite/blackjack"
	"blackjack-lite/card"
)

// Kind is the prefix of an outbound line. KindPlain lines carry no prefix.
type Kind string

const (
	KindPlain  Kind = ""
	KindState  Kind = "STATE"
	KindInfo   Kind = "INFO"
	KindResult Kind = "RESULT"
)

const separator = "|"

// Turn signals, matched case-insensitively by clients.
const (
	YourTurn  = "Your turn"
	WaitTurn  = "Wait for your turn"
	Welcome   = "Welcome to Multiplayer Blackjack!"
	NotDealt  = "Game not started yet. Please wait."
	TableFull = "Table is full. Please try again later."
	GameEnded = "Game ended due to insufficient players. Waiting for new players..."
	Closing   = "Server is shutting down."
)

// Message is a decoded outbound line.
type Message struct {
	Kind Kind
	Text string
}

func (m Message) String() string {
	return Encode(m.Kind, m.Text)
}

// Encode builds one line without the trailing newline.
func Encode(kind Kind, text string) string {
	if kind == KindPlain {
		return text
	}
	return string(kind) + separator + text
}

func State(format string, args ...any) string {
	return Encode(KindState, fmt.Sprintf(format, args...))
}

func Info(format string, args ...any) string {
	return Encode(KindInfo, fmt.Sprintf(format, args...))
}

func Result(format string, args ...any) string {
	return Encode(KindResult, fmt.Sprintf(format, args...))
}

// Decode splits an outbound line into kind and text. Unknown prefixes are
// returned as plain text.
func Decode(line string) Message {
	line = strings.TrimRight(line, "\r\n")
	if i := strings.Index(line, separator); i > 0 {
		switch k := Kind(line[:i]); k {
		case KindState, KindInfo, KindResult:
			return Message{Kind: k, Text: line[i+1:]}
		}
	}
	return Message{Kind: KindPlain, Text: line}
}

// IsYourTurn matches the turn invitation the way clients do.
func IsYourTurn(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), YourTurn)
}

// Command is an inbound client command.
type Command byte

const (
	CommandUnknown    Command = 0
	CommandHit        Command = 1
	CommandStand      Command = 2
	CommandDisconnect Command = 3
)

var CommandDictionary = map[Command]string{
	CommandUnknown:    "UNKNOWN",
	CommandHit:        "HIT",
	CommandStand:      "STAND",
	CommandDisconnect: "DISCONNECT",
}

func (c Command) String() string {
	if s, ok := CommandDictionary[c]; ok {
		return s
	}
	return "UNKNOWN"
}

func ParseCommand(line string) Command {
	switch strings.ToUpper(strings.TrimSpace(line)) {
	case "HIT":
		return CommandHit
	case "STAND":
		return CommandStand
	case "DISCONNECT":
		return CommandDisconnect
	default:
		return CommandUnknown
	}
}

// --- Table lines ---

func DealerVisible(c card.Card) string {
	return State("Dealer's visible card: %s", c)
}

func DealerHand(visible card.Card) string {
	return State("Dealer's Hand: %s (visible card)", visible)
}

func YourHand(cards card.CardList) string {
	return State("Your Hand: %s", cards.Join())
}

func PlayerHand(seatID int, cards card.CardList) string {
	return State("Player %d's Hand: %s", seatID, cards.Join())
}

func DealerDrew(c card.Card) string {
	return State("Dealer drew: %s", c)
}

func DealerFinal(cards card.CardList, score int) string {
	return State("Dealer's final hand: %s (Value: %d)", cards, score)
}

func PlayerTurn(seatID int) string {
	return Info("Player %d's turn.", seatID)
}

func PlayerLeft(seatID int) string {
	return Info("Player %d has disconnected.", seatID)
}

// --- Seat lines ---

const (
	initialHandPrefix = "Your initial hand: "
	drewPrefix        = "You drew: "
	currentHandMarker = "Current hand: "
)

func InitialHand(cards card.CardList) string {
	return Encode(KindPlain, initialHandPrefix+cards.String())
}

func Drew(c card.Card, cards card.CardList) string {
	return Encode(KindPlain, fmt.Sprintf("%s%s. %s%s", drewPrefix, c, currentHandMarker, cards))
}

// HandOf reads a seat's own hand back from an initial-hand or drew line.
func HandOf(line string) (card.CardList, bool) {
	msg := Decode(line)
	if msg.Kind != KindPlain {
		return nil, false
	}
	text := msg.Text
	switch {
	case strings.HasPrefix(text, initialHandPrefix):
		text = strings.TrimPrefix(text, initialHandPrefix)
	case strings.HasPrefix(text, drewPrefix):
		i := strings.LastIndex(text, currentHandMarker)
		if i < 0 {
			return nil, false
		}
		text = text[i+len(currentHandMarker):]
	default:
		return nil, false
	}
	cards, err := card.ParseList(text)
	if err != nil {
		return nil, false
	}
	return cards, true
}

const (
	Busted   = "You are busted!"
	Stood    = "You chose to stand."
	TimedOut = "Turn timed out. You are standing by default."
)

// OutcomeText is the RESULT line for a resolved seat.
func OutcomeText(o blackjack.Outcome) string {
	switch o {
	case blackjack.OutcomeBusted:
		return Result("You lost! You're busted.")
	case blackjack.OutcomeWin:
		return Result("Congratulations! You win!")
	case blackjack.OutcomeTie:
		return Result("It's a tie!")
	default:
		return Result("You lost. Dealer wins.")
	}
}

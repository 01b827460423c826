package codec

import (
	"encoding/json"
	"testing"

	"blackjack-lite/blackjack"
	"blackjack-lite/card"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := map[string]Command{
		"HIT":          CommandHit,
		"hit":          CommandHit,
		"  Stand \r\n": CommandStand,
		"disconnect":   CommandDisconnect,
		"double":       CommandUnknown,
		"":             CommandUnknown,
	}
	for line, want := range tests {
		require.Equal(t, want, ParseCommand(line), "line %q", line)
	}
}

func TestDecode(t *testing.T) {
	require.Equal(t, Message{Kind: KindState, Text: "Your Hand: 2 of Clubs"}, Decode("STATE|Your Hand: 2 of Clubs\n"))
	require.Equal(t, Message{Kind: KindInfo, Text: "Player 2's turn."}, Decode(PlayerTurn(2)))
	require.Equal(t, Message{Kind: KindResult, Text: "It's a tie!"}, Decode(OutcomeText(blackjack.OutcomeTie)))
	require.Equal(t, Message{Kind: KindPlain, Text: "Your turn"}, Decode(YourTurn))
	require.Equal(t, Message{Kind: KindPlain, Text: "FOO|bar"}, Decode("FOO|bar"))
}

func TestIsYourTurn(t *testing.T) {
	require.True(t, IsYourTurn("your TURN"))
	require.False(t, IsYourTurn(WaitTurn))
}

func TestHandLines(t *testing.T) {
	hand := card.CardList{card.MustNew(card.RankAce, card.Spades), card.MustNew(card.RankTen, card.Hearts)}

	require.Equal(t, "STATE|Your Hand: Ace of Spades, 10 of Hearts", YourHand(hand))
	require.Equal(t, "STATE|Player 3's Hand: Ace of Spades, 10 of Hearts", PlayerHand(3, hand))
	require.Equal(t, "Your initial hand: [Ace of Spades, 10 of Hearts]", InitialHand(hand))
	require.Equal(t, "STATE|Dealer's final hand: [Ace of Spades, 10 of Hearts] (Value: 21)", DealerFinal(hand, 21))
	require.Equal(t, "STATE|Dealer's Hand: Ace of Spades (visible card)", DealerHand(hand[0]))
}

func TestHandOf(t *testing.T) {
	hand := card.CardList{card.MustNew(card.RankAce, card.Spades), card.MustNew(card.RankTen, card.Hearts)}

	got, ok := HandOf(InitialHand(hand))
	require.True(t, ok)
	require.Equal(t, hand, got)

	drawn := card.MustNew(card.Rank2, card.Clubs)
	got, ok = HandOf(Drew(drawn, append(hand.Clone(), drawn)))
	require.True(t, ok)
	require.Len(t, got, 3)
	require.Equal(t, drawn, got[2])

	for _, line := range []string{YourTurn, YourHand(hand), Info("Your initial hand: [Ace of Spades]"), "Your initial hand: [Joker]"} {
		_, ok := HandOf(line)
		require.False(t, ok, line)
	}
}

func TestOutcomeText(t *testing.T) {
	require.Equal(t, "RESULT|You lost! You're busted.", OutcomeText(blackjack.OutcomeBusted))
	require.Equal(t, "RESULT|Congratulations! You win!", OutcomeText(blackjack.OutcomeWin))
	require.Equal(t, "RESULT|It's a tie!", OutcomeText(blackjack.OutcomeTie))
	require.Equal(t, "RESULT|You lost. Dealer wins.", OutcomeText(blackjack.OutcomeDealerWins))
}

func TestMarshalSnapshotHidesHoleCard(t *testing.T) {
	snap := blackjack.Snapshot{
		TableID:       "t1",
		Round:         2,
		Phase:         blackjack.PhasePlayerTurns,
		InRound:       true,
		MaxPlayers:    3,
		DealerVisible: card.MustNew(card.RankKing, card.Clubs),
		Seats: []blackjack.SeatSnapshot{
			{ID: 1, Status: blackjack.SeatStood, Hand: []card.Card{card.MustNew(card.Rank9, card.Hearts)}, Score: 9},
		},
		ShoeRemaining: 300,
	}
	data, err := MarshalSnapshot(snap)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, "player_turns", out["phase"])
	require.Equal(t, "King of Clubs", out["dealer_visible"])
	require.NotContains(t, out, "dealer_hand")

	seats := out["seats"].([]any)
	require.Len(t, seats, 1)
	seat := seats[0].(map[string]any)
	require.Equal(t, "STOOD", seat["status"])
	require.Equal(t, float64(1), seat["id"])
	require.Equal(t, false, seat["blackjack"])
}

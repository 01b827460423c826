package codec

import (
	"blackjack-lite/blackjack"
	"blackjack-lite/card"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// SnapshotToProto converts a table snapshot to a protobuf Struct. The dealer's
// hole card is never included before it is revealed.
func SnapshotToProto(snap blackjack.Snapshot) (*structpb.Struct, error) {
	seats := make([]any, 0, len(snap.Seats))
	for _, s := range snap.Seats {
		seats = append(seats, map[string]any{
			"id":        s.ID,
			"status":    s.Status.String(),
			"hand":      cardsToAny(s.Hand),
			"score":     s.Score,
			"soft":      s.Soft,
			"blackjack": s.Blackjack,
		})
	}

	fields := map[string]any{
		"table_id":       snap.TableID,
		"round":          snap.Round,
		"phase":          snap.Phase.String(),
		"in_round":       snap.InRound,
		"max_players":    snap.MaxPlayers,
		"seats":          seats,
		"shoe_remaining": snap.ShoeRemaining,
	}
	if snap.DealerVisible != card.CardInvalid {
		fields["dealer_visible"] = snap.DealerVisible.String()
	}
	if len(snap.DealerHand) > 0 {
		fields["dealer_hand"] = cardsToAny(snap.DealerHand)
		fields["dealer_score"] = snap.DealerScore
	}
	return structpb.NewStruct(fields)
}

// MarshalSnapshot renders a snapshot as protobuf JSON.
func MarshalSnapshot(snap blackjack.Snapshot) ([]byte, error) {
	pb, err := SnapshotToProto(snap)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{UseProtoNames: true}.Marshal(pb)
}

func cardsToAny(cards []card.Card) []any {
	out := make([]any, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

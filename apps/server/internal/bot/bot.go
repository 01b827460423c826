// Package bot runs house players. A house player sits at the table over an
// in-process pipe and speaks the same line protocol as a remote client.
package bot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/blackjack"
	"blackjack-lite/card"

	"go.uber.org/zap"
)

// Brain picks the command for the player's own turn.
type Brain interface {
	Decide(hand card.CardList) codec.Command
	// Name returns a human-readable identifier for debugging.
	Name() string
}

// ThresholdBrain hits below StandOn and stands otherwise, like the dealer.
type ThresholdBrain struct {
	StandOn int
}

func (b ThresholdBrain) Name() string { return fmt.Sprintf("threshold-%d", b.StandOn) }

func (b ThresholdBrain) Decide(hand card.CardList) codec.Command {
	if blackjack.Score(hand) < b.StandOn {
		return codec.CommandHit
	}
	return codec.CommandStand
}

// Player reads table lines and answers every turn with its brain.
type Player struct {
	brain Brain
	log   *zap.Logger
}

func NewPlayer(brain Brain, logger *zap.Logger) *Player {
	return &Player{
		brain: brain,
		log:   logger.Named("bot").With(zap.String("brain", brain.Name())),
	}
}

// Play runs until conn closes or ctx is done.
func (p *Player) Play(ctx context.Context, conn net.Conn) error {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(conn)
	var hand card.CardList
	for scanner.Scan() {
		line := scanner.Text()
		if cards, ok := codec.HandOf(line); ok {
			hand = cards
			continue
		}
		if codec.IsYourTurn(line) {
			cmd := p.brain.Decide(hand)
			if _, err := io.WriteString(conn, codec.CommandDictionary[cmd]+"\n"); err != nil {
				return p.closed(ctx, err)
			}
			continue
		}
		if msg := codec.Decode(line); msg.Kind == codec.KindResult {
			p.log.Debug("round result", zap.String("result", msg.Text), zap.Int("score", blackjack.Score(hand)))
			hand = nil
		}
	}
	return p.closed(ctx, scanner.Err())
}

func (p *Player) closed(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

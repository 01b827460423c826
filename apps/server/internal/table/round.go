package table

import (
	"context"
	"fmt"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/blackjack"
	"blackjack-lite/card"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// playRound runs one deal → player turns → dealer turn → resolution → reset
// cycle. Any error aborts the round and goes straight to reset.
func (t *Table) playRound() {
	ctx, seats, shoe, round, ok := t.beginRound()
	if !ok {
		return
	}
	summary := RoundSummary{
		TableID: t.ID,
		Round:   round,
		RoundID: uuid.NewString(),
	}
	log := t.log.With(zap.Uint32("round", round), zap.String("round_id", summary.RoundID))
	log.Info("round started", zap.Int("seats", len(seats)))

	err := t.deal(ctx, seats, shoe)
	if err == nil {
		err = t.playerTurns(ctx, seats, shoe, log)
	}
	if err == nil {
		err = t.dealerTurn(ctx, shoe)
	}
	if err == nil {
		summary.Results = t.resolve(seats)
	}
	summary.DealerHand, summary.DealerScore = t.dealerHand()
	summary.Err = err

	if err != nil {
		log.Warn("round aborted", zap.Error(err))
	} else {
		log.Info("round finished", zap.Int("dealer_score", summary.DealerScore), zap.Int("results", len(summary.Results)))
	}

	t.reset()
	t.dispatchRoundEndHooks(summary)
}

func (t *Table) beginRound() (context.Context, []*Seat, *blackjack.Shoe, uint32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || len(t.seats) < t.cfg.MaxPlayers {
		return nil, nil, nil, 0, false
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancelRound = cancel
	t.inRound = true
	t.aborted = false
	t.round++
	t.phase = blackjack.PhaseDealing
	t.dealer.Reset()
	t.revealed = false

	seats := append([]*Seat(nil), t.seats...)
	for _, s := range seats {
		s.Reset()
		s.discardInput()
	}
	return ctx, seats, t.newShoe(t.cfg.Decks, t.rng), t.round, true
}

// checkRound reports whether the round can go on.
func (t *Table) checkRound(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTableClosed
	}
	if t.aborted || ctx.Err() != nil {
		return blackjack.ErrRoundAborted
	}
	return nil
}

func (t *Table) setPhase(p blackjack.Phase, shoe *blackjack.Shoe) {
	t.mu.Lock()
	t.phase = p
	if shoe != nil {
		t.shoeLeft = shoe.Remaining()
	}
	t.mu.Unlock()
}

func (t *Table) setTurn(s *Seat) {
	t.mu.Lock()
	t.turn = s
	t.mu.Unlock()
}

func (t *Table) seated(seat *Seat) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.seats {
		if s == seat {
			return true
		}
	}
	return false
}

func (t *Table) deal(ctx context.Context, seats []*Seat, shoe *blackjack.Shoe) error {
	for _, s := range seats {
		if err := s.DealInitial(shoe); err != nil {
			return fmt.Errorf("deal seat %d: %w", s.ID, err)
		}
	}

	t.mu.Lock()
	_, err := t.dealer.Draw(shoe, 2)
	var visible card.Card
	if t.dealer.Len() > 0 {
		visible = t.dealer.Cards()[0]
	}
	t.shoeLeft = shoe.Remaining()
	t.mu.Unlock()
	if err != nil {
		return fmt.Errorf("deal dealer: %w", err)
	}

	t.broadcast(codec.DealerVisible(visible))
	t.broadcastState()
	return t.checkRound(ctx)
}

// playerTurns runs every seat's turn in seat order, one at a time.
func (t *Table) playerTurns(ctx context.Context, seats []*Seat, shoe *blackjack.Shoe, log *zap.Logger) error {
	t.setPhase(blackjack.PhasePlayerTurns, shoe)

	for _, s := range seats {
		if err := t.checkRound(ctx); err != nil {
			return err
		}
		if s.Status().Done() || !t.seated(s) {
			continue
		}

		t.broadcast(codec.PlayerTurn(s.ID))
		t.broadcastExcept(s, codec.WaitTurn)

		t.setTurn(s)
		res := s.TakeTurn(ctx, shoe)
		t.setTurn(nil)
		log.Info("turn finished",
			zap.Int("seat", s.ID),
			zap.Stringer("status", res.Status),
			zap.Int("hits", res.Hits),
			zap.Int("score", blackjack.Score(s.Cards())))
		t.setPhase(blackjack.PhasePlayerTurns, shoe)

		if res.Err != nil && ctx.Err() == nil {
			return fmt.Errorf("seat %d turn: %w", s.ID, res.Err)
		}
		if err := t.checkRound(ctx); err != nil {
			return err
		}
		t.broadcastState()
	}
	return t.checkRound(ctx)
}

// dealerTurn draws for the dealer until the hand reaches the stand threshold.
func (t *Table) dealerTurn(ctx context.Context, shoe *blackjack.Shoe) error {
	t.mu.Lock()
	t.phase = blackjack.PhaseDealerTurn
	t.revealed = true
	t.mu.Unlock()

	t.broadcast(codec.Info("Dealer's turn..."))
	for {
		if err := t.checkRound(ctx); err != nil {
			return err
		}
		t.mu.Lock()
		hits := t.cfg.DealerHits(&t.dealer)
		t.mu.Unlock()
		if !hits {
			break
		}

		c, err := shoe.Draw()
		if err != nil {
			return fmt.Errorf("dealer draw: %w", err)
		}
		t.mu.Lock()
		t.dealer.Add(c)
		t.shoeLeft = shoe.Remaining()
		t.mu.Unlock()
		t.broadcast(codec.DealerDrew(c))
	}

	cards, score := t.dealerHand()
	t.broadcast(codec.DealerFinal(cards, score))
	return t.checkRound(ctx)
}

func (t *Table) dealerHand() (card.CardList, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dealer.Cards(), t.dealer.Score()
}

// resolve compares every seat of the round with the dealer. Seats that left
// are scored as a stand on the hand they had but receive nothing.
func (t *Table) resolve(seats []*Seat) []SeatResult {
	t.setPhase(blackjack.PhaseResolution, nil)
	_, dealerScore := t.dealerHand()

	results := make([]SeatResult, 0, len(seats))
	for _, s := range seats {
		snap := s.Snapshot()
		outcome := blackjack.Resolve(snap.Score, snap.Status == blackjack.SeatBusted, dealerScore)
		delivered := t.seated(s)
		if delivered {
			s.Send(codec.OutcomeText(outcome))
		}
		results = append(results, SeatResult{
			SeatID:    s.ID,
			Status:    snap.Status,
			Hand:      snap.Hand,
			Score:     snap.Score,
			Outcome:   outcome,
			Delivered: delivered,
		})
	}
	return results
}

func (t *Table) reset() {
	t.mu.Lock()
	t.phase = blackjack.PhaseReset
	t.dealer.Reset()
	t.revealed = false
	t.shoeLeft = 0
	seats := append([]*Seat(nil), t.seats...)
	for _, s := range seats {
		s.Reset()
	}
	if t.cancelRound != nil {
		t.cancelRound()
		t.cancelRound = nil
	}
	t.inRound = false
	t.aborted = false
	t.turn = nil
	t.phase = blackjack.PhaseLobby
	t.mu.Unlock()
}

// --- Broadcast helpers ---

func (t *Table) seatList() []*Seat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Seat(nil), t.seats...)
}

func (t *Table) broadcast(line string) {
	for _, s := range t.seatList() {
		s.Send(line)
	}
}

func (t *Table) broadcastExcept(skip *Seat, line string) {
	for _, s := range t.seatList() {
		if s != skip {
			s.Send(line)
		}
	}
}

// broadcastState sends every seat the dealer's visible card, its own hand and
// the hands of the other seats.
func (t *Table) broadcastState() {
	t.mu.Lock()
	if t.dealer.Len() == 0 {
		t.mu.Unlock()
		return
	}
	visible := t.dealer.Cards()[0]
	seats := append([]*Seat(nil), t.seats...)
	t.mu.Unlock()

	hands := make([]card.CardList, len(seats))
	for i, s := range seats {
		hands[i] = s.Cards()
	}
	for i, s := range seats {
		s.Send(codec.DealerHand(visible))
		s.Send(codec.YourHand(hands[i]))
		for j, other := range seats {
			if i != j {
				s.Send(codec.PlayerHand(other.ID, hands[j]))
			}
		}
	}
}

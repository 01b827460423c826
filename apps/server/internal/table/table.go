package table

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/blackjack"
	"blackjack-lite/card"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTableFull   = errors.New("table is full")
	ErrTableClosed = errors.New("table closed")
)

// Table is the shared game session: the seat list, the shoe and the dealer
// hand. Seat list mutations happen under mu; the shoe is only touched by the
// round driver goroutine (and by the seat whose turn it is while the driver
// waits on it).
type Table struct {
	ID  string
	cfg blackjack.Config
	log *zap.Logger
	rng *rand.Rand
	ids *SeatCounter

	// newShoe builds the shoe for each round.
	newShoe func(decks int, rng *rand.Rand) *blackjack.Shoe

	mu          sync.Mutex
	seats       []*Seat
	phase       blackjack.Phase
	round       uint32
	inRound     bool
	aborted     bool
	cancelRound context.CancelFunc
	turn        *Seat
	dealer      blackjack.Hand
	revealed    bool
	shoeLeft    int
	closed      bool

	hooks []RoundEndHook

	start    chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// SeatResult is how one seat finished a round.
type SeatResult struct {
	SeatID  int
	Status  blackjack.SeatStatus
	Hand    []card.Card
	Score   int
	Outcome blackjack.Outcome
	// Delivered is false when the seat left before the result was sent.
	Delivered bool
}

// RoundSummary is emitted after every round, completed or aborted.
type RoundSummary struct {
	TableID     string
	Round       uint32
	RoundID     string
	DealerHand  []card.Card
	DealerScore int
	Results     []SeatResult
	Err         error
}

func (r RoundSummary) Aborted() bool { return r.Err != nil }

// Result returns the result of a seat by id.
func (r RoundSummary) Result(seatID int) (SeatResult, bool) {
	for _, res := range r.Results {
		if res.SeatID == seatID {
			return res, true
		}
	}
	return SeatResult{}, false
}

// RoundEndHook is a post-round callback.
type RoundEndHook func(summary RoundSummary)

// New creates a table and starts its round driver. An optional counter
// controls seat ids; by default ids start at 1.
func New(cfg blackjack.Config, logger *zap.Logger, ids ...*SeatCounter) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	id := uuid.NewString()
	t := &Table{
		ID:    id,
		cfg:   cfg,
		log:   logger.Named("table").With(zap.String("table_id", id)),
		rng:     rand.New(rand.NewSource(seed)),
		ids:     NewSeatCounter(1),
		newShoe: blackjack.NewShoe,
		phase:   blackjack.PhaseLobby,
		start:   make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	if len(ids) > 0 && ids[0] != nil {
		t.ids = ids[0]
	}

	go t.run()

	t.log.Info("table created",
		zap.Int("max_players", cfg.MaxPlayers),
		zap.Int("decks", cfg.Decks),
		zap.Int("dealer_stands_on", cfg.DealerStandsOn),
		zap.Duration("turn_timeout", cfg.TurnTimeout))
	return t, nil
}

// Config returns the table settings.
func (t *Table) Config() blackjack.Config {
	return t.cfg
}

// Join seats a connection. It fails with ErrTableFull when every seat is
// taken; the caller owns the rejected connection.
func (t *Table) Join(conn Conn) (*Seat, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrTableClosed
	}
	if len(t.seats) >= t.cfg.MaxPlayers {
		t.mu.Unlock()
		return nil, ErrTableFull
	}
	seat := newSeat(t.ids.Next(), conn, t.cfg.TurnTimeout, t.log)
	t.seats = append(t.seats, seat)
	count := len(t.seats)
	full := count == t.cfg.MaxPlayers && !t.inRound

	seat.Send(codec.Welcome)
	t.syncSeatLocked(seat)
	t.mu.Unlock()

	seat.start(t.leave)
	seat.log.Info("seat joined", zap.Int("seats", count), zap.Int("max_players", t.cfg.MaxPlayers))

	if full {
		t.log.Info("all seats taken, starting round")
		t.signalStart()
	}
	return seat, nil
}

// syncSeatLocked replays the current table state to a new seat.
func (t *Table) syncSeatLocked(seat *Seat) {
	if !t.inRound || t.dealer.Len() == 0 {
		seat.Send(codec.Info(codec.NotDealt))
		return
	}
	seat.Send(codec.DealerHand(t.dealer.Cards()[0]))
	for _, s := range t.seats {
		seat.Send(codec.PlayerHand(s.ID, s.Cards()))
	}
}

// leave removes a seat once its connection is gone.
func (t *Table) leave(seat *Seat) {
	t.mu.Lock()
	idx := -1
	for i, s := range t.seats {
		if s == seat {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		seat.Close()
		return
	}
	t.seats = append(t.seats[:idx], t.seats[idx+1:]...)
	remaining := len(t.seats)
	short := remaining < t.cfg.MinPlayers
	inRound := t.inRound
	// The driver rebroadcasts the state once the holder's turn returns.
	holdsTurn := t.turn == seat
	if short && inRound && !t.aborted {
		t.aborted = true
		if t.cancelRound != nil {
			t.cancelRound()
		}
	}
	t.mu.Unlock()

	seat.Close()
	seat.log.Info("seat left", zap.Int("seats", remaining), zap.Bool("in_round", inRound))

	t.broadcast(codec.PlayerLeft(seat.ID))
	if short {
		t.log.Info("not enough players to continue", zap.Int("seats", remaining))
		t.broadcast(codec.Info(codec.GameEnded))
		return
	}
	if inRound && !holdsTurn {
		t.broadcastState()
	}
}

func (t *Table) signalStart() {
	select {
	case t.start <- struct{}{}:
	default:
	}
}

// run is the round driver. Rounds repeat while every seat is taken.
func (t *Table) run() {
	for {
		select {
		case <-t.start:
		case <-t.done:
			t.log.Info("round driver stopped")
			return
		}
		for t.ready() {
			t.playRound()
		}
		if !t.isClosed() {
			t.log.Info("waiting for more players", zap.Int("seats", t.SeatCount()))
		}
	}
}

func (t *Table) ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && len(t.seats) == t.cfg.MaxPlayers
}

func (t *Table) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// SeatCount returns the number of seated players.
func (t *Table) SeatCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seats)
}

// Snapshot returns the current table state (thread-safe).
func (t *Table) Snapshot() blackjack.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := blackjack.Snapshot{
		TableID:       t.ID,
		Round:         t.round,
		Phase:         t.phase,
		InRound:       t.inRound,
		MaxPlayers:    t.cfg.MaxPlayers,
		ShoeRemaining: t.shoeLeft,
	}
	if t.dealer.Len() > 0 {
		cards := t.dealer.Cards()
		snap.DealerVisible = cards[0]
		if t.revealed {
			snap.DealerHand = cards
			snap.DealerScore = t.dealer.Score()
		}
	}
	for _, s := range t.seats {
		snap.Seats = append(snap.Seats, s.Snapshot())
	}
	return snap
}

// AddRoundEndHook registers a post-round callback.
func (t *Table) AddRoundEndHook(hook RoundEndHook) {
	if hook == nil {
		return
	}
	t.mu.Lock()
	t.hooks = append(t.hooks, hook)
	t.mu.Unlock()
}

func (t *Table) dispatchRoundEndHooks(summary RoundSummary) {
	t.mu.Lock()
	hooks := append([]RoundEndHook(nil), t.hooks...)
	t.mu.Unlock()

	for _, hook := range hooks {
		go func(cb RoundEndHook) {
			defer func() {
				if r := recover(); r != nil {
					t.log.Error("round end hook panic", zap.Any("panic", r))
				}
			}()
			cb(summary)
		}(hook)
	}
}

// Stop closes every seat and shuts down the round driver.
func (t *Table) Stop() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	seats := append([]*Seat(nil), t.seats...)
	if t.cancelRound != nil {
		t.cancelRound()
	}
	t.mu.Unlock()

	t.stopOnce.Do(func() {
		close(t.done)
	})
	for _, s := range seats {
		s.Close()
	}
	t.log.Info("table stopped")
}

package table

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/blackjack"
	"blackjack-lite/card"

	"go.uber.org/zap"
)

// Conn is the line transport behind a seat. Lines exclude the newline.
type Conn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

const (
	sendQueueSize  = 256
	inputQueueSize = 64
)

// Seat is one connected player. It owns its hand and status; the table's
// round driver hands it a turn through TakeTurn and blocks until the seat
// worker replies.
type Seat struct {
	ID int

	conn        Conn
	log         *zap.Logger
	turnTimeout time.Duration

	mu     sync.RWMutex
	hand   blackjack.Hand
	status blackjack.SeatStatus

	send   chan string
	lines  chan string
	turns  chan turnRequest
	gone   chan struct{} // connection lost or DISCONNECT received
	quit   chan struct{} // seat closed
	exited chan struct{} // seat worker returned

	goneOnce  sync.Once
	closeOnce sync.Once
}

type turnRequest struct {
	ctx   context.Context
	shoe  *blackjack.Shoe
	reply chan TurnResult
}

// TurnResult is the seat's status once its turn is over.
type TurnResult struct {
	Status blackjack.SeatStatus
	Hits   int
	Err    error
}

func newSeat(id int, conn Conn, turnTimeout time.Duration, logger *zap.Logger) *Seat {
	return &Seat{
		ID:          id,
		conn:        conn,
		log:         logger.With(zap.Int("seat", id), zap.String("remote", conn.RemoteAddr())),
		turnTimeout: turnTimeout,
		status:      blackjack.SeatActive,
		send:        make(chan string, sendQueueSize),
		lines:       make(chan string, inputQueueSize),
		turns:       make(chan turnRequest),
		gone:        make(chan struct{}),
		quit:        make(chan struct{}),
		exited:      make(chan struct{}),
	}
}

func (s *Seat) start(onGone func(*Seat)) {
	go s.readPump()
	go s.writePump()
	go s.serve(onGone)
}

// Send queues one line for the client. A seat whose queue is full is
// considered lost and its connection is closed. readPump treats a full input
// queue the same way.
func (s *Seat) Send(line string) {
	select {
	case <-s.quit:
		return
	default:
	}
	select {
	case s.send <- line:
	default:
		s.log.Warn("send queue full, dropping seat")
		_ = s.conn.Close()
	}
}

// Close releases the connection. Safe to call more than once.
func (s *Seat) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		_ = s.conn.Close()
	})
}

func (s *Seat) Status() blackjack.SeatStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Seat) setStatus(st blackjack.SeatStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// Cards returns a copy of the seat's hand.
func (s *Seat) Cards() card.CardList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hand.Cards()
}

func (s *Seat) Snapshot() blackjack.SeatSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cards := s.hand.Cards()
	return blackjack.SeatSnapshot{
		ID:        s.ID,
		Status:    s.status,
		Hand:      cards,
		Score:     blackjack.Score(cards),
		Soft:      blackjack.IsSoft(cards),
		Blackjack: blackjack.IsBlackjack(cards),
	}
}

// Reset clears the hand and makes the seat active again.
func (s *Seat) Reset() {
	s.mu.Lock()
	s.hand.Reset()
	s.status = blackjack.SeatActive
	s.mu.Unlock()
}

// DealInitial draws the seat's two starting cards.
func (s *Seat) DealInitial(shoe *blackjack.Shoe) error {
	s.mu.Lock()
	_, err := s.hand.Draw(shoe, 2)
	cards := s.hand.Cards()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.Send(codec.InitialHand(cards))
	return nil
}

// TakeTurn hands the turn to the seat worker and waits for it to finish.
func (s *Seat) TakeTurn(ctx context.Context, shoe *blackjack.Shoe) TurnResult {
	req := turnRequest{ctx: ctx, shoe: shoe, reply: make(chan TurnResult, 1)}
	select {
	case s.turns <- req:
	case <-s.exited:
		return TurnResult{Status: blackjack.SeatDisconnected}
	case <-ctx.Done():
		return TurnResult{Status: s.Status(), Err: ctx.Err()}
	}
	return <-req.reply
}

func (s *Seat) discardInput() {
	for {
		select {
		case <-s.lines:
		default:
			return
		}
	}
}

func (s *Seat) addCard(c card.Card) (card.CardList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hand.Add(c)
	return s.hand.Cards(), s.hand.Busted()
}

func (s *Seat) serve(onGone func(*Seat)) {
	defer close(s.exited)
	for {
		select {
		case req := <-s.turns:
			res := s.playTurn(req)
			if res.Status == blackjack.SeatDisconnected {
				onGone(s)
				req.reply <- res
				return
			}
			req.reply <- res
		case <-s.gone:
			s.setStatus(blackjack.SeatDisconnected)
			onGone(s)
			return
		}
	}
}

func (s *Seat) playTurn(req turnRequest) TurnResult {
	var res TurnResult
	var timeout <-chan time.Time
	if s.turnTimeout > 0 {
		timer := time.NewTimer(s.turnTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for s.Status() == blackjack.SeatActive {
		s.Send(codec.YourTurn)
		select {
		case line := <-s.lines:
			switch codec.ParseCommand(line) {
			case codec.CommandHit:
				c, err := req.shoe.Draw()
				if err != nil {
					res.Status = s.Status()
					res.Err = err
					return res
				}
				res.Hits++
				cards, busted := s.addCard(c)
				s.Send(codec.Drew(c, cards))
				if busted {
					s.Send(codec.Busted)
					s.setStatus(blackjack.SeatBusted)
				}
			case codec.CommandStand:
				s.Send(codec.Stood)
				s.setStatus(blackjack.SeatStood)
			default:
				s.log.Debug("ignoring turn input", zap.String("input", line))
			}
		case <-s.gone:
			s.setStatus(blackjack.SeatDisconnected)
		case <-timeout:
			s.log.Info("turn timed out", zap.Duration("timeout", s.turnTimeout))
			s.Send(codec.Info(codec.TimedOut))
			s.setStatus(blackjack.SeatStood)
		case <-req.ctx.Done():
			res.Status = s.Status()
			res.Err = req.ctx.Err()
			return res
		}
	}
	res.Status = s.Status()
	return res
}

func (s *Seat) readPump() {
	defer s.goneOnce.Do(func() { close(s.gone) })

	for {
		line, err := s.conn.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.log.Debug("read failed", zap.Error(err))
			}
			return
		}
		if codec.ParseCommand(line) == codec.CommandDisconnect {
			s.log.Info("seat requested disconnect")
			return
		}
		select {
		case <-s.quit:
			return
		default:
		}
		select {
		case s.lines <- line:
		default:
			s.log.Warn("input queue full, dropping seat", zap.Int("queued", inputQueueSize))
			_ = s.conn.Close()
			return
		}
	}
}

func (s *Seat) writePump() {
	for {
		select {
		case line := <-s.send:
			if err := s.conn.WriteLine(line); err != nil {
				s.log.Debug("write failed", zap.Error(err))
				_ = s.conn.Close()
				return
			}
		case <-s.quit:
			return
		}
	}
}

// Package ledger keeps the most recent round summaries in memory for
// operators. Nothing is written to disk.
package ledger

import (
	"errors"
	"sync"
	"time"

	"blackjack-lite/apps/server/internal/table"
	"blackjack-lite/card"
)

const DefaultRecentLimit = 200

var ErrNotFound = errors.New("not found")

type Service interface {
	Record(summary table.RoundSummary)
	ListRecent(limit int) []HistoryItem
	Get(roundID string) (HistoryItem, error)
}

type HistoryItem struct {
	RoundID     string     `json:"round_id"`
	TableID     string     `json:"table_id"`
	Round       uint32     `json:"round"`
	PlayedAt    time.Time  `json:"played_at"`
	Aborted     bool       `json:"aborted"`
	Reason      string     `json:"reason,omitempty"`
	DealerHand  []string   `json:"dealer_hand"`
	DealerScore int        `json:"dealer_score"`
	Seats       []SeatItem `json:"seats"`
}

type SeatItem struct {
	SeatID    int      `json:"seat_id"`
	Status    string   `json:"status"`
	Hand      []string `json:"hand"`
	Score     int      `json:"score"`
	Outcome   string   `json:"outcome"`
	Delivered bool     `json:"delivered"`
}

type noopService struct{}

func (noopService) Record(table.RoundSummary) {}

func (noopService) ListRecent(int) []HistoryItem { return []HistoryItem{} }

func (noopService) Get(string) (HistoryItem, error) { return HistoryItem{}, ErrNotFound }

// MemoryService is a bounded ring of round summaries, newest last.
type MemoryService struct {
	mu    sync.RWMutex
	items []HistoryItem
	limit int
	now   func() time.Time
}

// NewService returns a ledger holding up to limit rounds. A limit of zero or
// less disables recording.
func NewService(limit int) Service {
	if limit <= 0 {
		return noopService{}
	}
	return &MemoryService{limit: limit, now: time.Now}
}

func (s *MemoryService) Record(summary table.RoundSummary) {
	item := HistoryItem{
		RoundID:     summary.RoundID,
		TableID:     summary.TableID,
		Round:       summary.Round,
		PlayedAt:    s.now().UTC(),
		Aborted:     summary.Aborted(),
		DealerHand:  cardNames(summary.DealerHand),
		DealerScore: summary.DealerScore,
		Seats:       make([]SeatItem, 0, len(summary.Results)),
	}
	if summary.Err != nil {
		item.Reason = summary.Err.Error()
	}
	for _, res := range summary.Results {
		item.Seats = append(item.Seats, SeatItem{
			SeatID:    res.SeatID,
			Status:    res.Status.String(),
			Hand:      cardNames(res.Hand),
			Score:     res.Score,
			Outcome:   res.Outcome.String(),
			Delivered: res.Delivered,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	if over := len(s.items) - s.limit; over > 0 {
		s.items = append(s.items[:0], s.items[over:]...)
	}
}

// ListRecent returns up to limit rounds, newest first.
func (s *MemoryService) ListRecent(limit int) []HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.items) {
		limit = len(s.items)
	}
	out := make([]HistoryItem, 0, limit)
	for i := len(s.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.items[i])
	}
	return out
}

func (s *MemoryService) Get(roundID string) (HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].RoundID == roundID {
			return s.items[i], nil
		}
	}
	return HistoryItem{}, ErrNotFound
}

func cardNames(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

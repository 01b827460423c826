package table

import "sync"

// SeatCounter hands out seat ids. Ids increase monotonically and are never
// reused, even after a seat leaves.
type SeatCounter struct {
	mu   sync.Mutex
	next int
}

// NewSeatCounter returns a counter whose first id is first.
func NewSeatCounter(first int) *SeatCounter {
	return &SeatCounter{next: first}
}

func (c *SeatCounter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	return id
}

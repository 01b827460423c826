package blackjack

import (
	"fmt"
	"time"
)

const (
	DefaultMaxPlayers     = 3
	DefaultMinPlayers     = 2
	DefaultDecks          = 6
	DefaultDealerStandsOn = 17
)

type Config struct {
	// Table
	MaxPlayers int
	MinPlayers int

	// Shoe
	Decks int

	// Dealer draws while the hand scores below this value.
	DealerStandsOn int

	// Optional: turn timeout (0 disables it)
	TurnTimeout time.Duration

	// RNG seed (0 => time-based)
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		MaxPlayers:     DefaultMaxPlayers,
		MinPlayers:     DefaultMinPlayers,
		Decks:          DefaultDecks,
		DealerStandsOn: DefaultDealerStandsOn,
	}
}

func (c Config) Validate() error {
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("MaxPlayers must be > 0")
	}
	if c.MinPlayers <= 0 {
		return fmt.Errorf("MinPlayers must be > 0")
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("MinPlayers must be <= MaxPlayers")
	}
	if c.Decks <= 0 {
		return fmt.Errorf("Decks must be > 0")
	}
	if c.DealerStandsOn < 2 || c.DealerStandsOn > BustLimit {
		return fmt.Errorf("invalid dealer threshold: %d", c.DealerStandsOn)
	}
	if c.TurnTimeout < 0 {
		return fmt.Errorf("TurnTimeout must be >= 0")
	}
	return nil
}

// DealerHits reports whether the dealer must draw on the given cards.
func (c Config) DealerHits(h *Hand) bool {
	return h.Score() < c.DealerStandsOn
}

package room

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

// Config is the per-room tuning supplied by the host at creation time.
type Config struct {
	Name            string
	WorldWidth      float64
	WorldHeight     float64
	SpawnRadius     float64
	MaxPlayers      int
	InactiveTimeout time.Duration
	// TickRate is ticks per second for the domain tick hook. Zero disables
	// the tick job; the inactivity sweep runs regardless.
	TickRate int
}

// DefaultConfig mirrors the tuning of the original deployment.
func DefaultConfig() Config {
	return Config{
		Name:            "room",
		WorldWidth:      1600,
		WorldHeight:     1200,
		SpawnRadius:     200,
		MaxPlayers:      20,
		InactiveTimeout: 5 * time.Minute,
		TickRate:        20,
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	if c.WorldWidth <= 0 {
		el.Add(fmt.Errorf("world width must be positive, got %v", c.WorldWidth))
	}
	if c.WorldHeight <= 0 {
		el.Add(fmt.Errorf("world height must be positive, got %v", c.WorldHeight))
	}
	if c.SpawnRadius < 0 {
		el.Add(fmt.Errorf("spawn radius must not be negative, got %v", c.SpawnRadius))
	}
	if c.MaxPlayers < 1 {
		el.Add(fmt.Errorf("max players must be at least 1, got %d", c.MaxPlayers))
	}
	if c.InactiveTimeout <= 0 {
		el.Add(fmt.Errorf("inactive timeout must be positive, got %v", c.InactiveTimeout))
	}
	if c.TickRate < 0 {
		el.Add(fmt.Errorf("tick rate must not be negative, got %d", c.TickRate))
	}

	return el.Err()
}

// Bounds derives the immutable world bounds for this configuration.
func (c Config) Bounds() WorldBounds {
	return WorldBounds{MinX: 0, MinY: 0, MaxX: c.WorldWidth, MaxY: c.WorldHeight}
}

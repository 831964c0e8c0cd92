package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-errors"

	"philoworld/server/internal/room"
)

// Config is the host configuration, populated from the environment.
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	LogFile  string `env:"LOG_FILE"`
	LogDebug bool   `env:"LOG_DEBUG"`

	// Lifecycle collaborators; each is enabled by a non-empty value.
	NATSURL   string `env:"NATS_URL"`
	SQLiteDSN string `env:"BOOKKEEPING_DSN"`

	// Room tuning applied to every room this host creates.
	WorldWidth      float64       `env:"WORLD_WIDTH" envDefault:"1600"`
	WorldHeight     float64       `env:"WORLD_HEIGHT" envDefault:"1200"`
	SpawnRadius     float64       `env:"SPAWN_RADIUS" envDefault:"200"`
	MaxPlayers      int           `env:"MAX_PLAYERS" envDefault:"10"`
	InactiveTimeout time.Duration `env:"INACTIVE_TIMEOUT" envDefault:"5m"`
	TickRate        int           `env:"TICK_RATE" envDefault:"20"`

	// ShutdownGrace is how long in-flight sessions get during shutdown.
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE" envDefault:"5s"`
}

// ParseConfig loads and validates the host configuration.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	el := errors.NewErrorList()

	if c.Addr == "" {
		el.Add(fmt.Errorf("listen address is required"))
	}
	if c.ShutdownGrace < 0 {
		el.Add(fmt.Errorf("shutdown grace must not be negative, got %v", c.ShutdownGrace))
	}
	if err := c.RoomConfig().Validate(); err != nil {
		el.Add(err)
	}

	return el.Err()
}

// RoomConfig derives the per-room tuning from the host configuration.
func (c Config) RoomConfig() room.Config {
	cfg := room.DefaultConfig()
	cfg.WorldWidth = c.WorldWidth
	cfg.WorldHeight = c.WorldHeight
	cfg.SpawnRadius = c.SpawnRadius
	cfg.MaxPlayers = c.MaxPlayers
	cfg.InactiveTimeout = c.InactiveTimeout
	cfg.TickRate = c.TickRate
	return cfg
}

package app

import (
	"testing"
	"time"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected default address %q", cfg.Addr)
	}
	if cfg.InactiveTimeout != 5*time.Minute {
		t.Fatalf("unexpected default inactive timeout %v", cfg.InactiveTimeout)
	}
	if cfg.ShutdownGrace != 5*time.Second {
		t.Fatalf("unexpected default shutdown grace %v", cfg.ShutdownGrace)
	}
	if cfg.NATSURL != "" || cfg.SQLiteDSN != "" {
		t.Fatalf("lifecycle collaborators must be off by default")
	}
}

func TestParseConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("MAX_PLAYERS", "4")
	t.Setenv("INACTIVE_TIMEOUT", "90s")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.MaxPlayers != 4 {
		t.Fatalf("environment overrides not applied: %+v", cfg)
	}
	if cfg.InactiveTimeout != 90*time.Second {
		t.Fatalf("duration not parsed: %v", cfg.InactiveTimeout)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Fatalf("NATS url not read: %q", cfg.NATSURL)
	}
}

func TestParseConfig_RejectsBadRoomTuning(t *testing.T) {
	t.Setenv("MAX_PLAYERS", "0")
	t.Setenv("WORLD_WIDTH", "-5")

	if _, err := ParseConfig(); err == nil {
		t.Fatalf("expected validation to fail")
	}
}

func TestConfig_RoomConfigCarriesTuning(t *testing.T) {
	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	rc := cfg.RoomConfig()
	if rc.WorldWidth != cfg.WorldWidth || rc.WorldHeight != cfg.WorldHeight {
		t.Fatalf("world bounds not carried over: %+v", rc)
	}
	if rc.MaxPlayers != cfg.MaxPlayers || rc.TickRate != cfg.TickRate {
		t.Fatalf("tuning not carried over: %+v", rc)
	}
	if err := rc.Validate(); err != nil {
		t.Fatalf("derived room config must be valid: %v", err)
	}
}

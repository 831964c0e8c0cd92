package room

import (
	"fmt"
	"testing"
	"time"
)

func newTestPlayer(id string) *Player {
	return &Player{
		SessionID:  id,
		Name:       "player-" + id,
		X:          100,
		Y:          100,
		Direction:  DirectionFront,
		LastUpdate: time.Now(),
	}
}

func TestState_AddPlayerEnforcesCapacity(t *testing.T) {
	s := NewState("test", 2)

	if !s.AddPlayer(newTestPlayer("a")) {
		t.Fatalf("expected first join to succeed")
	}
	if !s.AddPlayer(newTestPlayer("b")) {
		t.Fatalf("expected second join to succeed")
	}

	before := s.LastActivity
	if s.AddPlayer(newTestPlayer("c")) {
		t.Fatalf("expected join beyond capacity to fail")
	}
	if s.PlayerCount() != 2 {
		t.Fatalf("expected 2 players after rejected join, got %d", s.PlayerCount())
	}
	if !s.LastActivity.Equal(before) {
		t.Fatalf("rejected join must not touch lastActivity")
	}
}

func TestState_CapacityHoldsUnderJoinSequences(t *testing.T) {
	s := NewState("test", 5)
	for i := 0; i < 50; i++ {
		s.AddPlayer(newTestPlayer(fmt.Sprintf("p%d", i)))
		if s.PlayerCount() > s.MaxPlayers {
			t.Fatalf("player count %d exceeded cap %d", s.PlayerCount(), s.MaxPlayers)
		}
	}
	if s.PlayerCount() != 5 {
		t.Fatalf("expected exactly 5 players, got %d", s.PlayerCount())
	}
}

func TestState_RemovePlayerIsIdempotent(t *testing.T) {
	s := NewState("test", 4)
	s.AddPlayer(newTestPlayer("a"))

	if !s.RemovePlayer("a") {
		t.Fatalf("expected first removal to report true")
	}
	if s.RemovePlayer("a") {
		t.Fatalf("expected second removal to report false")
	}
	if s.RemovePlayer("never-joined") {
		t.Fatalf("expected removal of unknown session to report false")
	}
	if s.PlayerCount() != 0 {
		t.Fatalf("expected empty room, got %d players", s.PlayerCount())
	}
}

func TestState_ActivityIsMonotone(t *testing.T) {
	s := NewState("test", 4)
	previous := s.LastActivity
	for i := 0; i < 5; i++ {
		s.UpdateActivity()
		if s.LastActivity.Before(previous) {
			t.Fatalf("lastActivity went backwards: %v -> %v", previous, s.LastActivity)
		}
		previous = s.LastActivity
	}
}

func TestParseDirection(t *testing.T) {
	for _, valid := range []string{"front", "back", "left", "right"} {
		if _, ok := ParseDirection(valid); !ok {
			t.Fatalf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "up", "FRONT", "north"} {
		if _, ok := ParseDirection(invalid); ok {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}

func TestWorldBounds_Contains(t *testing.T) {
	b := WorldBounds{MinX: 0, MinY: 0, MaxX: 1600, MaxY: 1200}

	cases := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{1600, 1200, true},
		{800, 600, true},
		{-5, 100, false},
		{100, -1, false},
		{1601, 600, false},
		{800, 1200.5, false},
	}
	for _, tc := range cases {
		if got := b.Contains(tc.x, tc.y); got != tc.want {
			t.Fatalf("Contains(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

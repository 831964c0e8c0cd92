package room

import "time"

// Direction enumerates the facings a player sprite can hold.
type Direction string

const (
	DirectionFront Direction = "front"
	DirectionBack  Direction = "back"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection validates a wire direction string.
func ParseDirection(raw string) (Direction, bool) {
	switch Direction(raw) {
	case DirectionFront, DirectionBack, DirectionLeft, DirectionRight:
		return Direction(raw), true
	default:
		return "", false
	}
}

// Player is the replicated entity for one connected participant. It is
// created when a join is accepted and mutated only through accepted
// messages on the owning room's event loop.
type Player struct {
	SessionID  string            `json:"sessionId"`
	Name       string            `json:"name"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Direction  Direction         `json:"direction"`
	IsMoving   bool              `json:"isMoving"`
	Avatar     string            `json:"avatar,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	LastUpdate time.Time         `json:"-"`
}

// WorldBounds is derived once at room creation and immutable afterwards.
type WorldBounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Contains reports whether the point lies inside the bounds, edges included.
func (b WorldBounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// State is the authoritative, replicated aggregate for one room. It is
// exclusively owned by the room's event loop; no locking, no sharing.
type State struct {
	RoomName     string
	MaxPlayers   int
	Players      map[string]*Player
	CreatedAt    time.Time
	LastActivity time.Time
	IsActive     bool
}

// NewState builds an empty aggregate for a room.
func NewState(roomName string, maxPlayers int) *State {
	now := time.Now()
	return &State{
		RoomName:     roomName,
		MaxPlayers:   maxPlayers,
		Players:      make(map[string]*Player),
		CreatedAt:    now,
		LastActivity: now,
		IsActive:     true,
	}
}

// AddPlayer inserts a player unless the room is at capacity. A full room
// returns false with no side effects at all, not even an activity touch.
func (s *State) AddPlayer(p *Player) bool {
	if len(s.Players) >= s.MaxPlayers {
		return false
	}
	s.Players[p.SessionID] = p
	s.UpdateActivity()
	return true
}

// RemovePlayer deletes the entry if present. Removing an absent session is
// an idempotent no-op that returns false.
func (s *State) RemovePlayer(sessionID string) bool {
	if _, ok := s.Players[sessionID]; !ok {
		return false
	}
	delete(s.Players, sessionID)
	s.UpdateActivity()
	return true
}

// UpdateActivity records that the room just accepted a mutation.
// LastActivity is monotonically non-decreasing.
func (s *State) UpdateActivity() {
	if now := time.Now(); now.After(s.LastActivity) {
		s.LastActivity = now
	}
}

// PlayerCount reports the current occupancy.
func (s *State) PlayerCount() int {
	return len(s.Players)
}

package room

import "time"

// Behavior supplies the domain half of a room. The template owns the
// lifecycle, replication, scheduling, and base message handling; the
// behavior owns the state factory and the join/leave/movement/inactivity
// hooks. Every method is invoked on the room's event loop.
type Behavior interface {
	// BuildState constructs the initial aggregate. An error is fatal to
	// room creation.
	BuildState(cfg Config) (*State, error)

	// OnJoin admits or rejects a participant. On success it must insert a
	// Player into the state and return it; on rejection it must leave the
	// state untouched, notify the client, and return a client-visible
	// error such as ErrRoomFull.
	OnJoin(r *Room, c Client, req JoinRequest) (*Player, error)

	// OnLeave removes the session's Player from the state if present,
	// returning the removed entity or nil.
	OnLeave(r *Room, sessionID string) *Player

	// OnMove applies an already-validated movement update to the session's
	// Player and touches room activity.
	OnMove(r *Room, sessionID string, mv MoveMessage)

	// CanSpawnAt is the peer-distance check spawn placement consults for
	// each candidate point.
	CanSpawnAt(s *State, x, y float64) bool

	// OnInactive evicts players collected by the inactivity sweep: remove
	// them from the state and force-close their connections.
	OnInactive(r *Room, evicted []*Player)
}

// MessageExtender lets a behavior layer extra message kinds (or override a
// base kind) after the template installs the base set.
type MessageExtender interface {
	RegisterMessages(r *Room)
}

// TickHandler lets a behavior run per-tick domain logic, e.g. disposing an
// empty room after a grace period.
type TickHandler interface {
	OnTick(r *Room, now time.Time)
}

// DisposeHandler lets a behavior release domain resources during disposal.
// A returned error is logged and disposal proceeds.
type DisposeHandler interface {
	OnDispose(r *Room) error
}

// Package lifecycle carries room lifecycle notifications to external
// collaborators. The room core only knows the Recorder interface; what a
// collaborator does with the events (analytics, session bookkeeping) is its
// own business.
package lifecycle

import "time"

// Event is one lifecycle notification.
type Event struct {
	Kind      string    `json:"kind"`
	RoomID    string    `json:"roomId"`
	SessionID string    `json:"sessionId,omitempty"`
	Name      string    `json:"name,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// Event kinds.
const (
	KindSessionCreated = "session_created"
	KindSessionClosed  = "session_closed"
	KindPlayerJoined   = "player_joined"
	KindPlayerLeft     = "player_left"
)

// Recorder receives lifecycle events. Implementations must not block the
// caller; the room invokes these on its event loop.
type Recorder interface {
	Record(ev Event)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Record(Event) {}

// Multi fans an event out to several recorders.
type Multi []Recorder

func (m Multi) Record(ev Event) {
	for _, r := range m {
		if r != nil {
			r.Record(ev)
		}
	}
}

// SessionCreated builds a session_created event.
func SessionCreated(roomID, name string) Event {
	return Event{Kind: KindSessionCreated, RoomID: roomID, Name: name, At: time.Now()}
}

// SessionClosed builds a session_closed event.
func SessionClosed(roomID, reason string) Event {
	return Event{Kind: KindSessionClosed, RoomID: roomID, Reason: reason, At: time.Now()}
}

// PlayerJoined builds a player_joined event.
func PlayerJoined(roomID, sessionID, name string) Event {
	return Event{Kind: KindPlayerJoined, RoomID: roomID, SessionID: sessionID, Name: name, At: time.Now()}
}

// PlayerLeft builds a player_left event.
func PlayerLeft(roomID, sessionID, name, reason string) Event {
	return Event{Kind: KindPlayerLeft, RoomID: roomID, SessionID: sessionID, Name: name, Reason: reason, At: time.Now()}
}

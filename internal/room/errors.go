package room

import "errors"

// Rejection is a client-visible refusal of a join request. It is never
// fatal to the room.
type Rejection struct {
	Code   string
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

// ErrRoomFull rejects a join beyond the configured capacity.
var ErrRoomFull = &Rejection{Code: "room_full", Reason: "Room is full"}

// ErrRoomClosed rejects interaction with a room that is disposing or
// already disposed.
var ErrRoomClosed = errors.New("room closed")

// AsRejection extracts a Rejection from an error chain, if present.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

package room

// Client is the transport-side handle for one connected participant. Sends
// are fire-and-forget: implementations must never block the caller, and a
// slow client must not delay delivery to others.
type Client interface {
	// SessionID returns the opaque identifier minted by the transport
	// layer. Immutable for the connection's lifetime.
	SessionID() string
	// Send queues a payload for delivery. Delivery is best-effort.
	Send(payload []byte)
	// Close force-disconnects the client with a human-readable reason.
	// Safe to call more than once.
	Close(reason string)
}

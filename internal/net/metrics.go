package net

import "sync/atomic"

// hostMetrics tracks transport counters for the whole host. Counters are
// bumped from connection goroutines, so every field is atomic.
type hostMetrics struct {
	connections     atomic.Int64
	joinsAccepted   atomic.Int64
	joinsRejected   atomic.Int64
	messagesRouted  atomic.Int64
	framesDiscarded atomic.Int64
}

// Snapshot returns a read-only copy for the metrics endpoint.
func (m *hostMetrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"connections":      m.connections.Load(),
		"joins_accepted":   m.joinsAccepted.Load(),
		"joins_rejected":   m.joinsRejected.Load(),
		"messages_routed":  m.messagesRouted.Load(),
		"frames_discarded": m.framesDiscarded.Load(),
	}
}

package lifecycle

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"philoworld/server/internal/telemetry"
)

// subjectPrefix namespaces lifecycle subjects, e.g. philoworld.player_joined.
const subjectPrefix = "philoworld"

// NATSRecorder publishes lifecycle events to a NATS subject per event kind.
// Publishes are buffered by the client and never block the room loop.
type NATSRecorder struct {
	conn   *nats.Conn
	logger telemetry.Logger
}

// NewNATSRecorder connects to the given NATS URL.
func NewNATSRecorder(url string, logger telemetry.Logger) (*NATSRecorder, error) {
	conn, err := nats.Connect(url, nats.Name("philoworld-server"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSRecorder{conn: conn, logger: logger}, nil
}

// Record implements Recorder.
func (r *NATSRecorder) Record(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		r.logger.Warnf("lifecycle: marshal %s event: %v", ev.Kind, err)
		return
	}
	subject := fmt.Sprintf("%s.%s", subjectPrefix, ev.Kind)
	if err := r.conn.Publish(subject, payload); err != nil {
		r.logger.Warnf("lifecycle: publish %s: %v", subject, err)
	}
}

// Close drains and closes the connection.
func (r *NATSRecorder) Close() {
	if r == nil || r.conn == nil {
		return
	}
	if err := r.conn.Drain(); err != nil {
		r.conn.Close()
	}
}

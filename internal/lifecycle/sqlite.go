package lifecycle

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"philoworld/server/internal/telemetry"
)

const bookkeepingSchema = `
CREATE TABLE IF NOT EXISTS room_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	room_id    TEXT NOT NULL,
	session_id TEXT,
	name       TEXT,
	reason     TEXT,
	at         TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS room_events_room_idx ON room_events (room_id, at);
`

// SQLiteRecorder appends lifecycle events to a local bookkeeping database.
// Writes happen on a dedicated goroutine fed by a bounded queue, so the room
// loop never waits on disk; when the queue is full events are dropped with a
// warning.
type SQLiteRecorder struct {
	db     *sql.DB
	queue  chan Event
	logger telemetry.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewSQLiteRecorder opens (and if needed initializes) the database at dsn.
func NewSQLiteRecorder(dsn string, logger telemetry.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(bookkeepingSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	r := &SQLiteRecorder{
		db:     db,
		queue:  make(chan Event, 256),
		logger: logger,
		done:   make(chan struct{}),
	}
	go r.writeLoop()
	return r, nil
}

// Record implements Recorder.
func (r *SQLiteRecorder) Record(ev Event) {
	select {
	case r.queue <- ev:
	default:
		r.logger.Warnf("lifecycle: bookkeeping queue full, dropping %s for room %s", ev.Kind, ev.RoomID)
	}
}

func (r *SQLiteRecorder) writeLoop() {
	defer close(r.done)
	for ev := range r.queue {
		_, err := r.db.Exec(
			`INSERT INTO room_events (kind, room_id, session_id, name, reason, at) VALUES (?, ?, ?, ?, ?, ?)`,
			ev.Kind, ev.RoomID, ev.SessionID, ev.Name, ev.Reason, ev.At,
		)
		if err != nil {
			r.logger.Warnf("lifecycle: insert %s event: %v", ev.Kind, err)
		}
	}
}

// Close flushes queued events and closes the database.
func (r *SQLiteRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
		<-r.done
		if err := r.db.Close(); err != nil {
			r.logger.Warnf("lifecycle: close bookkeeping db: %v", err)
		}
	})
}

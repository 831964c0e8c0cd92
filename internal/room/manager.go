package room

import (
	"sync"

	"philoworld/server/internal/telemetry"
)

// Factory builds a room for an id. The manager starts what it returns.
type Factory func(id string) (*Room, error)

// Manager owns the live rooms of the host process. Rooms are fully
// independent; the manager only tracks creation and teardown.
type Manager struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	factory Factory
	logger  telemetry.Logger
}

// NewManager builds an empty manager around a room factory.
func NewManager(factory Factory, logger telemetry.Logger) *Manager {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	return &Manager{
		rooms:   make(map[string]*Room),
		factory: factory,
		logger:  logger,
	}
}

// GetOrCreate returns the live room for the id, creating and starting one
// when none exists. A room that disposed itself is replaced transparently.
func (m *Manager) GetOrCreate(id string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.rooms[id]; ok && existing.Phase() == PhaseActive {
		return existing, nil
	}

	r, err := m.factory(id)
	if err != nil {
		return nil, err
	}
	r.Start()
	m.rooms[id] = r
	m.logger.Infof("manager: created room %s", id)
	return r, nil
}

// Rooms snapshots the currently tracked rooms.
func (m *Manager) Rooms() []*Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// DisposeAll tears down every room, e.g. during host shutdown.
func (m *Manager) DisposeAll(reason string) {
	for _, r := range m.Rooms() {
		r.Dispose(reason)
	}
}

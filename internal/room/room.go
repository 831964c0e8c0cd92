// Package room implements the authoritative multiplayer session engine: a
// replicated state aggregate, a per-room message dispatcher, spawn
// placement, periodic simulation jobs, and the lifecycle template a concrete
// room type plugs its behavior into.
package room

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"philoworld/server/internal/lifecycle"
	"philoworld/server/internal/telemetry"
)

// Phase tracks the linear room lifecycle. Transitions never cycle.
type Phase int32

const (
	PhaseUninitialized Phase = iota
	PhaseCreated
	PhaseActive
	PhaseDisposing
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseCreated:
		return "created"
	case PhaseActive:
		return "active"
	case PhaseDisposing:
		return "disposing"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Deps carries the collaborators a room needs from the host.
type Deps struct {
	Logger   telemetry.Logger
	Recorder lifecycle.Recorder
	// Rand seeds spawn placement; nil uses a time-seeded source.
	Rand *rand.Rand
}

// Room is one isolated multiplayer session. All state mutations run on a
// single event loop goroutine, in delivery order; there is no locking inside
// a room and no shared mutable state between rooms.
type Room struct {
	id       string
	cfg      Config
	bounds   WorldBounds
	behavior Behavior
	logger   telemetry.Logger
	recorder lifecycle.Recorder
	rng      *rand.Rand

	dispatch  *Dispatcher
	state     *State
	clients   map[string]Client
	scheduler *Scheduler

	phase       atomic.Int32
	events      chan func()
	stopped     chan struct{}
	startOnce   sync.Once
	disposeOnce sync.Once
}

// New builds a room in the Created phase: the behavior's state factory runs,
// the base message handlers are installed, and the behavior layers its own
// registrations on top. A state factory error is fatal and no room exists
// afterwards.
func New(id string, cfg Config, behavior Behavior, deps Deps) (*Room, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("room %s: invalid config: %w", id, err)
	}

	state, err := behavior.BuildState(cfg)
	if err != nil {
		return nil, fmt.Errorf("room %s: build state: %w", id, err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	recorder := deps.Recorder
	if recorder == nil {
		recorder = lifecycle.Nop{}
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	r := &Room{
		id:       id,
		cfg:      cfg,
		bounds:   cfg.Bounds(),
		behavior: behavior,
		logger:   logger,
		recorder: recorder,
		rng:      rng,
		dispatch: NewDispatcher(),
		state:    state,
		clients:  make(map[string]Client),
		events:   make(chan func(), 256),
		stopped:  make(chan struct{}),
	}

	r.installBaseHandlers()
	if ext, ok := behavior.(MessageExtender); ok {
		ext.RegisterMessages(r)
	}

	r.phase.Store(int32(PhaseCreated))
	recorder.Record(lifecycle.SessionCreated(id, cfg.Name))
	return r, nil
}

// Start launches the event loop and the scheduler jobs, moving the room to
// Active. Calling Start twice is a no-op.
func (r *Room) Start() {
	r.startOnce.Do(func() {
		if !r.phase.CompareAndSwap(int32(PhaseCreated), int32(PhaseActive)) {
			return
		}
		go r.loop()
		r.scheduler = startScheduler(r.cfg.TickRate,
			func(now time.Time) { r.enqueue(func() { r.runTick(now) }) },
			func(now time.Time) { r.enqueue(func() { r.runSweep(now) }) },
		)
		r.logger.Infof("room %s: active (world %vx%v, cap %d)", r.id, r.cfg.WorldWidth, r.cfg.WorldHeight, r.cfg.MaxPlayers)
	})
}

// Phase reports the current lifecycle phase.
func (r *Room) Phase() Phase {
	return Phase(r.phase.Load())
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Config returns the room's creation-time configuration.
func (r *Room) Config() Config { return r.cfg }

// Bounds returns the immutable world bounds.
func (r *Room) Bounds() WorldBounds { return r.bounds }

// Logger returns the room's logger.
func (r *Room) Logger() telemetry.Logger { return r.logger }

// State exposes the aggregate to behavior hooks. Must only be touched from
// the event loop; nil once the room has disposed.
func (r *Room) State() *State { return r.state }

// Handle registers (or overrides) a message handler. Used by behaviors
// during RegisterMessages.
func (r *Room) Handle(kind string, h Handler) {
	r.dispatch.Register(kind, h)
}

func (r *Room) loop() {
	defer close(r.stopped)
	for fn := range r.events {
		fn()
		if r.Phase() == PhaseDisposed {
			return
		}
	}
}

// enqueue posts work to the event loop. Returns false once the room is
// disposing, so late transport events fall away harmlessly.
func (r *Room) enqueue(fn func()) bool {
	if r.Phase() != PhaseActive {
		return false
	}
	select {
	case r.events <- fn:
		return true
	case <-r.stopped:
		return false
	}
}

// Join admits a client. It blocks until the room's event loop has processed
// the request and returns the behavior's verdict; a *Rejection error is
// client-visible (e.g. "Room is full") and leaves the state untouched.
func (r *Room) Join(c Client, req JoinRequest) error {
	reply := make(chan error, 1)
	if !r.enqueue(func() { reply <- r.handleJoin(c, req) }) {
		return ErrRoomClosed
	}
	select {
	case err := <-reply:
		return err
	case <-r.stopped:
		return ErrRoomClosed
	}
}

// Leave notifies the room that a client disconnected, cleanly or not. The
// removal happens asynchronously on the event loop.
func (r *Room) Leave(c Client) {
	sessionID := c.SessionID()
	r.enqueue(func() { r.handleLeave(sessionID, "disconnect") })
}

// HandleMessage routes one inbound envelope through the dispatch table.
func (r *Room) HandleMessage(c Client, kind string, data json.RawMessage) {
	r.enqueue(func() { r.handleMessage(c, kind, data) })
}

// RequestDispose schedules disposal from inside a behavior hook. Dispose
// itself must not be called on the event loop, so the transition runs on a
// fresh goroutine.
func (r *Room) RequestDispose(reason string) {
	go r.Dispose(reason)
}

// Dispose tears the room down: scheduler jobs are cancelled, the behavior's
// cleanup hook runs, remaining clients are closed, and the state reference
// is released. Idempotent; a second call returns immediately.
func (r *Room) Dispose(reason string) {
	r.disposeOnce.Do(func() {
		if r.phase.CompareAndSwap(int32(PhaseCreated), int32(PhaseDisposing)) {
			// Never started: no loop or scheduler to unwind.
			r.finishDispose(reason)
			return
		}
		if !r.phase.CompareAndSwap(int32(PhaseActive), int32(PhaseDisposing)) {
			return
		}
		r.scheduler.Stop()
		done := make(chan struct{})
		select {
		case r.events <- func() { r.finishDispose(reason); close(done) }:
			select {
			case <-done:
			case <-r.stopped:
			}
		case <-r.stopped:
		}
	})
}

// finishDispose runs the Disposing → Disposed transition. Cleanup failures
// are logged and disposal proceeds best-effort.
func (r *Room) finishDispose(reason string) {
	if hook, ok := r.behavior.(DisposeHandler); ok {
		if err := hook.OnDispose(r); err != nil {
			r.logger.Warnf("room %s: cleanup failed, continuing disposal: %v", r.id, err)
		}
	}
	for _, c := range r.clients {
		c.Close("Room closed")
	}
	r.clients = nil
	if r.state != nil {
		r.state.IsActive = false
	}
	r.state = nil
	r.phase.Store(int32(PhaseDisposed))
	r.recorder.Record(lifecycle.SessionClosed(r.id, reason))
	r.logger.Infof("room %s: disposed (%s)", r.id, reason)
}

// installBaseHandlers wires the template's fixed message set. A concrete
// room layers its own kinds afterwards and may override player_chat or
// player_interact.
func (r *Room) installBaseHandlers() {
	r.dispatch.Register(KindPlayerMove, r.handlePlayerMove)
	r.dispatch.Register(KindPlayerChat, r.handlePlayerChat)
	r.dispatch.Register(KindPlayerInteract, r.handlePlayerInteract)
	r.dispatch.Register(KindHeartbeat, r.handleHeartbeat)
}

func (r *Room) handleJoin(c Client, req JoinRequest) error {
	if r.Phase() != PhaseActive {
		return ErrRoomClosed
	}

	player, err := r.behavior.OnJoin(r, c, req)
	if err != nil {
		r.logger.Infof("room %s: join rejected for %s: %v", r.id, c.SessionID(), err)
		return err
	}

	r.clients[c.SessionID()] = c

	r.SendTo(c, welcomeMessage{
		Type:         "welcome",
		PlayerID:     player.SessionID,
		PlayerName:   player.Name,
		RoomID:       r.id,
		TotalPlayers: r.state.PlayerCount(),
		WorldBounds:  r.bounds,
		GameConfig:   GameConfig{MaxPlayers: r.cfg.MaxPlayers, WorldBounds: r.bounds},
	})
	r.SendTo(c, r.snapshotMessage())

	r.BroadcastToOthers(c, playerJoinedMessage{
		Type:         "player_joined",
		PlayerID:     player.SessionID,
		PlayerName:   player.Name,
		X:            player.X,
		Y:            player.Y,
		TotalPlayers: r.state.PlayerCount(),
	})

	r.recorder.Record(lifecycle.PlayerJoined(r.id, player.SessionID, player.Name))
	r.logger.Infof("room %s: %s joined as %q (%d/%d)", r.id, player.SessionID, player.Name, r.state.PlayerCount(), r.cfg.MaxPlayers)
	return nil
}

func (r *Room) handleLeave(sessionID, reason string) {
	delete(r.clients, sessionID)

	player := r.behavior.OnLeave(r, sessionID)
	if player == nil {
		return
	}

	r.Broadcast(playerLeftMessage{
		Type:         "player_left",
		PlayerID:     player.SessionID,
		PlayerName:   player.Name,
		TotalPlayers: r.state.PlayerCount(),
	})
	r.recorder.Record(lifecycle.PlayerLeft(r.id, player.SessionID, player.Name, reason))
	r.logger.Infof("room %s: %s left (%s), %d remain", r.id, sessionID, reason, r.state.PlayerCount())
}

func (r *Room) handleMessage(c Client, kind string, data json.RawMessage) {
	handler, ok := r.dispatch.Lookup(kind)
	if !ok {
		r.logger.Warnf("room %s: unknown message kind %q from %s", r.id, kind, c.SessionID())
		return
	}
	handler(c, data)
}

// handlePlayerMove validates and forwards movement. Rejections are a silent
// drop: a warning is logged, nothing is sent, and the player is unchanged.
func (r *Room) handlePlayerMove(c Client, data json.RawMessage) {
	var msg MoveMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		r.logger.Warnf("room %s: malformed move from %s: %v", r.id, c.SessionID(), err)
		return
	}

	dir, ok := ParseDirection(msg.Direction)
	if !ok {
		r.logger.Warnf("room %s: invalid direction %q from %s", r.id, msg.Direction, c.SessionID())
		return
	}
	if !r.bounds.Contains(msg.X, msg.Y) {
		r.logger.Warnf("room %s: out-of-bounds move (%v, %v) from %s", r.id, msg.X, msg.Y, c.SessionID())
		return
	}

	r.behavior.OnMove(r, c.SessionID(), msg)

	r.BroadcastToOthers(c, playerMovedMessage{
		Type:      "player_moved",
		PlayerID:  c.SessionID(),
		X:         msg.X,
		Y:         msg.Y,
		Direction: dir,
		IsMoving:  msg.IsMoving,
	})
}

// handlePlayerChat is the base chat behavior: rebroadcast to everyone with
// the sender id and a server timestamp.
func (r *Room) handlePlayerChat(c Client, data json.RawMessage) {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		r.logger.Warnf("room %s: malformed chat from %s: %v", r.id, c.SessionID(), err)
		return
	}
	r.Broadcast(chatBroadcastMessage{
		Type:      "chat",
		PlayerID:  c.SessionID(),
		Message:   msg.Text,
		Timestamp: time.Now().UnixMilli(),
	})
}

// handlePlayerInteract is a log-only placeholder; concrete rooms override it
// with domain behavior.
func (r *Room) handlePlayerInteract(c Client, data json.RawMessage) {
	r.logger.Infof("room %s: interact from %s: %s", r.id, c.SessionID(), string(data))
}

// handleHeartbeat acknowledges the sender directly without touching state.
func (r *Room) handleHeartbeat(c Client, _ json.RawMessage) {
	r.SendTo(c, heartbeatAckMessage{Type: "heartbeat_ack", Timestamp: time.Now().UnixMilli()})
}

// runTick delegates to the behavior's tick hook, if it has one.
func (r *Room) runTick(now time.Time) {
	if r.Phase() != PhaseActive {
		return
	}
	if hook, ok := r.behavior.(TickHandler); ok {
		hook.OnTick(r, now)
	}
}

// runSweep collects every player silent beyond the inactivity timeout, then
// hands the whole batch to the behavior's eviction hook. Collect-then-evict
// keeps the scan from mutating the player map mid-iteration.
func (r *Room) runSweep(now time.Time) {
	if r.Phase() != PhaseActive {
		return
	}

	var evicted []*Player
	for _, p := range r.state.Players {
		if now.Sub(p.LastUpdate) > r.cfg.InactiveTimeout {
			evicted = append(evicted, p)
		}
	}
	if len(evicted) == 0 {
		return
	}

	r.behavior.OnInactive(r, evicted)

	// The hook removed the whole batch already; counts step down one per
	// announcement so each frame matches the occupancy as of that eviction.
	remaining := r.state.PlayerCount()
	for i, p := range evicted {
		delete(r.clients, p.SessionID)
		r.Broadcast(playerLeftMessage{
			Type:         "player_left",
			PlayerID:     p.SessionID,
			PlayerName:   p.Name,
			TotalPlayers: remaining + len(evicted) - 1 - i,
		})
		r.recorder.Record(lifecycle.PlayerLeft(r.id, p.SessionID, p.Name, "Inactive timeout"))
		r.logger.Infof("room %s: evicted %s for inactivity", r.id, p.SessionID)
	}
}

// SpawnPosition runs spawn placement against the current occupants using
// the behavior's peer-distance check.
func (r *Room) SpawnPosition() SpawnPosition {
	return PlaceSpawn(r.bounds, r.cfg.SpawnRadius, r.rng, func(x, y float64) bool {
		return r.behavior.CanSpawnAt(r.state, x, y)
	})
}

// ClientBySession returns the connected client for a session, if any.
func (r *Room) ClientBySession(sessionID string) (Client, bool) {
	c, ok := r.clients[sessionID]
	return c, ok
}

// SendError notifies a single client of a client-visible failure, e.g. a
// join rejected for capacity.
func (r *Room) SendError(c Client, code, message string) {
	r.SendTo(c, errorMessage{Type: "error", Code: code, Message: message})
}

// SendTo marshals and queues a payload for a single client.
func (r *Room) SendTo(c Client, v any) {
	if data, ok := r.encode(v); ok {
		c.Send(data)
	}
}

// Broadcast delivers a payload to every connected client.
func (r *Room) Broadcast(v any) {
	data, ok := r.encode(v)
	if !ok {
		return
	}
	for _, c := range r.clients {
		c.Send(data)
	}
}

// BroadcastToOthers delivers a payload to every client except the given one.
func (r *Room) BroadcastToOthers(except Client, v any) {
	data, ok := r.encode(v)
	if !ok {
		return
	}
	exceptID := except.SessionID()
	for id, c := range r.clients {
		if id == exceptID {
			continue
		}
		c.Send(data)
	}
}

// Diagnostics summarizes the room for the host's diagnostics endpoint. The
// snapshot is taken on the event loop so it never observes a half-applied
// mutation; a disposing room reports its phase with zeroed counters.
type Diagnostics struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phase        string `json:"phase"`
	Players      int    `json:"players"`
	MaxPlayers   int    `json:"maxPlayers"`
	CreatedAt    int64  `json:"createdAt"`
	LastActivity int64  `json:"lastActivity"`
}

// Diagnostics reports a consistent snapshot of the room's occupancy.
func (r *Room) Diagnostics() Diagnostics {
	reply := make(chan Diagnostics, 1)
	ok := r.enqueue(func() {
		reply <- Diagnostics{
			ID:           r.id,
			Name:         r.state.RoomName,
			Phase:        r.Phase().String(),
			Players:      r.state.PlayerCount(),
			MaxPlayers:   r.cfg.MaxPlayers,
			CreatedAt:    r.state.CreatedAt.UnixMilli(),
			LastActivity: r.state.LastActivity.UnixMilli(),
		}
	})
	if !ok {
		return Diagnostics{ID: r.id, Name: r.cfg.Name, Phase: r.Phase().String(), MaxPlayers: r.cfg.MaxPlayers}
	}
	select {
	case d := <-reply:
		return d
	case <-r.stopped:
		return Diagnostics{ID: r.id, Name: r.cfg.Name, Phase: r.Phase().String(), MaxPlayers: r.cfg.MaxPlayers}
	}
}

func (r *Room) snapshotMessage() stateMessage {
	players := make([]*Player, 0, len(r.state.Players))
	for _, p := range r.state.Players {
		players = append(players, p)
	}
	return stateMessage{
		Type:       "state",
		RoomName:   r.state.RoomName,
		Players:    players,
		ServerTime: time.Now().UnixMilli(),
	}
}

func (r *Room) encode(v any) ([]byte, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Errorf("room %s: marshal %T: %v", r.id, v, err)
		return nil, false
	}
	return data, true
}

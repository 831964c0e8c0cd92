// Package philosophy specializes the room template into the Philosophy
// Room: a bounded agora where players wander among a fixed cast of
// philosophers, share thoughts with nearby players, and challenge each
// other to debates.
package philosophy

import (
	"encoding/json"
	"fmt"
	"time"

	"philoworld/server/internal/room"
)

const (
	// interactRadius is how close a player must stand to a philosopher to
	// interact with it.
	interactRadius = 150.0
	// thoughtRadius scopes thought_share broadcasts to nearby players.
	thoughtRadius = 250.0
	// emptyDisposeAfter is how long a room may sit empty before the tick
	// hook disposes it.
	emptyDisposeAfter = 5 * time.Minute
)

// Additional message kinds layered over the base set.
const (
	KindPhilosopherInteract = "philosopher_interact"
	KindThoughtShare        = "thought_share"
	KindDebateRequest       = "debate_request"
)

// DefaultConfig is the Philosophy Room tuning.
func DefaultConfig() room.Config {
	return room.Config{
		Name:            "Philosophy Room",
		WorldWidth:      1600,
		WorldHeight:     1200,
		SpawnRadius:     200,
		MaxPlayers:      10,
		InactiveTimeout: 5 * time.Minute,
		TickRate:        20,
	}
}

// Behavior is the domain half of a Philosophy Room instance.
type Behavior struct {
	philosophers []Philosopher
	emptySince   time.Time
}

// New returns a fresh behavior for one room instance.
func New() *Behavior {
	return &Behavior{}
}

// Philosophers exposes the placed cast, primarily for diagnostics and tests.
func (b *Behavior) Philosophers() []Philosopher {
	return b.philosophers
}

// BuildState creates the aggregate and places the philosopher cast.
func (b *Behavior) BuildState(cfg room.Config) (*room.State, error) {
	if cfg.WorldWidth < 2*interactRadius || cfg.WorldHeight < 2*interactRadius {
		return nil, fmt.Errorf("world %vx%v too small for the agora", cfg.WorldWidth, cfg.WorldHeight)
	}
	b.philosophers = placePhilosophers(cfg.WorldWidth, cfg.WorldHeight)
	return room.NewState(cfg.Name, cfg.MaxPlayers), nil
}

// OnJoin resolves the display name, spawns the player, and admits them
// unless the room is full. The rejected client hears about it before the
// error bubbles up.
func (b *Behavior) OnJoin(r *room.Room, c room.Client, req room.JoinRequest) (*room.Player, error) {
	name := req.PlayerName
	if name == "" {
		name = generatedName(c.SessionID())
	}

	spawn := r.SpawnPosition()
	player := &room.Player{
		SessionID:  c.SessionID(),
		Name:       name,
		X:          spawn.X,
		Y:          spawn.Y,
		Direction:  room.DirectionFront,
		Avatar:     req.Avatar,
		Metadata:   req.Metadata,
		LastUpdate: time.Now(),
	}

	if !r.State().AddPlayer(player) {
		r.SendError(c, room.ErrRoomFull.Code, room.ErrRoomFull.Reason)
		return nil, room.ErrRoomFull
	}
	return player, nil
}

// OnLeave removes the session's player, if it is still present.
func (b *Behavior) OnLeave(r *room.Room, sessionID string) *room.Player {
	player, ok := r.State().Players[sessionID]
	if !ok {
		return nil
	}
	r.State().RemovePlayer(sessionID)
	return player
}

// OnMove applies a validated movement update.
func (b *Behavior) OnMove(r *room.Room, sessionID string, mv room.MoveMessage) {
	player, ok := r.State().Players[sessionID]
	if !ok {
		return
	}
	player.X = mv.X
	player.Y = mv.Y
	player.Direction = room.Direction(mv.Direction)
	player.IsMoving = mv.IsMoving
	player.LastUpdate = time.Now()
	r.State().UpdateActivity()
}

// CanSpawnAt requires the minimum separation from every current player.
func (b *Behavior) CanSpawnAt(s *room.State, x, y float64) bool {
	for _, p := range s.Players {
		if room.Distance(x, y, p.X, p.Y) < room.MinSpawnSeparation {
			return false
		}
	}
	return true
}

// OnInactive drops evicted players and force-closes their connections.
func (b *Behavior) OnInactive(r *room.Room, evicted []*room.Player) {
	for _, p := range evicted {
		r.State().RemovePlayer(p.SessionID)
		if c, ok := r.ClientBySession(p.SessionID); ok {
			c.Close("Inactive timeout")
		}
	}
}

// OnTick disposes the room once it has been empty long enough.
func (b *Behavior) OnTick(r *room.Room, now time.Time) {
	if r.State().PlayerCount() > 0 {
		b.emptySince = time.Time{}
		return
	}
	if b.emptySince.IsZero() {
		b.emptySince = now
		return
	}
	if now.Sub(b.emptySince) >= emptyDisposeAfter {
		r.RequestDispose("empty room")
	}
}

// RegisterMessages layers the agora kinds over the base set and replaces
// the stock chat with the positional variant.
func (b *Behavior) RegisterMessages(r *room.Room) {
	r.Handle(room.KindPlayerChat, func(c room.Client, data json.RawMessage) { b.handleChat(r, c, data) })
	r.Handle(KindPhilosopherInteract, func(c room.Client, data json.RawMessage) { b.handlePhilosopherInteract(r, c, data) })
	r.Handle(KindThoughtShare, func(c room.Client, data json.RawMessage) { b.handleThoughtShare(r, c, data) })
	r.Handle(KindDebateRequest, func(c room.Client, data json.RawMessage) { b.handleDebateRequest(r, c, data) })
}

type chatBroadcast struct {
	Type       string  `json:"type"`
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Message    string  `json:"message"`
	Category   string  `json:"category"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Timestamp  int64   `json:"timestamp"`
}

// handleChat replaces the base chat: the broadcast carries the speaker's
// position and a message category tag.
func (b *Behavior) handleChat(r *room.Room, c room.Client, data json.RawMessage) {
	var msg room.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		r.Logger().Warnf("philosophy: malformed chat from %s: %v", c.SessionID(), err)
		return
	}
	player, ok := r.State().Players[c.SessionID()]
	if !ok {
		return
	}
	category := msg.Type
	if category == "" {
		category = "say"
	}
	r.Broadcast(chatBroadcast{
		Type:       "chat",
		PlayerID:   player.SessionID,
		PlayerName: player.Name,
		Message:    msg.Text,
		Category:   category,
		X:          player.X,
		Y:          player.Y,
		Timestamp:  time.Now().UnixMilli(),
	})
}

type philosopherInteractRequest struct {
	PhilosopherID string `json:"philosopherId"`
}

type philosopherResponse struct {
	Type          string `json:"type"`
	PhilosopherID string `json:"philosopherId"`
	Name          string `json:"name"`
	Text          string `json:"text"`
	Timestamp     int64  `json:"timestamp"`
}

// handlePhilosopherInteract answers the sender when they stand close enough
// to the addressed philosopher. Anything else is a silent drop.
func (b *Behavior) handlePhilosopherInteract(r *room.Room, c room.Client, data json.RawMessage) {
	var msg philosopherInteractRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		r.Logger().Warnf("philosophy: malformed interact from %s: %v", c.SessionID(), err)
		return
	}
	player, ok := r.State().Players[c.SessionID()]
	if !ok {
		return
	}

	var target *Philosopher
	for i := range b.philosophers {
		if b.philosophers[i].ID == msg.PhilosopherID {
			target = &b.philosophers[i]
			break
		}
	}
	if target == nil {
		r.Logger().Warnf("philosophy: %s addressed unknown philosopher %q", c.SessionID(), msg.PhilosopherID)
		return
	}
	if room.Distance(player.X, player.Y, target.X, target.Y) > interactRadius {
		r.Logger().Warnf("philosophy: %s too far from %s to interact", c.SessionID(), target.ID)
		return
	}

	greeting, _ := greetingFor(target.ID)
	r.SendTo(c, philosopherResponse{
		Type:          "philosopher_response",
		PhilosopherID: target.ID,
		Name:          target.Name,
		Text:          greeting,
		Timestamp:     time.Now().UnixMilli(),
	})
	r.State().UpdateActivity()
}

type thoughtShareRequest struct {
	Text string `json:"text"`
}

type thoughtBroadcast struct {
	Type       string  `json:"type"`
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Timestamp  int64   `json:"timestamp"`
}

// handleThoughtShare broadcasts only to players standing within the thought
// radius of the speaker, the speaker included.
func (b *Behavior) handleThoughtShare(r *room.Room, c room.Client, data json.RawMessage) {
	var msg thoughtShareRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		r.Logger().Warnf("philosophy: malformed thought from %s: %v", c.SessionID(), err)
		return
	}
	speaker, ok := r.State().Players[c.SessionID()]
	if !ok {
		return
	}

	out := thoughtBroadcast{
		Type:       "thought",
		PlayerID:   speaker.SessionID,
		PlayerName: speaker.Name,
		Text:       msg.Text,
		X:          speaker.X,
		Y:          speaker.Y,
		Timestamp:  time.Now().UnixMilli(),
	}
	for id, p := range r.State().Players {
		if room.Distance(speaker.X, speaker.Y, p.X, p.Y) > thoughtRadius {
			continue
		}
		if listener, ok := r.ClientBySession(id); ok {
			r.SendTo(listener, out)
		}
	}
}

type debateRequest struct {
	TargetID string `json:"targetId"`
}

type debateInvite struct {
	Type      string `json:"type"`
	FromID    string `json:"fromId"`
	FromName  string `json:"fromName"`
	Timestamp int64  `json:"timestamp"`
}

// handleDebateRequest forwards a challenge to the targeted player only.
func (b *Behavior) handleDebateRequest(r *room.Room, c room.Client, data json.RawMessage) {
	var msg debateRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		r.Logger().Warnf("philosophy: malformed debate request from %s: %v", c.SessionID(), err)
		return
	}
	challenger, ok := r.State().Players[c.SessionID()]
	if !ok {
		return
	}
	target, ok := r.ClientBySession(msg.TargetID)
	if !ok {
		r.Logger().Warnf("philosophy: %s challenged unknown player %q", c.SessionID(), msg.TargetID)
		return
	}
	r.SendTo(target, debateInvite{
		Type:      "debate_invite",
		FromID:    challenger.SessionID,
		FromName:  challenger.Name,
		Timestamp: time.Now().UnixMilli(),
	})
}

// generatedName derives a stable fallback display name from the session id.
func generatedName(sessionID string) string {
	suffix := sessionID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return "Wanderer-" + suffix
}

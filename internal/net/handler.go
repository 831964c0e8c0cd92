// Package net is the websocket and HTTP surface of the host: it upgrades
// client connections, feeds their messages into rooms, and serves the
// health and diagnostics endpoints.
package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"philoworld/server/internal/room"
	"philoworld/server/internal/telemetry"
)

// HandlerConfig tunes the HTTP surface.
type HandlerConfig struct {
	Logger telemetry.Logger
	// DefaultRoom is used when a client omits the room query parameter.
	DefaultRoom string
}

// Handler routes websocket sessions into rooms and answers the host
// endpoints.
type Handler struct {
	manager   *room.Manager
	logger    telemetry.Logger
	upgrader  websocket.Upgrader
	defRoom   string
	startedAt time.Time
	metrics   hostMetrics
}

// NewHandler builds the http.Handler for the host.
func NewHandler(manager *room.Manager, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	defRoom := cfg.DefaultRoom
	if defRoom == "" {
		defRoom = "philosophy"
	}

	return &Handler{
		manager: manager,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
		defRoom:   defRoom,
		startedAt: time.Now(),
	}
}

// Mux wires the endpoints onto a fresh ServeMux.
func (h *Handler) Mux() *nethttp.ServeMux {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	mux.HandleFunc("/healthz", h.handleHealthz)
	mux.HandleFunc("/diagnostics", h.handleDiagnostics)
	mux.HandleFunc("/metrics", h.handleMetrics)
	return mux
}

// handleWS admits one client: upgrade, mint a session id, join the room,
// then pump inbound messages until the connection drops.
func (h *Handler) handleWS(w nethttp.ResponseWriter, r *nethttp.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = h.defRoom
	}
	req := room.JoinRequest{
		PlayerName: r.URL.Query().Get("playerName"),
		Avatar:     r.URL.Query().Get("avatar"),
	}

	target, err := h.manager.GetOrCreate(roomID)
	if err != nil {
		h.logger.Errorf("ws: room %s unavailable: %v", roomID, err)
		nethttp.Error(w, "room unavailable", nethttp.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("ws: upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(maxMessageLen)
	h.metrics.connections.Add(1)

	client := newWSClient(uuid.NewString(), conn, h.logger)
	go client.writePump()

	if err := target.Join(client, req); err != nil {
		// The behavior already queued the reason; the writer flushes the
		// queue before the close frame.
		h.metrics.joinsRejected.Add(1)
		client.Close(err.Error())
		return
	}
	h.metrics.joinsAccepted.Add(1)

	h.readLoop(target, client, conn)
}

func (h *Handler) readLoop(target *room.Room, client *wsClient, conn *websocket.Conn) {
	defer func() {
		target.Leave(client)
		client.Close("disconnect")
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env room.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			h.metrics.framesDiscarded.Add(1)
			h.logger.Warnf("ws: discarding malformed message from %s: %v", client.SessionID(), err)
			continue
		}
		if env.Type == "" {
			h.metrics.framesDiscarded.Add(1)
			h.logger.Warnf("ws: message without kind from %s", client.SessionID())
			continue
		}
		h.metrics.messagesRouted.Add(1)
		target.HandleMessage(client, env.Type, env.Data)
	}
}

func (h *Handler) handleHealthz(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func (h *Handler) handleDiagnostics(w nethttp.ResponseWriter, _ *nethttp.Request) {
	rooms := h.manager.Rooms()
	snapshots := make([]room.Diagnostics, 0, len(rooms))
	for _, r := range rooms {
		snapshots = append(snapshots, r.Diagnostics())
	}

	payload := struct {
		Status     string             `json:"status"`
		ServerTime int64              `json:"serverTime"`
		UptimeSecs int64              `json:"uptimeSecs"`
		Rooms      []room.Diagnostics `json:"rooms"`
	}{
		Status:     "ok",
		ServerTime: time.Now().UnixMilli(),
		UptimeSecs: int64(time.Since(h.startedAt).Seconds()),
		Rooms:      snapshots,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleMetrics reports host-wide occupancy and transport counters.
func (h *Handler) handleMetrics(w nethttp.ResponseWriter, _ *nethttp.Request) {
	rooms := h.manager.Rooms()
	players := 0
	active := 0
	for _, r := range rooms {
		d := r.Diagnostics()
		players += d.Players
		if d.Phase == "active" {
			active++
		}
	}

	payload := struct {
		Rooms       int              `json:"rooms"`
		ActiveRooms int              `json:"activeRooms"`
		Players     int              `json:"players"`
		Transport   map[string]int64 `json:"transport"`
	}{
		Rooms:       len(rooms),
		ActiveRooms: active,
		Players:     players,
		Transport:   h.metrics.Snapshot(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

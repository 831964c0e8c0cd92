package room

import "encoding/json"

// Base message kinds every room understands. Concrete room types may layer
// additional kinds and may override player_chat or player_interact.
const (
	KindPlayerMove     = "player_move"
	KindPlayerChat     = "player_chat"
	KindPlayerInteract = "player_interact"
	KindHeartbeat      = "heartbeat"
)

// Envelope frames every inbound client message: a kind plus an opaque
// payload the registered handler decodes itself.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// JoinRequest carries the options a client supplies when entering a room.
type JoinRequest struct {
	PlayerName string            `json:"playerName,omitempty"`
	Avatar     string            `json:"avatar,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// MoveMessage is the client movement payload.
type MoveMessage struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction string  `json:"direction"`
	IsMoving  bool    `json:"isMoving"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// ChatMessage is the client chat payload. Type is a free-form category tag.
type ChatMessage struct {
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
}

// GameConfig is the client-facing slice of room configuration.
type GameConfig struct {
	MaxPlayers  int         `json:"maxPlayers"`
	WorldBounds WorldBounds `json:"worldBounds"`
}

type welcomeMessage struct {
	Type         string      `json:"type"`
	PlayerID     string      `json:"playerId"`
	PlayerName   string      `json:"playerName"`
	RoomID       string      `json:"roomId"`
	TotalPlayers int         `json:"totalPlayers"`
	WorldBounds  WorldBounds `json:"worldBounds"`
	GameConfig   GameConfig  `json:"gameConfig"`
}

type stateMessage struct {
	Type       string    `json:"type"`
	RoomName   string    `json:"roomName"`
	Players    []*Player `json:"players"`
	ServerTime int64     `json:"serverTime"`
}

type playerJoinedMessage struct {
	Type         string  `json:"type"`
	PlayerID     string  `json:"playerId"`
	PlayerName   string  `json:"playerName"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	TotalPlayers int     `json:"totalPlayers"`
}

type playerLeftMessage struct {
	Type         string `json:"type"`
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	TotalPlayers int    `json:"totalPlayers"`
}

type playerMovedMessage struct {
	Type      string    `json:"type"`
	PlayerID  string    `json:"playerId"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Direction Direction `json:"direction"`
	IsMoving  bool      `json:"isMoving"`
}

type chatBroadcastMessage struct {
	Type      string `json:"type"`
	PlayerID  string `json:"playerId"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type heartbeatAckMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

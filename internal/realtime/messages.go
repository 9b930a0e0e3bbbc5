package realtime

import "github.com/mcoot/scoreboard/internal/api/response"

// Message types pushed to websocket clients
const (
	TypeConnected    = "connected"
	TypeGamesUpdated = "games-updated"
	TypeGameUpdated  = "game-updated"
)

// Message is the JSON envelope sent over the socket
type Message struct {
	Type     string         `json:"type"`
	ClientID string         `json:"client_id,omitempty"`
	ID       string         `json:"id,omitempty"`
	State    *response.Game `json:"state,omitempty"`
}

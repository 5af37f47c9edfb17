package websocket

import (
	"encoding/json"

	"github.com/whdxgjj/gomoku-game/internal/entity"
)

// Message is one frame of the socket protocol: an action name and an
// action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries both request fields (row/col, game id) and response fields
// (snapshot, error). Row and Col are pointers so a missing coordinate can be
// told apart from 0.
type Payload struct {
	SessionID string           `json:"session_id,omitempty"`
	GameID    string           `json:"game_id,omitempty"`
	Row       *int             `json:"row,omitempty"`
	Col       *int             `json:"col,omitempty"`
	Game      *entity.Snapshot `json:"game,omitempty"`
	Error     string           `json:"error,omitempty"`
}

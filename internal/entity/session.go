package entity

// Session ties a browser client to its current game so a reload can resume
// the same board.
type Session struct {
	ID     string `json:"id"`
	GameID string `json:"game_id,omitempty"`
}

package entity

// Move is one placed stone: 0-indexed board coordinates and the mark of the
// player who placed it.
type Move struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player string `json:"player"`
}

// Snapshot is the read-only view the presentation layer renders from after
// every accepted operation. Board is a copy, so holding on to a snapshot is
// safe while the game moves on.
type Snapshot struct {
	ID       string   `json:"id"`
	Size     int      `json:"size"`
	Board    []string `json:"board"`
	Status   string   `json:"status"`
	Turn     string   `json:"player_turn"`
	Winner   string   `json:"winner,omitempty"`
	LastMove *Move    `json:"last_move,omitempty"`
}

// Snapshot - builds the render view of the current position.
func (that *Game) Snapshot() *Snapshot {
	board := make([]string, len(that.Board))
	copy(board, that.Board)

	return &Snapshot{
		ID:       that.ID,
		Size:     that.Size,
		Board:    board,
		Status:   that.Status,
		Turn:     that.Turn,
		Winner:   that.Winner,
		LastMove: that.LastMove(),
	}
}

package entity

import (
	"fmt"

	"github.com/whdxgjj/gomoku-game/internal/apperror"
)

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDraw       = "draw"

	PlayerBlack = "B"
	PlayerWhite = "W"

	EmptyCell = ""
)

const (
	DefaultBoardSize = 15
	DefaultWinLength = 5
)

// axes are the four line directions checked for a win: horizontal, vertical
// and the two diagonals. Each axis is walked in both signs from the placed
// stone.
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Game is the whole state of one Gomoku game: the board, the move history,
// whose turn it is and the outcome. Replaying History from an empty board
// always reproduces Board.
type Game struct {
	ID        string   `json:"id"`
	Size      int      `json:"size"`
	WinLength int      `json:"win_length"`
	Board     []string `json:"board"`
	History   []Move   `json:"history,omitempty"`
	Turn      string   `json:"player_turn"`
	Winner    string   `json:"winner,omitempty"`
	Status    string   `json:"status"`
}

func NewGame(id string, size, winLength int) *Game {
	if size <= 0 {
		size = DefaultBoardSize
	}
	if winLength <= 0 {
		winLength = DefaultWinLength
	}

	game := &Game{
		ID:        id,
		Size:      size,
		WinLength: winLength,
	}
	game.Reset()

	return game
}

// Reset - returns the game to its starting position: empty board, empty
// history, black to move.
func (that *Game) Reset() {
	that.Board = make([]string, that.Size*that.Size)
	that.History = nil
	that.Turn = PlayerBlack
	that.Winner = EmptyCell
	that.Status = StatusInProgress
}

// ApplyMove - places a stone for the player whose turn it is. Preconditions
// are checked in order: the game must still be in progress, the coordinate
// must be on the board and the cell must be empty. A rejected move leaves
// the game completely unchanged.
func (that *Game) ApplyMove(row, col int) (Move, error) {
	if that.Status != StatusInProgress {
		return Move{}, fmt.Errorf("%w: status is %s", apperror.ErrGameOver, that.Status)
	}

	if row < 0 || row >= that.Size || col < 0 || col >= that.Size {
		return Move{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfBounds, row, col)
	}

	if that.Board[that.cellIndex(row, col)] != EmptyCell {
		return Move{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, row, col)
	}

	move := Move{Row: row, Col: col, Player: that.Turn}
	that.Board[that.cellIndex(row, col)] = move.Player
	that.History = append(that.History, move)

	switch {
	// the placed stone completed a line, the placing player keeps the turn
	case that.checkWin(row, col):
		that.Winner = move.Player
		that.Status = StatusWon
	// the board is full and nobody won
	case len(that.History) == that.Size*that.Size:
		that.Status = StatusDraw
	// game continues
	default:
		that.Turn = opponentOf(move.Player)
	}

	return move, nil
}

// Undo - takes back the latest move. It always revives a finished game: the
// undone player is to move again and the status goes back to in progress.
// Returns the move that is now the latest one, or nil if the board is empty
// again.
func (that *Game) Undo() (*Move, error) {
	if len(that.History) == 0 {
		return nil, apperror.ErrNothingToUndo
	}

	last := that.History[len(that.History)-1]
	that.History = that.History[:len(that.History)-1]
	if len(that.History) == 0 {
		that.History = nil
	}

	that.Board[that.cellIndex(last.Row, last.Col)] = EmptyCell
	that.Turn = last.Player
	that.Winner = EmptyCell
	that.Status = StatusInProgress

	return that.LastMove(), nil
}

// LastMove - returns a copy of the latest move, or nil if none was made yet.
func (that *Game) LastMove() *Move {
	if len(that.History) == 0 {
		return nil
	}

	move := that.History[len(that.History)-1]

	return &move
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Game) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Game) IsDraw() bool {
	return that.Status == StatusDraw
}

func (that *Game) IsOver() bool {
	return that.IsWon() || that.IsDraw()
}

// checkWin reports whether the stone at (row, col) completes a line of at
// least WinLength. Each axis counts the stones reachable in the positive
// sign plus the negative sign plus the stone itself; counting stops at the
// board edge or at the first cell not held by the placing player. Overlines
// of six or more count as a win, matching free-style rules.
func (that *Game) checkWin(row, col int) bool {
	player := that.Board[that.cellIndex(row, col)]
	if player == EmptyCell {
		return false
	}

	for _, axis := range axes {
		total := 1 +
			that.countTowards(row, col, axis[0], axis[1], player) +
			that.countTowards(row, col, -axis[0], -axis[1], player)

		if total >= that.WinLength {
			return true
		}
	}

	return false
}

// countTowards counts consecutive stones of player starting one step away
// from (row, col) in the (dRow, dCol) direction.
func (that *Game) countTowards(row, col, dRow, dCol int, player string) int {
	count := 0

	for r, c := row+dRow, col+dCol; r >= 0 && r < that.Size && c >= 0 && c < that.Size; r, c = r+dRow, c+dCol {
		if that.Board[that.cellIndex(r, c)] != player {
			break
		}
		count++
	}

	return count
}

func (that *Game) cellIndex(row, col int) int {
	return row*that.Size + col
}

func opponentOf(player string) string {
	if player == PlayerBlack {
		return PlayerWhite
	}

	return PlayerBlack
}

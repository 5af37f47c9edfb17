package apperror

import "errors"

var (
	ErrGameOver      = errors.New("game is already over")
	ErrOutOfBounds   = errors.New("coordinate is outside the board")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrNothingToUndo = errors.New("no moves to undo")
	ErrGameNotFound  = errors.New("game not found")
)

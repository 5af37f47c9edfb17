package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/whdxgjj/gomoku-game/internal/entity"
	"github.com/whdxgjj/gomoku-game/internal/pkg"
	"github.com/whdxgjj/gomoku-game/internal/repository"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

// GameManager loads a game from the store, applies one engine operation and
// stores the result back. Engine rule errors pass through untouched so the
// transport can tell the client which rule rejected the input.
type GameManager struct {
	logger      *slog.Logger
	gameRepo    gameRepo
	sessionRepo sessionRepo

	boardSize int
	winLength int
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, sessionRepo sessionRepo, boardSize, winLength int) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:    gameRepo,
		sessionRepo: sessionRepo,

		boardSize: boardSize,
		winLength: winLength,
	}
}

// GetOrCreateSession - returns the session for id, creating it (or one with
// a fresh id when none is given) on first contact.
func (that *GameManager) GetOrCreateSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	if sessionID == "" {
		sessionID = pkg.GenerateNewSessionID()
	}

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err == nil {
		return session, nil
	}

	if !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	session = &entity.Session{ID: sessionID}
	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("created new session", "sessionID", session.ID)

	return session, nil
}

// GetOrCreateGame - returns the game bound to the session, starting a new
// one with the configured board when the session has none yet.
func (that *GameManager) GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	session, err := that.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create session: %w", err)
	}

	if session.GameID != "" {
		game, err := that.gameRepo.GetByID(ctx, session.GameID)
		if err == nil {
			return game, nil
		}

		// a stale binding. the game key is gone, start over
		that.logger.Warn("session points to a missing game", "sessionID", session.ID, "gameID", session.GameID)
	}

	game := entity.NewGame(pkg.GenerateNewSessionID(), that.boardSize, that.winLength)
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	session.GameID = game.ID
	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to bind game to session: %w", err)
	}

	that.logger.Info("created new game", "gameID", game.ID, "size", game.Size, "winLength", game.WinLength)

	return game, nil
}

// GetGame - loads a game by its id.
func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// ApplyMove - places a stone in the stored game. The updated game is
// returned together with any engine rule error, so the caller can still
// render the unchanged position.
func (that *GameManager) ApplyMove(ctx context.Context, gameID string, row, col int) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	move, err := game.ApplyMove(row, col)
	if err != nil {
		return game, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Debug("applied move", "gameID", game.ID, "row", move.Row, "col", move.Col, "player", move.Player, "status", game.Status)

	return game, nil
}

// Undo - takes back the latest move in the stored game.
func (that *GameManager) Undo(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if _, err = game.Undo(); err != nil {
		return game, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Debug("undid move", "gameID", game.ID, "turn", game.Turn)

	return game, nil
}

// Restart - resets the stored game to its starting position.
func (that *GameManager) Restart(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	game.Reset()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("restarted game", "gameID", game.ID)

	return game, nil
}

package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/whdxgjj/gomoku-game/internal/apperror"
	"github.com/whdxgjj/gomoku-game/internal/entity"
)

// handleConnect binds the socket to its session and, when the session
// already has a game, replays its snapshot so a reloaded page can resume.
func (that *Server) handleConnect(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	// a client may carry its session id in the payload instead of the cookie
	if payloadReq.SessionID != "" {
		cl.sessionID = payloadReq.SessionID
	}

	session, err := that.uGame.GetOrCreateSession(ctx, cl.sessionID)
	if err != nil {
		log.Error("failed to create or get session", "error", err)
		return that.sendErrorResponse(cl, msg.Action, "failed to create a session")
	}

	cl.sessionID = session.ID

	payloadResp := Payload{SessionID: session.ID}

	if session.GameID != "" {
		game, err := that.uGame.GetGame(ctx, session.GameID)
		if err == nil {
			payloadResp.GameID = game.ID
			payloadResp.Game = game.Snapshot()
		}
	}

	if err = that.sendMessage(cl, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected session", "sessionID", session.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	game, err := that.uGame.GetOrCreateGame(ctx, cl.sessionID)
	if err != nil {
		log.Error("failed to create or get game", "error", err)
		return that.sendErrorResponse(cl, msg.Action, "failed to create a new game")
	}

	log.Info("game ready", "gameID", game.ID)

	return that.sendSnapshot(cl, msg.Action, game)
}

func (that *Server) handleMove(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleMove")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.GameID == "" {
		return that.sendErrorResponse(cl, msg.Action, "game_id is required")
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return that.sendErrorResponse(cl, msg.Action, "row and col are required")
	}

	game, err := that.uGame.ApplyMove(ctx, payloadReq.GameID, *payloadReq.Row, *payloadReq.Col)
	if err != nil {
		return that.sendRuleError(cl, msg.Action, game, err)
	}

	log.Debug("move accepted", "gameID", game.ID, "status", game.Status)

	return that.sendSnapshot(cl, msg.Action, game)
}

func (that *Server) handleUndo(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleUndo")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.GameID == "" {
		return that.sendErrorResponse(cl, msg.Action, "game_id is required")
	}

	game, err := that.uGame.Undo(ctx, payloadReq.GameID)
	if err != nil {
		return that.sendRuleError(cl, msg.Action, game, err)
	}

	log.Debug("move undone", "gameID", game.ID)

	return that.sendSnapshot(cl, msg.Action, game)
}

func (that *Server) handleReset(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleReset")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.GameID == "" {
		return that.sendErrorResponse(cl, msg.Action, "game_id is required")
	}

	game, err := that.uGame.Restart(ctx, payloadReq.GameID)
	if err != nil {
		log.Error("failed to restart game", "gameID", payloadReq.GameID, "error", err)
		return that.sendErrorResponse(cl, msg.Action, "failed to restart the game")
	}

	log.Info("game restarted", "gameID", game.ID)

	return that.sendSnapshot(cl, msg.Action, game)
}

func (that *Server) handleState(ctx context.Context, cl *client, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.GameID == "" {
		return that.sendErrorResponse(cl, msg.Action, "game_id is required")
	}

	game, err := that.uGame.GetGame(ctx, payloadReq.GameID)
	if err != nil {
		return that.sendErrorResponse(cl, msg.Action, "failed to get the game")
	}

	return that.sendSnapshot(cl, msg.Action, game)
}

func (that *Server) sendSnapshot(cl *client, action string, game *entity.Game) error {
	payload := Payload{
		GameID: game.ID,
		Game:   game.Snapshot(),
	}

	if err := that.sendMessage(cl, action, payload); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

// sendRuleError answers a rejected operation. Engine rule violations go back
// with the unchanged snapshot so the client can re-render; anything else is
// reported as a plain failure.
func (that *Server) sendRuleError(cl *client, action string, game *entity.Game, err error) error {
	switch {
	case errors.Is(err, apperror.ErrGameOver),
		errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNothingToUndo):
		payload := Payload{Error: err.Error()}
		if game != nil {
			payload.GameID = game.ID
			payload.Game = game.Snapshot()
		}

		return that.sendMessage(cl, action, payload)
	case errors.Is(err, apperror.ErrGameNotFound):
		return that.sendErrorResponse(cl, action, "game not found")
	default:
		that.logger.Error("operation failed", "action", action, "error", err)
		return that.sendErrorResponse(cl, action, "operation failed")
	}
}

func decodePayload(msg *Message) (*Payload, error) {
	payload := &Payload{}

	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

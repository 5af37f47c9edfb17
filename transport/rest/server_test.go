package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whdxgjj/gomoku-game/internal/apperror"
	"github.com/whdxgjj/gomoku-game/internal/entity"
)

type fakeGameReader struct {
	games map[string]*entity.Game
}

func (that *fakeGameReader) GetGame(_ context.Context, gameID string) (*entity.Game, error) {
	game, ok := that.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", apperror.ErrGameNotFound, gameID)
	}

	return game, nil
}

func newTestServer(games map[string]*entity.Game) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(logger, &fakeGameReader{games: games})
}

func TestServer_PingHandler(t *testing.T) {
	// Given: a running server
	server := newTestServer(nil)
	recorder := httptest.NewRecorder()

	// When: /ping is requested
	server.pingHandler(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Then: it answers pong
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestServer_GameHandler(t *testing.T) {
	t.Run("Returns the snapshot of a stored game", func(t *testing.T) {
		// Given: a stored game with one stone
		game := entity.NewGame("123", entity.DefaultBoardSize, entity.DefaultWinLength)
		_, err := game.ApplyMove(7, 7)
		require.NoError(t, err)

		server := newTestServer(map[string]*entity.Game{"123": game})
		recorder := httptest.NewRecorder()

		// When: the game is requested by id
		server.gameHandler(recorder, httptest.NewRequest(http.MethodGet, "/game?id=123", nil))

		// Then: the JSON snapshot comes back
		require.Equal(t, http.StatusOK, recorder.Code)

		var snapshot entity.Snapshot
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &snapshot))
		assert.Equal(t, "123", snapshot.ID)
		assert.Equal(t, entity.PlayerBlack, snapshot.Board[7*snapshot.Size+7])
		assert.Equal(t, entity.PlayerWhite, snapshot.Turn)
	})

	t.Run("Returns 404 for an unknown game", func(t *testing.T) {
		// Given: a server with no games
		server := newTestServer(nil)
		recorder := httptest.NewRecorder()

		// When: a missing game is requested
		server.gameHandler(recorder, httptest.NewRequest(http.MethodGet, "/game?id=missing", nil))

		// Then: it answers 404
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Returns 400 without an id", func(t *testing.T) {
		// Given: a running server
		server := newTestServer(nil)
		recorder := httptest.NewRecorder()

		// When: /game is requested without an id
		server.gameHandler(recorder, httptest.NewRequest(http.MethodGet, "/game", nil))

		// Then: it answers 400
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

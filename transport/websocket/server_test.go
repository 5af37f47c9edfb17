package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whdxgjj/gomoku-game/internal/entity"
)

// fakeUseCase keeps a single hot-seat game in memory, enough to drive the
// socket protocol end to end.
type fakeUseCase struct {
	game *entity.Game
}

func (that *fakeUseCase) GetOrCreateSession(_ context.Context, sessionID string) (*entity.Session, error) {
	if sessionID == "" {
		sessionID = "session-1"
	}

	session := &entity.Session{ID: sessionID}
	if that.game != nil {
		session.GameID = that.game.ID
	}

	return session, nil
}

func (that *fakeUseCase) GetOrCreateGame(_ context.Context, _ string) (*entity.Game, error) {
	if that.game == nil {
		that.game = entity.NewGame("game-1", entity.DefaultBoardSize, entity.DefaultWinLength)
	}

	return that.game, nil
}

func (that *fakeUseCase) GetGame(_ context.Context, _ string) (*entity.Game, error) {
	return that.game, nil
}

func (that *fakeUseCase) ApplyMove(_ context.Context, _ string, row, col int) (*entity.Game, error) {
	_, err := that.game.ApplyMove(row, col)
	return that.game, err
}

func (that *fakeUseCase) Undo(_ context.Context, _ string) (*entity.Game, error) {
	_, err := that.game.Undo()
	return that.game, err
}

func (that *fakeUseCase) Restart(_ context.Context, _ string) (*entity.Game, error) {
	that.game.Reset()
	return that.game, nil
}

func dialTestServer(t *testing.T) (*websocket.Conn, *fakeUseCase) {
	t.Helper()

	uGame := &fakeUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := New(logger, uGame)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.serveClient(context.Background(), w, r)
	}))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	defer resp.Body.Close()

	return conn, uGame
}

func send(t *testing.T, conn *websocket.Conn, action string, payload Payload) Payload {
	t.Helper()

	payloadJSON, err := json.Marshal(payload)
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: payloadJSON}))

	var response Message
	require.NoError(t, conn.ReadJSON(&response))
	assert.Equal(t, action, response.Action)

	var responsePayload Payload
	require.NoError(t, json.Unmarshal(response.Payload, &responsePayload))

	return responsePayload
}

func intPtr(v int) *int { return &v }

func TestServer_Connect(t *testing.T) {
	t.Run("Connect hands back a session id", func(t *testing.T) {
		// Given: a connected client without a game
		conn, _ := dialTestServer(t)

		// When: it sends connect
		payload := send(t, conn, "connect", Payload{})

		// Then: it receives its session and no snapshot yet
		assert.NotEmpty(t, payload.SessionID)
		assert.Nil(t, payload.Game)
		assert.Empty(t, payload.Error)
	})

	t.Run("Connect resumes an existing game", func(t *testing.T) {
		// Given: a session that already has a game with one stone
		conn, uGame := dialTestServer(t)
		_, err := uGame.GetOrCreateGame(context.Background(), "session-1")
		require.NoError(t, err)
		_, err = uGame.ApplyMove(context.Background(), "game-1", 7, 7)
		require.NoError(t, err)

		// When: the client connects
		payload := send(t, conn, "connect", Payload{})

		// Then: the snapshot of the running game comes back
		require.NotNil(t, payload.Game)
		assert.Equal(t, "game-1", payload.GameID)
		assert.Equal(t, entity.PlayerBlack, payload.Game.Board[7*payload.Game.Size+7])
	})
}

func TestServer_GamePlay(t *testing.T) {
	t.Run("New game, move, undo and reset round trip", func(t *testing.T) {
		// Given: a connected client with a fresh game
		conn, _ := dialTestServer(t)
		created := send(t, conn, "game:new", Payload{})
		require.NotNil(t, created.Game)
		gameID := created.GameID

		// When: a move is played
		moved := send(t, conn, "game:move", Payload{GameID: gameID, Row: intPtr(7), Col: intPtr(7)})

		// Then: the snapshot shows the stone and white to move
		require.NotNil(t, moved.Game)
		assert.Equal(t, entity.PlayerBlack, moved.Game.Board[7*moved.Game.Size+7])
		assert.Equal(t, entity.PlayerWhite, moved.Game.Turn)
		require.NotNil(t, moved.Game.LastMove)
		assert.Equal(t, entity.Move{Row: 7, Col: 7, Player: entity.PlayerBlack}, *moved.Game.LastMove)

		// When: the move is undone
		undone := send(t, conn, "game:undo", Payload{GameID: gameID})

		// Then: the board is empty with black to move again
		require.NotNil(t, undone.Game)
		assert.Equal(t, entity.EmptyCell, undone.Game.Board[7*undone.Game.Size+7])
		assert.Equal(t, entity.PlayerBlack, undone.Game.Turn)

		// When: the game is reset
		reset := send(t, conn, "game:reset", Payload{GameID: gameID})

		// Then: the snapshot is a starting position
		require.NotNil(t, reset.Game)
		assert.Equal(t, entity.StatusInProgress, reset.Game.Status)
		assert.Nil(t, reset.Game.LastMove)
	})

	t.Run("Occupied cell comes back as a rule error with the unchanged snapshot", func(t *testing.T) {
		// Given: a game with a stone at (7, 7)
		conn, _ := dialTestServer(t)
		created := send(t, conn, "game:new", Payload{})
		gameID := created.GameID
		send(t, conn, "game:move", Payload{GameID: gameID, Row: intPtr(7), Col: intPtr(7)})

		// When: the same cell is played again
		rejected := send(t, conn, "game:move", Payload{GameID: gameID, Row: intPtr(7), Col: intPtr(7)})

		// Then: the error names the rule and the snapshot still has one stone
		assert.Contains(t, rejected.Error, "occupied")
		require.NotNil(t, rejected.Game)
		assert.Equal(t, entity.PlayerWhite, rejected.Game.Turn)
	})

	t.Run("Missing coordinates are rejected before reaching the engine", func(t *testing.T) {
		// Given: a connected client with a game
		conn, _ := dialTestServer(t)
		created := send(t, conn, "game:new", Payload{})

		// When: a move without row/col is sent
		rejected := send(t, conn, "game:move", Payload{GameID: created.GameID})

		// Then: the request is refused
		assert.Equal(t, "row and col are required", rejected.Error)
	})

	t.Run("Unknown action is answered with an error", func(t *testing.T) {
		// Given: a connected client
		conn, _ := dialTestServer(t)

		// When: a bogus action is sent
		payload := send(t, conn, "game:teleport", Payload{})

		// Then: the server answers instead of dropping the connection
		assert.Equal(t, "unknown action", payload.Error)
	})
}

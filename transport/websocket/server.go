package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/whdxgjj/gomoku-game/internal/entity"
	"github.com/whdxgjj/gomoku-game/internal/pkg"
)

type gameUseCase interface {
	GetOrCreateSession(ctx context.Context, sessionID string) (*entity.Session, error)
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	ApplyMove(ctx context.Context, gameID string, row, col int) (*entity.Game, error)
	Undo(ctx context.Context, gameID string) (*entity.Game, error)
	Restart(ctx context.Context, gameID string) (*entity.Game, error)
}

// client is one connected presentation layer: the socket plus the session it
// authenticated with.
type client struct {
	conn      *websocket.Conn
	sessionID string
}

type Server struct {
	logger *slog.Logger
	uGame  gameUseCase

	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, cl *client, message *Message) error
}

func New(logger *slog.Logger, uGame gameUseCase) *Server {
	server := &Server{
		logger: logger,
		uGame:  uGame,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:new"] = server.handleNewGame
	server.handlers["game:move"] = server.handleMove
	server.handlers["game:undo"] = server.handleUndo
	server.handlers["game:reset"] = server.handleReset
	server.handlers["game:state"] = server.handleState

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveClient(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveClient - upgrades the connection and runs the message loop for it.
func (that *Server) serveClient(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveClient")

	sessionID := that.sessionFromCookie(writer, req)

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established", "sessionID", sessionID)

	cl := &client{conn: conn, sessionID: sessionID}

	if err = that.handleMessages(ctx, cl); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, cl *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := cl.conn.ReadJSON(&message); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)

			if err := that.sendErrorResponse(cl, message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		if err := handler(ctx, cl, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// sessionFromCookie - reads the session cookie, setting a fresh one when the
// client has none yet.
func (that *Server) sessionFromCookie(writer http.ResponseWriter, req *http.Request) string {
	log := that.logger.With("method", "sessionFromCookie")

	cookie, err := req.Cookie("user_session")
	if err != nil {
		cookie = &http.Cookie{
			Name:    "user_session",
			Value:   pkg.GenerateNewSessionID(),
			Expires: time.Now().Add(24 * time.Hour),
			Path:    "/ws",
		}
		http.SetCookie(writer, cookie)
		log.Info("session cookie not found, new one created", "cookie", cookie.Value)

		return cookie.Value
	}

	log.Info("session cookie found", "cookie", cookie.Value)

	return cookie.Value
}

func (that *Server) sendMessage(cl *client, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response := Message{
		Action:  action,
		Payload: payloadJSON,
	}

	if err = cl.conn.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(cl *client, action, message string) error {
	return that.sendMessage(cl, action, Payload{Error: message})
}

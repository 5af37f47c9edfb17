package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/whdxgjj/gomoku-game/internal/entity"
)

type gameReader interface {
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

type Server struct {
	logger *slog.Logger
	games  gameReader
}

func New(logger *slog.Logger, games gameReader) *Server {
	return &Server{
		logger: logger,
		games:  games,
	}
}

func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", that.pingHandler)
	mux.HandleFunc("/game", that.gameHandler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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

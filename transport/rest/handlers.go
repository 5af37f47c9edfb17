package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/whdxgjj/gomoku-game/internal/apperror"
)

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// gameHandler - read-only snapshot of a game, the same view the socket
// pushes after every operation.
func (that *Server) gameHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "gameHandler")

	gameID := r.URL.Query().Get("id")
	if gameID == "" {
		http.Error(w, "id query parameter is required", http.StatusBadRequest)
		return
	}

	game, err := that.games.GetGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		log.Error("failed to get game", "gameID", gameID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(game.Snapshot()); err != nil {
		log.Error("failed to encode snapshot", "gameID", gameID, "error", err)
	}
}

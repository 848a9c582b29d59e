package ws

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wordduel/internal/app"
	"wordduel/internal/domain"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are checked by the CORS layer in front of the API
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP upgrades /ws?matchId=...&playerId=... requests. With a player
// ID the connection resumes that seat; without one the client must send
// join_match to take the free seat.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		http.Error(w, "matchId is required", http.StatusBadRequest)
		return
	}

	coord, err := h.hub.GetMatch(matchID)
	if err != nil {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}

	playerID := r.URL.Query().Get("playerId")
	if playerID != "" {
		if _, err := coord.ReconnectPlayer(playerID); err != nil {
			if errors.Is(err, domain.ErrPlayerNotFound) {
				http.Error(w, "Player is not seated in this match", http.StatusForbidden)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		if playerID != "" {
			coord.DisconnectPlayer(playerID)
		}
		return
	}

	logger := h.logger.With().Str("matchId", matchID).Logger()
	client := NewClient(conn, h.hub, coord, playerID, logger)

	logger.Info().Str("playerId", playerID).Bool("resumed", playerID != "").Msg("websocket connected")

	if playerID != "" {
		coord.RegisterClient(playerID, client)
		client.sendConnected()
	}

	client.Run()
}

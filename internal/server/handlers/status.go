package handlers

import (
	"log/slog"
	"net/http"

	"crimecity-server/internal/notify"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

type StatusResponse struct {
	TotalPlayers  int    `json:"total_players"`
	OnlinePlayers int    `json:"online_players"`
	Status        string `json:"status"`
}

// StatusHandler reports headline numbers for the landing page.
type StatusHandler struct {
	playerService *player.Service
	hub           *notify.Hub
}

func NewStatusHandler(playerService *player.Service, hub *notify.Hub) *StatusHandler {
	return &StatusHandler{playerService: playerService, hub: hub}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "game_status")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	count, err := h.playerService.GetPlayerCount(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	resp := StatusResponse{
		TotalPlayers:  count,
		OnlinePlayers: h.hub.OnlinePlayers(ctx),
		Status:        "online",
	}

	response.Success(w, http.StatusOK, resp)
}

package handlers

import (
	"log/slog"
	"net/http"

	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

type PlayersHandler struct {
	playerService *player.Service
}

func NewPlayersHandler(playerService *player.Service) *PlayersHandler {
	return &PlayersHandler{playerService: playerService}
}

// List returns the public roster, highest level first.
func (h *PlayersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_players")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	profiles, err := h.playerService.GetAllProfiles(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if profiles == nil {
		profiles = []player.PublicProfile{}
	}

	response.Success(w, http.StatusOK, profiles)
}

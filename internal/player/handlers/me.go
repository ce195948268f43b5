package handlers

import (
	"log/slog"
	"net/http"

	"crimecity-server/internal/middleware"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

type MeHandler struct {
	playerService *player.Service
}

func NewMeHandler(playerService *player.Service) *MeHandler {
	return &MeHandler{playerService: playerService}
}

// ServeHTTP returns the authenticated player's own character sheet.
// Resources are refreshed first so energy and health are current.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "me")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	p, err := h.playerService.Refresh(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"crimecity-server/internal/auth"
	"crimecity-server/internal/middleware"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

// ActionsHandler covers the self-directed player actions: travelling,
// training stats, and moving cash in and out of the bank.
type ActionsHandler struct {
	playerService *player.Service
}

func NewActionsHandler(playerService *player.Service) *ActionsHandler {
	return &ActionsHandler{playerService: playerService}
}

func (h *ActionsHandler) Travel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "travel")

	claims, appErr := authedPost(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	var req struct {
		DestinationID int `json:"destination_id"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	p, loc, err := h.playerService.Travel(ctx, claims.PlayerID, req.DestinationID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"player":   p,
		"location": loc,
	})
}

func (h *ActionsHandler) Train(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "train")

	claims, appErr := authedPost(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	var req struct {
		Stat string `json:"stat"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	p, err := h.playerService.TrainStat(ctx, claims.PlayerID, req.Stat)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}

func (h *ActionsHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.bankTransfer(w, r, "deposit", h.playerService.Deposit)
}

func (h *ActionsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.bankTransfer(w, r, "withdraw", h.playerService.Withdraw)
}

func (h *ActionsHandler) bankTransfer(w http.ResponseWriter, r *http.Request, name string,
	transfer func(ctx context.Context, playerID int, amount int64) (*player.Player, error)) {
	ctx := r.Context()
	logger := slog.With("handler", name)

	claims, appErr := authedPost(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	var req struct {
		Amount int64 `json:"amount"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	p, err := transfer(ctx, claims.PlayerID, req.Amount)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}

func authedPost(r *http.Request) (*auth.Claims, error) {
	if r.Method != http.MethodPost {
		return nil, errors.MethodNotAllowed(r.Method)
	}
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return nil, errors.Unauthorized("no user claims found in context")
	}
	return claims, nil
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"crimecity-server/internal/combat"
	"crimecity-server/internal/middleware"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

type CombatHandler struct {
	service       *combat.Service
	playerService *player.Service
}

func NewCombatHandler(service *combat.Service, playerService *player.Service) *CombatHandler {
	return &CombatHandler{service: service, playerService: playerService}
}

// GetOpponents lists attackable players at the caller's location.
func (h *CombatHandler) GetOpponents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_opponents")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	opponents, err := h.playerService.FindOpponents(ctx, claims.PlayerID, limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if opponents == nil {
		opponents = []player.PublicProfile{}
	}

	response.Success(w, http.StatusOK, opponents)
}

// Attack resolves a fight against the requested defender.
func (h *CombatHandler) Attack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "attack")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	var req struct {
		DefenderID int `json:"defender_id"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}
	if req.DefenderID <= 0 {
		response.Error(w, r, logger, errors.Validation("defender ID is required"))
		return
	}

	result, err := h.service.Attack(ctx, claims.PlayerID, req.DefenderID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

// GetHistory lists the caller's recent fights.
func (h *CombatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "combat_history")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	combats, err := h.service.GetHistory(ctx, claims.PlayerID, limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if combats == nil {
		combats = []combat.Combat{}
	}

	response.Success(w, http.StatusOK, combats)
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"crimecity-server/internal/crime"
	"crimecity-server/internal/middleware"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

type CrimeHandler struct {
	service *crime.Service
}

func NewCrimeHandler(service *crime.Service) *CrimeHandler {
	return &CrimeHandler{service: service}
}

// GetCrimes lists the crimes the caller can attempt, with their odds.
func (h *CrimeHandler) GetCrimes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_crimes")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	crimes, err := h.service.ListAvailable(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if crimes == nil {
		crimes = []crime.AvailableCrime{}
	}

	response.Success(w, http.StatusOK, crimes)
}

// Attempt runs one crime attempt for the caller.
func (h *CrimeHandler) Attempt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "attempt_crime")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	crimeIDStr := r.PathValue("crime_id")
	if crimeIDStr == "" {
		response.Error(w, r, logger, errors.Validation("crime ID is required"))
		return
	}

	crimeID, err := strconv.Atoi(crimeIDStr)
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid crime ID format", err))
		return
	}

	result, message, err := h.service.Commit(ctx, claims.PlayerID, crimeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"result":  result,
		"message": message,
	})
}

// GetHistory lists the caller's recent crime attempts.
func (h *CrimeHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "crime_history")

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

	results, err := h.service.GetHistory(ctx, claims.PlayerID, limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if results == nil {
		results = []crime.CrimeResult{}
	}

	response.Success(w, http.StatusOK, results)
}

// GetStats returns the caller's lifetime crime record.
func (h *CrimeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "crime_stats")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	stats, err := h.service.GetStats(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, stats)
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"crimecity-server/internal/location"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

type LocationHandler struct {
	service *location.Service
}

func NewLocationHandler(service *location.Service) *LocationHandler {
	return &LocationHandler{service: service}
}

// List returns the world map.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_locations")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	locations, err := h.service.GetAll(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if locations == nil {
		locations = []location.Location{}
	}

	response.Success(w, http.StatusOK, locations)
}

// Connections returns the routes leaving a location, with their travel
// costs and level requirements.
func (h *LocationHandler) Connections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "location_connections")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}
	locationID, err := strconv.Atoi(r.PathValue("location_id"))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid location ID", err))
		return
	}

	connections, err := h.service.GetConnectionsFrom(ctx, locationID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if connections == nil {
		connections = []location.Connection{}
	}

	response.Success(w, http.StatusOK, connections)
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"crimecity-server/internal/auth"
	"crimecity-server/internal/middleware"
	"crimecity-server/internal/property"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

type PropertyHandler struct {
	service *property.Service
}

func NewPropertyHandler(service *property.Service) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// GetTypes lists the property types the player can afford to unlock.
func (h *PropertyHandler) GetTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_property_types")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	types, err := h.service.GetAvailableTypes(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if types == nil {
		types = []property.PropertyType{}
	}

	response.Success(w, http.StatusOK, types)
}

// Properties lists owned properties on GET and purchases on POST.
func (h *PropertyHandler) Properties(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProperties(w, r)
	case http.MethodPost:
		h.purchase(w, r)
	default:
		response.Error(w, r, slog.With("handler", "properties"), errors.MethodNotAllowed(r.Method))
	}
}

func (h *PropertyHandler) getProperties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_properties")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	properties, err := h.service.GetProperties(ctx, claims.PlayerID, includeInactive)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if properties == nil {
		properties = []property.Property{}
	}

	response.Success(w, http.StatusOK, properties)
}

func (h *PropertyHandler) purchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "purchase_property")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	var req struct {
		PropertyTypeID int    `json:"property_type_id"`
		LocationID     int    `json:"location_id"`
		Name           string `json:"name"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	pr, err := h.service.Purchase(ctx, claims.PlayerID, req.PropertyTypeID, req.LocationID, req.Name)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, pr)
}

// Collect pays out accrued income on the property in the path.
func (h *PropertyHandler) Collect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "collect_property_income")

	claims, propertyID, appErr := authedPropertyID(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	income, msg, err := h.service.Collect(ctx, claims.PlayerID, propertyID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"income":  income,
		"message": msg,
	})
}

// CollectAll sweeps income from every active property at once.
func (h *PropertyHandler) CollectAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "collect_all_property_income")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	total, err := h.service.CollectAll(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"income": total,
	})
}

// Upgrade raises the property's level for half its current value.
func (h *PropertyHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "upgrade_property")

	claims, propertyID, appErr := authedPropertyID(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	pr, msg, err := h.service.Upgrade(ctx, claims.PlayerID, propertyID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"property": pr,
		"message":  msg,
	})
}

// Sell cashes out the property at 70% of its current value.
func (h *PropertyHandler) Sell(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "sell_property")

	claims, propertyID, appErr := authedPropertyID(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	price, msg, err := h.service.Sell(ctx, claims.PlayerID, propertyID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"price":   price,
		"message": msg,
	})
}

func authedPropertyID(r *http.Request) (*auth.Claims, int, error) {
	if r.Method != http.MethodPost {
		return nil, 0, errors.MethodNotAllowed(r.Method)
	}
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return nil, 0, errors.Unauthorized("no user claims found in context")
	}
	propertyID, err := strconv.Atoi(r.PathValue("property_id"))
	if err != nil {
		return nil, 0, errors.WrapValidation("invalid property ID", err)
	}
	return claims, propertyID, nil
}

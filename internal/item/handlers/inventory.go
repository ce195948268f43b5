package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"crimecity-server/internal/auth"
	"crimecity-server/internal/item"
	"crimecity-server/internal/middleware"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

type InventoryHandler struct {
	service *item.Service
}

func NewInventoryHandler(service *item.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_inventory")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	entries, err := h.service.GetInventory(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if entries == nil {
		entries = []item.InventoryEntry{}
	}

	response.Success(w, http.StatusOK, entries)
}

func (h *InventoryHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_items")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	items, err := h.service.ListItems(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if items == nil {
		items = []item.Item{}
	}

	response.Success(w, http.StatusOK, items)
}

func (h *InventoryHandler) Equip(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, "equip_item", h.service.Equip)
}

func (h *InventoryHandler) Unequip(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, "unequip_item", h.service.Unequip)
}

func (h *InventoryHandler) Use(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "use_item")

	claims, itemID, appErr := authedItemID(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	msg, p, err := h.service.Use(ctx, claims.PlayerID, itemID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"message": msg,
		"energy":  p.Energy,
		"health":  p.Health,
	})
}

func (h *InventoryHandler) itemAction(w http.ResponseWriter, r *http.Request, name string,
	action func(ctx context.Context, playerID, itemID int) (string, error)) {
	ctx := r.Context()
	logger := slog.With("handler", name)

	claims, itemID, appErr := authedItemID(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	msg, err := action(ctx, claims.PlayerID, itemID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"message": msg})
}

// authedItemID pulls the authenticated claims and the {item_id} path value
// shared by the inventory action endpoints.
func authedItemID(r *http.Request) (*auth.Claims, int, error) {
	if r.Method != http.MethodPost {
		return nil, 0, errors.MethodNotAllowed(r.Method)
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return nil, 0, errors.Unauthorized("no user claims found in context")
	}

	itemIDStr := r.PathValue("item_id")
	if itemIDStr == "" {
		return nil, 0, errors.Validation("item ID is required")
	}

	itemID, err := strconv.Atoi(itemIDStr)
	if err != nil {
		return nil, 0, errors.WrapValidation("invalid item ID format", err)
	}

	return claims, itemID, nil
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"crimecity-server/internal/auth"
	"crimecity-server/internal/market"
	"crimecity-server/internal/middleware"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

type MarketHandler struct {
	service *market.Service
}

func NewMarketHandler(service *market.Service) *MarketHandler {
	return &MarketHandler{service: service}
}

// GetListings browses active listings; Create posts a new one.
func (h *MarketHandler) Listings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getListings(w, r)
	case http.MethodPost:
		h.createListing(w, r)
	default:
		response.Error(w, r, slog.With("handler", "market_listings"), errors.MethodNotAllowed(r.Method))
	}
}

func (h *MarketHandler) getListings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_listings")

	f := market.ActiveFilters{}
	q := r.URL.Query()
	if v := q.Get("item_type"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.ItemTypeID = n
		}
	}
	if v := q.Get("max_price"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.MaxPrice = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}

	listings, err := h.service.GetListings(ctx, f)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if listings == nil {
		listings = []market.Listing{}
	}

	response.Success(w, http.StatusOK, listings)
}

func (h *MarketHandler) createListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_listing")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	var req struct {
		ItemID      int    `json:"item_id"`
		Quantity    int    `json:"quantity"`
		Price       int64  `json:"price"`
		Description string `json:"description"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	listing, err := h.service.CreateListing(ctx, claims.PlayerID, req.ItemID, req.Quantity, req.Price, req.Description)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, listing)
}

// Purchase buys the listing in the path.
func (h *MarketHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "purchase_listing")

	claims, listingID, appErr := authedListingID(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	listing, msg, err := h.service.Purchase(ctx, claims.PlayerID, listingID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"listing": listing,
		"message": msg,
	})
}

// Cancel withdraws the caller's own listing.
func (h *MarketHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "cancel_listing")

	claims, listingID, appErr := authedListingID(r)
	if appErr != nil {
		response.Error(w, r, logger, appErr)
		return
	}

	msg, err := h.service.Cancel(ctx, claims.PlayerID, listingID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"message": msg})
}

// MyListings lists the caller's own offers.
func (h *MarketHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "my_listings")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	includeClosed := r.URL.Query().Get("include_closed") == "true"

	listings, err := h.service.GetMyListings(ctx, claims.PlayerID, includeClosed)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if listings == nil {
		listings = []market.Listing{}
	}

	response.Success(w, http.StatusOK, listings)
}

// authedListingID pulls the authenticated claims and the {listing_id} path
// value shared by the listing action endpoints.
func authedListingID(r *http.Request) (*auth.Claims, int, error) {
	if r.Method != http.MethodPost {
		return nil, 0, errors.MethodNotAllowed(r.Method)
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return nil, 0, errors.Unauthorized("no user claims found in context")
	}

	idStr := r.PathValue("listing_id")
	if idStr == "" {
		return nil, 0, errors.Validation("listing ID is required")
	}

	listingID, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, 0, errors.WrapValidation("invalid listing ID format", err)
	}

	return claims, listingID, nil
}

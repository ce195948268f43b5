package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"crimecity-server/internal/crime"
	"crimecity-server/internal/item"
	"crimecity-server/internal/location"
	"crimecity-server/internal/property"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/response"
)

// AdminHandler exposes the content seeding endpoints. World content
// (locations, items, crimes, property types) is created here rather
// than by fixture files so a running server can be extended live.
type AdminHandler struct {
	locations  *location.Service
	items      *item.Service
	crimes     *crime.Service
	properties *property.Service
}

func NewAdminHandler(locations *location.Service, items *item.Service, crimes *crime.Service, properties *property.Service) *AdminHandler {
	return &AdminHandler{
		locations:  locations,
		items:      items,
		crimes:     crimes,
		properties: properties,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Method != http.MethodPost {
		return errors.MethodNotAllowed(r.Method)
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.WrapValidation("invalid JSON in request body", err)
	}
	return nil
}

func (h *AdminHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "admin_create_location")

	var loc location.Location
	if err := decodeBody(w, r, &loc); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.locations.Create(r.Context(), &loc)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger.Info("Location created", "location_id", created.ID, "name", created.Name)
	response.Success(w, http.StatusCreated, created)
}

func (h *AdminHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "admin_create_connection")

	var conn location.Connection
	if err := decodeBody(w, r, &conn); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.locations.CreateConnection(r.Context(), &conn)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *AdminHandler) CreateItemType(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "admin_create_item_type")

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.items.CreateItemType(r.Context(), req.Name, req.Description)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *AdminHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "admin_create_item")

	var it item.Item
	if err := decodeBody(w, r, &it); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.items.CreateItem(r.Context(), &it)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger.Info("Item created", "item_id", created.ID, "name", created.Name)
	response.Success(w, http.StatusCreated, created)
}

func (h *AdminHandler) CreateCrimeType(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "admin_create_crime_type")

	var ct crime.CrimeType
	if err := decodeBody(w, r, &ct); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.crimes.CreateType(r.Context(), &ct)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger.Info("Crime type created", "crime_type_id", created.ID, "name", created.Name)
	response.Success(w, http.StatusCreated, created)
}

func (h *AdminHandler) CreatePropertyType(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "admin_create_property_type")

	var pt property.PropertyType
	if err := decodeBody(w, r, &pt); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.properties.CreateType(r.Context(), &pt)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger.Info("Property type created", "property_type_id", created.ID, "name", created.Name)
	response.Success(w, http.StatusCreated, created)
}

package server

import (
	"log/slog"
	"net/http"

	"crimecity-server/internal/auth"
	authHandlers "crimecity-server/internal/auth/handlers"
	"crimecity-server/internal/combat"
	combatHandlers "crimecity-server/internal/combat/handlers"
	"crimecity-server/internal/crime"
	crimeHandlers "crimecity-server/internal/crime/handlers"
	"crimecity-server/internal/item"
	itemHandlers "crimecity-server/internal/item/handlers"
	"crimecity-server/internal/location"
	locationHandlers "crimecity-server/internal/location/handlers"
	"crimecity-server/internal/market"
	marketHandlers "crimecity-server/internal/market/handlers"
	"crimecity-server/internal/middleware"
	"crimecity-server/internal/notify"
	"crimecity-server/internal/player"
	playerHandlers "crimecity-server/internal/player/handlers"
	"crimecity-server/internal/property"
	propertyHandlers "crimecity-server/internal/property/handlers"
	serverHandlers "crimecity-server/internal/server/handlers"
	"crimecity-server/internal/shared/database"
)

type Routes struct {
	db              *database.DB
	playerService   *player.Service
	authService     *auth.Service
	locationService *location.Service
	itemService     *item.Service
	combatService   *combat.Service
	crimeService    *crime.Service
	marketService   *market.Service
	propertyService *property.Service
	hub             *notify.Hub
	oauthConfig     *auth.OAuthConfig
	logger          *slog.Logger
}

func NewRoutes(
	db *database.DB,
	playerService *player.Service,
	authService *auth.Service,
	locationService *location.Service,
	itemService *item.Service,
	combatService *combat.Service,
	crimeService *crime.Service,
	marketService *market.Service,
	propertyService *property.Service,
	hub *notify.Hub,
	oauthConfig *auth.OAuthConfig,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:              db,
		playerService:   playerService,
		authService:     authService,
		locationService: locationService,
		itemService:     itemService,
		combatService:   combatService,
		crimeService:    crimeService,
		marketService:   marketService,
		propertyService: propertyService,
		hub:             hub,
		oauthConfig:     oauthConfig,
		logger:          logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	statusHandler := serverHandlers.NewStatusHandler(r.playerService, r.hub)
	adminHandler := serverHandlers.NewAdminHandler(r.locationService, r.itemService, r.crimeService, r.propertyService)

	playersHandler := playerHandlers.NewPlayersHandler(r.playerService)
	meHandler := playerHandlers.NewMeHandler(r.playerService)
	actionsHandler := playerHandlers.NewActionsHandler(r.playerService)
	locationHandler := locationHandlers.NewLocationHandler(r.locationService)
	inventoryHandler := itemHandlers.NewInventoryHandler(r.itemService)
	combatHandler := combatHandlers.NewCombatHandler(r.combatService, r.playerService)
	crimeHandler := crimeHandlers.NewCrimeHandler(r.crimeService)
	marketHandler := marketHandlers.NewMarketHandler(r.marketService)
	propertyHandler := propertyHandlers.NewPropertyHandler(r.propertyService)
	notifyHandler := notify.NewHandler(r.hub)
	logoutHandler := authHandlers.NewLogoutHandler()

	googleAuthHandler := authHandlers.NewOAuthHandler(
		r.oauthConfig.GoogleProvider,
		r.playerService,
		r.authService,
		r.oauthConfig.GoogleConfigured,
	)
	githubAuthHandler := authHandlers.NewOAuthHandler(
		r.oauthConfig.GitHubProvider,
		r.playerService,
		r.authService,
		r.oauthConfig.GitHubConfigured,
	)

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.JWTMiddleware(h)
	}

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.Handle("/api/game/status", statusHandler)
	mux.HandleFunc("/api/players", playersHandler.List)
	mux.HandleFunc("/api/locations", locationHandler.List)
	mux.HandleFunc("/api/locations/{location_id}/connections", locationHandler.Connections)
	mux.HandleFunc("/api/items", inventoryHandler.GetItems)

	// Protected endpoints (authenticated players)
	mux.Handle("/api/players/me", middleware.JWTMiddleware(meHandler))
	mux.Handle("/api/players/me/travel", protected(actionsHandler.Travel))
	mux.Handle("/api/players/me/train", protected(actionsHandler.Train))
	mux.Handle("/api/bank/deposit", protected(actionsHandler.Deposit))
	mux.Handle("/api/bank/withdraw", protected(actionsHandler.Withdraw))

	mux.Handle("/api/inventory", protected(inventoryHandler.GetInventory))
	mux.Handle("/api/inventory/{item_id}/equip", protected(inventoryHandler.Equip))
	mux.Handle("/api/inventory/{item_id}/unequip", protected(inventoryHandler.Unequip))
	mux.Handle("/api/inventory/{item_id}/use", protected(inventoryHandler.Use))

	mux.Handle("/api/combat/opponents", protected(combatHandler.GetOpponents))
	mux.Handle("/api/combat/attack", protected(combatHandler.Attack))
	mux.Handle("/api/combat/history", protected(combatHandler.GetHistory))

	mux.Handle("/api/crimes", protected(crimeHandler.GetCrimes))
	mux.Handle("/api/crimes/{crime_id}/attempt", protected(crimeHandler.Attempt))
	mux.Handle("/api/crimes/history", protected(crimeHandler.GetHistory))
	mux.Handle("/api/crimes/stats", protected(crimeHandler.GetStats))

	mux.Handle("/api/market/listings", protected(marketHandler.Listings))
	mux.Handle("/api/market/listings/{listing_id}/purchase", protected(marketHandler.Purchase))
	mux.Handle("/api/market/listings/{listing_id}/cancel", protected(marketHandler.Cancel))
	mux.Handle("/api/market/my-listings", protected(marketHandler.MyListings))

	mux.Handle("/api/properties/types", protected(propertyHandler.GetTypes))
	mux.Handle("/api/properties", protected(propertyHandler.Properties))
	mux.Handle("/api/properties/collect", protected(propertyHandler.CollectAll))
	mux.Handle("/api/properties/{property_id}/collect", protected(propertyHandler.Collect))
	mux.Handle("/api/properties/{property_id}/upgrade", protected(propertyHandler.Upgrade))
	mux.Handle("/api/properties/{property_id}/sell", protected(propertyHandler.Sell))

	mux.Handle("/ws", middleware.JWTMiddleware(notifyHandler))

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("/api/admin/locations", middleware.RequireAdmin(http.HandlerFunc(adminHandler.CreateLocation)))
	mux.Handle("/api/admin/locations/connections", middleware.RequireAdmin(http.HandlerFunc(adminHandler.CreateConnection)))
	mux.Handle("/api/admin/item-types", middleware.RequireAdmin(http.HandlerFunc(adminHandler.CreateItemType)))
	mux.Handle("/api/admin/items", middleware.RequireAdmin(http.HandlerFunc(adminHandler.CreateItem)))
	mux.Handle("/api/admin/crime-types", middleware.RequireAdmin(http.HandlerFunc(adminHandler.CreateCrimeType)))
	mux.Handle("/api/admin/property-types", middleware.RequireAdmin(http.HandlerFunc(adminHandler.CreatePropertyType)))

	// OAuth endpoints
	mux.HandleFunc("/auth/google", googleAuthHandler.HandleAuth)
	mux.HandleFunc("/auth/google/callback", googleAuthHandler.HandleCallback)
	mux.HandleFunc("/auth/github", githubAuthHandler.HandleAuth)
	mux.HandleFunc("/auth/github/callback", githubAuthHandler.HandleCallback)
	mux.Handle("/auth/logout", logoutHandler)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/game/status", "/api/players", "/api/locations", "/api/items"},
		"protected_endpoints", []string{"/api/players/me", "/api/inventory", "/api/combat", "/api/crimes", "/api/market", "/api/properties", "/ws"},
		"admin_endpoints", []string{"/api/admin"},
		"auth_endpoints", []string{"/auth/google", "/auth/github", "/auth/logout"},
	)

	return mux
}

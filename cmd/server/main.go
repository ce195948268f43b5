package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crimecity-server/internal/auth"
	"crimecity-server/internal/combat"
	"crimecity-server/internal/crime"
	"crimecity-server/internal/item"
	"crimecity-server/internal/location"
	"crimecity-server/internal/market"
	"crimecity-server/internal/middleware"
	"crimecity-server/internal/notify"
	"crimecity-server/internal/player"
	"crimecity-server/internal/property"
	"crimecity-server/internal/scheduler"
	"crimecity-server/internal/server"
	"crimecity-server/internal/shared/config"
	"crimecity-server/internal/shared/database"
	"crimecity-server/internal/shared/logger"
	"crimecity-server/internal/shared/random"
	"crimecity-server/internal/shared/redis"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using system environment variables")
	}

	if err := config.Init(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Init()

	log := slog.With("component", "main")
	cfg := config.GlobalConfig

	db, err := database.Connect()
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.Connect()
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	playerRepo := player.NewRepository(db)
	locationRepo := location.NewRepository(db)
	authRepo := auth.NewRepository(db)
	itemRepo := item.NewRepository(db)
	combatRepo := combat.NewRepository(db)
	crimeRepo := crime.NewRepository(db)
	marketRepo := market.NewRepository(db)
	propertyRepo := property.NewRepository(db)

	// Services
	hub := notify.NewHub(redisClient, slog.Default())
	rng := random.Default()
	playerService := player.NewService(playerRepo, locationRepo, slog.Default())
	locationService := location.NewService(locationRepo, slog.Default())
	authService := auth.NewService(authRepo, slog.Default())
	itemService := item.NewService(itemRepo, playerRepo, slog.Default())
	combatService := combat.NewService(combatRepo, playerService, playerRepo, itemRepo, locationRepo, hub, rng, slog.Default())
	crimeService := crime.NewService(crimeRepo, playerService, playerRepo, itemRepo, hub, rng, slog.Default())
	marketService := market.NewService(marketRepo, playerRepo, itemRepo, slog.Default())
	propertyService := property.NewService(propertyRepo, playerService, playerRepo, locationRepo, slog.Default())

	oauthConfig := auth.InitOAuth()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)
	go scheduler.New(playerService, marketService, slog.Default()).Run(ctx)

	routes := server.NewRoutes(
		db,
		playerService,
		authService,
		locationService,
		itemService,
		combatService,
		crimeService,
		marketService,
		propertyService,
		hub,
		oauthConfig,
		slog.Default(),
	)
	mux := routes.Setup()

	var handler http.Handler = mux
	if cfg.RateLimit.Enabled {
		handler = middleware.NewRateLimiter(cfg.RateLimit).Middleware(handler)
	}
	handler = middleware.NewCORS().Middleware(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}

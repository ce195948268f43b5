package scheduler

import (
	"context"
	"log/slog"
	"time"

	"crimecity-server/internal/market"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/config"
)

// Scheduler drives the background sweeps: topping up energy and health
// for players nobody is looking at, and closing out market listings
// that ran past their expiry.
type Scheduler struct {
	players *player.Service
	market  *market.Service
	cfg     config.SchedulerConfig
	logger  *slog.Logger
}

func New(players *player.Service, marketService *market.Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		players: players,
		market:  marketService,
		cfg:     config.GlobalConfig.Scheduler,
		logger:  logger.With("component", "scheduler"),
	}
}

// Run starts the sweep loops and blocks until the context is cancelled.
// Regeneration is lazy on read as well, so a missed tick only delays
// the persisted values, never the ones players see.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("Scheduler disabled")
		return
	}

	s.logger.Info("Scheduler started",
		"regen_interval", s.cfg.RegenInterval,
		"market_sweep_interval", s.cfg.MarketSweepInterval)

	go s.loop(ctx, "regen", s.cfg.RegenInterval, s.regenTick)
	s.loop(ctx, "market_sweep", s.cfg.MarketSweepInterval, s.marketTick)
}

func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, tick func(context.Context) error) {
	logger := s.logger.With("operation", name)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Sweep loop stopped")
			return
		case <-ticker.C:
			if err := tick(ctx); err != nil {
				logger.Error("Sweep failed", "error", err)
			}
		}
	}
}

func (s *Scheduler) regenTick(ctx context.Context) error {
	updated, err := s.players.RegenerateAll(ctx)
	if err != nil {
		return err
	}
	if updated > 0 {
		s.logger.Debug("Regeneration sweep complete", "players_updated", updated)
	}
	return nil
}

func (s *Scheduler) marketTick(ctx context.Context) error {
	expired, err := s.market.ExpireDue(ctx)
	if err != nil {
		return err
	}
	if expired > 0 {
		s.logger.Info("Expired market listings closed", "count", expired)
	}
	return nil
}

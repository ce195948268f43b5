package player

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crimecity-server/internal/location"
	"crimecity-server/internal/shared/config"
	"crimecity-server/internal/shared/errors"
)

type Service struct {
	repo      *Repository
	locations *location.Repository
	logger    *slog.Logger
}

func NewService(repo *Repository, locations *location.Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing player service")

	return &Service{
		repo:      repo,
		locations: locations,
		logger:    logger,
	}
}

func (s *Service) GetPlayerCount(ctx context.Context) (int, error) {
	return s.repo.GetCount(ctx)
}

func (s *Service) GetAllProfiles(ctx context.Context) ([]PublicProfile, error) {
	return s.repo.GetAllProfiles(ctx)
}

func (s *Service) GetPlayerByID(ctx context.Context, id int) (*Player, error) {
	return s.repo.GetByID(ctx, id)
}

// Refresh loads a player and applies everything that happens to a character
// just by time passing: hospital/jail release and energy/health
// regeneration. The row is only written back when something changed, so
// refreshing is cheap and idempotent. This runs at the start of every
// player-facing operation, the way the original applied it per request.
func (s *Service) Refresh(ctx context.Context, id int) (*Player, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	changed := p.ReleaseIfDue(now)
	if p.RegenerateEnergy(now) > 0 {
		changed = true
	}
	if p.RegenerateHealth(now) > 0 {
		changed = true
	}

	if changed {
		if err := s.repo.Save(ctx, p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// FindOrCreateByOAuth resolves an OAuth login to a character, creating one
// with the configured starting stats at the starting location on first
// login. The configured admin email gets the admin role.
func (s *Service) FindOrCreateByOAuth(ctx context.Context, provider, providerUserID, email, displayName string, avatarURL *string) (*Player, error) {
	logger := s.logger.With(
		"component", "player_service",
		"operation", "find_or_create_oauth",
		"provider", provider,
		"email", email,
	)
	logger.Debug("Finding or creating player by OAuth")

	cfg := config.GlobalConfig
	isAdminEmail := cfg != nil && email == cfg.Admin.Email

	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil && errors.GetType(err) != errors.ErrorTypeNotFound {
		logger.Error("Database error checking for player by email", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if p != nil {
		logger.Info("Found existing player by email", "player_id", p.ID, "role", p.Role)
		if isAdminEmail && p.Role != RoleAdmin {
			logger.Info("Upgrading existing player to admin role", "player_id", p.ID)
			if err := s.repo.UpdateRole(ctx, p.ID, RoleAdmin); err != nil {
				logger.Error("Failed to upgrade player to admin", "error", err)
				return nil, fmt.Errorf("failed to upgrade to admin: %w", err)
			}
			p.Role = RoleAdmin
		}
		return p, nil
	}

	logger.Info("No existing player found, creating new character")

	username := generateUsernameFromEmail(email)
	role := RoleUser
	if isAdminEmail && cfg != nil {
		username = cfg.Admin.Username
		displayName = cfg.Admin.DisplayName
		role = RoleAdmin
		logger.Info("Creating new admin player via OAuth")
	}

	np := NewPlayer{
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Role:        role,
	}
	if cfg != nil {
		np.Cash = cfg.Game.StartingCash
		np.Stat = cfg.Game.StartingStat
		np.Energy = cfg.Game.StartingEnergy
		np.Health = cfg.Game.StartingHealth

		start, err := s.locations.GetByName(ctx, cfg.Game.StartingLocation)
		if err == nil {
			np.LocationID = &start.ID
		} else if errors.GetType(err) != errors.ErrorTypeNotFound {
			return nil, err
		}
	}

	p, err = s.repo.Create(ctx, np)
	if err != nil {
		logger.Error("Failed to create player", "error", err)
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	logger.Info("Successfully created new character",
		"player_id", p.ID,
		"username", p.Username,
		"role", p.Role,
		"provider", provider)

	return p, nil
}

// Travel moves a player along a travel edge, paying its cash cost.
func (s *Service) Travel(ctx context.Context, playerID, destinationID int) (*Player, *location.Location, error) {
	logger := s.logger.With("component", "player_service", "operation", "travel",
		"player_id", playerID, "destination_id", destinationID)

	p, err := s.Refresh(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}

	destination, err := s.locations.GetByID(ctx, destinationID)
	if err != nil {
		return nil, nil, err
	}

	if p.IsDetained() {
		return nil, nil, errors.Validation("You cannot travel while in hospital or jail")
	}

	if p.Level < destination.MinLevel {
		return nil, nil, errors.Validationf("You need to be at least level %d to travel to %s.", destination.MinLevel, destination.Name)
	}

	if p.LocationID != nil && *p.LocationID == destination.ID {
		return nil, nil, errors.Validationf("You are already in %s.", destination.Name)
	}

	// Travel follows the connection graph; direct travel without a route
	// is not allowed outside of the first placement.
	if p.LocationID != nil {
		conn, err := s.locations.GetConnection(ctx, *p.LocationID, destination.ID)
		if err != nil {
			if errors.GetType(err) == errors.ErrorTypeNotFound {
				return nil, nil, errors.Validationf("There is no route to %s from here.", destination.Name)
			}
			return nil, nil, err
		}

		if p.Cash < conn.TravelCost {
			return nil, nil, errors.Validationf("Not enough cash to travel. You need %d but have %d.", conn.TravelCost, p.Cash)
		}
		p.Cash -= conn.TravelCost
	}

	p.LocationID = &destination.ID

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, nil, err
	}

	logger.Info("Player traveled", "destination", destination.Name)
	return p, destination, nil
}

// TrainStat spends energy to raise one stat by a point and grants a little
// experience through the shared level-up rule.
func (s *Service) TrainStat(ctx context.Context, playerID int, stat string) (*Player, error) {
	stat = strings.ToLower(stat)

	valid := false
	for _, name := range TrainableStats {
		if stat == name {
			valid = true
			break
		}
	}
	if !valid {
		return nil, errors.Validation("Invalid stat name")
	}

	p, err := s.Refresh(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if p.Energy < TrainEnergyCost {
		return nil, errors.Validation("Not enough energy")
	}

	p.Energy -= TrainEnergyCost
	p.addStat(stat, 1)
	p.GainExperience(TrainEnergyCost * 2)

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Player trained stat", "player_id", playerID, "stat", stat)
	return p, nil
}

// Deposit moves on-hand cash into the bank, out of reach of muggers.
func (s *Service) Deposit(ctx context.Context, playerID int, amount int64) (*Player, error) {
	if amount <= 0 {
		return nil, errors.Validation("Deposit amount must be positive")
	}

	p, err := s.Refresh(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if p.Cash < amount {
		return nil, errors.Validationf("Not enough cash. You need %d but have %d.", amount, p.Cash)
	}

	p.Cash -= amount
	p.BankBalance += amount

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Withdraw moves bank balance back to on-hand cash.
func (s *Service) Withdraw(ctx context.Context, playerID int, amount int64) (*Player, error) {
	if amount <= 0 {
		return nil, errors.Validation("Withdrawal amount must be positive")
	}

	p, err := s.Refresh(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if p.BankBalance < amount {
		return nil, errors.Validationf("Not enough in the bank. You need %d but have %d.", amount, p.BankBalance)
	}

	p.BankBalance -= amount
	p.Cash += amount

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// FindOpponents lists attackable players around the given player, within
// three levels either way.
func (s *Service) FindOpponents(ctx context.Context, playerID int, limit int) ([]PublicProfile, error) {
	p, err := s.repo.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if p.LocationID == nil {
		return nil, nil
	}

	minLevel := p.Level - 3
	if minLevel < 1 {
		minLevel = 1
	}
	maxLevel := p.Level + 3

	return s.repo.FindOpponents(ctx, *p.LocationID, p.ID, minLevel, maxLevel, limit)
}

// RegenerateAll sweeps every player through Refresh. One player failing
// does not stop the sweep; this backs the recurring scheduler trigger.
func (s *Service) RegenerateAll(ctx context.Context) (int, error) {
	logger := s.logger.With("component", "player_service", "operation", "regenerate_all")

	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if _, err := s.Refresh(ctx, id); err != nil {
			logger.Warn("Failed to refresh player during sweep", "player_id", id, "error", err)
			continue
		}
		updated++
	}

	logger.Debug("Resource regeneration sweep completed", "players", updated)
	return updated, nil
}

func generateUsernameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return "player"
}

package property

import (
	"context"
	"log/slog"
	"time"

	"crimecity-server/internal/location"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
)

type Service struct {
	repo       *Repository
	players    *player.Service
	playerRepo *player.Repository
	locations  *location.Repository
	logger     *slog.Logger
}

func NewService(repo *Repository, players *player.Service, playerRepo *player.Repository, locations *location.Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing property service")

	return &Service{
		repo:       repo,
		players:    players,
		playerRepo: playerRepo,
		locations:  locations,
		logger:     logger,
	}
}

// GetAvailableTypes lists property types the player's level unlocks.
func (s *Service) GetAvailableTypes(ctx context.Context, playerID int) ([]PropertyType, error) {
	p, err := s.players.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTypesAvailable(ctx, p.Level, 20)
}

func (s *Service) GetProperties(ctx context.Context, playerID int, includeInactive bool) ([]Property, error) {
	return s.repo.ListByPlayer(ctx, playerID, includeInactive)
}

// Purchase buys a new property of the given type at a location. The
// property starts at level 1 earning the type's base income.
func (s *Service) Purchase(ctx context.Context, playerID, typeID, locationID int, name string) (*Property, error) {
	logger := s.logger.With("component", "property_service", "operation", "purchase",
		"player_id", playerID, "property_type_id", typeID)

	p, err := s.players.Refresh(ctx, playerID)
	if err != nil {
		return nil, err
	}
	pt, err := s.repo.GetTypeByID(ctx, typeID)
	if err != nil {
		if errors.GetType(err) == errors.ErrorTypeNotFound {
			return nil, errors.Validation("Invalid property type or location.")
		}
		return nil, err
	}
	loc, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		if errors.GetType(err) == errors.ErrorTypeNotFound {
			return nil, errors.Validation("Invalid property type or location.")
		}
		return nil, err
	}

	if p.Level < pt.MinLevel {
		return nil, errors.Validationf("You need to be level %d to purchase this property.", pt.MinLevel)
	}
	if p.Cash < pt.BasePrice {
		return nil, errors.Validationf("Not enough cash. You need %d but have %d.", pt.BasePrice, p.Cash)
	}
	if name == "" {
		name = pt.Name
	}

	p.Cash -= pt.BasePrice
	pr := &Property{
		PlayerID:       p.ID,
		PropertyTypeID: pt.ID,
		Name:           name,
		PurchasePrice:  pt.BasePrice,
		CurrentValue:   pt.BasePrice,
		LocationID:     &loc.ID,
		IncomeRate:     pt.BaseIncome,
		Level:          1,
		LastCollection: time.Now(),
		IsActive:       true,
		TypeName:       pt.Name,
	}

	tx, err := s.repo.DB().BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.repo.CreateTx(ctx, tx, pr); err != nil {
		return nil, err
	}
	if err := s.playerRepo.SaveTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.WrapInternal("failed to commit property purchase", err)
	}

	logger.Info("Property purchased", "property_id", pr.ID, "price", pr.PurchasePrice)
	return pr, nil
}

// Collect pays out accrued income on one property.
func (s *Service) Collect(ctx context.Context, playerID, propertyID int) (int64, string, error) {
	p, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return 0, "", err
	}
	pr, err := s.repo.GetOwnedActive(ctx, propertyID, playerID)
	if err != nil {
		return 0, "", err
	}

	income, msg, err := pr.CollectIncome(p, time.Now())
	if err != nil {
		return 0, "", err
	}
	if income == 0 {
		return 0, msg, nil
	}

	if err := s.settleCollection(ctx, p, pr); err != nil {
		return 0, "", err
	}
	return income, msg, nil
}

// CollectAll sweeps income across every active property the player
// owns. Properties with nothing accrued are skipped.
func (s *Service) CollectAll(ctx context.Context, playerID int) (int64, error) {
	logger := s.logger.With("component", "property_service", "operation", "collect_all",
		"player_id", playerID)

	p, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return 0, err
	}
	properties, err := s.repo.ListByPlayer(ctx, playerID, false)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var total int64
	var collected []*Property
	for i := range properties {
		pr := &properties[i]
		income, _, err := pr.CollectIncome(p, now)
		if err != nil || income == 0 {
			continue
		}
		total += income
		collected = append(collected, pr)
	}
	if total == 0 {
		return 0, nil
	}

	tx, err := s.repo.DB().BeginTxContext(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, pr := range collected {
		if err := s.repo.SaveTx(ctx, tx, pr); err != nil {
			return 0, err
		}
	}
	if err := s.playerRepo.SaveTx(ctx, tx, p); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.WrapInternal("failed to commit income collection", err)
	}

	logger.Info("Income collected", "total", total, "properties", len(collected))
	return total, nil
}

// Upgrade raises a property's level at half its current value.
func (s *Service) Upgrade(ctx context.Context, playerID, propertyID int) (*Property, string, error) {
	p, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, "", err
	}
	pr, err := s.repo.GetOwnedActive(ctx, propertyID, playerID)
	if err != nil {
		return nil, "", err
	}

	msg, err := pr.Upgrade(p)
	if err != nil {
		return nil, "", err
	}
	if err := s.settleCollection(ctx, p, pr); err != nil {
		return nil, "", err
	}

	s.logger.Info("Property upgraded",
		"component", "property_service", "player_id", playerID,
		"property_id", pr.ID, "level", pr.Level)
	return pr, msg, nil
}

// Sell pays out 70% of current value and deactivates the property.
func (s *Service) Sell(ctx context.Context, playerID, propertyID int) (int64, string, error) {
	p, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return 0, "", err
	}
	pr, err := s.repo.GetOwnedActive(ctx, propertyID, playerID)
	if err != nil {
		return 0, "", err
	}

	price, msg, err := pr.Sell(p)
	if err != nil {
		return 0, "", err
	}
	if err := s.settleCollection(ctx, p, pr); err != nil {
		return 0, "", err
	}

	s.logger.Info("Property sold",
		"component", "property_service", "player_id", playerID,
		"property_id", pr.ID, "price", price)
	return price, msg, nil
}

func (s *Service) CreateType(ctx context.Context, pt *PropertyType) (*PropertyType, error) {
	return s.repo.CreateType(ctx, pt)
}

// settleCollection persists a player/property pair mutated together.
func (s *Service) settleCollection(ctx context.Context, p *player.Player, pr *Property) error {
	tx, err := s.repo.DB().BeginTxContext(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.SaveTx(ctx, tx, pr); err != nil {
		return err
	}
	if err := s.playerRepo.SaveTx(ctx, tx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapInternal("failed to commit property update", err)
	}
	return nil
}

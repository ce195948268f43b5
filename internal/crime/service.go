package crime

import (
	"context"
	"log/slog"
	"time"

	"crimecity-server/internal/item"
	"crimecity-server/internal/notify"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/random"
)

type Service struct {
	repo       *Repository
	players    *player.Service
	playerRepo *player.Repository
	items      *item.Repository
	hub        *notify.Hub
	rng        random.Source
	logger     *slog.Logger
}

func NewService(repo *Repository, players *player.Service, playerRepo *player.Repository,
	items *item.Repository, hub *notify.Hub, rng random.Source, logger *slog.Logger) *Service {
	logger.Debug("Initializing crime service")

	return &Service{
		repo:       repo,
		players:    players,
		playerRepo: playerRepo,
		items:      items,
		hub:        hub,
		rng:        rng,
		logger:     logger,
	}
}

// AvailableCrime is a crime type annotated with the asking player's odds.
type AvailableCrime struct {
	CrimeType
	SuccessChance float64 `json:"success_chance"`
}

// ListAvailable returns the crimes a player can attempt at their level,
// each with that player's computed success chance.
func (s *Service) ListAvailable(ctx context.Context, playerID int) ([]AvailableCrime, error) {
	p, err := s.players.Refresh(ctx, playerID)
	if err != nil {
		return nil, err
	}

	types, err := s.repo.ListAvailable(ctx, p.Level)
	if err != nil {
		return nil, err
	}

	crimes := make([]AvailableCrime, 0, len(types))
	for i := range types {
		crimes = append(crimes, AvailableCrime{
			CrimeType:     types[i],
			SuccessChance: SuccessChance(p, &types[i]),
		})
	}
	return crimes, nil
}

// Commit runs one crime attempt for a player. The outcome notification is
// pushed best effort; a delivery failure never fails the attempt.
func (s *Service) Commit(ctx context.Context, playerID, crimeTypeID int) (*CrimeResult, string, error) {
	logger := s.logger.With("component", "crime_service", "operation", "commit",
		"player_id", playerID, "crime_type_id", crimeTypeID)

	p, err := s.players.Refresh(ctx, playerID)
	if err != nil {
		return nil, "", err
	}

	ct, err := s.repo.GetTypeByID(ctx, crimeTypeID)
	if err != nil {
		return nil, "", err
	}

	itemName := func(itemID int) string {
		it, err := s.items.GetItemByID(ctx, itemID)
		if err != nil {
			return "an item"
		}
		return it.Name
	}

	outcome, err := Resolve(p, ct, s.rng, time.Now(), itemName)
	if err != nil {
		return nil, "", err
	}

	if err := s.playerRepo.Save(ctx, p); err != nil {
		return nil, "", err
	}

	if outcome.ItemRewardID != nil {
		if err := s.items.AddQuantity(ctx, playerID, *outcome.ItemRewardID, 1); err != nil {
			return nil, "", err
		}
	}

	result := &CrimeResult{
		PlayerID:     playerID,
		CrimeTypeID:  ct.ID,
		Result:       outcome.Result,
		CashReward:   outcome.CashReward,
		ExpReward:    outcome.ExpReward,
		JailTime:     outcome.JailTime,
		ItemRewardID: outcome.ItemRewardID,
		LocationID:   p.LocationID,
		CrimeName:    ct.Name,
	}
	if err := s.repo.CreateResult(ctx, result); err != nil {
		return nil, "", err
	}

	if s.hub != nil {
		s.hub.Notify(playerID, notify.New(outcome.NotifyTitle, outcome.NotifyMessage, notify.Level(outcome.NotifyLevel)))
	}

	logger.Info("Crime resolved",
		"result", outcome.Result,
		"cash_reward", outcome.CashReward,
		"jail_time", outcome.JailTime)

	return result, outcome.NotifyMessage, nil
}

func (s *Service) GetHistory(ctx context.Context, playerID, limit int) ([]CrimeResult, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.repo.GetRecentByPlayer(ctx, playerID, limit)
}

func (s *Service) GetStats(ctx context.Context, playerID int) (*Stats, error) {
	return s.repo.GetStats(ctx, playerID)
}

func (s *Service) CreateType(ctx context.Context, ct *CrimeType) (*CrimeType, error) {
	return s.repo.CreateType(ctx, ct)
}

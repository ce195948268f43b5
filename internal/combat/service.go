package combat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crimecity-server/internal/item"
	"crimecity-server/internal/location"
	"crimecity-server/internal/notify"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/random"
)

type Service struct {
	repo       *Repository
	players    *player.Service
	playerRepo *player.Repository
	items      *item.Repository
	locations  *location.Repository
	hub        *notify.Hub
	rng        random.Source
	logger     *slog.Logger
}

func NewService(repo *Repository, players *player.Service, playerRepo *player.Repository,
	items *item.Repository, locations *location.Repository, hub *notify.Hub,
	rng random.Source, logger *slog.Logger) *Service {
	logger.Debug("Initializing combat service")

	return &Service{
		repo:       repo,
		players:    players,
		playerRepo: playerRepo,
		items:      items,
		locations:  locations,
		hub:        hub,
		rng:        rng,
		logger:     logger,
	}
}

// AttackResult is what the attacker sees after a fight resolves.
type AttackResult struct {
	Combat        *Combat  `json:"combat"`
	Log           []string `json:"log"`
	ResultMessage string   `json:"result_message"`
}

// Attack resolves one fight between the attacker and a defender at the
// attacker's location.
func (s *Service) Attack(ctx context.Context, attackerID, defenderID int) (*AttackResult, error) {
	logger := s.logger.With("component", "combat_service", "operation", "attack",
		"attacker_id", attackerID, "defender_id", defenderID)

	if attackerID == defenderID {
		return nil, errors.Validation("You cannot attack yourself")
	}

	attacker, err := s.players.Refresh(ctx, attackerID)
	if err != nil {
		return nil, err
	}
	defender, err := s.players.Refresh(ctx, defenderID)
	if err != nil {
		return nil, err
	}

	if attacker.LocationID == nil || defender.LocationID == nil || *attacker.LocationID != *defender.LocationID {
		return nil, errors.Validation("You can only attack players in your current location")
	}

	loc, err := s.locations.GetByID(ctx, *attacker.LocationID)
	if err != nil {
		return nil, err
	}

	if err := CheckPreconditions(attacker, defender, loc); err != nil {
		return nil, err
	}

	attackerGear, _, err := s.items.EquippedPowerSums(ctx, attacker.ID)
	if err != nil {
		return nil, err
	}
	_, defenderGear, err := s.items.EquippedPowerSums(ctx, defender.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	outcome := Resolve(attacker, defender, attackerGear, defenderGear, s.rng, now)

	if err := s.playerRepo.Save(ctx, attacker); err != nil {
		return nil, err
	}
	if err := s.playerRepo.Save(ctx, defender); err != nil {
		return nil, err
	}

	winnerID := defender.ID
	if outcome.AttackerWon {
		winnerID = attacker.ID
	}
	ended := time.Now()
	c := &Combat{
		AttackerID:       attacker.ID,
		DefenderID:       defender.ID,
		WinnerID:         &winnerID,
		LocationID:       attacker.LocationID,
		CashStolen:       outcome.CashStolen,
		ExperienceGained: outcome.ExperienceGained,
		StartedAt:        now,
		EndedAt:          &ended,
		AttackerName:     attacker.Username,
		DefenderName:     defender.Username,
	}

	if err := s.repo.Create(ctx, c, outcome.Log); err != nil {
		return nil, err
	}

	s.notifyDefender(defender.ID, attacker.Username, outcome)

	logger.Info("Combat resolved",
		"combat_id", c.ID,
		"winner_id", winnerID,
		"cash_stolen", outcome.CashStolen)

	return &AttackResult{
		Combat:        c,
		Log:           outcome.Log,
		ResultMessage: outcome.ResultMessage,
	}, nil
}

// notifyDefender tells the other side they were attacked. Best effort.
func (s *Service) notifyDefender(defenderID int, attackerName string, outcome *Outcome) {
	if s.hub == nil {
		return
	}

	if outcome.AttackerWon {
		msg := fmt.Sprintf("%s attacked you and won!", attackerName)
		if outcome.CashStolen > 0 {
			msg = fmt.Sprintf("%s attacked you and stole $%d!", attackerName, outcome.CashStolen)
		}
		s.hub.Notify(defenderID, notify.New("Attacked!", msg, notify.LevelDanger))
		return
	}

	s.hub.Notify(defenderID, notify.New("Attacked!",
		fmt.Sprintf("%s attacked you but you fought them off!", attackerName),
		notify.LevelSuccess))
}

func (s *Service) GetHistory(ctx context.Context, playerID, limit int) ([]Combat, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	return s.repo.GetRecentByPlayer(ctx, playerID, limit)
}

func (s *Service) GetCombatLog(ctx context.Context, combatID int) ([]LogEntry, error) {
	return s.repo.GetLog(ctx, combatID)
}

package item

import (
	"context"
	"log/slog"

	"crimecity-server/internal/player"
)

type Service struct {
	repo    *Repository
	players *player.Repository
	logger  *slog.Logger
}

func NewService(repo *Repository, players *player.Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing item service")

	return &Service{
		repo:    repo,
		players: players,
		logger:  logger,
	}
}

func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) ListItemTypes(ctx context.Context) ([]ItemType, error) {
	return s.repo.ListItemTypes(ctx)
}

func (s *Service) CreateItemType(ctx context.Context, name, description string) (*ItemType, error) {
	return s.repo.CreateItemType(ctx, name, description)
}

func (s *Service) CreateItem(ctx context.Context, it *Item) (*Item, error) {
	return s.repo.CreateItem(ctx, it)
}

func (s *Service) GetInventory(ctx context.Context, playerID int) ([]InventoryEntry, error) {
	return s.repo.ListByPlayer(ctx, playerID)
}

// Equip equips one stack, unequipping whatever of the same item type was
// equipped before. Validation happens before any write so a rejected equip
// leaves the current gear untouched.
func (s *Service) Equip(ctx context.Context, playerID, itemID int) (string, error) {
	entry, err := s.repo.GetEntry(ctx, playerID, itemID)
	if err != nil {
		return "", err
	}

	msg, err := entry.MarkEquipped()
	if err != nil {
		return "", err
	}

	tx, err := s.repo.DB().BeginTxContext(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if err := s.repo.UnequipTypeTx(ctx, tx, playerID, entry.Item.ItemTypeID); err != nil {
		return "", err
	}
	if err := s.repo.SaveEntryTx(ctx, tx, entry); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	s.logger.Info("Item equipped", "player_id", playerID, "item_id", itemID)
	return msg, nil
}

func (s *Service) Unequip(ctx context.Context, playerID, itemID int) (string, error) {
	entry, err := s.repo.GetEntry(ctx, playerID, itemID)
	if err != nil {
		return "", err
	}

	msg, err := entry.MarkUnequipped()
	if err != nil {
		return "", err
	}

	if err := s.repo.SaveEntry(ctx, entry); err != nil {
		return "", err
	}

	s.logger.Info("Item unequipped", "player_id", playerID, "item_id", itemID)
	return msg, nil
}

// Use consumes one unit of a consumable and applies its restore effects.
func (s *Service) Use(ctx context.Context, playerID, itemID int) (string, *player.Player, error) {
	entry, err := s.repo.GetEntry(ctx, playerID, itemID)
	if err != nil {
		return "", nil, err
	}

	p, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return "", nil, err
	}

	msg, err := entry.Use(p)
	if err != nil {
		return "", nil, err
	}

	if err := s.players.Save(ctx, p); err != nil {
		return "", nil, err
	}
	if err := s.repo.SaveEntry(ctx, entry); err != nil {
		return "", nil, err
	}

	s.logger.Info("Item consumed", "player_id", playerID, "item_id", itemID)
	return msg, p, nil
}

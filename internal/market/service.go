package market

import (
	"context"
	"log/slog"
	"time"

	"crimecity-server/internal/item"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/config"
	"crimecity-server/internal/shared/errors"
)

type Service struct {
	repo       *Repository
	playerRepo *player.Repository
	items      *item.Repository
	logger     *slog.Logger
}

func NewService(repo *Repository, playerRepo *player.Repository, items *item.Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing market service")

	return &Service{
		repo:       repo,
		playerRepo: playerRepo,
		items:      items,
		logger:     logger,
	}
}

func (s *Service) GetListings(ctx context.Context, f ActiveFilters) ([]Listing, error) {
	return s.repo.ListActive(ctx, f)
}

func (s *Service) GetMyListings(ctx context.Context, sellerID int, includeClosed bool) ([]Listing, error) {
	return s.repo.ListBySeller(ctx, sellerID, includeClosed, 50)
}

// CreateListing puts a stack up for sale. The quantity is escrowed: it
// leaves the seller's inventory here and only comes back via cancel or
// expiry.
func (s *Service) CreateListing(ctx context.Context, sellerID, itemID, quantity int, price int64, description string) (*Listing, error) {
	logger := s.logger.With("component", "market_service", "operation", "create_listing",
		"seller_id", sellerID, "item_id", itemID)

	if quantity <= 0 {
		return nil, errors.Validation("Quantity must be positive")
	}
	if price <= 0 {
		return nil, errors.Validation("Price must be positive")
	}

	entry, err := s.items.GetEntry(ctx, sellerID, itemID)
	if err != nil {
		if errors.GetType(err) == errors.ErrorTypeNotFound {
			return nil, errors.Validation("You don't have this item in your inventory.")
		}
		return nil, err
	}

	if entry.Quantity < quantity {
		return nil, errors.Validationf("You only have %d of this item.", entry.Quantity)
	}
	if entry.IsEquipped {
		return nil, errors.Validation("You cannot sell equipped items. Please unequip first.")
	}
	if !entry.Item.IsTradable {
		return nil, errors.Validation("This item cannot be traded on the market.")
	}

	durationDays := 3
	if cfg := config.GlobalConfig; cfg != nil && cfg.Game.ListingDurationDays > 0 {
		durationDays = cfg.Game.ListingDurationDays
	}

	listing := &Listing{
		SellerID:    sellerID,
		ItemID:      itemID,
		Quantity:    quantity,
		Price:       price,
		Description: description,
		Status:      StatusActive,
		ExpiresAt:   time.Now().Add(time.Duration(durationDays) * 24 * time.Hour),
		ItemName:    entry.Item.Name,
	}

	tx, err := s.repo.DB().BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.items.RemoveQuantityTx(ctx, tx, sellerID, itemID, quantity); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTx(ctx, tx, listing); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.Info("Listing created", "listing_id", listing.ID, "quantity", quantity, "price", price)
	return listing, nil
}

// Purchase buys an active listing. The sold transition, the cash movement,
// and the inventory credit all commit together; the compare-and-set on the
// listing status means a double purchase loses cleanly with a conflict.
func (s *Service) Purchase(ctx context.Context, buyerID, listingID int) (*Listing, string, error) {
	logger := s.logger.With("component", "market_service", "operation", "purchase",
		"buyer_id", buyerID, "listing_id", listingID)

	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, "", err
	}

	buyer, err := s.playerRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, "", err
	}
	seller, err := s.playerRepo.GetByID(ctx, listing.SellerID)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	if err := listing.Purchase(buyer, seller, now); err != nil {
		return nil, "", err
	}

	tx, err := s.repo.DB().BeginTxContext(ctx)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	// Claim the listing first; everything after only runs for the winner
	if err := s.repo.MarkSoldTx(ctx, tx, listing.ID, buyer.ID, now); err != nil {
		return nil, "", err
	}
	if err := s.playerRepo.SaveTx(ctx, tx, buyer); err != nil {
		return nil, "", err
	}
	if err := s.playerRepo.SaveTx(ctx, tx, seller); err != nil {
		return nil, "", err
	}
	if err := s.items.AddQuantityTx(ctx, tx, buyer.ID, listing.ItemID, listing.Quantity); err != nil {
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return nil, "", err
	}

	logger.Info("Listing purchased", "seller_id", seller.ID, "price", listing.Price)

	msg := "Successfully purchased " + listing.ItemName
	return listing, msg, nil
}

// Cancel returns an active listing's escrow to the seller.
func (s *Service) Cancel(ctx context.Context, sellerID, listingID int) (string, error) {
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return "", err
	}

	if listing.SellerID != sellerID {
		return "", errors.Forbidden("You can only cancel your own listings")
	}

	if err := listing.Cancel(); err != nil {
		return "", err
	}

	if err := s.closeAndReturnEscrow(ctx, listing, StatusCancelled); err != nil {
		return "", err
	}

	s.logger.Info("Listing cancelled", "listing_id", listingID, "seller_id", sellerID)
	return "Listing cancelled successfully", nil
}

// ExpireDue sweeps every active listing past its deadline. Listings fail
// independently; one bad row does not stop the sweep.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	logger := s.logger.With("component", "market_service", "operation", "expire_due")

	now := time.Now()
	expired, err := s.repo.ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range expired {
		listing := expired[i]
		if err := listing.Expire(now); err != nil {
			continue
		}

		if err := s.closeAndReturnEscrow(ctx, &listing, StatusExpired); err != nil {
			logger.Warn("Failed to expire listing", "listing_id", listing.ID, "error", err)
			continue
		}
		count++
	}

	if count > 0 {
		logger.Info("Expired listings processed", "count", count)
	}
	return count, nil
}

func (s *Service) closeAndReturnEscrow(ctx context.Context, listing *Listing, status string) error {
	tx, err := s.repo.DB().BeginTxContext(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.MarkClosedTx(ctx, tx, listing.ID, status); err != nil {
		return err
	}
	if err := s.items.AddQuantityTx(ctx, tx, listing.SellerID, listing.ItemID, listing.Quantity); err != nil {
		return err
	}

	return tx.Commit()
}

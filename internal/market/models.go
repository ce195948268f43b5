package market

import (
	"time"

	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
)

// Listing statuses. A listing leaves "active" exactly once; the three
// terminal states are never left.
const (
	StatusActive    = "active"
	StatusSold      = "sold"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Listing is one sale offer. The listed quantity is held in escrow: it
// leaves the seller's inventory when the listing is created and returns
// only through cancel or expiry.
type Listing struct {
	ID          int    `json:"id"`
	SellerID    int    `json:"seller_id"`
	BuyerID     *int   `json:"buyer_id,omitempty"`
	ItemID      int    `json:"item_id"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Status      string `json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	SoldAt    *time.Time `json:"sold_at,omitempty"`

	SellerName string `json:"seller_name,omitempty"`
	ItemName   string `json:"item_name,omitempty"`
}

// Purchase applies the in-memory side of a sale: guards, cash movement,
// and the listing's transition to sold. The caller persists both players,
// the listing transition, and the buyer's inventory credit atomically.
func (l *Listing) Purchase(buyer, seller *player.Player, now time.Time) error {
	if l.Status != StatusActive {
		return errors.Conflict("This listing is no longer active")
	}

	if buyer.ID == l.SellerID {
		return errors.Validation("You cannot buy your own listing")
	}

	if buyer.Cash < l.Price {
		return errors.Validationf("Not enough cash. You need %d but have %d.", l.Price, buyer.Cash)
	}

	buyer.Cash -= l.Price
	seller.Cash += l.Price

	l.Status = StatusSold
	l.BuyerID = &buyer.ID
	l.SoldAt = &now

	return nil
}

// Cancel transitions an active listing to cancelled. The escrowed quantity
// goes back to the seller; the caller persists that return.
func (l *Listing) Cancel() error {
	if l.Status != StatusActive {
		return errors.Conflict("This listing is not active")
	}

	l.Status = StatusCancelled
	return nil
}

// Expire transitions an active listing past its deadline to expired.
func (l *Listing) Expire(now time.Time) error {
	if l.Status != StatusActive {
		return errors.Conflict("This listing is not active")
	}

	if now.Before(l.ExpiresAt) {
		return errors.Conflict("This listing has not expired yet")
	}

	l.Status = StatusExpired
	return nil
}

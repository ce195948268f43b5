package market

import (
	"testing"
	"time"

	"crimecity-server/internal/player"
)

func activeListing() *Listing {
	return &Listing{
		ID:        1,
		SellerID:  10,
		ItemID:    3,
		Quantity:  5,
		Price:     500,
		Status:    StatusActive,
		ExpiresAt: time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC),
	}
}

func TestPurchaseMovesCash(t *testing.T) {
	l := activeListing()
	buyer := &player.Player{ID: 20, Cash: 800}
	seller := &player.Player{ID: 10, Cash: 100}
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	if err := l.Purchase(buyer, seller, now); err != nil {
		t.Fatal(err)
	}

	if buyer.Cash != 300 || seller.Cash != 600 {
		t.Errorf("cash = %d/%d, want 300/600", buyer.Cash, seller.Cash)
	}
	if l.Status != StatusSold {
		t.Errorf("status = %q, want %q", l.Status, StatusSold)
	}
	if l.BuyerID == nil || *l.BuyerID != 20 {
		t.Errorf("buyer id = %v, want 20", l.BuyerID)
	}
	if l.SoldAt == nil || !l.SoldAt.Equal(now) {
		t.Errorf("sold at = %v, want %v", l.SoldAt, now)
	}
}

func TestPurchaseGuards(t *testing.T) {
	now := time.Now()

	l := activeListing()
	seller := &player.Player{ID: 10}
	err := l.Purchase(&player.Player{ID: 10, Cash: 9999}, seller, now)
	if err == nil || err.Error() != "You cannot buy your own listing" {
		t.Errorf("self-purchase error = %v", err)
	}

	l = activeListing()
	err = l.Purchase(&player.Player{ID: 20, Cash: 499}, seller, now)
	if err == nil || err.Error() != "Not enough cash. You need 500 but have 499." {
		t.Errorf("cash guard error = %v", err)
	}
	if l.Status != StatusActive {
		t.Errorf("failed purchase changed status to %q", l.Status)
	}

	l = activeListing()
	l.Status = StatusSold
	err = l.Purchase(&player.Player{ID: 20, Cash: 9999}, seller, now)
	if err == nil || err.Error() != "This listing is no longer active" {
		t.Errorf("inactive guard error = %v", err)
	}
}

func TestCancelOnlyFromActive(t *testing.T) {
	l := activeListing()
	if err := l.Cancel(); err != nil {
		t.Fatal(err)
	}
	if l.Status != StatusCancelled {
		t.Errorf("status = %q, want %q", l.Status, StatusCancelled)
	}

	// Terminal states stay terminal.
	if err := l.Cancel(); err == nil {
		t.Error("second cancel should fail")
	}
}

func TestExpire(t *testing.T) {
	l := activeListing()

	err := l.Expire(l.ExpiresAt.Add(-time.Hour))
	if err == nil || err.Error() != "This listing has not expired yet" {
		t.Errorf("early expire error = %v", err)
	}
	if l.Status != StatusActive {
		t.Errorf("early expire changed status to %q", l.Status)
	}

	if err := l.Expire(l.ExpiresAt); err != nil {
		t.Fatal(err)
	}
	if l.Status != StatusExpired {
		t.Errorf("status = %q, want %q", l.Status, StatusExpired)
	}

	if err := l.Expire(l.ExpiresAt.Add(time.Hour)); err == nil {
		t.Error("expiring a closed listing should fail")
	}
}

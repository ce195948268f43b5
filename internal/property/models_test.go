package property

import (
	"testing"
	"time"

	"crimecity-server/internal/player"
)

func activeProperty(lastCollection time.Time) *Property {
	return &Property{
		ID:             1,
		PlayerID:       10,
		Name:           "Corner Store",
		PurchasePrice:  1000,
		CurrentValue:   1000,
		IncomeRate:     100,
		Level:          1,
		LastCollection: lastCollection,
		IsActive:       true,
	}
}

func TestCollectIncomeCapsAtSevenDays(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	pr := activeProperty(now.Add(-10 * 24 * time.Hour))
	p := &player.Player{ID: 10}

	income, msg, err := pr.CollectIncome(p, now)
	if err != nil {
		t.Fatal(err)
	}
	if income != 700 {
		t.Errorf("income = %d, want 700", income)
	}
	if p.Cash != 700 {
		t.Errorf("player cash = %d, want 700", p.Cash)
	}
	if msg != "Collected $700 from Corner Store" {
		t.Errorf("message = %q", msg)
	}
	if !pr.LastCollection.Equal(now) {
		t.Errorf("collection timestamp = %v, want %v", pr.LastCollection, now)
	}
}

func TestCollectIncomePartialDay(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	pr := activeProperty(now.Add(-12 * time.Hour))
	p := &player.Player{ID: 10}

	income, _, err := pr.CollectIncome(p, now)
	if err != nil {
		t.Fatal(err)
	}
	if income != 50 {
		t.Errorf("income = %d, want 50 for half a day", income)
	}
}

func TestCollectIncomeNothingAccrued(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	pr := activeProperty(now)
	p := &player.Player{ID: 10}

	income, msg, err := pr.CollectIncome(p, now)
	if err != nil {
		t.Fatal(err)
	}
	if income != 0 {
		t.Errorf("income = %d, want 0", income)
	}
	if msg != "No income to collect yet" {
		t.Errorf("message = %q", msg)
	}
	// Fractions keep accruing; the timestamp must not move on a dry run.
	if !pr.LastCollection.Equal(now) {
		t.Errorf("collection timestamp moved on an empty collection")
	}
}

func TestCollectIncomeTimestampOnlyAdvancesOnPayout(t *testing.T) {
	start := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	pr := activeProperty(start)
	p := &player.Player{ID: 10}

	// Two dry collections below a full income unit, then one that pays.
	if income, _, _ := pr.CollectIncome(p, start.Add(5*time.Minute)); income != 0 {
		t.Fatalf("unexpected payout %d", income)
	}
	if !pr.LastCollection.Equal(start) {
		t.Fatal("timestamp advanced without a payout")
	}

	income, _, err := pr.CollectIncome(p, start.Add(12*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if income != 50 {
		t.Errorf("income = %d, want the full half day's 50", income)
	}
}

func TestCollectIncomeInactive(t *testing.T) {
	pr := activeProperty(time.Now().Add(-24 * time.Hour))
	pr.IsActive = false

	_, _, err := pr.CollectIncome(&player.Player{}, time.Now())
	if err == nil || err.Error() != "This property is not active" {
		t.Errorf("inactive error = %v", err)
	}
}

func TestUpgrade(t *testing.T) {
	pr := activeProperty(time.Now())
	p := &player.Player{ID: 10, Cash: 400}

	_, err := pr.Upgrade(p)
	if err == nil || err.Error() != "Not enough cash. You need 500 but have 400." {
		t.Errorf("cash guard error = %v", err)
	}
	if pr.Level != 1 {
		t.Errorf("failed upgrade changed level to %d", pr.Level)
	}

	p.Cash = 500
	msg, err := pr.Upgrade(p)
	if err != nil {
		t.Fatal(err)
	}
	if p.Cash != 0 {
		t.Errorf("cash = %d, want 0", p.Cash)
	}
	if pr.Level != 2 {
		t.Errorf("level = %d, want 2", pr.Level)
	}
	if pr.IncomeRate != 120 {
		t.Errorf("income rate = %d, want 120", pr.IncomeRate)
	}
	if pr.CurrentValue != 1150 {
		t.Errorf("value = %d, want 1150", pr.CurrentValue)
	}
	if msg != "Successfully upgraded Corner Store to level 2" {
		t.Errorf("message = %q", msg)
	}
}

func TestSell(t *testing.T) {
	pr := activeProperty(time.Now())
	p := &player.Player{ID: 10, Cash: 100}

	price, msg, err := pr.Sell(p)
	if err != nil {
		t.Fatal(err)
	}
	if price != 700 {
		t.Errorf("price = %d, want 700", price)
	}
	if p.Cash != 800 {
		t.Errorf("cash = %d, want 800", p.Cash)
	}
	if pr.IsActive {
		t.Error("sold property should be inactive")
	}
	if msg != "Sold Corner Store for $700" {
		t.Errorf("message = %q", msg)
	}

	// A sale is final.
	if _, _, err := pr.Sell(p); err == nil {
		t.Error("second sale should fail")
	}
}

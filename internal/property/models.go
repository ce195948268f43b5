package property

import (
	"fmt"
	"time"

	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
)

// Income accrues continuously but caps at a week of idle time, so
// absentee landlords still have a reason to log in.
const maxAccrualDays = 7.0

// PropertyType is a purchasable template for player-owned businesses.
type PropertyType struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	BasePrice   int64   `json:"base_price"`
	BaseIncome  int64   `json:"base_income"`
	MinLevel    int     `json:"min_level"`
}

// Property is a concrete instance owned by a player.
type Property struct {
	ID             int       `json:"id"`
	PlayerID       int       `json:"player_id"`
	PropertyTypeID int       `json:"property_type_id"`
	Name           string    `json:"name"`
	PurchasePrice  int64     `json:"purchase_price"`
	CurrentValue   int64     `json:"current_value"`
	LocationID     *int      `json:"location_id"`
	IncomeRate     int64     `json:"income_rate"`
	Level          int       `json:"level"`
	LastCollection time.Time `json:"last_income_collection"`
	IsActive       bool      `json:"is_active"`
	PurchasedAt    time.Time `json:"purchased_on"`

	// Joined for display.
	TypeName string `json:"type_name,omitempty"`
}

// CollectIncome pays out accrued daily income. The collection timestamp
// only advances when something was actually paid, so fractions of a day
// keep accruing between visits.
func (pr *Property) CollectIncome(p *player.Player, now time.Time) (int64, string, error) {
	if !pr.IsActive {
		return 0, "", errors.Conflict("This property is not active")
	}

	days := now.Sub(pr.LastCollection).Seconds() / 86400
	if days > maxAccrualDays {
		days = maxAccrualDays
	}
	income := int64(float64(pr.IncomeRate) * days)
	if income <= 0 {
		return 0, "No income to collect yet", nil
	}

	p.Cash += income
	pr.LastCollection = now
	return income, fmt.Sprintf("Collected $%d from %s", income, pr.Name), nil
}

// UpgradeCost is half the current value, so upgrades get steeper as the
// property appreciates.
func (pr *Property) UpgradeCost() int64 {
	return int64(float64(pr.CurrentValue) * 0.5)
}

// Upgrade raises the property level, bumping income by 20% and value by
// 15%, charging the owner the current upgrade cost.
func (pr *Property) Upgrade(p *player.Player) (string, error) {
	if !pr.IsActive {
		return "", errors.Conflict("This property is not active")
	}
	cost := pr.UpgradeCost()
	if p.Cash < cost {
		return "", errors.Validationf("Not enough cash. You need %d but have %d.", cost, p.Cash)
	}

	p.Cash -= cost
	pr.Level++
	pr.IncomeRate = int64(float64(pr.IncomeRate) * 1.2)
	pr.CurrentValue = int64(float64(pr.CurrentValue) * 1.15)
	return fmt.Sprintf("Successfully upgraded %s to level %d", pr.Name, pr.Level), nil
}

// Sell pays out 70% of current value and retires the property for good.
func (pr *Property) Sell(p *player.Player) (int64, string, error) {
	if !pr.IsActive {
		return 0, "", errors.Conflict("This property is not active")
	}

	price := int64(float64(pr.CurrentValue) * 0.7)
	p.Cash += price
	pr.IsActive = false
	return price, fmt.Sprintf("Sold %s for $%d", pr.Name, price), nil
}

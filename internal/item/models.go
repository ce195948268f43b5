package item

import (
	"time"

	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
)

// ItemType is a category of items (Weapon, Armor, Consumable, ...). At most
// one item per type may be equipped by a player at a time.
type ItemType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Item is an item template. Owned copies live in inventory entries.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image,omitempty"`
	ItemTypeID  int     `json:"item_type_id"`

	BuyPrice  int64 `json:"buy_price"`
	SellPrice int64 `json:"sell_price"`
	MinLevel  int   `json:"min_level"`

	AttackPower  int `json:"attack_power"`
	DefensePower int `json:"defense_power"`
	SpeedBonus   int `json:"speed_bonus"`

	EnergyRestore int `json:"energy_restore"`
	HealthRestore int `json:"health_restore"`

	IsTradable   bool `json:"is_tradable"`
	IsEquippable bool `json:"is_equippable"`
	IsConsumable bool `json:"is_consumable"`
}

// InventoryEntry is one owned stack of an item. A stack drained to zero is
// removed from storage rather than kept at quantity 0.
type InventoryEntry struct {
	ID         int       `json:"id"`
	PlayerID   int       `json:"player_id"`
	ItemID     int       `json:"item_id"`
	Quantity   int       `json:"quantity"`
	IsEquipped bool      `json:"is_equipped"`
	CreatedAt  time.Time `json:"created_at"`

	Item *Item `json:"item,omitempty"`
}

// Use consumes one unit of a consumable, restoring the player's energy and
// health clamped at their maximums. The caller persists both the player and
// the entry afterwards.
func (e *InventoryEntry) Use(p *player.Player) (string, error) {
	if e.Item == nil || !e.Item.IsConsumable {
		return "", errors.Validation("This item cannot be consumed")
	}

	if e.Quantity <= 0 {
		return "", errors.Validation("You don't have any of this item")
	}

	if e.Item.EnergyRestore > 0 {
		p.Energy = min(p.Energy+e.Item.EnergyRestore, p.MaxEnergy)
	}
	if e.Item.HealthRestore > 0 {
		p.Health = min(p.Health+e.Item.HealthRestore, p.MaxHealth)
	}

	e.Quantity--

	return "You used " + e.Item.Name, nil
}

// MarkEquipped flips the entry to equipped. The caller is responsible for
// unequipping other entries of the same item type first.
func (e *InventoryEntry) MarkEquipped() (string, error) {
	if e.Item == nil || !e.Item.IsEquippable {
		return "", errors.Validation("This item cannot be equipped")
	}

	if e.IsEquipped {
		return "", errors.Validation("This item is already equipped")
	}

	e.IsEquipped = true
	return "You equipped " + e.Item.Name, nil
}

// MarkUnequipped flips the entry back to its carried state.
func (e *InventoryEntry) MarkUnequipped() (string, error) {
	if !e.IsEquipped {
		return "", errors.Validation("This item is not equipped")
	}

	e.IsEquipped = false
	name := ""
	if e.Item != nil {
		name = e.Item.Name
	}
	return "You unequipped " + name, nil
}

package item

import (
	"testing"

	"crimecity-server/internal/player"
)

func energyDrink() *Item {
	return &Item{
		ID:            1,
		Name:          "Energy Drink",
		IsConsumable:  true,
		EnergyRestore: 25,
		HealthRestore: 10,
	}
}

func TestUseClampsRestores(t *testing.T) {
	e := &InventoryEntry{Quantity: 2, Item: energyDrink()}
	p := &player.Player{Energy: 90, MaxEnergy: 100, Health: 95, MaxHealth: 100}

	msg, err := e.Use(p)
	if err != nil {
		t.Fatal(err)
	}
	if p.Energy != 100 || p.Health != 100 {
		t.Errorf("pools = %d/%d, want clamped to 100/100", p.Energy, p.Health)
	}
	if e.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", e.Quantity)
	}
	if msg != "You used Energy Drink" {
		t.Errorf("message = %q", msg)
	}
}

func TestUseGuards(t *testing.T) {
	p := &player.Player{MaxEnergy: 100, MaxHealth: 100}

	e := &InventoryEntry{Quantity: 1, Item: &Item{Name: "Knife", IsEquippable: true}}
	if _, err := e.Use(p); err == nil || err.Error() != "This item cannot be consumed" {
		t.Errorf("non-consumable error = %v", err)
	}

	e = &InventoryEntry{Quantity: 0, Item: energyDrink()}
	if _, err := e.Use(p); err == nil || err.Error() != "You don't have any of this item" {
		t.Errorf("empty stack error = %v", err)
	}
}

func TestMarkEquipped(t *testing.T) {
	e := &InventoryEntry{Quantity: 1, Item: &Item{Name: "Knife", IsEquippable: true}}

	msg, err := e.MarkEquipped()
	if err != nil {
		t.Fatal(err)
	}
	if !e.IsEquipped {
		t.Error("entry not marked equipped")
	}
	if msg != "You equipped Knife" {
		t.Errorf("message = %q", msg)
	}

	if _, err := e.MarkEquipped(); err == nil || err.Error() != "This item is already equipped" {
		t.Errorf("double equip error = %v", err)
	}
	if !e.IsEquipped {
		t.Error("rejected equip cleared the equipped flag")
	}

	drink := &InventoryEntry{Quantity: 1, Item: energyDrink()}
	if _, err := drink.MarkEquipped(); err == nil || err.Error() != "This item cannot be equipped" {
		t.Errorf("non-equippable error = %v", err)
	}
	if drink.IsEquipped {
		t.Error("rejected equip set the equipped flag")
	}
}

func TestMarkUnequipped(t *testing.T) {
	e := &InventoryEntry{Quantity: 1, IsEquipped: true, Item: &Item{Name: "Knife", IsEquippable: true}}

	msg, err := e.MarkUnequipped()
	if err != nil {
		t.Fatal(err)
	}
	if e.IsEquipped {
		t.Error("entry still equipped")
	}
	if msg != "You unequipped Knife" {
		t.Errorf("message = %q", msg)
	}

	if _, err := e.MarkUnequipped(); err == nil || err.Error() != "This item is not equipped" {
		t.Errorf("double unequip error = %v", err)
	}
}

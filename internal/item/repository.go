package item

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"crimecity-server/internal/shared/database"
	"crimecity-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	logger := slog.With("component", "item_repository", "operation", "init")
	logger.Debug("Initializing item repository")
	return &Repository{db: db}
}

// DB exposes the handle so services can open transactions.
func (r *Repository) DB() *database.DB {
	return r.db
}

const itemColumns = `
	id, name, description, image, item_type_id,
	buy_price, sell_price, min_level,
	attack_power, defense_power, speed_bonus,
	energy_restore, health_restore,
	is_tradable, is_equippable, is_consumable`

func scanItem(row interface{ Scan(...interface{}) error }) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Description, &it.Image, &it.ItemTypeID,
		&it.BuyPrice, &it.SellPrice, &it.MinLevel,
		&it.AttackPower, &it.DefensePower, &it.SpeedBonus,
		&it.EnergyRestore, &it.HealthRestore,
		&it.IsTradable, &it.IsEquippable, &it.IsConsumable,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repository) GetItemByID(ctx context.Context, id int) (*Item, error) {
	query := `SELECT` + itemColumns + ` FROM items WHERE id = $1`

	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("item not found with id: %d", id)
		}
		return nil, fmt.Errorf("database error getting item: %w", err)
	}
	return it, nil
}

func (r *Repository) ListItems(ctx context.Context) ([]Item, error) {
	query := `SELECT` + itemColumns + ` FROM items ORDER BY item_type_id, min_level, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

func (r *Repository) CreateItemType(ctx context.Context, name, description string) (*ItemType, error) {
	query := `
		INSERT INTO item_types (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description
	`

	var t ItemType
	err := r.db.QueryRowContext(ctx, query, name, description).Scan(&t.ID, &t.Name, &t.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create item type: %w", err)
	}
	return &t, nil
}

func (r *Repository) ListItemTypes(ctx context.Context) ([]ItemType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM item_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query item types: %w", err)
	}
	defer rows.Close()

	var types []ItemType
	for rows.Next() {
		var t ItemType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, fmt.Errorf("failed to scan item type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item types: %w", err)
	}
	return types, nil
}

func (r *Repository) CreateItem(ctx context.Context, it *Item) (*Item, error) {
	query := `
		INSERT INTO items (
			name, description, image, item_type_id,
			buy_price, sell_price, min_level,
			attack_power, defense_power, speed_bonus,
			energy_restore, health_restore,
			is_tradable, is_equippable, is_consumable
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING` + itemColumns

	created, err := scanItem(r.db.QueryRowContext(ctx, query,
		it.Name, it.Description, it.Image, it.ItemTypeID,
		it.BuyPrice, it.SellPrice, it.MinLevel,
		it.AttackPower, it.DefensePower, it.SpeedBonus,
		it.EnergyRestore, it.HealthRestore,
		it.IsTradable, it.IsEquippable, it.IsConsumable))
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return created, nil
}

const entryColumns = `
	pi.id, pi.player_id, pi.item_id, pi.quantity, pi.is_equipped, pi.created_at,
	i.id, i.name, i.description, i.image, i.item_type_id,
	i.buy_price, i.sell_price, i.min_level,
	i.attack_power, i.defense_power, i.speed_bonus,
	i.energy_restore, i.health_restore,
	i.is_tradable, i.is_equippable, i.is_consumable`

func scanEntry(row interface{ Scan(...interface{}) error }) (*InventoryEntry, error) {
	var e InventoryEntry
	var it Item
	err := row.Scan(
		&e.ID, &e.PlayerID, &e.ItemID, &e.Quantity, &e.IsEquipped, &e.CreatedAt,
		&it.ID, &it.Name, &it.Description, &it.Image, &it.ItemTypeID,
		&it.BuyPrice, &it.SellPrice, &it.MinLevel,
		&it.AttackPower, &it.DefensePower, &it.SpeedBonus,
		&it.EnergyRestore, &it.HealthRestore,
		&it.IsTradable, &it.IsEquippable, &it.IsConsumable,
	)
	if err != nil {
		return nil, err
	}
	e.Item = &it
	return &e, nil
}

func (r *Repository) GetEntry(ctx context.Context, playerID, itemID int) (*InventoryEntry, error) {
	query := `
		SELECT` + entryColumns + `
		FROM player_inventory pi
		JOIN items i ON i.id = pi.item_id
		WHERE pi.player_id = $1 AND pi.item_id = $2
	`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, playerID, itemID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("item not found in inventory: %d", itemID)
		}
		return nil, fmt.Errorf("database error getting inventory entry: %w", err)
	}
	return e, nil
}

func (r *Repository) ListByPlayer(ctx context.Context, playerID int) ([]InventoryEntry, error) {
	query := `
		SELECT` + entryColumns + `
		FROM player_inventory pi
		JOIN items i ON i.id = pi.item_id
		WHERE pi.player_id = $1
		ORDER BY i.item_type_id, i.name
	`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var entries []InventoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}
	return entries, nil
}

// AddQuantity merges quantity into the player's stack of an item, creating
// the stack when it does not exist yet.
func (r *Repository) AddQuantity(ctx context.Context, playerID, itemID, quantity int) error {
	return addQuantity(ctx, r.db, playerID, itemID, quantity)
}

// AddQuantityTx is AddQuantity inside a caller-owned transaction.
func (r *Repository) AddQuantityTx(ctx context.Context, tx *database.Tx, playerID, itemID, quantity int) error {
	return addQuantity(ctx, tx, playerID, itemID, quantity)
}

func addQuantity(ctx context.Context, exec database.Executor, playerID, itemID, quantity int) error {
	query := `
		INSERT INTO player_inventory (player_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, item_id)
		DO UPDATE SET quantity = player_inventory.quantity + EXCLUDED.quantity
	`

	if _, err := exec.ExecContext(ctx, query, playerID, itemID, quantity); err != nil {
		return fmt.Errorf("failed to add item to inventory: %w", err)
	}
	return nil
}

// RemoveQuantity takes quantity out of a stack, deleting the row when it
// drains to zero. Returns a validation error when the stack is too small.
func (r *Repository) RemoveQuantity(ctx context.Context, playerID, itemID, quantity int) error {
	return removeQuantity(ctx, r.db, playerID, itemID, quantity)
}

// RemoveQuantityTx is RemoveQuantity inside a caller-owned transaction.
func (r *Repository) RemoveQuantityTx(ctx context.Context, tx *database.Tx, playerID, itemID, quantity int) error {
	return removeQuantity(ctx, tx, playerID, itemID, quantity)
}

func removeQuantity(ctx context.Context, exec database.Executor, playerID, itemID, quantity int) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE player_inventory
		SET quantity = quantity - $3
		WHERE player_id = $1 AND item_id = $2 AND quantity >= $3
	`, playerID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to remove item from inventory: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return errors.Validation("You don't have enough of this item")
	}

	if _, err := exec.ExecContext(ctx, `
		DELETE FROM player_inventory
		WHERE player_id = $1 AND item_id = $2 AND quantity <= 0
	`, playerID, itemID); err != nil {
		return fmt.Errorf("failed to clear empty inventory stack: %w", err)
	}

	return nil
}

// SaveEntry persists quantity and equipped state, removing drained stacks.
func (r *Repository) SaveEntry(ctx context.Context, e *InventoryEntry) error {
	return saveEntry(ctx, r.db, e)
}

// SaveEntryTx is SaveEntry inside a caller-owned transaction.
func (r *Repository) SaveEntryTx(ctx context.Context, tx *database.Tx, e *InventoryEntry) error {
	return saveEntry(ctx, tx, e)
}

func saveEntry(ctx context.Context, exec database.Executor, e *InventoryEntry) error {
	if e.Quantity <= 0 {
		_, err := exec.ExecContext(ctx, `DELETE FROM player_inventory WHERE id = $1`, e.ID)
		if err != nil {
			return fmt.Errorf("failed to delete inventory entry: %w", err)
		}
		return nil
	}

	_, err := exec.ExecContext(ctx, `
		UPDATE player_inventory
		SET quantity = $2, is_equipped = $3
		WHERE id = $1
	`, e.ID, e.Quantity, e.IsEquipped)
	if err != nil {
		return fmt.Errorf("failed to save inventory entry: %w", err)
	}
	return nil
}

// UnequipTypeTx clears the equipped flag on every stack of the given item
// type, keeping the one-equipped-per-type rule before a new equip.
func (r *Repository) UnequipTypeTx(ctx context.Context, tx *database.Tx, playerID, itemTypeID int) error {
	query := `
		UPDATE player_inventory pi
		SET is_equipped = FALSE
		FROM items i
		WHERE pi.item_id = i.id
		  AND pi.player_id = $1
		  AND i.item_type_id = $2
		  AND pi.is_equipped = TRUE
	`

	if _, err := tx.ExecContext(ctx, query, playerID, itemTypeID); err != nil {
		return fmt.Errorf("failed to unequip item type: %w", err)
	}
	return nil
}

// EquippedPowerSums returns the summed attack and defense power of every
// item the player has equipped. Combat folds these into both sides' rolls.
func (r *Repository) EquippedPowerSums(ctx context.Context, playerID int) (attack, defense int, err error) {
	query := `
		SELECT COALESCE(SUM(i.attack_power), 0), COALESCE(SUM(i.defense_power), 0)
		FROM player_inventory pi
		JOIN items i ON i.id = pi.item_id
		WHERE pi.player_id = $1 AND pi.is_equipped = TRUE
	`

	if err := r.db.QueryRowContext(ctx, query, playerID).Scan(&attack, &defense); err != nil {
		return 0, 0, fmt.Errorf("failed to sum equipped power: %w", err)
	}
	return attack, defense, nil
}

package property

import (
	"context"
	"database/sql"
	"fmt"

	"crimecity-server/internal/shared/database"
	"crimecity-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the handle for services that manage their own transactions.
func (r *Repository) DB() *database.DB {
	return r.db
}

const typeColumns = `id, name, description, image, base_price, base_income, min_level`

func scanType(row interface{ Scan(...interface{}) error }) (*PropertyType, error) {
	var pt PropertyType
	err := row.Scan(&pt.ID, &pt.Name, &pt.Description, &pt.Image,
		&pt.BasePrice, &pt.BaseIncome, &pt.MinLevel)
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *Repository) GetTypeByID(ctx context.Context, id int) (*PropertyType, error) {
	query := fmt.Sprintf(`SELECT %s FROM property_types WHERE id = $1`, typeColumns)
	pt, err := scanType(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("property type not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property type: %w", err)
	}
	return pt, nil
}

// ListTypesAvailable returns types purchasable at the given level,
// cheapest first.
func (r *Repository) ListTypesAvailable(ctx context.Context, level, limit int) ([]PropertyType, error) {
	query := fmt.Sprintf(`SELECT %s FROM property_types
		WHERE min_level <= $1
		ORDER BY base_price ASC
		LIMIT $2`, typeColumns)

	rows, err := r.db.QueryContext(ctx, query, level, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list property types: %w", err)
	}
	defer rows.Close()

	var types []PropertyType
	for rows.Next() {
		pt, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property type: %w", err)
		}
		types = append(types, *pt)
	}
	return types, rows.Err()
}

func (r *Repository) CreateType(ctx context.Context, pt *PropertyType) (*PropertyType, error) {
	query := `INSERT INTO property_types (name, description, image, base_price, base_income, min_level)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		pt.Name, pt.Description, pt.Image, pt.BasePrice, pt.BaseIncome, pt.MinLevel,
	).Scan(&pt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create property type: %w", err)
	}
	return pt, nil
}

const propertyColumns = `pr.id, pr.player_id, pr.property_type_id, pr.name,
	pr.purchase_price, pr.current_value, pr.location_id, pr.income_rate, pr.level,
	pr.last_income_collection, pr.is_active, pr.purchased_on, pt.name`

const propertyJoins = `FROM properties pr
	JOIN property_types pt ON pt.id = pr.property_type_id`

func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var pr Property
	err := row.Scan(&pr.ID, &pr.PlayerID, &pr.PropertyTypeID, &pr.Name,
		&pr.PurchasePrice, &pr.CurrentValue, &pr.LocationID, &pr.IncomeRate, &pr.Level,
		&pr.LastCollection, &pr.IsActive, &pr.PurchasedAt, &pr.TypeName)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetOwnedActive fetches an active property only if it belongs to the
// given player, hiding the distinction between missing and foreign.
func (r *Repository) GetOwnedActive(ctx context.Context, id, playerID int) (*Property, error) {
	query := fmt.Sprintf(`SELECT %s %s
		WHERE pr.id = $1 AND pr.player_id = $2 AND pr.is_active = TRUE`,
		propertyColumns, propertyJoins)

	pr, err := scanProperty(r.db.QueryRowContext(ctx, query, id, playerID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("Property not found or doesn't belong to you.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return pr, nil
}

// ListByPlayer returns a player's properties, highest earners first.
func (r *Repository) ListByPlayer(ctx context.Context, playerID int, includeInactive bool) ([]Property, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE pr.player_id = $1`, propertyColumns, propertyJoins)
	if !includeInactive {
		query += ` AND pr.is_active = TRUE`
	}
	query += ` ORDER BY pr.income_rate DESC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []Property
	for rows.Next() {
		pr, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, *pr)
	}
	return properties, rows.Err()
}

func (r *Repository) CreateTx(ctx context.Context, tx *database.Tx, pr *Property) error {
	query := `INSERT INTO properties (player_id, property_type_id, name,
			purchase_price, current_value, location_id, income_rate, level,
			last_income_collection, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, purchased_on`

	err := tx.QueryRowContext(ctx, query,
		pr.PlayerID, pr.PropertyTypeID, pr.Name,
		pr.PurchasePrice, pr.CurrentValue, pr.LocationID, pr.IncomeRate, pr.Level,
		pr.LastCollection, pr.IsActive,
	).Scan(&pr.ID, &pr.PurchasedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *Repository) save(ctx context.Context, exec database.Executor, pr *Property) error {
	query := `UPDATE properties SET
			current_value = $2, income_rate = $3, level = $4,
			last_income_collection = $5, is_active = $6
		WHERE id = $1`

	if _, err := exec.ExecContext(ctx, query,
		pr.ID, pr.CurrentValue, pr.IncomeRate, pr.Level,
		pr.LastCollection, pr.IsActive,
	); err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, pr *Property) error {
	return r.save(ctx, r.db, pr)
}

func (r *Repository) SaveTx(ctx context.Context, tx *database.Tx, pr *Property) error {
	return r.save(ctx, tx, pr)
}

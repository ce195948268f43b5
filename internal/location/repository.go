package location

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
	return &Repository{db: db}
}

const locationColumns = `id, name, description, district, is_safe_zone, energy_cost, min_level`

func scanLocation(row *sql.Row) (*Location, error) {
	var loc Location
	err := row.Scan(
		&loc.ID,
		&loc.Name,
		&loc.Description,
		&loc.District,
		&loc.IsSafeZone,
		&loc.EnergyCost,
		&loc.MinLevel,
	)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Location, error) {
	logger := slog.With("component", "location_repository", "operation", "get_by_id", "location_id", id)

	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`

	loc, err := scanLocation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("location not found with id: %d", id)
		}
		logger.Error("Database error getting location", "error", err)
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	return loc, nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (*Location, error) {
	logger := slog.With("component", "location_repository", "operation", "get_by_name", "name", name)

	query := `SELECT ` + locationColumns + ` FROM locations WHERE name = $1`

	loc, err := scanLocation(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("location not found with name: %s", name)
		}
		logger.Error("Database error getting location by name", "error", err)
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	return loc, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]Location, error) {
	logger := slog.With("component", "location_repository", "operation", "get_all")

	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY district NULLS LAST, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query locations", "error", err)
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var loc Location
		err := rows.Scan(
			&loc.ID,
			&loc.Name,
			&loc.Description,
			&loc.District,
			&loc.IsSafeZone,
			&loc.EnergyCost,
			&loc.MinLevel,
		)
		if err != nil {
			logger.Error("Failed to scan location row", "error", err)
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

func (r *Repository) Create(ctx context.Context, loc *Location) (*Location, error) {
	logger := slog.With("component", "location_repository", "operation", "create", "name", loc.Name)
	logger.Info("Creating location")

	query := `
		INSERT INTO locations (name, description, district, is_safe_zone, energy_cost, min_level)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + locationColumns

	created, err := scanLocation(r.db.QueryRowContext(ctx, query,
		loc.Name, loc.Description, loc.District, loc.IsSafeZone, loc.EnergyCost, loc.MinLevel))
	if err != nil {
		logger.Error("Failed to create location", "error", err)
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return created, nil
}

// GetConnection returns the directed travel edge between two locations, or a
// not found error when no such edge exists.
func (r *Repository) GetConnection(ctx context.Context, fromID, toID int) (*Connection, error) {
	query := `
		SELECT id, from_location_id, to_location_id, travel_time, travel_cost
		FROM location_connections
		WHERE from_location_id = $1 AND to_location_id = $2
	`

	var conn Connection
	err := r.db.QueryRowContext(ctx, query, fromID, toID).Scan(
		&conn.ID, &conn.FromID, &conn.ToID, &conn.TravelTime, &conn.TravelCost,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("no travel route from location %d to %d", fromID, toID)
		}
		return nil, fmt.Errorf("failed to get location connection: %w", err)
	}

	return &conn, nil
}

func (r *Repository) GetConnectionsFrom(ctx context.Context, fromID int) ([]Connection, error) {
	query := `
		SELECT id, from_location_id, to_location_id, travel_time, travel_cost
		FROM location_connections
		WHERE from_location_id = $1
		ORDER BY travel_cost
	`

	rows, err := r.db.QueryContext(ctx, query, fromID)
	if err != nil {
		return nil, fmt.Errorf("failed to query location connections: %w", err)
	}
	defer rows.Close()

	var connections []Connection
	for rows.Next() {
		var conn Connection
		if err := rows.Scan(&conn.ID, &conn.FromID, &conn.ToID, &conn.TravelTime, &conn.TravelCost); err != nil {
			return nil, fmt.Errorf("failed to scan location connection: %w", err)
		}
		connections = append(connections, conn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location connections: %w", err)
	}

	return connections, nil
}

func (r *Repository) CreateConnection(ctx context.Context, conn *Connection) (*Connection, error) {
	logger := slog.With("component", "location_repository", "operation", "create_connection",
		"from", conn.FromID, "to", conn.ToID)
	logger.Info("Creating location connection")

	query := `
		INSERT INTO location_connections (from_location_id, to_location_id, travel_time, travel_cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id, from_location_id, to_location_id, travel_time, travel_cost
	`

	var created Connection
	err := r.db.QueryRowContext(ctx, query, conn.FromID, conn.ToID, conn.TravelTime, conn.TravelCost).Scan(
		&created.ID, &created.FromID, &created.ToID, &created.TravelTime, &created.TravelCost,
	)
	if err != nil {
		logger.Error("Failed to create location connection", "error", err)
		return nil, fmt.Errorf("failed to create location connection: %w", err)
	}

	return &created, nil
}

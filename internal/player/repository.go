package player

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"crimecity-server/internal/shared/database"
	"crimecity-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	logger := slog.With("component", "player_repository", "operation", "init")
	logger.Debug("Initializing player repository")
	return &Repository{db: db}
}

const playerColumns = `
	id, username, email, display_name, avatar_url, role,
	level, experience, cash, bank_balance,
	strength, defense, speed, dexterity, intelligence,
	energy, max_energy, health, max_health,
	current_location_id,
	is_in_hospital, hospital_release_time, is_in_jail, jail_release_time,
	last_energy_refill, last_health_refill,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*Player, error) {
	var p Player
	var role string
	err := row.Scan(
		&p.ID, &p.Username, &p.Email, &p.DisplayName, &p.AvatarURL, &role,
		&p.Level, &p.Experience, &p.Cash, &p.BankBalance,
		&p.Strength, &p.Defense, &p.Speed, &p.Dexterity, &p.Intelligence,
		&p.Energy, &p.MaxEnergy, &p.Health, &p.MaxHealth,
		&p.LocationID,
		&p.InHospital, &p.HospitalReleaseAt, &p.InJail, &p.JailReleaseAt,
		&p.LastEnergyRefill, &p.LastHealthRefill,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Role = ParseRole(role)
	return &p, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Player, error) {
	logger := slog.With("component", "player_repository", "operation", "get_by_id", "player_id", id)

	query := `SELECT` + playerColumns + ` FROM players WHERE id = $1`

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("player not found with id: %d", id)
		}
		logger.Error("Database error getting player by ID", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	return p, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*Player, error) {
	logger := slog.With("component", "player_repository", "operation", "find_by_email", "email", email)
	logger.Debug("Finding player by email")

	query := `SELECT` + playerColumns + ` FROM players WHERE email = $1`

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("player not found with email: %s", email)
		}
		logger.Error("Database error finding player by email", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	return p, nil
}

type NewPlayer struct {
	Username    string
	Email       string
	DisplayName string
	AvatarURL   *string
	Role        Role
	Cash        int64
	Stat        int
	Energy      int
	Health      int
	LocationID  *int
}

func (r *Repository) Create(ctx context.Context, np NewPlayer) (*Player, error) {
	logger := slog.With(
		"component", "player_repository",
		"operation", "create",
		"username", np.Username,
		"email", np.Email,
	)
	logger.Info("Creating new player")

	query := `
		INSERT INTO players (
			username, email, display_name, avatar_url, role, cash,
			strength, defense, speed, dexterity, intelligence,
			energy, max_energy, health, max_health, current_location_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $7, $7, $7, $8, $8, $9, $9, $10)
		RETURNING` + playerColumns

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query,
		np.Username, np.Email, np.DisplayName, np.AvatarURL, string(np.Role), np.Cash,
		np.Stat, np.Energy, np.Health, np.LocationID))
	if err != nil {
		logger.Error("Failed to create player", "error", err)
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	logger.Info("Player created successfully", "player_id", p.ID, "username", p.Username)
	return p, nil
}

// Save persists every mutable field of the player row. Resolution routines
// mutate the in-memory entity and then save it whole, matching the
// single-row-save persistence contract.
func (r *Repository) Save(ctx context.Context, p *Player) error {
	logger := slog.With("component", "player_repository", "operation", "save", "player_id", p.ID)

	query := `
		UPDATE players SET
			display_name = $2, avatar_url = $3, role = $4,
			level = $5, experience = $6, cash = $7, bank_balance = $8,
			strength = $9, defense = $10, speed = $11, dexterity = $12, intelligence = $13,
			energy = $14, max_energy = $15, health = $16, max_health = $17,
			current_location_id = $18,
			is_in_hospital = $19, hospital_release_time = $20,
			is_in_jail = $21, jail_release_time = $22,
			last_energy_refill = $23, last_health_refill = $24,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.DisplayName, p.AvatarURL, string(p.Role),
		p.Level, p.Experience, p.Cash, p.BankBalance,
		p.Strength, p.Defense, p.Speed, p.Dexterity, p.Intelligence,
		p.Energy, p.MaxEnergy, p.Health, p.MaxHealth,
		p.LocationID,
		p.InHospital, p.HospitalReleaseAt,
		p.InJail, p.JailReleaseAt,
		p.LastEnergyRefill, p.LastHealthRefill,
	)
	if err != nil {
		logger.Error("Failed to save player", "error", err)
		return fmt.Errorf("failed to save player: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return errors.NotFoundf("player not found with id: %d", p.ID)
	}

	return nil
}

// SaveTx is Save executed inside a caller-owned transaction.
func (r *Repository) SaveTx(ctx context.Context, tx *database.Tx, p *Player) error {
	query := `
		UPDATE players SET
			cash = $2, bank_balance = $3, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, query, p.ID, p.Cash, p.BankBalance); err != nil {
		return fmt.Errorf("failed to save player balances: %w", err)
	}
	return nil
}

func (r *Repository) GetCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get player count: %w", err)
	}
	return count, nil
}

func (r *Repository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM players ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list player ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player ids: %w", err)
	}

	return ids, nil
}

// PublicProfile is the subset of a player safe to show to everyone.
type PublicProfile struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Level      int       `json:"level"`
	InHospital bool      `json:"is_in_hospital"`
	InJail     bool      `json:"is_in_jail"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Repository) GetAllProfiles(ctx context.Context) ([]PublicProfile, error) {
	logger := slog.With("component", "player_repository", "operation", "get_all_profiles")

	query := `
		SELECT id, username, level, is_in_hospital, is_in_jail, created_at
		FROM players
		ORDER BY level DESC, created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query players", "error", err)
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var profiles []PublicProfile
	for rows.Next() {
		var profile PublicProfile
		err := rows.Scan(
			&profile.ID,
			&profile.Username,
			&profile.Level,
			&profile.InHospital,
			&profile.InJail,
			&profile.CreatedAt,
		)
		if err != nil {
			logger.Error("Failed to scan player row", "error", err)
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return profiles, nil
}

// FindOpponents lists attackable players at a location: present, free, and
// within the level band around the searcher.
func (r *Repository) FindOpponents(ctx context.Context, locationID, excludeID, minLevel, maxLevel, limit int) ([]PublicProfile, error) {
	query := `
		SELECT id, username, level, is_in_hospital, is_in_jail, created_at
		FROM players
		WHERE current_location_id = $1
		  AND id != $2
		  AND is_in_hospital = FALSE
		  AND is_in_jail = FALSE
		  AND level BETWEEN $3 AND $4
		ORDER BY level DESC
		LIMIT $5
	`

	rows, err := r.db.QueryContext(ctx, query, locationID, excludeID, minLevel, maxLevel, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query opponents: %w", err)
	}
	defer rows.Close()

	var opponents []PublicProfile
	for rows.Next() {
		var profile PublicProfile
		err := rows.Scan(
			&profile.ID,
			&profile.Username,
			&profile.Level,
			&profile.InHospital,
			&profile.InJail,
			&profile.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opponent: %w", err)
		}
		opponents = append(opponents, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opponents: %w", err)
	}

	return opponents, nil
}

func (r *Repository) UpdateRole(ctx context.Context, playerID int, role Role) error {
	_, err := r.db.ExecContext(ctx, "UPDATE players SET role = $2, updated_at = NOW() WHERE id = $1", playerID, string(role))
	if err != nil {
		return fmt.Errorf("failed to update player role: %w", err)
	}
	return nil
}

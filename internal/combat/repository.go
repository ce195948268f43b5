package combat

import (
	"context"
	"fmt"
	"log/slog"

	"crimecity-server/internal/shared/database"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	logger := slog.With("component", "combat_repository", "operation", "init")
	logger.Debug("Initializing combat repository")
	return &Repository{db: db}
}

// Create persists a combat record and its ordered log lines in one
// transaction.
func (r *Repository) Create(ctx context.Context, c *Combat, logLines []string) error {
	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO combats (attacker_id, defender_id, winner_id, location_id,
			cash_stolen, experience_gained, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, c.AttackerID, c.DefenderID, c.WinnerID, c.LocationID,
		c.CashStolen, c.ExperienceGained, c.StartedAt, c.EndedAt).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create combat record: %w", err)
	}

	for _, line := range logLines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO combat_logs (combat_id, message)
			VALUES ($1, $2)
		`, c.ID, line); err != nil {
			return fmt.Errorf("failed to create combat log entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit combat record: %w", err)
	}
	return nil
}

// GetRecentByPlayer lists a player's most recent fights, newest first,
// from either side of the encounter.
func (r *Repository) GetRecentByPlayer(ctx context.Context, playerID, limit int) ([]Combat, error) {
	query := `
		SELECT c.id, c.attacker_id, c.defender_id, c.winner_id, c.location_id,
			c.cash_stolen, c.experience_gained, c.started_at, c.ended_at,
			pa.username, pd.username
		FROM combats c
		JOIN players pa ON pa.id = c.attacker_id
		JOIN players pd ON pd.id = c.defender_id
		WHERE c.attacker_id = $1 OR c.defender_id = $1
		ORDER BY c.started_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query combat history: %w", err)
	}
	defer rows.Close()

	var combats []Combat
	for rows.Next() {
		var c Combat
		err := rows.Scan(&c.ID, &c.AttackerID, &c.DefenderID, &c.WinnerID, &c.LocationID,
			&c.CashStolen, &c.ExperienceGained, &c.StartedAt, &c.EndedAt,
			&c.AttackerName, &c.DefenderName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan combat: %w", err)
		}
		combats = append(combats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating combat history: %w", err)
	}
	return combats, nil
}

// GetLog returns a combat's log lines in event order.
func (r *Repository) GetLog(ctx context.Context, combatID int) ([]LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, combat_id, message, created_at
		FROM combat_logs
		WHERE combat_id = $1
		ORDER BY id
	`, combatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query combat log: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.CombatID, &e.Message, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan combat log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating combat log: %w", err)
	}
	return entries, nil
}

package crime

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
	logger := slog.With("component", "crime_repository", "operation", "init")
	logger.Debug("Initializing crime repository")
	return &Repository{db: db}
}

const crimeTypeColumns = `
	id, name, description, min_level, energy_cost,
	min_cash_reward, max_cash_reward, min_exp_reward, max_exp_reward,
	jail_risk, min_jail_time, max_jail_time, item_reward_chance,
	strength_factor, defense_factor, speed_factor, dexterity_factor, intelligence_factor,
	base_success_chance`

func scanCrimeType(row interface{ Scan(...interface{}) error }) (*CrimeType, error) {
	var ct CrimeType
	err := row.Scan(
		&ct.ID, &ct.Name, &ct.Description, &ct.MinLevel, &ct.EnergyCost,
		&ct.MinCashReward, &ct.MaxCashReward, &ct.MinExpReward, &ct.MaxExpReward,
		&ct.JailRisk, &ct.MinJailTime, &ct.MaxJailTime, &ct.ItemRewardChance,
		&ct.StrengthFactor, &ct.DefenseFactor, &ct.SpeedFactor, &ct.DexterityFactor, &ct.IntelligenceFactor,
		&ct.BaseSuccessChance,
	)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// GetTypeByID loads a crime type with its reward pool.
func (r *Repository) GetTypeByID(ctx context.Context, id int) (*CrimeType, error) {
	query := `SELECT` + crimeTypeColumns + ` FROM crime_types WHERE id = $1`

	ct, err := scanCrimeType(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("crime type not found with id: %d", id)
		}
		return nil, fmt.Errorf("database error getting crime type: %w", err)
	}

	if err := r.loadRewardPool(ctx, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// ListAvailable lists crime types a player of the given level can attempt.
func (r *Repository) ListAvailable(ctx context.Context, level int) ([]CrimeType, error) {
	query := `SELECT` + crimeTypeColumns + ` FROM crime_types WHERE min_level <= $1 ORDER BY min_level, id`

	rows, err := r.db.QueryContext(ctx, query, level)
	if err != nil {
		return nil, fmt.Errorf("failed to query crime types: %w", err)
	}
	defer rows.Close()

	var types []CrimeType
	for rows.Next() {
		ct, err := scanCrimeType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crime type: %w", err)
		}
		types = append(types, *ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crime types: %w", err)
	}
	return types, nil
}

func (r *Repository) loadRewardPool(ctx context.Context, ct *CrimeType) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id FROM crime_reward_pool WHERE crime_type_id = $1 ORDER BY item_id
	`, ct.ID)
	if err != nil {
		return fmt.Errorf("failed to query crime reward pool: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int
		if err := rows.Scan(&itemID); err != nil {
			return fmt.Errorf("failed to scan reward pool item: %w", err)
		}
		ct.RewardPool = append(ct.RewardPool, itemID)
	}
	return rows.Err()
}

func (r *Repository) CreateType(ctx context.Context, ct *CrimeType) (*CrimeType, error) {
	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO crime_types (
			name, description, min_level, energy_cost,
			min_cash_reward, max_cash_reward, min_exp_reward, max_exp_reward,
			jail_risk, min_jail_time, max_jail_time, item_reward_chance,
			strength_factor, defense_factor, speed_factor, dexterity_factor, intelligence_factor,
			base_success_chance
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`, ct.Name, ct.Description, ct.MinLevel, ct.EnergyCost,
		ct.MinCashReward, ct.MaxCashReward, ct.MinExpReward, ct.MaxExpReward,
		ct.JailRisk, ct.MinJailTime, ct.MaxJailTime, ct.ItemRewardChance,
		ct.StrengthFactor, ct.DefenseFactor, ct.SpeedFactor, ct.DexterityFactor, ct.IntelligenceFactor,
		ct.BaseSuccessChance).Scan(&ct.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create crime type: %w", err)
	}

	for _, itemID := range ct.RewardPool {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO crime_reward_pool (crime_type_id, item_id) VALUES ($1, $2)
		`, ct.ID, itemID); err != nil {
			return nil, fmt.Errorf("failed to add reward pool item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit crime type: %w", err)
	}
	return ct, nil
}

func (r *Repository) CreateResult(ctx context.Context, res *CrimeResult) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO crime_results (player_id, crime_type_id, result,
			cash_reward, exp_reward, jail_time, item_reward_id, location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, res.PlayerID, res.CrimeTypeID, res.Result,
		res.CashReward, res.ExpReward, res.JailTime, res.ItemRewardID, res.LocationID).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create crime result: %w", err)
	}
	return nil
}

// GetRecentByPlayer lists a player's latest attempts, newest first.
func (r *Repository) GetRecentByPlayer(ctx context.Context, playerID, limit int) ([]CrimeResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cr.id, cr.player_id, cr.crime_type_id, cr.result,
			cr.cash_reward, cr.exp_reward, cr.jail_time, cr.item_reward_id, cr.location_id,
			cr.created_at, ct.name
		FROM crime_results cr
		JOIN crime_types ct ON ct.id = cr.crime_type_id
		WHERE cr.player_id = $1
		ORDER BY cr.created_at DESC
		LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query crime results: %w", err)
	}
	defer rows.Close()

	var results []CrimeResult
	for rows.Next() {
		var res CrimeResult
		err := rows.Scan(&res.ID, &res.PlayerID, &res.CrimeTypeID, &res.Result,
			&res.CashReward, &res.ExpReward, &res.JailTime, &res.ItemRewardID, &res.LocationID,
			&res.CreatedAt, &res.CrimeName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crime result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crime results: %w", err)
	}
	return results, nil
}

// GetStats aggregates a player's lifetime crime record in one pass.
func (r *Repository) GetStats(ctx context.Context, playerID int) (*Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE result = 'success'),
			COUNT(*) FILTER (WHERE result = 'failed'),
			COUNT(*) FILTER (WHERE result = 'jailed'),
			COALESCE(SUM(cash_reward) FILTER (WHERE result = 'success'), 0),
			COALESCE(SUM(exp_reward) FILTER (WHERE result = 'success'), 0)
		FROM crime_results
		WHERE player_id = $1
	`, playerID).Scan(&s.TotalCrimes, &s.SuccessfulCrimes, &s.FailedCrimes, &s.JailedCount,
		&s.TotalEarnings, &s.TotalExp)
	if err != nil {
		return nil, fmt.Errorf("failed to query crime stats: %w", err)
	}

	if s.TotalCrimes > 0 {
		s.SuccessRate = float64(s.SuccessfulCrimes) / float64(s.TotalCrimes) * 100
	}
	return &s, nil
}

package market

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
	logger := slog.With("component", "market_repository", "operation", "init")
	logger.Debug("Initializing market repository")
	return &Repository{db: db}
}

func (r *Repository) DB() *database.DB {
	return r.db
}

const listingColumns = `
	l.id, l.seller_id, l.buyer_id, l.item_id, l.quantity, l.price, l.description,
	l.status, l.created_at, l.expires_at, l.sold_at,
	p.username, i.name`

const listingJoins = `
	FROM market_listings l
	JOIN players p ON p.id = l.seller_id
	JOIN items i ON i.id = l.item_id`

func scanListing(row interface{ Scan(...interface{}) error }) (*Listing, error) {
	var l Listing
	err := row.Scan(
		&l.ID, &l.SellerID, &l.BuyerID, &l.ItemID, &l.Quantity, &l.Price, &l.Description,
		&l.Status, &l.CreatedAt, &l.ExpiresAt, &l.SoldAt,
		&l.SellerName, &l.ItemName,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateTx inserts a listing inside the escrow transaction.
func (r *Repository) CreateTx(ctx context.Context, tx *database.Tx, l *Listing) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO market_listings (seller_id, item_id, quantity, price, description, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, l.SellerID, l.ItemID, l.Quantity, l.Price, l.Description, l.Status, l.ExpiresAt).
		Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create market listing: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Listing, error) {
	query := `SELECT` + listingColumns + listingJoins + ` WHERE l.id = $1`

	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("listing not found with id: %d", id)
		}
		return nil, fmt.Errorf("database error getting listing: %w", err)
	}
	return l, nil
}

// ActiveFilters narrows the public listing browse.
type ActiveFilters struct {
	ItemTypeID int
	MaxPrice   int64
	Limit      int
}

func (r *Repository) ListActive(ctx context.Context, f ActiveFilters) ([]Listing, error) {
	query := `SELECT` + listingColumns + listingJoins + ` WHERE l.status = 'active'`
	args := []interface{}{}

	if f.ItemTypeID > 0 {
		args = append(args, f.ItemTypeID)
		query += fmt.Sprintf(" AND i.item_type_id = $%d", len(args))
	}
	if f.MaxPrice > 0 {
		args = append(args, f.MaxPrice)
		query += fmt.Sprintf(" AND l.price <= $%d", len(args))
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d", len(args))

	return r.queryListings(ctx, query, args...)
}

func (r *Repository) ListBySeller(ctx context.Context, sellerID int, includeClosed bool, limit int) ([]Listing, error) {
	query := `SELECT` + listingColumns + listingJoins + ` WHERE l.seller_id = $1`
	if !includeClosed {
		query += ` AND l.status = 'active'`
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += ` ORDER BY l.created_at DESC LIMIT $2`

	return r.queryListings(ctx, query, sellerID, limit)
}

// ListExpired returns active listings whose deadline has passed.
func (r *Repository) ListExpired(ctx context.Context, now time.Time) ([]Listing, error) {
	query := `SELECT` + listingColumns + listingJoins + `
		WHERE l.status = 'active' AND l.expires_at <= $1
		ORDER BY l.expires_at`

	return r.queryListings(ctx, query, now)
}

func (r *Repository) queryListings(ctx context.Context, query string, args ...interface{}) ([]Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return listings, nil
}

// MarkSoldTx claims an active listing for a buyer. The status predicate
// makes the transition a compare-and-set: of two concurrent purchases only
// one update matches, the other sees zero rows and gets a conflict.
func (r *Repository) MarkSoldTx(ctx context.Context, tx *database.Tx, listingID, buyerID int, soldAt time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE market_listings
		SET status = 'sold', buyer_id = $2, sold_at = $3
		WHERE id = $1 AND status = 'active'
	`, listingID, buyerID, soldAt)
	if err != nil {
		return fmt.Errorf("failed to mark listing sold: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return errors.Conflict("This listing is no longer active")
	}
	return nil
}

// MarkClosedTx applies the cancelled or expired transition with the same
// compare-and-set guard as MarkSoldTx.
func (r *Repository) MarkClosedTx(ctx context.Context, tx *database.Tx, listingID int, status string) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE market_listings
		SET status = $2
		WHERE id = $1 AND status = 'active'
	`, listingID, status)
	if err != nil {
		return fmt.Errorf("failed to close listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return errors.Conflict("This listing is no longer active")
	}
	return nil
}

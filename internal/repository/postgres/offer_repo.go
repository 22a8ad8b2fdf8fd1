package postgres

import (
	"context"
	"errors"

	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// OfferRepo implements OfferRepository using PostgreSQL.
type OfferRepo struct{ db *DB }

// NewOfferRepo constructs an offer repository.
func NewOfferRepo(db *DB) *OfferRepo { return &OfferRepo{db: db} }

const offerColumns = `id, user_id, name, niche, country, traffic_source, funnel_type,
start_date, end_date, budget, description, created_at, updated_at`

// Create inserts a new offer row.
func (r *OfferRepo) Create(ctx context.Context, o *model.Offer) error {
	const q = `
INSERT INTO offers (id, user_id, name, niche, country, traffic_source, funnel_type,
start_date, end_date, budget, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Pool.Exec(ctx, q,
		o.ID, o.UserID, o.Name, o.Niche, o.Country, o.TrafficSource, o.FunnelType,
		o.StartDate, o.EndDate, o.Budget, o.Description)
	return err
}

// ListByUser returns the user's offers, newest first.
func (r *OfferRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Offer, error) {
	const q = `
SELECT ` + offerColumns + `
FROM offers WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		var o model.Offer
		if err := scanOffer(rows, &o); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// GetByID selects an offer by ID, scoped to its owner.
func (r *OfferRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Offer, error) {
	const q = `
SELECT ` + offerColumns + `
FROM offers WHERE id=$1 AND user_id=$2`
	var o model.Offer
	if err := scanOffer(r.db.Pool.QueryRow(ctx, q, id, userID), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Update persists changes to an offer, scoped to its owner.
func (r *OfferRepo) Update(ctx context.Context, o *model.Offer) error {
	const q = `
UPDATE offers
SET name=$3, niche=$4, country=$5, traffic_source=$6, funnel_type=$7,
start_date=$8, end_date=$9, budget=$10, description=$11, updated_at=now()
WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q,
		o.ID, o.UserID, o.Name, o.Niche, o.Country, o.TrafficSource, o.FunnelType,
		o.StartDate, o.EndDate, o.Budget, o.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes an offer, scoped to its owner.
func (r *OfferRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const q = `DELETE FROM offers WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Exists reports whether the offer exists and is owned by the user.
func (r *OfferRepo) Exists(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM offers WHERE id=$1 AND user_id=$2)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, id, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanOffer(row pgx.Row, o *model.Offer) error {
	return row.Scan(&o.ID, &o.UserID, &o.Name, &o.Niche, &o.Country,
		&o.TrafficSource, &o.FunnelType, &o.StartDate, &o.EndDate,
		&o.Budget, &o.Description, &o.CreatedAt, &o.UpdatedAt)
}

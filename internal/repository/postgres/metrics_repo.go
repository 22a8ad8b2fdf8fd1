package postgres

import (
	"context"
	"errors"

	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// MetricsRepo implements MetricsRepository using PostgreSQL.
type MetricsRepo struct{ db *DB }

// NewMetricsRepo constructs a metrics repository.
func NewMetricsRepo(db *DB) *MetricsRepo { return &MetricsRepo{db: db} }

// Upsert inserts or replaces the single metrics row kept per offer.
func (r *MetricsRepo) Upsert(ctx context.Context, m *model.Metrics) error {
	const q = `
INSERT INTO metrics (offer_id, impressions, clicks, leads, sales, revenue, cost,
ctr, cpc, cpm, conversion_rate, roas, aov)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (offer_id)
DO UPDATE SET impressions=$2, clicks=$3, leads=$4, sales=$5, revenue=$6, cost=$7,
ctr=$8, cpc=$9, cpm=$10, conversion_rate=$11, roas=$12, aov=$13, updated_at=now()`
	_, err := r.db.Pool.Exec(ctx, q,
		m.OfferID, m.Impressions, m.Clicks, m.Leads, m.Sales, m.Revenue, m.Cost,
		m.CTR, m.CPC, m.CPM, m.ConversionRate, m.ROAS, m.AOV)
	return err
}

// GetByOfferID loads the metrics row for an offer.
func (r *MetricsRepo) GetByOfferID(ctx context.Context, offerID uuid.UUID) (*model.Metrics, error) {
	const q = `
SELECT offer_id, impressions, clicks, leads, sales, revenue, cost,
ctr, cpc, cpm, conversion_rate, roas, aov, updated_at
FROM metrics WHERE offer_id=$1`
	var m model.Metrics
	err := r.db.Pool.QueryRow(ctx, q, offerID).Scan(
		&m.OfferID, &m.Impressions, &m.Clicks, &m.Leads, &m.Sales, &m.Revenue, &m.Cost,
		&m.CTR, &m.CPC, &m.CPM, &m.ConversionRate, &m.ROAS, &m.AOV, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

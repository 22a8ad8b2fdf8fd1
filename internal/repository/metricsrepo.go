package repository

import (
	"context"

	"github.com/aivolabs/aivo/internal/model"
	"github.com/gofrs/uuid/v5"
)

// MetricsRepository stores the single metrics row kept per offer.
type MetricsRepository interface {
	// Upsert inserts or replaces the metrics row for an offer.
	Upsert(ctx context.Context, m *model.Metrics) error
	// GetByOfferID loads the metrics row for an offer.
	GetByOfferID(ctx context.Context, offerID uuid.UUID) (*model.Metrics, error)
}

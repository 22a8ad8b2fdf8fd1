package service

import (
	"context"

	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/model"
	"github.com/aivolabs/aivo/internal/repository"
	"github.com/aivolabs/aivo/internal/schema"
	"github.com/gofrs/uuid/v5"
)

// MetricsService maintains the single metrics row kept per offer.
type MetricsService interface {
	// Upsert stores raw counters for an offer and computes derived values.
	Upsert(ctx context.Context, offerID, userID uuid.UUID, in schema.UpsertMetrics) (*model.Metrics, error)
	// Get returns the metrics row for an offer owned by the user.
	Get(ctx context.Context, offerID, userID uuid.UUID) (*model.Metrics, error)
}

type MetricsServiceImpl struct {
	offers  repository.OfferRepository
	metrics repository.MetricsRepository
}

// NewMetricsService constructs MetricsService.
func NewMetricsService(offers repository.OfferRepository, metrics repository.MetricsRepository) *MetricsServiceImpl {
	return &MetricsServiceImpl{offers: offers, metrics: metrics}
}

func (s *MetricsServiceImpl) Upsert(ctx context.Context, offerID, userID uuid.UUID, in schema.UpsertMetrics) (*model.Metrics, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, offerID, userID); err != nil {
		return nil, err
	}

	m := &model.Metrics{
		OfferID:     offerID,
		Impressions: in.Impressions,
		Clicks:      in.Clicks,
		Leads:       in.Leads,
		Sales:       in.Sales,
		Revenue:     in.Revenue,
		Cost:        in.Cost,
	}
	derive(m)

	if err := s.metrics.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MetricsServiceImpl) Get(ctx context.Context, offerID, userID uuid.UUID) (*model.Metrics, error) {
	if err := s.checkOwnership(ctx, offerID, userID); err != nil {
		return nil, err
	}
	return s.metrics.GetByOfferID(ctx, offerID)
}

func (s *MetricsServiceImpl) checkOwnership(ctx context.Context, offerID, userID uuid.UUID) error {
	ok, err := s.offers.Exists(ctx, offerID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrNotFound
	}
	return nil
}

// derive fills the computed fields from the raw counters. Every ratio is zero
// when its denominator is zero.
func derive(m *model.Metrics) {
	if m.Impressions > 0 {
		m.CTR = float64(m.Clicks) / float64(m.Impressions) * 100
		m.CPM = m.Cost / float64(m.Impressions) * 1000
	}
	if m.Clicks > 0 {
		m.CPC = m.Cost / float64(m.Clicks)
	}
	if m.Leads > 0 {
		m.ConversionRate = float64(m.Sales) / float64(m.Leads) * 100
	}
	if m.Cost > 0 {
		m.ROAS = m.Revenue / m.Cost
	}
	if m.Sales > 0 {
		m.AOV = m.Revenue / float64(m.Sales)
	}
}

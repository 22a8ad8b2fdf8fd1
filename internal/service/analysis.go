package service

import (
	"context"
	"errors"
	"time"

	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/model"
	"github.com/aivolabs/aivo/internal/repository"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Analyzer produces a textual review of a campaign. Implementations call an
// external AI service; metrics may be nil when none were reported yet.
type Analyzer interface {
	Analyze(ctx context.Context, offer *model.Offer, metrics *model.Metrics, benchmarks []model.Benchmark) (string, error)
}

// Admitter decides whether a subject may spend one analysis request.
// Satisfied by *ratelimit.Gate.
type Admitter interface {
	TryAdmit(subject uuid.UUID) bool
}

// AnalysisService runs rate-gated AI analysis of offers.
type AnalysisService interface {
	// Analyze reviews an offer owned by the user. A rate-gate denial
	// short-circuits with errs.ErrRateLimited before any downstream work.
	Analyze(ctx context.Context, userID, offerID uuid.UUID) (*model.Analysis, error)
}

type AnalysisServiceImpl struct {
	gate       Admitter
	offers     repository.OfferRepository
	metrics    repository.MetricsRepository
	benchmarks repository.BenchmarkRepository
	analyzer   Analyzer
	log        *zap.Logger
}

// NewAnalysisService constructs AnalysisService with required dependencies.
func NewAnalysisService(gate Admitter, offers repository.OfferRepository, metrics repository.MetricsRepository,
	benchmarks repository.BenchmarkRepository, analyzer Analyzer, log *zap.Logger) *AnalysisServiceImpl {
	return &AnalysisServiceImpl{
		gate:       gate,
		offers:     offers,
		metrics:    metrics,
		benchmarks: benchmarks,
		analyzer:   analyzer,
		log:        log,
	}
}

func (s *AnalysisServiceImpl) Analyze(ctx context.Context, userID, offerID uuid.UUID) (*model.Analysis, error) {
	if !s.gate.TryAdmit(userID) {
		return nil, errs.ErrRateLimited
	}

	offer, err := s.offers.GetByID(ctx, offerID, userID)
	if err != nil {
		return nil, err
	}

	m, err := s.metrics.GetByOfferID(ctx, offerID)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	benches, err := s.benchmarks.List(ctx, model.BenchmarkFilter{
		Niche:         offer.Niche,
		Country:       offer.Country,
		TrafficSource: offer.TrafficSource,
	})
	if err != nil {
		return nil, err
	}

	summary, err := s.analyzer.Analyze(ctx, offer, m, benches)
	if err != nil {
		s.log.Error("analyze offer", zap.String("offer_id", offerID.String()), zap.Error(err))
		return nil, errs.ErrInternal
	}

	return &model.Analysis{
		OfferID:     offerID,
		Summary:     summary,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

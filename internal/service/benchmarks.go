package service

import (
	"context"

	"github.com/aivolabs/aivo/internal/model"
	"github.com/aivolabs/aivo/internal/repository"
	"github.com/aivolabs/aivo/internal/schema"
	"github.com/gofrs/uuid/v5"
)

// BenchmarkService manages market reference data used to rate live campaigns.
type BenchmarkService interface {
	// Create stores a new benchmark; duplicate dimensions map to errs.ErrConflict.
	Create(ctx context.Context, in schema.CreateBenchmark) (*model.Benchmark, error)
	// List returns benchmarks matching the filter, newest first.
	List(ctx context.Context, filter model.BenchmarkFilter) ([]model.Benchmark, error)
	// Get returns one benchmark by ID.
	Get(ctx context.Context, id uuid.UUID) (*model.Benchmark, error)
	// Update replaces a benchmark's dimensions and averages.
	Update(ctx context.Context, id uuid.UUID, in schema.CreateBenchmark) (*model.Benchmark, error)
	// Delete removes a benchmark.
	Delete(ctx context.Context, id uuid.UUID) error
}

type BenchmarkServiceImpl struct {
	repo repository.BenchmarkRepository
}

// NewBenchmarkService constructs BenchmarkService.
func NewBenchmarkService(repo repository.BenchmarkRepository) *BenchmarkServiceImpl {
	return &BenchmarkServiceImpl{repo: repo}
}

func (s *BenchmarkServiceImpl) Create(ctx context.Context, in schema.CreateBenchmark) (*model.Benchmark, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	b := benchmarkFromInput(id, in)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BenchmarkServiceImpl) List(ctx context.Context, filter model.BenchmarkFilter) ([]model.Benchmark, error) {
	return s.repo.List(ctx, filter)
}

func (s *BenchmarkServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Benchmark, error) {
	return s.repo.GetByID(ctx, id)
}

// Update is a full replace; the payload carries every field.
func (s *BenchmarkServiceImpl) Update(ctx context.Context, id uuid.UUID, in schema.CreateBenchmark) (*model.Benchmark, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b := benchmarkFromInput(id, in)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BenchmarkServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func benchmarkFromInput(id uuid.UUID, in schema.CreateBenchmark) *model.Benchmark {
	return &model.Benchmark{
		ID:            id,
		Niche:         in.Niche,
		Country:       in.Country,
		TrafficSource: in.TrafficSource,
		FunnelType:    in.FunnelType,
		AvgCTR:        in.AvgCTR,
		AvgCPC:        in.AvgCPC,
		AvgCPM:        in.AvgCPM,
		AvgConvRate:   in.AvgConvRate,
		AvgROAS:       in.AvgROAS,
	}
}

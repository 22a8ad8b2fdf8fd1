package repository

import (
	"context"

	"github.com/aivolabs/aivo/internal/model"
	"github.com/gofrs/uuid/v5"
)

// BenchmarkRepository manages admin-maintained market reference data.
type BenchmarkRepository interface {
	// Create inserts a new benchmark. A duplicate dimension combination maps
	// to errs.ErrConflict.
	Create(ctx context.Context, b *model.Benchmark) error
	// List returns benchmarks matching the filter, newest first.
	List(ctx context.Context, filter model.BenchmarkFilter) ([]model.Benchmark, error)
	// GetByID loads a benchmark by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Benchmark, error)
	// Update persists changes to a benchmark.
	Update(ctx context.Context, b *model.Benchmark) error
	// Delete removes a benchmark.
	Delete(ctx context.Context, id uuid.UUID) error
}

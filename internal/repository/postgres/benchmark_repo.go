package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// BenchmarkRepo implements BenchmarkRepository using PostgreSQL.
type BenchmarkRepo struct{ db *DB }

// NewBenchmarkRepo constructs a benchmark repository.
func NewBenchmarkRepo(db *DB) *BenchmarkRepo { return &BenchmarkRepo{db: db} }

const benchmarkColumns = `id, niche, country, traffic_source, funnel_type,
avg_ctr, avg_cpc, avg_cpm, avg_conversion_rate, avg_roas, created_at, updated_at`

// Create inserts a benchmark row. The (niche, country, traffic_source,
// funnel_type) combination is unique; a duplicate maps to errs.ErrConflict.
func (r *BenchmarkRepo) Create(ctx context.Context, b *model.Benchmark) error {
	const q = `
INSERT INTO benchmarks (id, niche, country, traffic_source, funnel_type,
avg_ctr, avg_cpc, avg_cpm, avg_conversion_rate, avg_roas)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Pool.Exec(ctx, q,
		b.ID, b.Niche, b.Country, b.TrafficSource, b.FunnelType,
		b.AvgCTR, b.AvgCPC, b.AvgCPM, b.AvgConvRate, b.AvgROAS)
	if isUniqueViolation(err) {
		return errs.ErrConflict
	}
	return err
}

// List returns benchmarks matching the filter, newest first. Empty filter
// fields match everything.
func (r *BenchmarkRepo) List(ctx context.Context, filter model.BenchmarkFilter) ([]model.Benchmark, error) {
	var (
		conds []string
		args  []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	add("niche", filter.Niche)
	add("country", filter.Country)
	add("traffic_source", filter.TrafficSource)

	q := `SELECT ` + benchmarkColumns + ` FROM benchmarks`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var benchmarks []model.Benchmark
	for rows.Next() {
		var b model.Benchmark
		if err := scanBenchmark(rows, &b); err != nil {
			return nil, err
		}
		benchmarks = append(benchmarks, b)
	}
	return benchmarks, rows.Err()
}

// GetByID selects a benchmark by ID.
func (r *BenchmarkRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Benchmark, error) {
	const q = `SELECT ` + benchmarkColumns + ` FROM benchmarks WHERE id=$1`
	var b model.Benchmark
	if err := scanBenchmark(r.db.Pool.QueryRow(ctx, q, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Update persists changes to a benchmark.
func (r *BenchmarkRepo) Update(ctx context.Context, b *model.Benchmark) error {
	const q = `
UPDATE benchmarks
SET niche=$2, country=$3, traffic_source=$4, funnel_type=$5,
avg_ctr=$6, avg_cpc=$7, avg_cpm=$8, avg_conversion_rate=$9, avg_roas=$10, updated_at=now()
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q,
		b.ID, b.Niche, b.Country, b.TrafficSource, b.FunnelType,
		b.AvgCTR, b.AvgCPC, b.AvgCPM, b.AvgConvRate, b.AvgROAS)
	if isUniqueViolation(err) {
		return errs.ErrConflict
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a benchmark.
func (r *BenchmarkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM benchmarks WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanBenchmark(row pgx.Row, b *model.Benchmark) error {
	return row.Scan(&b.ID, &b.Niche, &b.Country, &b.TrafficSource, &b.FunnelType,
		&b.AvgCTR, &b.AvgCPC, &b.AvgCPM, &b.AvgConvRate, &b.AvgROAS,
		&b.CreatedAt, &b.UpdatedAt)
}

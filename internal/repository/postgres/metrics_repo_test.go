package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestMetricsRepo_Upsert(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMetricsRepo(db)
	m := &model.Metrics{
		OfferID:     uuid.Must(uuid.NewV4()),
		Impressions: 1000,
		Clicks:      50,
		Leads:       10,
		Sales:       4,
		Revenue:     400,
		Cost:        100,
		CTR:         5,
		CPC:         2,
		CPM:         100,
		ConversionRate: 40,
		ROAS:        4,
		AOV:         100,
	}

	mock.ExpectExec(`INSERT INTO metrics .+ ON CONFLICT \(offer_id\)`).
		WithArgs(m.OfferID, m.Impressions, m.Clicks, m.Leads, m.Sales, m.Revenue, m.Cost,
			m.CTR, m.CPC, m.CPM, m.ConversionRate, m.ROAS, m.AOV).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Upsert(context.Background(), m))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsRepo_GetByOfferID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMetricsRepo(db)
	offerID := uuid.Must(uuid.NewV4())

	cols := []string{"offer_id", "impressions", "clicks", "leads", "sales", "revenue",
		"cost", "ctr", "cpc", "cpm", "conversion_rate", "roas", "aov", "updated_at"}

	mock.ExpectQuery(`SELECT .+ FROM metrics WHERE offer_id=\$1`).
		WithArgs(offerID).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(offerID, int64(1000), int64(50), int64(10), int64(4), 400.0, 100.0,
				5.0, 2.0, 100.0, 40.0, 4.0, 100.0, time.Now()))
	m, err := r.GetByOfferID(context.Background(), offerID)
	require.NoError(t, err)
	require.Equal(t, int64(1000), m.Impressions)
	require.Equal(t, 4.0, m.ROAS)

	mock.ExpectQuery(`SELECT .+ FROM metrics WHERE offer_id=\$1`).
		WithArgs(offerID).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByOfferID(context.Background(), offerID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aivolabs/aivo/internal/errs"
	"github.com/aivolabs/aivo/internal/model"
	"github.com/aivolabs/aivo/internal/schema"
	"github.com/aivolabs/aivo/internal/token"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthSvc struct {
	registerErr error
	signInErr   error
	refreshErr  error
	user        model.PublicUser
	pair        model.TokenPair
}

func (f *fakeAuthSvc) Register(_ context.Context, in schema.RegisterUser) (model.PublicUser, error) {
	if err := in.Validate(); err != nil {
		return model.PublicUser{}, err
	}
	return f.user, f.registerErr
}
func (f *fakeAuthSvc) SignIn(context.Context, schema.SignInUser) (model.TokenPair, model.PublicUser, error) {
	return f.pair, f.user, f.signInErr
}
func (f *fakeAuthSvc) Refresh(context.Context, string) (model.TokenPair, error) {
	return f.pair, f.refreshErr
}

type fakeOfferSvc struct {
	offer *model.Offer
	err   error

	lastUserID uuid.UUID
}

func (f *fakeOfferSvc) Create(_ context.Context, userID uuid.UUID, in schema.CreateOffer) (*model.Offer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f.lastUserID = userID
	return f.offer, f.err
}
func (f *fakeOfferSvc) List(_ context.Context, userID uuid.UUID) ([]model.Offer, error) {
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}
func (f *fakeOfferSvc) Get(_ context.Context, _, userID uuid.UUID) (*model.Offer, error) {
	f.lastUserID = userID
	return f.offer, f.err
}
func (f *fakeOfferSvc) Update(_ context.Context, _, userID uuid.UUID, _ schema.UpdateOffer) (*model.Offer, error) {
	f.lastUserID = userID
	return f.offer, f.err
}
func (f *fakeOfferSvc) Delete(_ context.Context, _, userID uuid.UUID) error {
	f.lastUserID = userID
	return f.err
}

type fakeMetricsSvc struct {
	m   *model.Metrics
	err error
}

func (f *fakeMetricsSvc) Upsert(context.Context, uuid.UUID, uuid.UUID, schema.UpsertMetrics) (*model.Metrics, error) {
	return f.m, f.err
}
func (f *fakeMetricsSvc) Get(context.Context, uuid.UUID, uuid.UUID) (*model.Metrics, error) {
	return f.m, f.err
}

type fakeBenchSvc struct {
	b   *model.Benchmark
	err error

	lastFilter model.BenchmarkFilter
}

func (f *fakeBenchSvc) Create(context.Context, schema.CreateBenchmark) (*model.Benchmark, error) {
	return f.b, f.err
}
func (f *fakeBenchSvc) List(_ context.Context, filter model.BenchmarkFilter) ([]model.Benchmark, error) {
	f.lastFilter = filter
	return nil, f.err
}
func (f *fakeBenchSvc) Get(context.Context, uuid.UUID) (*model.Benchmark, error) {
	return f.b, f.err
}
func (f *fakeBenchSvc) Update(context.Context, uuid.UUID, schema.CreateBenchmark) (*model.Benchmark, error) {
	return f.b, f.err
}
func (f *fakeBenchSvc) Delete(context.Context, uuid.UUID) error { return f.err }

type fakeAnalysisSvc struct {
	result *model.Analysis
	err    error
}

func (f *fakeAnalysisSvc) Analyze(context.Context, uuid.UUID, uuid.UUID) (*model.Analysis, error) {
	return f.result, f.err
}

type fixture struct {
	api      *API
	handler  http.Handler
	auth     *fakeAuthSvc
	offers   *fakeOfferSvc
	metrics  *fakeMetricsSvc
	benches  *fakeBenchSvc
	analysis *fakeAnalysisSvc
	tokens   *token.Issuer
	probeErr error
}

func newFixture() *fixture {
	f := &fixture{
		auth:     &fakeAuthSvc{},
		offers:   &fakeOfferSvc{},
		metrics:  &fakeMetricsSvc{},
		benches:  &fakeBenchSvc{},
		analysis: &fakeAnalysisSvc{},
		tokens:   token.NewIssuer([]byte("test-secret"), nil, time.Minute, time.Hour),
	}
	probe := func(context.Context) error { return f.probeErr }
	f.api = New(zap.NewNop(), Config{ThrottlePerSecond: 1000, ThrottleBurst: 1000},
		f.auth, f.offers, f.metrics, f.benches, f.analysis, f.tokens, probe)
	f.handler = f.api.Handler()
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, authAs uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if authAs != uuid.Nil {
		access, err := f.tokens.Issue(authAs, token.Access)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+access)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	f := newFixture()
	f.auth.user = model.PublicUser{Email: "ana@example.com", Name: "Ana", Role: model.RoleManager}

	rec := f.do(t, http.MethodPost, "/api/auth/register",
		schema.RegisterUser{Email: "ana@example.com", Password: "Aa1@aaaa", Name: "Ana"}, uuid.Nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "ana@example.com", got.Email)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/api/auth/register",
		schema.RegisterUser{Email: "bad", Password: "short", Name: "x"}, uuid.Nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Violations)
}

func TestRegister_EmailTaken(t *testing.T) {
	f := newFixture()
	f.auth.registerErr = errs.ErrEmailTaken

	rec := f.do(t, http.MethodPost, "/api/auth/register",
		schema.RegisterUser{Email: "dup@example.com", Password: "Aa1@aaaa", Name: "Dup"}, uuid.Nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture()
	f.auth.signInErr = errs.ErrInvalidCredentials

	rec := f.do(t, http.MethodPost, "/api/auth/login",
		schema.SignInUser{Email: "ana@example.com", Password: "wrong"}, uuid.Nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_Invalid(t *testing.T) {
	f := newFixture()
	f.auth.refreshErr = errs.ErrInvalidRefreshToken

	rec := f.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": "junk"}, uuid.Nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	f := newFixture()

	// No bearer at all.
	rec := f.do(t, http.MethodGet, "/api/offers", nil, uuid.Nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	req := httptest.NewRequest(http.MethodGet, "/api/offers", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// Refresh token must not open protected routes.
	uid := uuid.Must(uuid.NewV4())
	refresh, err := f.tokens.Issue(uid, token.Refresh)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/offers", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rr = httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// Valid access token reaches the handler with its subject.
	rec = f.do(t, http.MethodGet, "/api/offers", nil, uid)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, uid, f.offers.lastUserID)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestOffer_NotFound(t *testing.T) {
	f := newFixture()
	f.offers.err = errs.ErrNotFound

	rec := f.do(t, http.MethodGet, "/api/offers/"+uuid.Must(uuid.NewV4()).String(), nil, uuid.Must(uuid.NewV4()))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOffer_BadID(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/api/offers/not-a-uuid", nil, uuid.Must(uuid.NewV4()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOffer_Delete(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodDelete, "/api/offers/"+uuid.Must(uuid.NewV4()).String(), nil, uuid.Must(uuid.NewV4()))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBenchmarks_ListFilter(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/api/benchmarks?niche=fitness&country=US", nil, uuid.Must(uuid.NewV4()))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, model.BenchmarkFilter{Niche: "fitness", Country: "US"}, f.benches.lastFilter)
}

func TestAnalysis_RateLimited(t *testing.T) {
	f := newFixture()
	f.analysis.err = errs.ErrRateLimited

	rec := f.do(t, http.MethodPost, "/api/offers/"+uuid.Must(uuid.NewV4()).String()+"/analysis", nil, uuid.Must(uuid.NewV4()))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAnalysis_OK(t *testing.T) {
	f := newFixture()
	offerID := uuid.Must(uuid.NewV4())
	f.analysis.result = &model.Analysis{OfferID: offerID, Summary: "scale it", GeneratedAt: time.Now()}

	rec := f.do(t, http.MethodPost, "/api/offers/"+offerID.String()+"/analysis", nil, uuid.Must(uuid.NewV4()))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "scale it", got.Summary)
}

func TestInternalErrorMasked(t *testing.T) {
	f := newFixture()
	f.offers.err = errors.New("pq: connection refused")

	rec := f.do(t, http.MethodGet, "/api/offers/"+uuid.Must(uuid.NewV4()).String(), nil, uuid.Must(uuid.NewV4()))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHealthAndReady(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/healthz", nil, uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/readyz", nil, uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)

	f.probeErr = errors.New("pool closed")
	rec = f.do(t, http.MethodGet, "/readyz", nil, uuid.Nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMalformedBody(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// Package httpserver is the REST/JSON surface of the service.
package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/aivolabs/aivo/internal/obs"
	"github.com/aivolabs/aivo/internal/service"
	"github.com/aivolabs/aivo/internal/token"
	"go.uber.org/zap"
)

// Config carries transport-level knobs.
type Config struct {
	ThrottlePerSecond int   // per-IP token bucket refill rate
	ThrottleBurst     int   // per-IP token bucket size
	MaxBodyBytes      int64 // request body cap
}

// Defaults applied when a Config field is unset.
const (
	defaultThrottlePerSecond = 20
	defaultThrottleBurst     = 40
	defaultMaxBodyBytes      = 1 << 20
)

func (c Config) withDefaults() Config {
	if c.ThrottlePerSecond <= 0 {
		c.ThrottlePerSecond = defaultThrottlePerSecond
	}
	if c.ThrottleBurst <= 0 {
		c.ThrottleBurst = defaultThrottleBurst
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	return c
}

// API is the HTTP layer. It owns routing and error mapping; all domain logic
// lives in the services.
type API struct {
	mux *http.ServeMux
	log *zap.Logger
	cfg Config

	auth       service.AuthService
	offers     service.OfferService
	metrics    service.MetricsService
	benchmarks service.BenchmarkService
	analysis   service.AnalysisService
	tokens     *token.Issuer

	// probe reports storage readiness; nil means always ready.
	probe func(ctx context.Context) error
}

// New wires routes over the given services.
func New(log *zap.Logger, cfg Config,
	auth service.AuthService, offers service.OfferService, metrics service.MetricsService,
	benchmarks service.BenchmarkService, analysis service.AnalysisService,
	tokens *token.Issuer, probe func(ctx context.Context) error) *API {

	a := &API{
		mux:        http.NewServeMux(),
		log:        log,
		cfg:        cfg.withDefaults(),
		auth:       auth,
		offers:     offers,
		metrics:    metrics,
		benchmarks: benchmarks,
		analysis:   analysis,
		tokens:     tokens,
		probe:      probe,
	}

	a.mux.HandleFunc("POST /api/auth/register", a.handleRegister)
	a.mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	a.mux.HandleFunc("POST /api/auth/refresh", a.handleRefresh)

	a.mux.HandleFunc("POST /api/offers", a.requireAuth(a.handleCreateOffer))
	a.mux.HandleFunc("GET /api/offers", a.requireAuth(a.handleListOffers))
	a.mux.HandleFunc("GET /api/offers/{id}", a.requireAuth(a.handleGetOffer))
	a.mux.HandleFunc("PATCH /api/offers/{id}", a.requireAuth(a.handleUpdateOffer))
	a.mux.HandleFunc("DELETE /api/offers/{id}", a.requireAuth(a.handleDeleteOffer))

	a.mux.HandleFunc("PUT /api/offers/{id}/metrics", a.requireAuth(a.handleUpsertMetrics))
	a.mux.HandleFunc("GET /api/offers/{id}/metrics", a.requireAuth(a.handleGetMetrics))

	a.mux.HandleFunc("POST /api/benchmarks", a.requireAuth(a.handleCreateBenchmark))
	a.mux.HandleFunc("GET /api/benchmarks", a.requireAuth(a.handleListBenchmarks))
	a.mux.HandleFunc("GET /api/benchmarks/{id}", a.requireAuth(a.handleGetBenchmark))
	a.mux.HandleFunc("PUT /api/benchmarks/{id}", a.requireAuth(a.handleUpdateBenchmark))
	a.mux.HandleFunc("DELETE /api/benchmarks/{id}", a.requireAuth(a.handleDeleteBenchmark))

	a.mux.HandleFunc("POST /api/offers/{id}/analysis", a.requireAuth(a.handleAnalyzeOffer))

	a.mux.HandleFunc("GET /healthz", a.handleHealthz)
	a.mux.HandleFunc("GET /readyz", a.handleReadyz)
	a.mux.Handle("GET /metrics", obs.Handler())

	return a
}

// Handler returns the mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(a.cfg.MaxBodyBytes)(h)
	h = RateLimit(a.cfg.ThrottlePerSecond, a.cfg.ThrottleBurst)(h)
	h = obs.Instrument(h)
	h = Logging(a.log)(h)
	h = Recover(a.log)(h)
	return h
}

const bearerPrefix = "Bearer "

// requireAuth verifies the bearer access token and stores its subject in the
// request context.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			a.unauthorized(w, "missing bearer token")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if raw == "" {
			a.unauthorized(w, "missing bearer token")
			return
		}
		uid, err := a.tokens.Verify(raw, token.Access)
		if err != nil {
			a.unauthorized(w, "invalid access token")
			return
		}
		next(w, r.WithContext(WithUserID(r.Context(), uid)))
	}
}

func (a *API) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if a.probe != nil {
		if err := a.probe(r.Context()); err != nil {
			a.log.Warn("readiness probe", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "not_ready"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// Command aivo-server starts the campaign analytics REST server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aivolabs/aivo/internal/analysis"
	"github.com/aivolabs/aivo/internal/config"
	pkgcrypto "github.com/aivolabs/aivo/internal/crypto"
	"github.com/aivolabs/aivo/internal/migrate"
	"github.com/aivolabs/aivo/internal/obs"
	"github.com/aivolabs/aivo/internal/ratelimit"
	"github.com/aivolabs/aivo/internal/repository/postgres"
	httpserver "github.com/aivolabs/aivo/internal/server/http"
	"github.com/aivolabs/aivo/internal/service"
	"github.com/aivolabs/aivo/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations and serves the REST API until
// SIGINT/SIGTERM.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.HTTPAddr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	userRepo := postgres.NewUserRepo(db)
	offerRepo := postgres.NewOfferRepo(db)
	metricsRepo := postgres.NewMetricsRepo(db)
	benchmarkRepo := postgres.NewBenchmarkRepo(db)

	// Auth building blocks
	hasher := pkgcrypto.NewHasher(cfg.BcryptCost)
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), []byte(cfg.JWTRefreshSecret),
		cfg.AccessTTL, cfg.RefreshTTL)

	// Rate gate with a background sweep bounding idle-subject memory.
	gate := ratelimit.NewGate(cfg.AnalysisLimit, cfg.AnalysisWindow)
	go gate.Run(ctx, cfg.AnalysisWindow)

	var analyzer service.Analyzer
	if cfg.AnalyzerURL != "" {
		analyzer = analysis.NewClient(cfg.AnalyzerURL)
	} else {
		logger.Warn("no analyzer endpoint configured, using offline stub")
		analyzer = analysis.NewStub()
	}

	// Services
	authSvc := service.NewAuthService(userRepo, hasher, issuer, logger)
	offerSvc := service.NewOfferService(offerRepo)
	metricsSvc := service.NewMetricsService(offerRepo, metricsRepo)
	benchmarkSvc := service.NewBenchmarkService(benchmarkRepo)
	analysisSvc := service.NewAnalysisService(gate, offerRepo, metricsRepo, benchmarkRepo, analyzer, logger)

	obs.Init()

	api := httpserver.New(logger, httpserver.Config{
		ThrottlePerSecond: cfg.ThrottleRPS,
		ThrottleBurst:     cfg.ThrottleBurst,
	}, authSvc, offerSvc, metricsSvc, benchmarkSvc, analysisSvc, issuer, pool.Ping)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}
}

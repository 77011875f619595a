package echoservice

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/echo-social/echo-server/internal/api"
	"github.com/echo-social/echo-server/internal/config"
	"github.com/echo-social/echo-server/internal/emotion"
	"github.com/echo-social/echo-server/internal/health"
	"github.com/echo-social/echo-server/internal/logger"
	"github.com/echo-social/echo-server/internal/services"
	"github.com/echo-social/echo-server/internal/store"
	"github.com/echo-social/echo-server/internal/store/postgres"
)

// Run starts the echo HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("echo-server")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("http_port", cfg.HTTPPort).
		Str("glm_model", cfg.GLMModel).
		Bool("glm_key_present", cfg.GLMAPIKey != "").
		Msg("Echo server starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	db, st, err := initStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	analyzer := emotion.NewAnalyzer(
		cfg.GLMBaseURL, cfg.GLMAPIKey, cfg.GLMModel,
		cfg.ClassifyMinInterval(), cfg.ClassifyTimeout(), log,
	)

	router := buildRouter(st, analyzer, cfg)

	startHealthCheckers(ctx, cfg, log, st)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initStore opens Postgres, applies the schema and returns the store adapter.
func initStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sql.DB, store.Store, error) {
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Postgres unavailable")
		return nil, nil, err
	}
	if err := postgres.Bootstrap(ctx, db); err != nil {
		_ = db.Close()
		log.Error().Stack().Err(err).Msg("Schema bootstrap failed")
		return nil, nil, err
	}
	return db, postgres.NewWithDB(db), nil
}

// buildRouter wires services into the API router.
func buildRouter(st store.Store, analyzer *emotion.Analyzer, cfg *config.Config) *mux.Router {
	userSvc := services.NewUserService(st)
	memorySvc := services.NewMemoryService(st, analyzer)
	memorySvc.SetNearbyDefaults(cfg.NearbyDefaultRadiusMeters, cfg.NearbyMaxResults)
	emotionSvc := services.NewEmotionService(analyzer)
	return api.NewRouter(userSvc, memorySvc, emotionSvc)
}

// startHealthCheckers runs the database checker and binds service health.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) {
	pinger, ok := st.(health.HealthPinger)
	if !ok {
		log.Warn().Msg("store does not expose a health probe; reporting healthy")
		api.BindServiceHealth(func() bool { return true })
		return
	}

	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	dbChecker := health.NewChecker("postgres", pinger, log, probeTimeout)
	go dbChecker.Start(ctx, interval)
	api.BindServiceHealth(dbChecker.IsHealthy)
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Package server assembles the service: storage, scenario content,
// application services, HTTP surface, telemetry, and the archive
// sweeper, plus graceful shutdown for all of them.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"ttx-service/internal/app/report"
	"ttx-service/internal/app/scoreboard"
	"ttx-service/internal/app/session"
	"ttx-service/internal/archive"
	"ttx-service/internal/config"
	httpserver "ttx-service/internal/http"
	"ttx-service/internal/http/handlers"
	"ttx-service/internal/http/middleware"
	"ttx-service/internal/logging"
	"ttx-service/internal/metrics"
	"ttx-service/internal/scenario"
	"ttx-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         store.Store
	sessions      *session.Service
	scoreboard    *scoreboard.Service
	reports       *report.Service
	httpServer    httpServer
	metricsServer httpServer
	sweeper       Sweeper
	metricsStop   func(context.Context) error
}

// New constructs a server with default storage and sweeper wiring.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	st, err := buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	return newServerWithStore(cfg, logger, st, nil)
}

func newServerWithStore(cfg config.Config, logger *slog.Logger, st store.Store, recorder *metrics.Recorder) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	if err := seedScenarios(st, cfg, logger); err != nil {
		return nil, err
	}

	sessions := session.NewService(st, logger, recorder)
	board := scoreboard.NewService(st, cfg.ScoreboardRecentEvents)
	reports := report.NewService(st)
	sweeper := buildSweeper(cfg, st, logger, recorder)
	httpSrv := buildHTTPServer(cfg, sessions, board, reports, logger, recorder, sweeper)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         st,
		sessions:      sessions,
		scoreboard:    board,
		reports:       reports,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		sweeper:       sweeper,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, sessions *session.Service, httpSrv httpServer, sweeper Sweeper) *Server {
	if sweeper == nil {
		sweeper = noopSweeper{}
	}
	return &Server{
		cfg:        cfg,
		logger:     logger,
		sessions:   sessions,
		httpServer: httpSrv,
		sweeper:    sweeper,
	}
}

func buildStore(cfg config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.DataPath == "" {
		logging.Info(logger, "using in-memory store")
		return store.NewMemoryStore(), nil
	}
	st, err := store.OpenBolt(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	logging.Info(logger, "opened bolt store", logging.FieldPath, cfg.DataPath)
	return st, nil
}

// seedScenarios loads the built-in scenario and any scenario files
// from disk. Disk content wins on ID collision so operators can
// override the fixture.
func seedScenarios(st store.Store, cfg config.Config, logger *slog.Logger) error {
	if err := st.PutScenario(scenario.BuiltIn()); err != nil {
		return err
	}
	if cfg.ScenarioDir == "" {
		return nil
	}
	loaded, err := scenario.LoadDir(cfg.ScenarioDir)
	if err != nil {
		return err
	}
	for _, sc := range loaded {
		if err := st.PutScenario(sc); err != nil {
			return err
		}
	}
	logging.Info(logger, "loaded scenario files",
		logging.FieldCount, len(loaded),
		logging.FieldPath, cfg.ScenarioDir,
	)
	return nil
}

func buildSweeper(cfg config.Config, st store.Store, logger *slog.Logger, recorder *metrics.Recorder) Sweeper {
	if !cfg.Archive.Enabled {
		return noopSweeper{}
	}
	writer := archive.NewWriter(cfg.Archive.Dir, cfg.Archive.Keep)
	return archive.New(st, writer, logger, recorder, cfg.Archive.Interval)
}

func buildHTTPServer(cfg config.Config, sessions *session.Service, board *scoreboard.Service, reports *report.Service, logger *slog.Logger, recorder *metrics.Recorder, sweeper Sweeper) httpServer {
	var statusFn func() archive.Status
	if sweeper != nil {
		statusFn = sweeper.Status
	}

	handler := handlers.NewHandler(sessions, board, reports, logger, statusFn)
	router := httpserver.NewRouter(handler)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.CORS(middleware.LoggingMiddleware(logger, recorder, router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the sweeper and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.sweeper.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.sweeper.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop archive sweeper", "error", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil && s.logger != nil {
			s.logger.Warn("store close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + cfg.Metrics.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

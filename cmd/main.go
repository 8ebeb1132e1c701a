package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "time/tzdata" // window time zones resolve on hosts without zoneinfo

	"github.com/okian/poolwatch/internal/adapters/fetch"
	"github.com/okian/poolwatch/internal/adapters/http/api"
	"github.com/okian/poolwatch/internal/adapters/http/swagger"
	"github.com/okian/poolwatch/internal/adapters/render"
	"github.com/okian/poolwatch/internal/adapters/repository"
	app "github.com/okian/poolwatch/internal/app"
	"github.com/okian/poolwatch/internal/config"
	"github.com/okian/poolwatch/pkg/logger"
	"github.com/okian/poolwatch/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second

	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

// run loads configuration and blocks in the refresh loop until ctx is done.
func run(ctx context.Context, out io.Writer) error {
	loggerInstance := logger.Get()
	defer func() {
		_ = logger.Sync()
	}()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, out, loggerInstance)
	if err != nil {
		return err
	}

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	var srv *http.Server
	if cfg.Addr != "" {
		srv = newHTTPServer(cfg, svc)
		go func() {
			loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			}
		}()
	}

	loggerInstance.Info(ctx, "polling leaderboard", logger.String("url", cfg.LeaderboardURL))
	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("refresh loop: %w", err)
	}

	if srv != nil {
		loggerInstance.Info(ctx, "shutting down server...")
		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
		}
		loggerInstance.Info(ctx, "server stopped")
	}
	return nil
}

// newService wires the refresh loop from configuration.
func newService(cfg *config.Config, out io.Writer, log logger.Logger) (*app.Service, error) {
	window, err := cfg.Window()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	fetcher := fetch.NewHTTPFetcher(cfg.LeaderboardURL,
		fetch.WithTimeout(cfg.FetchTimeout()),
		fetch.WithUserAgent(cfg.UserAgent),
	)

	return app.New(fetcher,
		app.WithTopN(cfg.TopN),
		app.WithInterval(cfg.RefreshInterval()),
		app.WithWindow(window),
		app.WithStore(repository.NewBoardStore()),
		app.WithPresenter(render.NewTerminal(out, render.WithColor(cfg.Color))),
		app.WithLogger(log.Named("refresher")),
	), nil
}

// newHTTPServer exposes the board store and service stats on cfg.Addr.
func newHTTPServer(cfg *config.Config, svc *app.Service) *http.Server {
	mux := http.NewServeMux()
	api.NewServer(svc.Store(), svc, svc.Interval()).Register(mux)
	swagger.Register(mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater samples runtime metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater publishes service stats until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics publishes the diff history size from the service stats.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	players, _ := stats["trackedPlayers"].(int)
	teams, _ := stats["trackedTeams"].(int)
	metrics.UpdateTracked(players, teams)
}

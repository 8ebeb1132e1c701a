// Command fake-board serves a simulated pool leaderboard for local runs.
//
//	go run ./cmd/fake-board -addr :9090 -teams 15 -step
//	POOLWATCH_LEADERBOARD_URL=http://localhost:9090/ go run ./cmd
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/poolwatch/internal/testpage"
	"github.com/okian/poolwatch/pkg/logger"
)

// Default configuration constants.
const (
	defaultTeams      = 15
	defaultPlayers    = 4
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	var (
		addr     = flag.String("addr", ":9090", "Listen address")
		teams    = flag.Int("teams", defaultTeams, "Number of teams in the pool")
		players  = flag.Int("players", defaultPlayers, "Players per team")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Simulation seed")
		step     = flag.Bool("step", true, "Drift scores on every request")
		withdraw = flag.Bool("withdraw", false, "Withdraw the first player of the first team")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("fake-board")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := testpage.NewPool(*teams, *players, *seed)
	if *withdraw {
		pool.Withdraw(0, 0)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           testpage.Handler(pool, *step),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "serving fake board",
			logger.String("addr", *addr),
			logger.Int("teams", *teams),
			logger.Int("players", *players),
			logger.Bool("step", *step),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "fake board failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutdown failed", logger.Error(err))
	}
}

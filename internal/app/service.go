// Package service runs the refresh loop that drives every cycle from fetch to render.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/poolwatch/internal/adapters/extract"
	"github.com/okian/poolwatch/internal/adapters/fetch"
	"github.com/okian/poolwatch/internal/adapters/render"
	"github.com/okian/poolwatch/internal/adapters/repository"
	"github.com/okian/poolwatch/internal/domain/movement"
	"github.com/okian/poolwatch/internal/domain/ranking"
	"github.com/okian/poolwatch/internal/domain/schedule"
	"github.com/okian/poolwatch/internal/domain/scoring"
	"github.com/okian/poolwatch/pkg/logger"
	"github.com/okian/poolwatch/pkg/metrics"
)

const defaultInterval = 20 * time.Second

// CycleReport summarizes one successful cycle.
type CycleReport struct {
	ID          string
	Active      bool
	Extracted   int
	Ranked      int
	NewEntrants []string
	Counts      movement.Counts
	Duration    time.Duration
}

// Service owns the refresh loop and the diff history threaded through it.
type Service struct {
	mu sync.RWMutex

	// Pipeline stages
	fetcher   fetch.Fetcher
	extractor extract.Extractor
	ranker    *ranking.Ranker
	presenter render.Presenter
	store     repository.Store

	// Configuration
	window   schedule.Window
	interval time.Duration
	now      func() time.Time
	newID    func() string

	// State, touched only by the loop goroutine; mu guards reads from stats.
	history  movement.History
	cycles   int
	failures int
	running  bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithExtractor replaces the page extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithTopN sets the snapshot size.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.ranker = ranking.New(ranking.WithLimit(n), ranking.WithClock(s.clock))
		}
	}
}

// WithPresenter sets where cycle outcomes are rendered.
func WithPresenter(p render.Presenter) Option {
	return func(s *Service) {
		if p != nil {
			s.presenter = p
		}
	}
}

// WithStore sets the board store shared with HTTP readers.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithWindow gates the active diff path to a time-of-day window.
func WithWindow(w schedule.Window) Option {
	return func(s *Service) {
		s.window = w
	}
}

// WithInterval sets the pause between cycles.
func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		s.interval = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how cycle ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service polling through fetcher.
func New(fetcher fetch.Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:   fetcher,
		extractor: extract.New(),
		store:     repository.NewBoardStore(),
		window:    schedule.Always(),
		interval:  defaultInterval,
		now:       time.Now,
		newID:     uuid.NewString,
		history:   movement.NewHistory(),
	}
	s.ranker = ranking.New(ranking.WithClock(s.clock))

	for _, opt := range opts {
		opt(s)
	}

	if s.presenter == nil {
		s.presenter = render.NewTerminal(os.Stdout)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("refresher")
	}
	return s
}

// clock defers to s.now so WithClock applies regardless of option order.
func (s *Service) clock() time.Time { return s.now() }

// Store returns the board store the service publishes to.
func (s *Service) Store() repository.Store { return s.store }

// Interval returns the pause between cycles.
func (s *Service) Interval() time.Duration { return s.interval }

// History returns the diff state carried into the next cycle.
func (s *Service) History() movement.History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history
}

// Run performs a cycle immediately and then one per interval, each starting
// only after the previous one finished, until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.fetcher == nil {
		return ErrNoFetcher
	}
	if s.interval <= 0 {
		return ErrBadInterval
	}

	s.setRunning(true)
	defer s.setRunning(false)

	s.logger.Info(ctx, "refresh loop started",
		logger.Duration("interval", s.interval),
		logger.Int("topN", s.ranker.Limit()),
		logger.String("window", s.window.String()),
	)

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info(context.WithoutCancel(ctx), "refresh loop stopped")
			return nil
		case <-timer.C:
			if _, err := s.Cycle(ctx); err != nil && ctx.Err() == nil {
				s.logger.Debug(ctx, "cycle failed; waiting for next tick", logger.Error(err))
			}
			timer.Reset(s.interval)
		}
	}
}

// Cycle runs fetch, extract, rank, diff, publish and render once.
// Failures leave the history and the published board untouched.
func (s *Service) Cycle(ctx context.Context) (CycleReport, error) {
	if s.fetcher == nil {
		return CycleReport{}, ErrNoFetcher
	}

	start := s.now()
	report := CycleReport{ID: s.newID()}
	log := s.logger.Named("cycle")

	body, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		return report, s.fail(ctx, report.ID, start, metrics.ResultFetchError, "fetch", fmt.Errorf("%w: %w", ErrFetch, err))
	}

	teams, err := s.extractor.Extract(body)
	if err != nil {
		return report, s.fail(ctx, report.ID, start, metrics.ResultExtractError, "extract", fmt.Errorf("%w: %w", ErrExtract, err))
	}
	scoring.NormalizeTeams(teams)
	snap := s.ranker.Rank(teams)

	report.Extracted = len(teams)
	report.Ranked = len(snap.Teams)
	report.Active = s.window.Contains(start)

	board := repository.Board{
		CycleID:   report.ID,
		Snapshot:  snap,
		Active:    report.Active,
		Limit:     s.ranker.Limit(),
		UpdatedAt: snap.CapturedAt,
	}
	if report.Active {
		res := movement.Diff(s.History(), snap)
		board.Snapshot = res.Snapshot
		board.NewEntrants = res.NewEntrants
		report.NewEntrants = res.NewEntrants
		report.Counts = res.Counts

		s.mu.Lock()
		s.history = res.History
		s.mu.Unlock()
	}

	if err := s.store.Publish(ctx, board); err != nil {
		log.Warn(ctx, "board publish failed", logger.String("cycle", report.ID), logger.Error(err))
	}
	if err := s.presenter.Board(board); err != nil {
		log.Warn(ctx, "board render failed", logger.String("cycle", report.ID), logger.Error(err))
	}

	report.Duration = s.now().Sub(start)
	s.mu.Lock()
	s.cycles++
	s.mu.Unlock()

	if err := metrics.RecordCycle(metrics.ResultOK, float64(report.Duration.Milliseconds())); err != nil {
		log.Warn(ctx, "cycle metric rejected", logger.Error(err))
	}
	metrics.SetWindowActive(report.Active)
	metrics.UpdateStandings(report.Extracted, report.Ranked)
	metrics.RecordMovements(len(report.NewEntrants), report.Counts.Up, report.Counts.Down)

	log.Info(ctx, "cycle complete",
		logger.String("cycle", report.ID),
		logger.Bool("active", report.Active),
		logger.Int("teams", report.Extracted),
		logger.Int("ranked", report.Ranked),
		logger.Strings("newEntrants", report.NewEntrants),
		logger.Int("up", report.Counts.Up),
		logger.Int("down", report.Counts.Down),
		logger.Duration("took", report.Duration),
	)
	return report, nil
}

// fail records a failed cycle everywhere the operator can see it and returns err.
func (s *Service) fail(ctx context.Context, id string, start time.Time, result, component string, err error) error {
	s.mu.Lock()
	s.failures++
	s.mu.Unlock()

	s.store.RecordFailure(ctx, start, err)
	if rerr := s.presenter.Failure(start, err); rerr != nil {
		s.logger.Warn(ctx, "failure render failed", logger.Error(rerr))
	}

	if merr := metrics.RecordCycle(result, float64(s.now().Sub(start).Milliseconds())); merr != nil {
		s.logger.Warn(ctx, "cycle metric rejected", logger.Error(merr))
	}
	metrics.RecordErrorByComponent(component, errorType(err))

	s.logger.Error(ctx, "cycle failed",
		logger.String("cycle", id),
		logger.String("stage", component),
		logger.Error(err),
	)
	return err
}

// errorType maps a cycle error onto a short metrics label.
func errorType(err error) string {
	switch {
	case errors.Is(err, fetch.ErrStatus):
		return "status"
	case errors.Is(err, fetch.ErrBody):
		return "body"
	case errors.Is(err, fetch.ErrRequest):
		return "request"
	case errors.Is(err, extract.ErrNoTeams):
		return "no_teams"
	case errors.Is(err, extract.ErrMalformedTeam):
		return "malformed_team"
	case errors.Is(err, extract.ErrMalformedPlayer):
		return "malformed_player"
	default:
		return "other"
	}
}

func (s *Service) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"running":         s.running,
		"cycles":          s.cycles,
		"failures":        s.failures,
		"topN":            s.ranker.Limit(),
		"intervalSeconds": s.interval.Seconds(),
		"window":          s.window.String(),
		"trackedPlayers":  s.history.Players(),
		"trackedTeams":    len(s.history.TopTeams()),
	}
}

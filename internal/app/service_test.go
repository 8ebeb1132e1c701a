package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/poolwatch/internal/app"
	"github.com/okian/poolwatch/internal/adapters/extract"
	"github.com/okian/poolwatch/internal/adapters/fetch"
	"github.com/okian/poolwatch/internal/adapters/repository"
	"github.com/okian/poolwatch/internal/domain/model"
	"github.com/okian/poolwatch/internal/domain/schedule"
	"github.com/okian/poolwatch/internal/testpage"
	"github.com/okian/poolwatch/pkg/logger"
)

// scriptedFetcher serves pages in order, repeating the last one.
type scriptedFetcher struct {
	mu    sync.Mutex
	pages [][]byte
	errs  []error
	calls int
}

func (f *scriptedFetcher) Fetch(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if len(f.pages) == 0 {
		return nil, nil
	}
	if i >= len(f.pages) {
		i = len(f.pages) - 1
	}
	return f.pages[i], nil
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingPresenter keeps every board and failure it is given.
type recordingPresenter struct {
	mu       sync.Mutex
	boards   []repository.Board
	failures []error
}

func (p *recordingPresenter) Board(b repository.Board) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.boards = append(p.boards, b.Clone())
	return nil
}

func (p *recordingPresenter) Failure(_ time.Time, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures = append(p.failures, err)
	return nil
}

func team(name, total string, players ...string) model.Team {
	t := model.Team{Name: name, Raw: total}
	for i := 0; i+1 < len(players); i += 2 {
		t.Players = append(t.Players, model.Player{Name: players[i], Raw: players[i+1]})
	}
	return t
}

// field builds ten teams that keep Alpha out of the top ten at +5.
func field(alpha, alphaPlayer string) []model.Team {
	teams := []model.Team{
		team("Birdies", "-3", "B1", "-3"),
		team("Bogeys", "-2", "B2", "-2"),
	}
	for i := 3; i <= 10; i++ {
		name := fmt.Sprintf("Team %02d", i)
		teams = append(teams, team(name, "E", fmt.Sprintf("P%02d", i), "E"))
	}
	return append(teams, team("Alpha", alpha, "Ace", alphaPlayer))
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 4, 11, 14, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestCycle(t *testing.T) {
	Convey("Given a service polling a scripted board", t, func() {
		fetcher := &scriptedFetcher{pages: [][]byte{
			testpage.Render(field("+5", "+5")),
			testpage.Render(field("-1", "-1")),
		}}
		presenter := &recordingPresenter{}
		store := repository.NewBoardStore()
		ids := 0
		svc := service.New(fetcher,
			service.WithPresenter(presenter),
			service.WithStore(store),
			service.WithClock(fixedClock()),
			service.WithIDGenerator(func() string { ids++; return fmt.Sprintf("cycle-%d", ids) }),
			service.WithLogger(logger.Nop()),
		)
		ctx := context.Background()

		Convey("The first cycle announces every ranked team", func() {
			report, err := svc.Cycle(ctx)
			So(err, ShouldBeNil)
			So(report.ID, ShouldEqual, "cycle-1")
			So(report.Active, ShouldBeTrue)
			So(report.Extracted, ShouldEqual, 11)
			So(report.Ranked, ShouldEqual, 10)
			So(report.NewEntrants, ShouldHaveLength, 10)
			So(report.NewEntrants, ShouldNotContain, "Alpha")
			So(report.Counts.Up+report.Counts.Down, ShouldEqual, 0)

			board, err := store.Latest(ctx)
			So(err, ShouldBeNil)
			So(board.CycleID, ShouldEqual, "cycle-1")
			So(board.Limit, ShouldEqual, 10)
			So(presenter.boards, ShouldHaveLength, 1)
		})

		Convey("A team climbing into the top ten is a new entrant", func() {
			_, err := svc.Cycle(ctx)
			So(err, ShouldBeNil)
			report, err := svc.Cycle(ctx)
			So(err, ShouldBeNil)
			So(report.NewEntrants, ShouldResemble, []string{"Alpha"})

			board, err := store.Latest(ctx)
			So(err, ShouldBeNil)
			So(board.Snapshot.Teams[2].Name, ShouldEqual, "Alpha")
			So(board.Snapshot.Teams[2].Rank, ShouldEqual, 3)
			So(board.Snapshot.Teams[2].Score, ShouldEqual, -1)

			Convey("Its player has no prior score so carries no movement", func() {
				So(board.Snapshot.Teams[2].Players[0].Movement, ShouldEqual, model.MovementNone)
			})

			Convey("The team pushed out is forgotten from the top set", func() {
				So(svc.History().WasTop("Team 10"), ShouldBeFalse)
				So(svc.History().WasTop("Alpha"), ShouldBeTrue)
			})
		})

		Convey("An unchanged board produces no entrants and no movement", func() {
			fetcher.pages = fetcher.pages[:1]
			_, err := svc.Cycle(ctx)
			So(err, ShouldBeNil)
			report, err := svc.Cycle(ctx)
			So(err, ShouldBeNil)
			So(report.NewEntrants, ShouldBeEmpty)
			So(report.Counts.Up, ShouldEqual, 0)
			So(report.Counts.Down, ShouldEqual, 0)
			So(report.Counts.None, ShouldEqual, 10)
		})
	})
}

func TestCycleMovement(t *testing.T) {
	Convey("Given a player whose score drops between cycles", t, func() {
		fetcher := &scriptedFetcher{pages: [][]byte{
			testpage.Render([]model.Team{team("Eagles", "-2", "Rory", "-2", "Scottie", "E")}),
			testpage.Render([]model.Team{team("Eagles", "-4", "Rory", "-4", "Scottie", "+1")}),
		}}
		presenter := &recordingPresenter{}
		svc := service.New(fetcher,
			service.WithPresenter(presenter),
			service.WithLogger(logger.Nop()),
		)

		_, err := svc.Cycle(context.Background())
		So(err, ShouldBeNil)
		report, err := svc.Cycle(context.Background())
		So(err, ShouldBeNil)

		Convey("Lower scores are tagged down and higher scores up", func() {
			So(report.Counts.Down, ShouldEqual, 1)
			So(report.Counts.Up, ShouldEqual, 1)
			players := presenter.boards[1].Snapshot.Teams[0].Players
			So(players[0].Movement, ShouldEqual, model.MovementDown)
			So(players[1].Movement, ShouldEqual, model.MovementUp)
		})
	})
}

func TestCycleFailures(t *testing.T) {
	Convey("Given a service with one good cycle behind it", t, func() {
		good := testpage.Render([]model.Team{team("Eagles", "-2", "Rory", "-2")})
		fetcher := &scriptedFetcher{pages: [][]byte{good}}
		presenter := &recordingPresenter{}
		store := repository.NewBoardStore()
		svc := service.New(fetcher,
			service.WithPresenter(presenter),
			service.WithStore(store),
			service.WithLogger(logger.Nop()),
		)
		ctx := context.Background()
		_, err := svc.Cycle(ctx)
		So(err, ShouldBeNil)
		before := svc.History()

		Convey("A fetch error is reported and leaves state untouched", func() {
			fetcher.errs = []error{nil, fmt.Errorf("%w: 503", fetch.ErrStatus)}
			_, err := svc.Cycle(ctx)
			So(errors.Is(err, service.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, fetch.ErrStatus), ShouldBeTrue)
			So(presenter.failures, ShouldHaveLength, 1)
			So(svc.History(), ShouldResemble, before)

			status := store.Status(ctx)
			So(status.Failures, ShouldEqual, 1)
			So(status.LastError, ShouldContainSubstring, "503")

			board, err := store.Latest(ctx)
			So(err, ShouldBeNil)
			So(board.Snapshot.Teams[0].Name, ShouldEqual, "Eagles")
		})

		Convey("A page with no teams is an extract error", func() {
			fetcher.pages = append(fetcher.pages, []byte("<html><body>maintenance</body></html>"))
			_, err := svc.Cycle(ctx)
			So(errors.Is(err, service.ErrExtract), ShouldBeTrue)
			So(errors.Is(err, extract.ErrNoTeams), ShouldBeTrue)
			So(svc.History(), ShouldResemble, before)
			So(presenter.boards, ShouldHaveLength, 1)
		})

		Convey("A cancelled context is returned without a failure report", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			fetcher.errs = []error{nil, context.Canceled}
			_, err := svc.Cycle(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(presenter.failures, ShouldBeEmpty)
		})
	})
}

func TestCycleOutsideWindow(t *testing.T) {
	Convey("Given a window that excludes the current time", t, func() {
		window, err := schedule.NewWindow(8, 9, "UTC")
		So(err, ShouldBeNil)

		fetcher := &scriptedFetcher{pages: [][]byte{
			testpage.Render([]model.Team{team("Eagles", "-2", "Rory", "-2")}),
			testpage.Render([]model.Team{team("Eagles", "-4", "Rory", "-4")}),
		}}
		presenter := &recordingPresenter{}
		svc := service.New(fetcher,
			service.WithPresenter(presenter),
			service.WithWindow(window),
			service.WithClock(fixedClock()),
			service.WithLogger(logger.Nop()),
		)

		Convey("Boards are rendered read-only without diffing", func() {
			for i := 0; i < 2; i++ {
				report, err := svc.Cycle(context.Background())
				So(err, ShouldBeNil)
				So(report.Active, ShouldBeFalse)
				So(report.NewEntrants, ShouldBeEmpty)
			}
			So(presenter.boards, ShouldHaveLength, 2)
			So(presenter.boards[1].Active, ShouldBeFalse)
			So(presenter.boards[1].Snapshot.Teams[0].Players[0].Movement, ShouldEqual, model.MovementNone)
			So(svc.History().Players(), ShouldEqual, 0)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a service with a short interval", t, func() {
		pool := testpage.NewPool(12, 3, 7)
		fetcher := &scriptedFetcher{pages: [][]byte{pool.Page()}}
		svc := service.New(fetcher,
			service.WithPresenter(&recordingPresenter{}),
			service.WithInterval(10*time.Millisecond),
			service.WithLogger(logger.Nop()),
		)

		Convey("Run cycles until the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- svc.Run(ctx) }()

			So(waitFor(func() bool { return fetcher.Calls() >= 3 }, time.Second), ShouldBeTrue)
			So(svc.GetStats()["running"], ShouldEqual, true)
			cancel()

			select {
			case err := <-done:
				So(err, ShouldBeNil)
			case <-time.After(time.Second):
				So("run did not stop", ShouldBeEmpty)
			}
			So(svc.GetStats()["running"], ShouldEqual, false)
			So(svc.GetStats()["cycles"], ShouldBeGreaterThanOrEqualTo, 3)
		})

		Convey("Run rejects a non-positive interval", func() {
			bad := service.New(fetcher, service.WithInterval(0), service.WithLogger(logger.Nop()))
			So(bad.Run(context.Background()), ShouldEqual, service.ErrBadInterval)
		})

		Convey("Run without a fetcher fails fast", func() {
			bad := service.New(nil, service.WithLogger(logger.Nop()))
			So(bad.Run(context.Background()), ShouldEqual, service.ErrNoFetcher)
		})
	})
}

func waitFor(cond func() bool, limit time.Duration) bool {
	deadline := time.Now().Add(limit)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

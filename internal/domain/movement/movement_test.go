package movement_test

import (
	"testing"

	"github.com/okian/poolwatch/internal/domain/model"
	"github.com/okian/poolwatch/internal/domain/movement"
	"github.com/okian/poolwatch/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(teams ...model.Team) model.Snapshot {
	return model.Snapshot{Teams: teams}
}

func team(name string, players ...model.Player) model.Team {
	return model.Team{Name: name, Players: players}
}

func player(name string, score int) model.Player {
	return model.Player{Name: name, Score: score}
}

// seeded returns a history that has seen the given snapshot.
func seeded(s model.Snapshot) movement.History {
	return movement.Diff(movement.NewHistory(), s).History
}

func TestDiffTags(t *testing.T) {
	Convey("Given a history where player A last scored 2", t, func() {
		prev := seeded(snapshot(team("X", player("A", 2))))

		Convey("When A now scores 1", func() {
			res := movement.Diff(prev, snapshot(team("X", player("A", 1))))
			Convey("Then A moved down", func() {
				So(res.Snapshot.Teams[0].Players[0].Movement, ShouldEqual, model.MovementDown)
				So(res.Counts.Down, ShouldEqual, 1)
			})
		})

		Convey("When A now scores 3", func() {
			res := movement.Diff(prev, snapshot(team("X", player("A", 3))))
			Convey("Then A moved up", func() {
				So(res.Snapshot.Teams[0].Players[0].Movement, ShouldEqual, model.MovementUp)
				So(res.Counts.Up, ShouldEqual, 1)
			})
		})

		Convey("When A still scores 2", func() {
			res := movement.Diff(prev, snapshot(team("X", player("A", 2))))
			Convey("Then A has no movement", func() {
				So(res.Snapshot.Teams[0].Players[0].Movement, ShouldEqual, model.MovementNone)
				So(res.Counts.None, ShouldEqual, 1)
			})
		})

		Convey("When A's score becomes unparseable", func() {
			res := movement.Diff(prev, snapshot(team("X", player("A", scoring.Sentinel))))
			Convey("Then it reads as a regression, never an improvement", func() {
				So(res.Snapshot.Teams[0].Players[0].Movement, ShouldEqual, model.MovementUp)
			})
		})

		Convey("When A shows up under another team", func() {
			res := movement.Diff(prev, snapshot(team("Y", player("A", 0))))
			Convey("Then the lookup is by name only", func() {
				So(res.Snapshot.Teams[0].Players[0].Movement, ShouldEqual, model.MovementDown)
			})
		})
	})

	Convey("Given an empty history", t, func() {
		var prev movement.History

		Convey("When diffing the first snapshot", func() {
			res := movement.Diff(prev, snapshot(team("X", player("A", -1), player("B", 4))))

			Convey("Then every player is a first sighting", func() {
				for _, p := range res.Snapshot.Teams[0].Players {
					So(p.Movement, ShouldEqual, model.MovementNone)
				}
			})

			Convey("And every team is a new entrant", func() {
				So(res.NewEntrants, ShouldResemble, []string{"X"})
			})

			Convey("And the returned history remembers the scores", func() {
				score, ok := res.History.LastScore("B")
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 4)
				So(res.History.Players(), ShouldEqual, 2)
				So(res.History.WasTop("X"), ShouldBeTrue)
			})

			Convey("And the input history is untouched", func() {
				_, ok := prev.LastScore("A")
				So(ok, ShouldBeFalse)
				So(prev.Players(), ShouldEqual, 0)
			})
		})
	})
}

func TestDiffNewEntrants(t *testing.T) {
	Convey("Given a previous top set of X and Y", t, func() {
		prev := seeded(snapshot(team("X"), team("Y")))

		Convey("When the current top set is Y and Z", func() {
			res := movement.Diff(prev, snapshot(team("Y"), team("Z")))

			Convey("Then only Z is new", func() {
				So(res.NewEntrants, ShouldResemble, []string{"Z"})
			})

			Convey("And the stored top set is replaced", func() {
				So(res.History.TopTeams(), ShouldResemble, []string{"Y", "Z"})
				So(res.History.WasTop("X"), ShouldBeFalse)
			})
		})
	})
}

func TestDiffIdempotence(t *testing.T) {
	Convey("Given two identical consecutive snapshots", t, func() {
		s := snapshot(
			team("Alpha", player("A", -3), player("B", 0)),
			team("Bravo", player("C", 2), player("D", scoring.Sentinel)),
		)
		first := movement.Diff(movement.NewHistory(), s)

		Convey("When diffing the second one", func() {
			second := movement.Diff(first.History, s)

			Convey("Then nothing moved and nobody is new", func() {
				So(second.NewEntrants, ShouldBeEmpty)
				So(second.Counts.Up, ShouldEqual, 0)
				So(second.Counts.Down, ShouldEqual, 0)
				So(second.Counts.None, ShouldEqual, 4)
				for _, tm := range second.Snapshot.Teams {
					for _, p := range tm.Players {
						So(p.Movement, ShouldEqual, model.MovementNone)
					}
				}
			})
		})
	})
}

func TestDiffKeepsAbsentPlayers(t *testing.T) {
	Convey("Given a player who drops out of the top N", t, func() {
		prev := seeded(snapshot(team("X", player("A", 1)), team("Y", player("B", 5))))
		mid := movement.Diff(prev, snapshot(team("X", player("A", 1)))).History

		Convey("When they return with a better score", func() {
			res := movement.Diff(mid, snapshot(team("Y", player("B", 2))))
			Convey("Then the old score is still the baseline", func() {
				So(res.Snapshot.Teams[0].Players[0].Movement, ShouldEqual, model.MovementDown)
				So(res.NewEntrants, ShouldResemble, []string{"Y"})
			})
		})
	})
}

func TestDiffDoesNotMutateInput(t *testing.T) {
	Convey("Given a snapshot passed to Diff", t, func() {
		prev := seeded(snapshot(team("X", player("A", 2))))
		current := snapshot(team("X", player("A", 0)))
		_ = movement.Diff(prev, current)

		So(current.Teams[0].Players[0].Movement, ShouldEqual, model.MovementNone)
		score, _ := prev.LastScore("A")
		So(score, ShouldEqual, 2)
	})
}

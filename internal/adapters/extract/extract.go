// Package extract parses leaderboard markup into team records.
//
// Everything that knows the page layout lives here so a markup change on the
// pool site touches only this package.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/poolwatch/internal/domain/model"
)

// Layout selectors for the easyofficepools.com leaderboard.
const (
	teamSelector     = "tbody.searchable"
	nameCellSelector = "td.teamName"
	playerSelector   = "tr.details"
	nameAttr         = "ng-click"

	playerNameCell  = 2
	playerScoreCell = 3
	minPlayerCells  = playerScoreCell + 1
)

// Extractor turns raw markup into teams in page order.
type Extractor interface {
	Extract(markup []byte) ([]model.Team, error)
}

// PoolExtractor implements Extractor for the pool leaderboard page.
// Teams and players carry raw score tokens only; normalizing is left to the caller.
type PoolExtractor struct{}

// New creates a PoolExtractor.
func New() *PoolExtractor {
	return &PoolExtractor{}
}

// Extract returns one team per container and one player per detail row.
// Any missing structural marker fails the whole page.
func (e *PoolExtractor) Extract(markup []byte) ([]model.Team, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	containers := doc.Find(teamSelector)
	if containers.Length() == 0 {
		return nil, ErrNoTeams
	}

	teams := make([]model.Team, 0, containers.Length())
	var firstErr error
	containers.EachWithBreak(func(i int, s *goquery.Selection) bool {
		team, err := extractTeam(s)
		if err != nil {
			firstErr = fmt.Errorf("team %d: %w", i+1, err)
			return false
		}
		teams = append(teams, team)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return teams, nil
}

func extractTeam(s *goquery.Selection) (model.Team, error) {
	nameCell := s.Find(nameCellSelector).First()
	if nameCell.Length() == 0 {
		return model.Team{}, fmt.Errorf("%w: missing %s", ErrMalformedTeam, nameCellSelector)
	}

	name := teamName(nameCell.Find("span").First())
	if name == "" {
		return model.Team{}, fmt.Errorf("%w: empty team name", ErrMalformedTeam)
	}

	scoreCell := nameCell.NextAllFiltered("td").First()
	if scoreCell.Length() == 0 {
		return model.Team{}, fmt.Errorf("%w: %q has no score cell", ErrMalformedTeam, name)
	}

	team := model.Team{
		Name: name,
		Raw:  strings.TrimSpace(scoreCell.Text()),
	}

	var rowErr error
	s.Find(playerSelector).EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < minPlayerCells {
			rowErr = fmt.Errorf("%w: %q row %d has %d cells", ErrMalformedPlayer, name, i+1, cells.Length())
			return false
		}
		team.Players = append(team.Players, model.Player{
			Name: strings.TrimSpace(cells.Eq(playerNameCell).Text()),
			Raw:  strings.TrimSpace(cells.Eq(playerScoreCell).Text()),
		})
		return true
	})
	if rowErr != nil {
		return model.Team{}, rowErr
	}
	return team, nil
}

// teamName reads the quoted name from the span's click handler,
// e.g. ng-click="openTeam('Birdie Hunters', 17)", falling back to the span text.
func teamName(span *goquery.Selection) string {
	if span.Length() == 0 {
		return ""
	}
	if handler, ok := span.Attr(nameAttr); ok {
		if parts := strings.Split(handler, "'"); len(parts) >= 3 {
			if name := strings.TrimSpace(parts[1]); name != "" {
				return name
			}
		}
	}
	return strings.TrimSpace(span.Text())
}

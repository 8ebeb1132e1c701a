// Package testpage renders and simulates pool leaderboard pages for tests and
// local runs against a fake board.
package testpage

import (
	"fmt"
	"html"
	"strings"

	"github.com/okian/poolwatch/internal/domain/model"
)

// Render builds leaderboard markup in the layout the pool site serves.
// Only Name and Raw fields are used.
func Render(teams []model.Team) []byte {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html><head><title>Leaderboard</title></head><body>\n")
	b.WriteString(`<table class="leaderboard">` + "\n")
	for i, t := range teams {
		fmt.Fprintf(&b, "<tbody class=\"searchable\">\n<tr class=\"team\"><td class=\"rank\">%d</td>", i+1)
		fmt.Fprintf(&b, `<td class="teamName"><span ng-click="showDetails('%s', %d)">%s</span></td>`,
			html.EscapeString(t.Name), i+1, html.EscapeString(t.Name))
		fmt.Fprintf(&b, "<td class=\"total\">%s</td></tr>\n", html.EscapeString(t.Raw))
		for j, p := range t.Players {
			fmt.Fprintf(&b, "<tr class=\"details\"><td>%d</td><td class=\"pos\"></td><td>%s</td><td>%s</td><td>F</td></tr>\n",
				j+1, html.EscapeString(p.Name), html.EscapeString(p.Raw))
		}
		b.WriteString("</tbody>\n")
	}
	b.WriteString("</table>\n</body></html>\n")
	return []byte(b.String())
}

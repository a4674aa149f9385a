package commands

import (
	"fmt"
	"io"
	"strings"

	"hltv-ranking/internal/archive"
	"hltv-ranking/internal/export"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func formatChange(change int) string {
	switch {
	case change > 0:
		return fmt.Sprintf("+%d", change)
	case change < 0:
		return fmt.Sprint(change)
	default:
		return "-"
	}
}

func renderRanking(w io.Writer, ranking export.Ranking) {
	t := newTable(w)
	t.SetTitle("World ranking on %s", ranking.Date)
	t.AppendHeader(table.Row{"#", "Team", "Points", "Change", "Players"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, team := range ranking.Teams {
		nicks := make([]string, len(team.Players))
		for i, p := range team.Players {
			nicks[i] = p.Name
		}
		t.AppendRow(table.Row{
			team.Rank,
			team.Name,
			team.Points,
			formatChange(team.Change),
			strings.Join(nicks, ", "),
		})
	}
	t.Render()
}

func renderHistory(w io.Writer, team string, entries []archive.TeamEntry) {
	t := newTable(w)
	t.SetTitle("%s", team)
	t.AppendHeader(table.Row{"Date", "#", "Points", "Change"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Date, e.Rank, e.Points, formatChange(e.Change)})
	}
	t.Render()
}

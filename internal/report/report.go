package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// oversString renders a ball count in overs-and-balls notation (26 -> "4.2").
func oversString(balls int) string {
	return fmt.Sprintf("%d.%d", balls/6, balls%6)
}

// PrintDatasetSummary prints a one-line summary header for a dataset.
func PrintDatasetSummary(w io.Writer, s model.DatasetSummary) {
	seasons := "—"
	if s.SeasonMin != 0 {
		seasons = strconv.Itoa(s.SeasonMin)
		if s.SeasonMax != s.SeasonMin {
			seasons = fmt.Sprintf("%d–%d", s.SeasonMin, s.SeasonMax)
		}
	}
	fmt.Fprintf(w, "\nSource: %s  |  Deliveries: %d  |  Matches: %d  |  Seasons: %s  |  Faults: %d  |  Hash: %s\n\n",
		s.Source, s.Deliveries, s.Matches, seasons, s.FaultRows, shortHash(s.Hash))
}

// PrintDatasetList prints all stored datasets.
func PrintDatasetList(w io.Writer, list []model.DatasetSummary) {
	table := newTable(w)
	table.Header("HASH", "SOURCE", "LOADED", "DELIVERIES", "MATCHES", "SEASONS", "SKIPPED", "FAULTS")

	for _, s := range list {
		seasons := "—"
		if s.SeasonMin != 0 {
			seasons = strconv.Itoa(s.SeasonMin)
			if s.SeasonMax != s.SeasonMin {
				seasons = fmt.Sprintf("%d–%d", s.SeasonMin, s.SeasonMax)
			}
		}
		table.Append(
			shortHash(s.Hash),
			s.Source,
			s.LoadedAt,
			strconv.Itoa(s.Deliveries),
			strconv.Itoa(s.Matches),
			seasons,
			strconv.Itoa(s.SkippedRows),
			strconv.Itoa(s.FaultRows),
		)
	}
	table.Render()
}

// PrintBattingTable prints grouped batting figures. keyHeader names the group
// column (BATTER, PHASE, OPPONENT...).
func PrintBattingTable(w io.Writer, keyHeader string, sums []model.BattingSummary) {
	table := newTable(w)
	table.Header(keyHeader, "M", "RUNS", "BALLS", "SR", "AVG", "DOTS", "4s", "6s", "OUTS")

	for i := range sums {
		s := &sums[i]
		table.Append(
			s.Key,
			strconv.Itoa(s.Matches),
			strconv.Itoa(s.Runs),
			strconv.Itoa(s.Balls),
			fmt.Sprintf("%.1f", s.StrikeRate()),
			fmt.Sprintf("%.1f", s.Average()),
			strconv.Itoa(s.Dots),
			strconv.Itoa(s.Fours),
			strconv.Itoa(s.Sixes),
			strconv.Itoa(s.Dismissals),
		)
	}
	table.Render()
}

// PrintBowlingTable prints grouped bowling figures. A wicketless average
// renders as a dash rather than +Inf.
func PrintBowlingTable(w io.Writer, keyHeader string, sums []model.BowlingSummary) {
	table := newTable(w)
	table.Header(keyHeader, "M", "OVERS", "RUNS", "WKTS", "ECON", "AVG", "DOTS")

	for i := range sums {
		s := &sums[i]
		avg := "—"
		if !math.IsInf(s.Average(), 1) {
			avg = fmt.Sprintf("%.1f", s.Average())
		}
		table.Append(
			s.Key,
			strconv.Itoa(s.Matches),
			oversString(s.Balls),
			strconv.Itoa(s.Runs),
			strconv.Itoa(s.Wickets),
			fmt.Sprintf("%.2f", s.Economy()),
			avg,
			strconv.Itoa(s.Dots),
		)
	}
	table.Render()
}

// PrintMatchupTable prints a batter-vs-bowler record with its phase split.
func PrintMatchupTable(w io.Writer, total model.MatchupSummary, phases map[model.Phase]model.MatchupSummary) {
	fmt.Fprintf(w, "\n%s vs %s\n\n", total.Batter, total.Bowler)

	table := newTable(w)
	table.Header("PHASE", "BALLS", "RUNS", "SR", "OUTS", "OUT%", "DOTS", "4s", "6s")

	appendRow := func(label string, m model.MatchupSummary) {
		table.Append(
			label,
			strconv.Itoa(m.Balls),
			strconv.Itoa(m.Runs),
			fmt.Sprintf("%.1f", m.StrikeRate()),
			strconv.Itoa(m.Wickets),
			fmt.Sprintf("%.1f%%", m.DismissalRate()),
			strconv.Itoa(m.Dots),
			strconv.Itoa(m.Fours),
			strconv.Itoa(m.Sixes),
		)
	}
	for _, p := range model.Phases {
		if m, ok := phases[p]; ok {
			appendRow(p.String(), m)
		}
	}
	appendRow("Overall", total)
	table.Render()
}

// PrintMilestoneTable prints ranked fastest-to-threshold innings.
func PrintMilestoneTable(w io.Writer, title string, ms []model.Milestone) {
	fmt.Fprintf(w, "\n%s\n\n", title)

	table := newTable(w)
	table.Header("#", "BATTER", "BALLS", "FINAL", "OPPONENT", "MATCH")

	for i, m := range ms {
		table.Append(
			strconv.Itoa(i+1),
			m.Batter,
			strconv.Itoa(m.Balls),
			strconv.Itoa(m.FinalScore),
			m.Opponent,
			m.MatchID,
		)
	}
	table.Render()
}

// PrintIntegrityIssues lists innings excluded from milestone detection.
func PrintIntegrityIssues(w io.Writer, issues []aggregator.IntegrityIssue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "\nExcluded innings (%d):\n", len(issues))
	for _, is := range issues {
		fmt.Fprintf(w, "  ! %s\n", is.String())
	}
	fmt.Fprintln(w)
}

// PrintPartnershipTable prints the top stands.
func PrintPartnershipTable(w io.Writer, ps []model.Partnership) {
	table := newTable(w)
	table.Header("PAIR", "RUNS", "BALLS", "TEAM", "VS", "MATCH")

	for _, p := range ps {
		table.Append(
			p.FirstBat+" / "+p.SecondBat,
			strconv.Itoa(p.Runs),
			strconv.Itoa(p.Balls),
			p.BattingTeam,
			p.BowlingTeam,
			p.MatchID,
		)
	}
	table.Render()
}

// PrintHeadToHead prints the all-time record between two teams.
func PrintHeadToHead(w io.Writer, h model.HeadToHead) {
	fmt.Fprintf(w, "\n%s vs %s: %d matches\n", h.TeamA, h.TeamB, h.Matches)
	fmt.Fprintf(w, "  %-32s %d wins\n", h.TeamA, h.WinsA)
	fmt.Fprintf(w, "  %-32s %d wins\n", h.TeamB, h.WinsB)
	if h.Ties > 0 {
		fmt.Fprintf(w, "  %-32s %d\n", "Tied", h.Ties)
	}
	fmt.Fprintln(w)
}

// PrintBattingForm prints a batter's per-match trend with the rolling average.
func PrintBattingForm(w io.Writer, points []model.FormPoint) {
	table := newTable(w)
	table.Header("MATCH", "SEASON", "RUNS", "BALLS", "ROLLING_AVG")

	for _, p := range points {
		season := "—"
		if p.Season != 0 {
			season = strconv.Itoa(p.Season)
		}
		table.Append(
			p.MatchID,
			season,
			strconv.Itoa(p.Runs),
			strconv.Itoa(p.Balls),
			fmt.Sprintf("%.1f", p.Rolling),
		)
	}
	table.Render()
}

// PrintBowlingForm prints a bowler's per-match trend with the rolling economy.
func PrintBowlingForm(w io.Writer, points []model.FormPoint) {
	table := newTable(w)
	table.Header("MATCH", "SEASON", "OVERS", "RUNS", "WKTS", "ROLLING_ECON")

	for _, p := range points {
		season := "—"
		if p.Season != 0 {
			season = strconv.Itoa(p.Season)
		}
		table.Append(
			p.MatchID,
			season,
			oversString(p.Balls),
			strconv.Itoa(p.Runs),
			strconv.Itoa(p.Wickets),
			fmt.Sprintf("%.2f", p.Rolling),
		)
	}
	table.Render()
}

// PrintFiguresTable prints ranked single-match bowling returns.
func PrintFiguresTable(w io.Writer, figs []model.BowlingFigures) {
	table := newTable(w)
	table.Header("#", "BOWLER", "FIGURES", "OVERS", "VS", "MATCH")

	for i, f := range figs {
		table.Append(
			strconv.Itoa(i+1),
			f.Bowler,
			fmt.Sprintf("%d/%d", f.Wickets, f.Runs),
			oversString(f.Balls),
			f.Opponent,
			f.MatchID,
		)
	}
	table.Render()
}

// PrintRawTable prints an ad-hoc query result.
func PrintRawTable(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	table.Header(toAny(cols)...)
	for _, r := range rows {
		table.Append(toAny(r)...)
	}
	table.Render()
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

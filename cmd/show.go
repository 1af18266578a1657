package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/model"
	"github.com/tapeball/cricmetrics/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Scorecard for one match",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	matchID := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, rows, err := loadRows(db)
	if err != nil {
		return err
	}

	ix := aggregator.NewIndex(rows)
	match := ix.Match(matchID)
	if len(match) == 0 {
		fmt.Fprintf(os.Stderr, "No match %q in this dataset.\n", matchID)
		return nil
	}

	// Split into innings, preserving ball order.
	byInning := make(map[int][]model.Delivery)
	var innings []int
	for _, d := range match {
		if _, seen := byInning[d.Inning]; !seen {
			innings = append(innings, d.Inning)
		}
		byInning[d.Inning] = append(byInning[d.Inning], d)
	}

	season := ""
	if match[0].Season != 0 {
		season = fmt.Sprintf(" (%d)", match[0].Season)
	}
	fmt.Fprintf(os.Stdout, "\nMatch %s%s\n", matchID, season)

	for _, inning := range innings {
		balls := byInning[inning]
		total, wickets := 0, 0
		for _, d := range balls {
			total += d.TotalRuns
			if d.IsWicket {
				wickets++
			}
		}
		fmt.Fprintf(os.Stdout, "\nInnings %d: %s %d/%d\n\n",
			inning, balls[0].BattingTeam, total, wickets)

		fmt.Fprintln(os.Stdout, "Batting:")
		report.PrintBattingTable(os.Stdout, "BATTER",
			aggregator.BattingByGroup(balls, aggregator.KeyBatter))

		fmt.Fprintln(os.Stdout, "\nBowling:")
		report.PrintBowlingTable(os.Stdout, "BOWLER",
			aggregator.BowlingByGroup(balls, aggregator.KeyBowler))
	}

	results := aggregator.Results(match)
	if len(results) == 1 {
		r := results[0]
		if w := r.Winner(); w != "" {
			hi, lo := r.RunsA, r.RunsB
			if lo > hi {
				hi, lo = lo, hi
			}
			fmt.Fprintf(os.Stdout, "\n%s won (%d to %d).\n", w, hi, lo)
		} else {
			fmt.Fprintf(os.Stdout, "\nMatch tied (%d apiece).\n", r.RunsA)
		}
	}
	return nil
}

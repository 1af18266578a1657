package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/normalize"
	"github.com/tapeball/cricmetrics/internal/report"
)

var teamsCmd = &cobra.Command{
	Use:   "teams [<team-a> <team-b>]",
	Short: "Team batting records, or the head-to-head between two teams",
	Args:  cobra.RangeArgs(0, 2),
	RunE:  runTeams,
}

func runTeams(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return fmt.Errorf("pass no teams for the overview, or two for a head-to-head")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, rows, err := loadRows(db)
	if err != nil {
		return err
	}

	if len(args) == 2 {
		// Accept historical names on the command line too.
		teamA := normalize.CanonicalTeam(args[0])
		teamB := normalize.CanonicalTeam(args[1])
		results := aggregator.Results(rows)
		h := aggregator.HeadToHeadRecord(results, teamA, teamB)
		if h.Matches == 0 {
			fmt.Fprintf(os.Stderr, "No matches between %q and %q in this dataset.\n", teamA, teamB)
			return nil
		}
		report.PrintHeadToHead(os.Stdout, h)
		return nil
	}

	batting := aggregator.BattingByGroup(rows, aggregator.KeyBattingSide)
	aggregator.SortBattingByRuns(batting)
	fmt.Fprintln(os.Stdout, "Team batting:")
	report.PrintBattingTable(os.Stdout, "TEAM", batting)
	return nil
}

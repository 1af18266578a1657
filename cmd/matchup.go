package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/report"
)

var matchupCmd = &cobra.Command{
	Use:   "matchup <batter> <bowler>",
	Short: "Head-to-head record of a batter against a bowler",
	Args:  cobra.ExactArgs(2),
	RunE:  runMatchup,
}

func runMatchup(cmd *cobra.Command, args []string) error {
	batter, bowler := args[0], args[1]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, rows, err := loadRows(db)
	if err != nil {
		return err
	}

	total, phases := aggregator.Matchup(rows, batter, bowler)
	if total.Balls == 0 {
		fmt.Fprintf(os.Stderr, "%q never faced %q in this dataset.\n", batter, bowler)
		return nil
	}

	report.PrintMatchupTable(os.Stdout, total, phases)
	return nil
}

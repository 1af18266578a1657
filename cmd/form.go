package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/report"
)

var (
	formBowling bool
	formRecent  int
)

var formCmd = &cobra.Command{
	Use:   "form <name>",
	Short: "Chronological per-match trend for a player with a rolling average",
	Args:  cobra.ExactArgs(1),
	RunE:  runForm,
}

func init() {
	formCmd.Flags().BoolVar(&formBowling, "bowling", false, "bowling trend instead of batting")
	formCmd.Flags().IntVar(&formRecent, "recent", 0, "show only the most recent N matches")
}

func runForm(cmd *cobra.Command, args []string) error {
	name := args[0]

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

	if formBowling {
		own := ix.Bowler(name)
		if len(own) == 0 {
			fmt.Fprintf(os.Stderr, "No deliveries bowled by %q in this dataset.\n", name)
			return nil
		}
		points := aggregator.BowlingForm(own)
		if formRecent > 0 && len(points) > formRecent {
			points = points[len(points)-formRecent:]
		}
		fmt.Fprintf(os.Stdout, "\n%s, bowling by match:\n", name)
		report.PrintBowlingForm(os.Stdout, points)
		return nil
	}

	own := ix.Batter(name)
	if len(own) == 0 {
		fmt.Fprintf(os.Stderr, "No deliveries faced by %q in this dataset.\n", name)
		return nil
	}
	points := aggregator.BattingForm(own)
	if formRecent > 0 && len(points) > formRecent {
		points = points[len(points)-formRecent:]
	}
	fmt.Fprintf(os.Stdout, "\n%s, batting by match:\n", name)
	report.PrintBattingForm(os.Stdout, points)
	return nil
}

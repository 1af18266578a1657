package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/report"
)

var batterCmd = &cobra.Command{
	Use:   "batter <name>",
	Short: "Batting card for one batter: overall, by phase, by opposition",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatter,
}

func runBatter(cmd *cobra.Command, args []string) error {
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
	own := ix.Batter(name)
	if len(own) == 0 {
		fmt.Fprintf(os.Stderr, "No deliveries faced by %q in this dataset.\n", name)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%s\n\nOverall:\n", name)
	report.PrintBattingTable(os.Stdout, "BATTER", aggregator.BattingByGroup(own, aggregator.KeyBatter))

	fmt.Fprintln(os.Stdout, "\nBy season:")
	report.PrintBattingTable(os.Stdout, "SEASON", aggregator.BattingByGroup(own, aggregator.KeySeason))

	fmt.Fprintln(os.Stdout, "\nBy phase:")
	report.PrintBattingTable(os.Stdout, "PHASE", aggregator.BattingByGroup(own, aggregator.KeyPhase))

	byOpponent := aggregator.BattingByGroup(own, aggregator.KeyOpponent)
	aggregator.SortBattingByRuns(byOpponent)
	fmt.Fprintln(os.Stdout, "\nBy opposition:")
	report.PrintBattingTable(os.Stdout, "OPPONENT", byOpponent)
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/report"
)

var bowlerCmd = &cobra.Command{
	Use:   "bowler <name>",
	Short: "Bowling card for one bowler: overall, by phase, best figures",
	Args:  cobra.ExactArgs(1),
	RunE:  runBowler,
}

var bowlerFigures int

func init() {
	bowlerCmd.Flags().IntVar(&bowlerFigures, "figures", 5, "best single-match figures to show")
}

func runBowler(cmd *cobra.Command, args []string) error {
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
	own := ix.Bowler(name)
	if len(own) == 0 {
		fmt.Fprintf(os.Stderr, "No deliveries bowled by %q in this dataset.\n", name)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%s\n\nOverall:\n", name)
	report.PrintBowlingTable(os.Stdout, "BOWLER", aggregator.BowlingByGroup(own, aggregator.KeyBowler))

	fmt.Fprintln(os.Stdout, "\nBy season:")
	report.PrintBowlingTable(os.Stdout, "SEASON", aggregator.BowlingByGroup(own, aggregator.KeySeason))

	fmt.Fprintln(os.Stdout, "\nBy phase:")
	report.PrintBowlingTable(os.Stdout, "PHASE", aggregator.BowlingByGroup(own, aggregator.KeyPhase))

	figs := aggregator.BowlingFiguresByMatch(own)
	aggregator.SortFigures(figs)
	fmt.Fprintln(os.Stdout, "\nBest figures:")
	report.PrintFiguresTable(os.Stdout, top(figs, bowlerFigures))
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/model"
	"github.com/tapeball/cricmetrics/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Overview of the selected dataset",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, rows, err := loadRows(db)
	if err != nil {
		return err
	}

	report.PrintDatasetSummary(os.Stdout, *ds)

	ix := aggregator.NewIndex(rows)
	fmt.Fprintf(os.Stdout, "Deliveries: %s\n", humanize.Comma(int64(len(ix.Rows()))))
	fmt.Fprintf(os.Stdout, "Matches:    %s\n", humanize.Comma(int64(len(ix.Matches()))))
	fmt.Fprintf(os.Stdout, "Batters:    %s\n", humanize.Comma(int64(len(ix.Batters()))))
	fmt.Fprintf(os.Stdout, "Bowlers:    %s\n", humanize.Comma(int64(len(ix.Bowlers()))))

	seasons, err := db.Seasons(ds.Hash)
	if err != nil {
		return fmt.Errorf("query seasons: %w", err)
	}
	if len(seasons) > 0 {
		parts := make([]string, len(seasons))
		for i, s := range seasons {
			parts[i] = strconv.Itoa(s)
		}
		fmt.Fprintf(os.Stdout, "Seasons:    %s\n", strings.Join(parts, ", "))
	}

	fmt.Fprintln(os.Stdout, "\nTeam batting:")
	teams := aggregator.BattingByGroup(rows, aggregator.KeyBattingSide)
	aggregator.SortBattingByRuns(teams)
	report.PrintBattingTable(os.Stdout, "TEAM", teams)

	scorers := aggregator.BattingByGroup(rows, aggregator.KeyBatter)
	aggregator.SortBattingByRuns(scorers)
	fmt.Fprintln(os.Stdout, "\nTop run scorers:")
	report.PrintBattingTable(os.Stdout, "BATTER", top(scorers, 10))

	bySR := aggregator.BattingByGroup(rows, aggregator.KeyBatter)
	bySR = aggregator.FilterBatting(bySR, func(s *model.BattingSummary) bool {
		return s.Balls >= minBatterBalls
	})
	aggregator.SortBattingByStrikeRate(bySR)
	fmt.Fprintln(os.Stdout, "\nBest strike rates (min 30 balls):")
	report.PrintBattingTable(os.Stdout, "BATTER", top(bySR, 10))

	economy := aggregator.BowlingByGroup(rows, aggregator.KeyBowler)
	economy = aggregator.FilterBowling(economy, func(s *model.BowlingSummary) bool {
		return s.Balls >= minBowlerBalls
	})
	aggregator.SortBowlingByEconomy(economy)
	fmt.Fprintln(os.Stdout, "\nBest economy (min 20 overs):")
	report.PrintBowlingTable(os.Stdout, "BOWLER", top(economy, 10))
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/model"
	"github.com/tapeball/cricmetrics/internal/report"
)

var phasesTop int

var phasesCmd = &cobra.Command{
	Use:   "phases <powerplay|middle|death>",
	Short: "Phase specialists: best batters and bowlers in one phase",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhases,
}

func init() {
	phasesCmd.Flags().IntVar(&phasesTop, "top", 10, "rows per table")
}

func parsePhase(s string) (model.Phase, error) {
	switch strings.ToLower(s) {
	case "powerplay", "pp":
		return model.PhasePowerplay, nil
	case "middle":
		return model.PhaseMiddle, nil
	case "death":
		return model.PhaseDeath, nil
	default:
		return model.PhaseUnknown, fmt.Errorf("unknown phase %q (want powerplay, middle or death)", s)
	}
}

func runPhases(cmd *cobra.Command, args []string) error {
	phase, err := parsePhase(args[0])
	if err != nil {
		return err
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

	inPhase := aggregator.ByPhase(rows, phase)
	if len(inPhase) == 0 {
		fmt.Fprintf(os.Stderr, "No %s deliveries in this dataset.\n", phase)
		return nil
	}

	batting := aggregator.BattingByGroup(inPhase, aggregator.KeyBatter)
	batting = aggregator.FilterBatting(batting, func(s *model.BattingSummary) bool {
		return s.Matches >= minPhaseMatches
	})
	aggregator.SortBattingByStrikeRate(batting)
	fmt.Fprintf(os.Stdout, "\n%s batters (min %d matches):\n", phase, minPhaseMatches)
	report.PrintBattingTable(os.Stdout, "BATTER", top(batting, phasesTop))

	bowling := aggregator.BowlingByGroup(inPhase, aggregator.KeyBowler)
	bowling = aggregator.FilterBowling(bowling, func(s *model.BowlingSummary) bool {
		return s.Matches >= minPhaseMatches && s.Balls >= minBowlerBalls
	})
	aggregator.SortBowlingByEconomy(bowling)
	fmt.Fprintf(os.Stdout, "\n%s bowlers (min %d matches, 20 overs):\n", phase, minPhaseMatches)
	report.PrintBowlingTable(os.Stdout, "BOWLER", top(bowling, phasesTop))
	return nil
}

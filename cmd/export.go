package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/model"
	"github.com/tapeball/cricmetrics/internal/normalize"
)

var (
	exportTeam string
	exportOut  string
)

// teamPack is the top-level JSON schema for an exported team stat pack.
type teamPack struct {
	Team        string               `json:"team"`
	GeneratedAt string               `json:"generated_at"`
	Matches     int                  `json:"matches"`
	Wins        int                  `json:"wins"`
	Losses      int                  `json:"losses"`
	Ties        int                  `json:"ties"`
	Batting     []packBatting        `json:"batting"`
	Bowling     []packBowling        `json:"bowling"`
	PhaseSplits map[string]packPhase `json:"phase_splits"`
}

type packBatting struct {
	Name       string  `json:"name"`
	Matches    int     `json:"matches"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	StrikeRate float64 `json:"strike_rate"`
	Average    float64 `json:"average"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	Boundaries int     `json:"boundaries"`
	Dismissals int     `json:"dismissals"`
}

type packBowling struct {
	Name    string  `json:"name"`
	Matches int     `json:"matches"`
	Balls   int     `json:"balls"`
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Economy float64 `json:"economy"`
	Average float64 `json:"average,omitempty"` // omitted for wicketless bowlers
}

type packPhase struct {
	Balls      int     `json:"balls"`
	Runs       int     `json:"runs"`
	Wickets    int     `json:"wickets"`
	StrikeRate float64 `json:"strike_rate"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one team's stats as a JSON pack",
	Long: `Computes a team's record, player batting and bowling figures and phase
splits from the selected dataset and writes them as JSON.

Example:
  cricmetrics export --team "Chennai Super Kings" --out csk.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTeam, "team", "", "team name (historical names accepted)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.MarkFlagRequired("team")
}

func runExport(cmd *cobra.Command, args []string) error {
	team := normalize.CanonicalTeam(exportTeam)

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, rows, err := loadRows(db)
	if err != nil {
		return err
	}

	var batted, bowled []model.Delivery
	for _, d := range rows {
		switch team {
		case d.BattingTeam:
			batted = append(batted, d)
		case d.BowlingTeam:
			bowled = append(bowled, d)
		}
	}
	if len(batted) == 0 && len(bowled) == 0 {
		return fmt.Errorf("no deliveries for team %q in this dataset", team)
	}

	pack := teamPack{
		Team:        team,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		PhaseSplits: make(map[string]packPhase),
	}

	for _, r := range aggregator.Results(rows) {
		if r.TeamA != team && r.TeamB != team {
			continue
		}
		pack.Matches++
		switch r.Winner() {
		case team:
			pack.Wins++
		case "":
			pack.Ties++
		default:
			pack.Losses++
		}
	}

	batting := aggregator.BattingByGroup(batted, aggregator.KeyBatter)
	aggregator.SortBattingByRuns(batting)
	for i := range batting {
		s := &batting[i]
		pack.Batting = append(pack.Batting, packBatting{
			Name:       s.Key,
			Matches:    s.Matches,
			Runs:       s.Runs,
			Balls:      s.Balls,
			StrikeRate: s.StrikeRate(),
			Average:    s.Average(),
			Fours:      s.Fours,
			Sixes:      s.Sixes,
			Boundaries: s.Boundaries(),
			Dismissals: s.Dismissals,
		})
	}

	bowling := aggregator.BowlingByGroup(bowled, aggregator.KeyBowler)
	aggregator.SortBowlingByEconomy(bowling)
	for i := range bowling {
		s := &bowling[i]
		b := packBowling{
			Name:    s.Key,
			Matches: s.Matches,
			Balls:   s.Balls,
			Runs:    s.Runs,
			Wickets: s.Wickets,
			Economy: s.Economy(),
		}
		if avg := s.Average(); !math.IsInf(avg, 1) {
			b.Average = avg
		}
		pack.Bowling = append(pack.Bowling, b)
	}

	for _, phase := range aggregator.BattingByGroup(batted, aggregator.KeyPhase) {
		pack.PhaseSplits[phase.Key] = packPhase{
			Balls:      phase.Balls,
			Runs:       phase.Runs,
			Wickets:    phase.Dismissals,
			StrikeRate: phase.StrikeRate(),
		}
	}

	out, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pack: %w", err)
	}
	out = append(out, '\n')

	if exportOut == "" {
		os.Stdout.Write(out)
		return nil
	}
	if err := os.WriteFile(exportOut, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

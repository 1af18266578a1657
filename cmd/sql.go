package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the delivery database",
	Long: `Run an arbitrary SQL query against the delivery database and print results as a table.

Schema overview:
  datasets(hash, source, loaded_at, deliveries, matches, season_min, season_max, skipped_rows)
  deliveries(dataset_hash, seq, match_id, inning, over_num, batter, bowler,
    batting_team, bowling_team, batsman_runs, total_runs, is_wicket, phase, season)

Note: season is NULL for matches whose id carries no year. phase is 1=Powerplay,
2=Middle, 3=Death.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintRawTable(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

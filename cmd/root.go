package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/model"
	"github.com/tapeball/cricmetrics/internal/storage"
)

var (
	dbPath        string
	datasetPrefix string
	seasonFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "cricmetrics",
	Short: "IPL delivery-log statistics tool",
	Long:  "Load ball-by-ball delivery logs and compute batting, bowling and team statistics.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// A .env file can override the default database location.
	godotenv.Load()
	defaultDB := os.Getenv("CRICMETRICS_DB")
	if defaultDB == "" {
		defaultDB = filepath.Join(mustUserHome(), ".cricmetrics", "cricmetrics.db")
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&datasetPrefix, "dataset", "", "dataset hash prefix (default: most recent)")
	rootCmd.PersistentFlags().StringVar(&seasonFlag, "season", "", "restrict to seasons, e.g. 2020 or 2019,2020")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(batterCmd)
	rootCmd.AddCommand(bowlerCmd)
	rootCmd.AddCommand(matchupCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(phasesCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func openDB() (*storage.DB, error) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// resolveDataset picks the dataset named by --dataset, or the most recently
// loaded one.
func resolveDataset(db *storage.DB) (*model.DatasetSummary, error) {
	if datasetPrefix != "" {
		s, err := db.GetDatasetByPrefix(datasetPrefix)
		if err != nil {
			return nil, fmt.Errorf("query dataset: %w", err)
		}
		if s == nil {
			return nil, fmt.Errorf("no dataset with hash prefix %q", datasetPrefix)
		}
		return s, nil
	}
	s, err := db.LatestDataset()
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("no datasets stored yet; run 'cricmetrics load <deliveries.csv>' first")
	}
	return s, nil
}

// parseSeasons turns the --season flag into a season set. Empty means no
// restriction.
func parseSeasons(flag string) (map[int]bool, error) {
	if flag == "" {
		return nil, nil
	}
	out := make(map[int]bool)
	for _, part := range strings.Split(flag, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad season %q", part)
		}
		out[year] = true
	}
	return out, nil
}

// loadRows returns the selected dataset's deliveries with any --season
// restriction applied. A single season is pushed down to SQL; a multi-season
// filter loads the table and drops rows in memory.
func loadRows(db *storage.DB) (*model.DatasetSummary, []model.Delivery, error) {
	ds, err := resolveDataset(db)
	if err != nil {
		return nil, nil, err
	}

	seasons, err := parseSeasons(seasonFlag)
	if err != nil {
		return nil, nil, err
	}
	sqlSeason := 0
	if len(seasons) == 1 {
		for s := range seasons {
			sqlSeason = s
		}
	}

	rows, err := db.LoadDeliveries(ds.Hash, sqlSeason)
	if err != nil {
		return nil, nil, fmt.Errorf("load deliveries: %w", err)
	}
	if len(seasons) > 1 {
		rows = aggregator.BySeasons(rows, seasons)
	}
	if len(rows) == 0 {
		if len(seasons) > 0 {
			return nil, nil, fmt.Errorf("dataset %s has no deliveries for season %s", ds.Hash[:12], seasonFlag)
		}
		return nil, nil, fmt.Errorf("dataset %s has no deliveries", ds.Hash[:12])
	}
	return ds, rows, nil
}

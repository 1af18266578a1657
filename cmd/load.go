package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/loader"
	"github.com/tapeball/cricmetrics/internal/model"
	"github.com/tapeball/cricmetrics/internal/normalize"
	"github.com/tapeball/cricmetrics/internal/report"
)

var loadCmd = &cobra.Command{
	Use:   "load <deliveries.csv|.zip>",
	Short: "Load a delivery log and store normalized deliveries",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	path := args[0]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Loading %s...\n", path)
	res, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("load deliveries: %w", err)
	}

	exists, err := db.DatasetExists(res.Hash)
	if err != nil {
		return fmt.Errorf("check dataset: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Dataset %s already stored.\n", res.Hash[:12])
		ds, err := db.GetDatasetByPrefix(res.Hash)
		if err != nil || ds == nil {
			return fmt.Errorf("dataset not found: %s", res.Hash)
		}
		report.PrintDatasetSummary(os.Stdout, *ds)
		return nil
	}

	rows, faults := normalize.Normalize(res.Deliveries)
	if faults > 0 {
		fmt.Fprintf(os.Stdout, "%s rows carry out-of-range batsman runs (kept).\n", humanize.Comma(int64(faults)))
	}

	summary := datasetSummary(res, rows, faults)
	if err := db.InsertDataset(summary); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	if err := db.InsertDeliveries(res.Hash, rows); err != nil {
		return fmt.Errorf("insert deliveries: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Stored %s deliveries across %s matches.\n",
		humanize.Comma(int64(summary.Deliveries)), humanize.Comma(int64(summary.Matches)))
	report.PrintDatasetSummary(os.Stdout, summary)
	return nil
}

func datasetSummary(res *loader.Result, rows []model.Delivery, faults int) model.DatasetSummary {
	matches := make(map[string]bool)
	seasonMin, seasonMax := 0, 0
	for _, d := range rows {
		matches[d.MatchID] = true
		if d.Season == 0 {
			continue
		}
		if seasonMin == 0 || d.Season < seasonMin {
			seasonMin = d.Season
		}
		if d.Season > seasonMax {
			seasonMax = d.Season
		}
	}
	return model.DatasetSummary{
		Hash:        res.Hash,
		Source:      filepath.Base(res.Source),
		LoadedAt:    time.Now().UTC().Format(time.RFC3339),
		Deliveries:  len(rows),
		Matches:     len(matches),
		SeasonMin:   seasonMin,
		SeasonMax:   seasonMax,
		SkippedRows: res.Skipped,
		FaultRows:   faults,
	}
}

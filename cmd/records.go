package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapeball/cricmetrics/internal/aggregator"
	"github.com/tapeball/cricmetrics/internal/report"
)

var recordsTop int

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Fastest fifties and centuries, best figures, biggest stands",
	Args:  cobra.NoArgs,
	RunE:  runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&recordsTop, "top", 10, "rows per record table")
}

func runRecords(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, rows, err := loadRows(db)
	if err != nil {
		return err
	}

	fifties, issues := aggregator.DetectMilestones(rows, 50)
	aggregator.SortMilestones(fifties)
	report.PrintMilestoneTable(os.Stdout, "Fastest fifties", top(fifties, recordsTop))

	centuries, _ := aggregator.DetectMilestones(rows, 100)
	aggregator.SortMilestones(centuries)
	report.PrintMilestoneTable(os.Stdout, "Fastest centuries", top(centuries, recordsTop))

	report.PrintIntegrityIssues(os.Stderr, issues)

	figs := aggregator.BowlingFiguresByMatch(rows)
	aggregator.SortFigures(figs)
	fmt.Fprintf(os.Stdout, "\nBest bowling figures\n\n")
	report.PrintFiguresTable(os.Stdout, top(figs, recordsTop))

	stands := aggregator.Partnerships(rows)
	fmt.Fprintf(os.Stdout, "\nBiggest partnerships\n\n")
	report.PrintPartnershipTable(os.Stdout, top(stands, recordsTop))
	return nil
}

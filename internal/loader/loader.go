// Package loader reads a ball-by-ball delivery log from a CSV file (plain or
// inside a zip archive) into typed rows. The column set is validated once,
// up front; a missing column is fatal, a malformed row is logged, skipped,
// and counted.
package loader

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tapeball/cricmetrics/internal/model"
	"github.com/tapeball/cricmetrics/internal/normalize"
)

// requiredColumns is the minimal schema of the delivery log.
var requiredColumns = []string{
	"match_id", "inning", "over", "batter", "bowler",
	"batting_team", "bowling_team", "batsman_runs", "total_runs", "is_wicket",
}

// Result is a fully loaded raw delivery table plus its provenance.
type Result struct {
	Hash       string // sha256 of the source file, idempotency key
	Source     string
	Deliveries []model.Delivery
	Skipped    int // malformed rows dropped during parsing
}

// Load reads the delivery log at path. A ".zip" path is expected to contain a
// single CSV entry. Rows come back in source order with Seq assigned; no
// normalization is applied here.
func Load(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	// Hash the file for the idempotency key.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash dataset: %w", err)
	}
	hash := fmt.Sprintf("%x", h.Sum(nil))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek dataset: %w", err)
	}

	var src io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat dataset: %w", err)
		}
		zr, err := zip.NewReader(f, info.Size())
		if err != nil {
			return nil, fmt.Errorf("open zip: %w", err)
		}
		entry, err := csvEntry(zr)
		if err != nil {
			return nil, err
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}
		defer rc.Close()
		src = rc
	}

	deliveries, skipped, err := parseCSV(src)
	if err != nil {
		return nil, err
	}
	return &Result{
		Hash:       hash,
		Source:     path,
		Deliveries: deliveries,
		Skipped:    skipped,
	}, nil
}

// csvEntry picks the CSV file out of a zip archive.
func csvEntry(zr *zip.Reader) (*zip.File, error) {
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			return f, nil
		}
	}
	return nil, fmt.Errorf("zip archive contains no .csv entry")
}

// parseCSV streams the reader into deliveries. The header is validated
// against requiredColumns before any row is read; extra columns are ignored.
func parseCSV(r io.Reader) ([]model.Delivery, int, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, 0, &normalize.SchemaError{Missing: missing}
	}

	var (
		out     []model.Delivery
		skipped int
		seq     int
		line    = 1
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped++
			logrus.WithError(err).WithField("line", line).Warn("malformed CSV row, skipping")
			continue
		}

		d, err := parseRow(rec, idx)
		if err != nil {
			skipped++
			logrus.WithError(err).WithField("line", line).Warn("unparseable delivery, skipping")
			continue
		}
		d.Seq = seq
		seq++
		out = append(out, d)
	}
	return out, skipped, nil
}

func parseRow(rec []string, idx map[string]int) (model.Delivery, error) {
	get := func(col string) string { return strings.TrimSpace(rec[idx[col]]) }

	inning, err := strconv.Atoi(get("inning"))
	if err != nil {
		return model.Delivery{}, fmt.Errorf("inning: %w", err)
	}
	over, err := strconv.Atoi(get("over"))
	if err != nil {
		return model.Delivery{}, fmt.Errorf("over: %w", err)
	}
	batsmanRuns, err := strconv.Atoi(get("batsman_runs"))
	if err != nil {
		return model.Delivery{}, fmt.Errorf("batsman_runs: %w", err)
	}
	totalRuns, err := strconv.Atoi(get("total_runs"))
	if err != nil {
		return model.Delivery{}, fmt.Errorf("total_runs: %w", err)
	}
	wicket, err := parseBool(get("is_wicket"))
	if err != nil {
		return model.Delivery{}, fmt.Errorf("is_wicket: %w", err)
	}

	return model.Delivery{
		MatchID:     get("match_id"),
		Inning:      inning,
		Over:        over,
		Batter:      get("batter"),
		Bowler:      get("bowler"),
		BattingTeam: get("batting_team"),
		BowlingTeam: get("bowling_team"),
		BatsmanRuns: batsmanRuns,
		TotalRuns:   totalRuns,
		IsWicket:    wicket,
	}, nil
}

// parseBool accepts the 0/1 and true/false encodings seen across dataset
// revisions.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "0", "false", "":
		return false, nil
	case "1", "true":
		return true, nil
	}
	return false, fmt.Errorf("bad boolean %q", s)
}

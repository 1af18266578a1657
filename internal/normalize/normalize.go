// Package normalize canonicalizes a raw delivery table: franchise names are
// mapped to their current identity, and each row gains a phase and a season.
// Normalization is column-additive — it never filters or reorders rows.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tapeball/cricmetrics/internal/model"
)

// canonicalTeams maps every historical franchise name to the current name of
// that franchise lineage. Current names are absent from the map, so applying
// the map twice is a no-op.
var canonicalTeams = map[string]string{
	"Delhi Daredevils":            "Delhi Capitals",
	"Kings XI Punjab":             "Punjab Kings",
	"Deccan Chargers":             "Sunrisers Hyderabad",
	"Royal Challengers Bangalore": "Royal Challengers Bengaluru",
	"Rising Pune Supergiants":     "Rising Pune Supergiant",
	"Gujarat Lions":               "Gujarat Titans",
}

// SchemaError reports required input columns that were absent at load time.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// CanonicalTeam returns the current franchise name for any historical name.
// Unmapped names pass through unchanged. Idempotent.
func CanonicalTeam(name string) string {
	if canonical, ok := canonicalTeams[name]; ok {
		return canonical
	}
	return name
}

// PhaseFor buckets a 1-indexed over number: 1–6 Powerplay, 7–15 Middle,
// 16 and above Death (super-over deliveries land in Death).
func PhaseFor(over int) model.Phase {
	switch {
	case over <= 6:
		return model.PhasePowerplay
	case over <= 15:
		return model.PhaseMiddle
	default:
		return model.PhaseDeath
	}
}

// SeasonFor derives the season year from a match identifier whose leading
// four digits encode a plausible season year. Returns 0 when the id carries
// no parseable year; season-scoped queries must drop those rows themselves.
func SeasonFor(matchID string) int {
	if len(matchID) < 4 {
		return 0
	}
	year, err := strconv.Atoi(matchID[:4])
	if err != nil {
		return 0
	}
	if year < 2008 || year > 2100 {
		return 0
	}
	return year
}

// Normalize canonicalizes team names and fills Phase and Season on every
// delivery, in place over a copy. Output has the same row count and order as
// the input. If the dataset uses 0-indexed overs (any over 0 present) the
// whole dataset is shifted to the 1-indexed convention exactly once.
//
// A batsman_runs value outside {0,1,2,3,4,6} is a data-quality fault: the row
// is kept (it still happened) but logged and counted so the caller can report
// it alongside the dataset.
func Normalize(rows []model.Delivery) ([]model.Delivery, int) {
	out := make([]model.Delivery, len(rows))
	copy(out, rows)

	shift := 0
	for i := range out {
		if out[i].Over == 0 {
			shift = 1
			break
		}
	}
	if shift != 0 && len(out) > 0 {
		logrus.WithField("rows", len(out)).Info("0-indexed overs detected, shifting to 1-indexed")
	}

	faults := 0
	for i := range out {
		d := &out[i]
		d.Over += shift
		d.BattingTeam = CanonicalTeam(d.BattingTeam)
		d.BowlingTeam = CanonicalTeam(d.BowlingTeam)
		d.Phase = PhaseFor(d.Over)
		d.Season = SeasonFor(d.MatchID)
		if !validBatsmanRuns(d.BatsmanRuns) {
			faults++
			logrus.WithFields(logrus.Fields{
				"match": d.MatchID,
				"seq":   d.Seq,
				"runs":  d.BatsmanRuns,
			}).Warn("batsman_runs outside valid set")
		}
	}
	return out, faults
}

func validBatsmanRuns(r int) bool {
	switch r {
	case 0, 1, 2, 3, 4, 6:
		return true
	}
	return false
}

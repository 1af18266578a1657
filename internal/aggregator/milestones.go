package aggregator

import (
	"fmt"

	"github.com/tapeball/cricmetrics/internal/model"
)

// IntegrityIssue records an innings excluded from milestone output because
// its rows disagree on a value that must be constant across the innings.
type IntegrityIssue struct {
	MatchID string
	Inning  int
	Batter  string
	Detail  string
}

func (i IntegrityIssue) String() string {
	return fmt.Sprintf("%s inning %d, %s: %s", i.MatchID, i.Inning, i.Batter, i.Detail)
}

// inningsState is the running milestone scan state for one batter's innings.
type inningsState struct {
	cum       int
	balls     int
	crossedAt int // 1-based ball index of the crossing, 0 until crossed
	opponent  string
	batting   string
	tainted   string // first opponent disagreement seen, "" if clean
}

// DetectMilestones scans each batter's innings in ball order and reports
// every innings whose cumulative batter-run total reached the threshold,
// with the 1-based count of balls faced up to and including the crossing
// ball and the full innings total.
//
// Rows must be in source order: the scan is a single grouped pass, so rows
// of unrelated innings may interleave freely, but reordering within one
// innings changes the answer. An innings whose rows disagree on the
// opposition is excluded and reported as an IntegrityIssue rather than
// resolved by first-row-wins. Output order is first-seen innings order;
// rank with SortMilestones.
func DetectMilestones(rows []model.Delivery, threshold int) ([]model.Milestone, []IntegrityIssue) {
	type inningsKey struct {
		matchID string
		inning  int
		batter  string
	}

	states := make(map[inningsKey]*inningsState)
	var order []inningsKey

	for _, d := range rows {
		k := inningsKey{d.MatchID, d.Inning, d.Batter}
		st := states[k]
		if st == nil {
			st = &inningsState{opponent: d.BowlingTeam, batting: d.BattingTeam}
			states[k] = st
			order = append(order, k)
		}
		if d.BowlingTeam != st.opponent && st.tainted == "" {
			st.tainted = fmt.Sprintf("opponent %q vs %q", st.opponent, d.BowlingTeam)
		}
		st.balls++
		st.cum += d.BatsmanRuns
		if st.crossedAt == 0 && st.cum >= threshold {
			st.crossedAt = st.balls
		}
	}

	var (
		milestones []model.Milestone
		issues     []IntegrityIssue
	)
	for _, k := range order {
		st := states[k]
		if st.crossedAt == 0 {
			continue
		}
		if st.tainted != "" {
			issues = append(issues, IntegrityIssue{
				MatchID: k.matchID,
				Inning:  k.inning,
				Batter:  k.batter,
				Detail:  st.tainted,
			})
			continue
		}
		milestones = append(milestones, model.Milestone{
			Batter:      k.batter,
			MatchID:     k.matchID,
			Inning:      k.inning,
			Balls:       st.crossedAt,
			FinalScore:  st.cum,
			Opponent:    st.opponent,
			BattingTeam: st.batting,
		})
	}
	return milestones, issues
}

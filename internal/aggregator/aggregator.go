// Package aggregator computes grouped batting and bowling figures, match
// results, partnerships, and innings milestones over an immutable delivery
// table. Everything here is a pure function of its input rows; degenerate
// inputs (zero balls, zero wickets) produce defined values, never errors.
package aggregator

import (
	"sort"
	"strconv"

	"github.com/tapeball/cricmetrics/internal/model"
)

// Index holds grouped row-number views over one delivery table, built once
// at load time so per-query work never rescans the full table.
type Index struct {
	rows     []model.Delivery
	byBatter map[string][]int
	byBowler map[string][]int
	byMatch  map[string][]int
	matches  []string // match ids in first-seen (chronological) order
}

// NewIndex builds the grouped index. Row order inside every group follows
// source order, which is ball order.
func NewIndex(rows []model.Delivery) *Index {
	ix := &Index{
		rows:     rows,
		byBatter: make(map[string][]int),
		byBowler: make(map[string][]int),
		byMatch:  make(map[string][]int),
	}
	for i, d := range rows {
		ix.byBatter[d.Batter] = append(ix.byBatter[d.Batter], i)
		ix.byBowler[d.Bowler] = append(ix.byBowler[d.Bowler], i)
		if _, seen := ix.byMatch[d.MatchID]; !seen {
			ix.matches = append(ix.matches, d.MatchID)
		}
		ix.byMatch[d.MatchID] = append(ix.byMatch[d.MatchID], i)
	}
	return ix
}

// Rows returns the full table.
func (ix *Index) Rows() []model.Delivery { return ix.rows }

// Matches returns match ids in first-seen order.
func (ix *Index) Matches() []string { return ix.matches }

// Batters returns all batter names, sorted.
func (ix *Index) Batters() []string { return sortedKeys(ix.byBatter) }

// Bowlers returns all bowler names, sorted.
func (ix *Index) Bowlers() []string { return sortedKeys(ix.byBowler) }

// Batter returns the batter's deliveries in ball order.
func (ix *Index) Batter(name string) []model.Delivery { return ix.gather(ix.byBatter[name]) }

// Bowler returns the bowler's deliveries in ball order.
func (ix *Index) Bowler(name string) []model.Delivery { return ix.gather(ix.byBowler[name]) }

// Match returns one match's deliveries in ball order.
func (ix *Index) Match(id string) []model.Delivery { return ix.gather(ix.byMatch[id]) }

func (ix *Index) gather(idxs []int) []model.Delivery {
	out := make([]model.Delivery, len(idxs))
	for i, n := range idxs {
		out[i] = ix.rows[n]
	}
	return out
}

func sortedKeys(m map[string][]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ---- Row filters ----

// ByPhase keeps rows in the given phase.
func ByPhase(rows []model.Delivery, phase model.Phase) []model.Delivery {
	var out []model.Delivery
	for _, d := range rows {
		if d.Phase == phase {
			out = append(out, d)
		}
	}
	return out
}

// BySeasons keeps rows whose season is in the set. Rows with no derived
// season (0) are always dropped here — the caller asked for seasons.
func BySeasons(rows []model.Delivery, seasons map[int]bool) []model.Delivery {
	var out []model.Delivery
	for _, d := range rows {
		if d.Season != 0 && seasons[d.Season] {
			out = append(out, d)
		}
	}
	return out
}

// ---- Grouped aggregation ----

// GroupKey maps a delivery to its group.
type GroupKey func(model.Delivery) string

// Group key helpers for the common axes.
func KeyBatter(d model.Delivery) string      { return d.Batter }
func KeyBowler(d model.Delivery) string      { return d.Bowler }
func KeyPhase(d model.Delivery) string       { return d.Phase.String() }
func KeyOpponent(d model.Delivery) string    { return d.BowlingTeam }
func KeyBattingSide(d model.Delivery) string { return d.BattingTeam }

// KeySeason groups by season year; rows without one land under "?".
func KeySeason(d model.Delivery) string {
	if d.Season == 0 {
		return "?"
	}
	return strconv.Itoa(d.Season)
}

// BattingByGroup aggregates batting figures per group key, from the batter's
// side of each ball: balls faced is the plain row count regardless of extras,
// and a wicket on a batter's ball counts as that batter's dismissal. Output
// order is first-seen group order, so ranked sorts on it are deterministic.
func BattingByGroup(rows []model.Delivery, key GroupKey) []model.BattingSummary {
	byKey := make(map[string]*model.BattingSummary)
	matchSeen := make(map[string]map[string]bool)
	var order []string

	for _, d := range rows {
		k := key(d)
		s := byKey[k]
		if s == nil {
			s = &model.BattingSummary{Key: k}
			byKey[k] = s
			matchSeen[k] = make(map[string]bool)
			order = append(order, k)
		}
		s.Runs += d.BatsmanRuns
		s.Balls++
		if d.IsWicket {
			s.Dismissals++
		}
		switch d.BatsmanRuns {
		case 0:
			s.Dots++
		case 4:
			s.Fours++
		case 6:
			s.Sixes++
		}
		if !matchSeen[k][d.MatchID] {
			matchSeen[k][d.MatchID] = true
			s.Matches++
		}
	}

	out := make([]model.BattingSummary, len(order))
	for i, k := range order {
		out[i] = *byKey[k]
	}
	return out
}

// BowlingByGroup aggregates bowling figures per group key: runs conceded
// include extras (total_runs), dots count balls the batter scored nothing
// from, and every wicket on the ball is credited to the bowler.
func BowlingByGroup(rows []model.Delivery, key GroupKey) []model.BowlingSummary {
	byKey := make(map[string]*model.BowlingSummary)
	matchSeen := make(map[string]map[string]bool)
	var order []string

	for _, d := range rows {
		k := key(d)
		s := byKey[k]
		if s == nil {
			s = &model.BowlingSummary{Key: k}
			byKey[k] = s
			matchSeen[k] = make(map[string]bool)
			order = append(order, k)
		}
		s.Runs += d.TotalRuns
		s.Balls++
		if d.IsWicket {
			s.Wickets++
		}
		if d.BatsmanRuns == 0 {
			s.Dots++
		}
		if !matchSeen[k][d.MatchID] {
			matchSeen[k][d.MatchID] = true
			s.Matches++
		}
	}

	out := make([]model.BowlingSummary, len(order))
	for i, k := range order {
		out[i] = *byKey[k]
	}
	return out
}

// FilterBatting applies a minimum-sample predicate after aggregation.
// Filtering rows before aggregating would bias the denominators, so record
// views must always aggregate first and filter here.
func FilterBatting(in []model.BattingSummary, keep func(*model.BattingSummary) bool) []model.BattingSummary {
	var out []model.BattingSummary
	for i := range in {
		if keep(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

// FilterBowling is FilterBatting for bowling summaries.
func FilterBowling(in []model.BowlingSummary, keep func(*model.BowlingSummary) bool) []model.BowlingSummary {
	var out []model.BowlingSummary
	for i := range in {
		if keep(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

// ---- Ranked sorts (all stable on input order for equal keys) ----

// SortBattingByStrikeRate sorts descending by strike rate.
func SortBattingByStrikeRate(s []model.BattingSummary) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].StrikeRate() > s[j].StrikeRate()
	})
}

// SortBattingByRuns sorts descending by runs.
func SortBattingByRuns(s []model.BattingSummary) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Runs > s[j].Runs
	})
}

// SortBowlingByEconomy sorts ascending by economy (best first).
func SortBowlingByEconomy(s []model.BowlingSummary) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Economy() < s[j].Economy()
	})
}

// SortBowlingByAverage sorts ascending by bowling average. The +Inf average
// of a wicketless bowler sorts after every finite average.
func SortBowlingByAverage(s []model.BowlingSummary) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Average() < s[j].Average()
	})
}

// SortFigures ranks single-match bowling returns: wickets descending, then
// runs conceded ascending.
func SortFigures(f []model.BowlingFigures) {
	sort.SliceStable(f, func(i, j int) bool {
		if f[i].Wickets != f[j].Wickets {
			return f[i].Wickets > f[j].Wickets
		}
		return f[i].Runs < f[j].Runs
	})
}

// SortMilestones ranks milestones fastest first: balls ascending, then final
// score descending.
func SortMilestones(ms []model.Milestone) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Balls != ms[j].Balls {
			return ms[i].Balls < ms[j].Balls
		}
		return ms[i].FinalScore > ms[j].FinalScore
	})
}

// ---- Matchups ----

// Matchup computes the head-to-head record of one batter against one bowler,
// with a per-phase breakdown. Phases with no balls are absent from the map.
func Matchup(rows []model.Delivery, batter, bowler string) (model.MatchupSummary, map[model.Phase]model.MatchupSummary) {
	total := model.MatchupSummary{Batter: batter, Bowler: bowler}
	phases := make(map[model.Phase]model.MatchupSummary)

	for _, d := range rows {
		if d.Batter != batter || d.Bowler != bowler {
			continue
		}
		accumulateMatchup(&total, d)
		p := phases[d.Phase]
		p.Batter, p.Bowler = batter, bowler
		accumulateMatchup(&p, d)
		phases[d.Phase] = p
	}
	return total, phases
}

func accumulateMatchup(m *model.MatchupSummary, d model.Delivery) {
	m.Balls++
	m.Runs += d.BatsmanRuns
	if d.IsWicket {
		m.Wickets++
	}
	switch d.BatsmanRuns {
	case 0:
		m.Dots++
	case 4:
		m.Fours++
	case 6:
		m.Sixes++
	}
}

// ---- Partnerships ----

// Partnerships scans each innings in ball order tracking the active pair of
// batters. Every ball counts toward the current stand, including balls faced
// before the second batter's name is known. A wicket closes the stand and the
// surviving batter carries into the next one; a third batter appearing with
// no observed wicket (run-out of the non-striker, or a data gap) drops the
// open stand without recording. Only stands with a complete observed pair
// are emitted.
func Partnerships(rows []model.Delivery) []model.Partnership {
	type inningsKey struct {
		matchID string
		inning  int
	}
	type standState struct {
		partners []string
		runs     int
		balls    int
	}

	states := make(map[inningsKey]*standState)
	var out []model.Partnership

	for _, d := range rows {
		k := inningsKey{d.MatchID, d.Inning}
		st := states[k]
		if st == nil {
			st = &standState{}
			states[k] = st
		}

		if !contains(st.partners, d.Batter) {
			if len(st.partners) == 2 {
				// Pair changed with no wicket seen; drop the open stand.
				st.partners = nil
				st.runs, st.balls = 0, 0
			}
			st.partners = append(st.partners, d.Batter)
		}

		st.runs += d.BatsmanRuns
		st.balls++

		if !d.IsWicket {
			continue
		}
		if len(st.partners) == 2 {
			first, second := st.partners[0], st.partners[1]
			if second < first {
				first, second = second, first
			}
			out = append(out, model.Partnership{
				MatchID:     d.MatchID,
				Inning:      d.Inning,
				FirstBat:    first,
				SecondBat:   second,
				Runs:        st.runs,
				Balls:       st.balls,
				BattingTeam: d.BattingTeam,
				BowlingTeam: d.BowlingTeam,
			})
		}
		// The dismissed batter leaves; the survivor opens the next stand.
		survivor := ""
		for _, p := range st.partners {
			if p != d.Batter {
				survivor = p
			}
		}
		st.partners = st.partners[:0]
		if survivor != "" {
			st.partners = append(st.partners, survivor)
		}
		st.runs, st.balls = 0, 0
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Runs > out[j].Runs })
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// ---- Match results and team records ----

// Results reduces each match to its two innings totals, in first-seen match
// order. Matches where one side never batted are still emitted with a zero
// total for the missing side.
func Results(rows []model.Delivery) []model.MatchResult {
	type matchAccum struct {
		teams  []string // batting sides in innings order
		runs   map[string]int
		season int
	}
	accums := make(map[string]*matchAccum)
	var order []string

	for _, d := range rows {
		acc := accums[d.MatchID]
		if acc == nil {
			acc = &matchAccum{runs: make(map[string]int), season: d.Season}
			accums[d.MatchID] = acc
			order = append(order, d.MatchID)
		}
		if _, seen := acc.runs[d.BattingTeam]; !seen {
			acc.teams = append(acc.teams, d.BattingTeam)
		}
		acc.runs[d.BattingTeam] += d.TotalRuns
		// The side bowling first is known even before it bats.
		if _, seen := acc.runs[d.BowlingTeam]; !seen {
			acc.runs[d.BowlingTeam] = 0
			acc.teams = append(acc.teams, d.BowlingTeam)
		}
	}

	out := make([]model.MatchResult, 0, len(order))
	for _, id := range order {
		acc := accums[id]
		r := model.MatchResult{MatchID: id, Season: acc.season}
		if len(acc.teams) > 0 {
			r.TeamA = acc.teams[0]
			r.RunsA = acc.runs[r.TeamA]
		}
		if len(acc.teams) > 1 {
			r.TeamB = acc.teams[1]
			r.RunsB = acc.runs[r.TeamB]
		}
		out = append(out, r)
	}
	return out
}

// HeadToHeadRecord tallies wins and ties between two teams across results.
// Equal totals are a tie for both sides, never a win.
func HeadToHeadRecord(results []model.MatchResult, teamA, teamB string) model.HeadToHead {
	h := model.HeadToHead{TeamA: teamA, TeamB: teamB}
	for _, r := range results {
		if !(r.TeamA == teamA && r.TeamB == teamB) && !(r.TeamA == teamB && r.TeamB == teamA) {
			continue
		}
		h.Matches++
		switch r.Winner() {
		case teamA:
			h.WinsA++
		case teamB:
			h.WinsB++
		default:
			h.Ties++
		}
	}
	return h
}

// ---- Form trends ----

const formWindow = 5

// BattingForm returns a batter's per-match runs in chronological (first-seen
// match) order with a rolling average over the last formWindow matches.
// Pass the batter's rows only.
func BattingForm(rows []model.Delivery) []model.FormPoint {
	points := perMatchPoints(rows, func(p *model.FormPoint, d model.Delivery) {
		p.Runs += d.BatsmanRuns
		p.Balls++
		if d.IsWicket {
			p.Wickets++
		}
	})
	for i := range points {
		lo := i - formWindow + 1
		if lo < 0 {
			lo = 0
		}
		sum := 0
		for j := lo; j <= i; j++ {
			sum += points[j].Runs
		}
		points[i].Rolling = float64(sum) / float64(i-lo+1)
	}
	return points
}

// BowlingForm returns a bowler's per-match runs conceded and wickets with a
// rolling economy over the last formWindow matches. Pass the bowler's rows
// only.
func BowlingForm(rows []model.Delivery) []model.FormPoint {
	points := perMatchPoints(rows, func(p *model.FormPoint, d model.Delivery) {
		p.Runs += d.TotalRuns
		p.Balls++
		if d.IsWicket {
			p.Wickets++
		}
	})
	for i := range points {
		lo := i - formWindow + 1
		if lo < 0 {
			lo = 0
		}
		runs, balls := 0, 0
		for j := lo; j <= i; j++ {
			runs += points[j].Runs
			balls += points[j].Balls
		}
		if balls > 0 {
			points[i].Rolling = float64(runs) / (float64(balls) / 6)
		}
	}
	return points
}

func perMatchPoints(rows []model.Delivery, add func(*model.FormPoint, model.Delivery)) []model.FormPoint {
	byMatch := make(map[string]*model.FormPoint)
	var order []string
	for _, d := range rows {
		p := byMatch[d.MatchID]
		if p == nil {
			p = &model.FormPoint{MatchID: d.MatchID, Season: d.Season}
			byMatch[d.MatchID] = p
			order = append(order, d.MatchID)
		}
		add(p, d)
	}
	out := make([]model.FormPoint, len(order))
	for i, id := range order {
		out[i] = *byMatch[id]
	}
	return out
}

// ---- Single-match bowling figures ----

// BowlingFiguresByMatch builds one figures row per (bowler, match), unsorted;
// rank with SortFigures.
func BowlingFiguresByMatch(rows []model.Delivery) []model.BowlingFigures {
	type figKey struct {
		bowler  string
		matchID string
	}
	byKey := make(map[figKey]*model.BowlingFigures)
	var order []figKey

	for _, d := range rows {
		k := figKey{d.Bowler, d.MatchID}
		f := byKey[k]
		if f == nil {
			f = &model.BowlingFigures{Bowler: d.Bowler, MatchID: d.MatchID, Opponent: d.BattingTeam}
			byKey[k] = f
			order = append(order, k)
		}
		f.Runs += d.TotalRuns
		f.Balls++
		if d.IsWicket {
			f.Wickets++
		}
	}

	out := make([]model.BowlingFigures, len(order))
	for i, k := range order {
		out[i] = *byKey[k]
	}
	return out
}

package aggregator

import (
	"math"
	"testing"

	"github.com/tapeball/cricmetrics/internal/model"
)

// ball builds one delivery with sequential Seq values assigned by the caller.
func ball(seq int, matchID string, inning, over int, batter, bowler string, runs, total int, wicket bool) model.Delivery {
	phase := model.PhasePowerplay
	switch {
	case over >= 16:
		phase = model.PhaseDeath
	case over >= 7:
		phase = model.PhaseMiddle
	}
	return model.Delivery{
		Seq: seq, MatchID: matchID, Inning: inning, Over: over,
		Batter: batter, Bowler: bowler,
		BattingTeam: "Chennai Super Kings", BowlingTeam: "Mumbai Indians",
		BatsmanRuns: runs, TotalRuns: total, IsWicket: wicket,
		Phase: phase,
	}
}

// innings builds a batter's innings from per-ball run values.
func innings(matchID string, batter string, runs ...int) []model.Delivery {
	out := make([]model.Delivery, len(runs))
	for i, r := range runs {
		out[i] = ball(i, matchID, 1, 1+i/6, batter, "JJ Bumrah", r, r, false)
	}
	return out
}

// ---- Batting aggregation ----

func TestBattingByGroup_Basic(t *testing.T) {
	rows := []model.Delivery{
		ball(0, "m1", 1, 1, "A", "X", 4, 4, false),
		ball(1, "m1", 1, 1, "A", "X", 0, 1, false),
		ball(2, "m1", 1, 2, "A", "Y", 6, 6, false),
		ball(3, "m1", 1, 2, "A", "Y", 1, 1, true),
		ball(4, "m2", 1, 1, "A", "X", 2, 2, false),
	}
	sums := BattingByGroup(rows, KeyBatter)
	if len(sums) != 1 {
		t.Fatalf("expected 1 group, got %d", len(sums))
	}
	s := sums[0]
	if s.Runs != 13 || s.Balls != 5 || s.Dismissals != 1 {
		t.Errorf("runs/balls/dismissals: got %d/%d/%d", s.Runs, s.Balls, s.Dismissals)
	}
	if s.Dots != 1 || s.Fours != 1 || s.Sixes != 1 {
		t.Errorf("dots/fours/sixes: got %d/%d/%d", s.Dots, s.Fours, s.Sixes)
	}
	if s.Matches != 2 {
		t.Errorf("matches: want 2, got %d", s.Matches)
	}
	if sr := s.StrikeRate(); sr != 260 {
		t.Errorf("strike rate: want 260, got %f", sr)
	}
	if avg := s.Average(); avg != 13 {
		t.Errorf("average: want 13, got %f", avg)
	}
	if s.Boundaries() != 2 {
		t.Errorf("boundaries: want 2, got %d", s.Boundaries())
	}
	if s.Dots+s.Fours+s.Sixes > s.Balls {
		t.Error("dots+boundaries must never exceed balls faced")
	}
}

func TestBattingSummary_Degenerate(t *testing.T) {
	empty := model.BattingSummary{}
	if empty.StrikeRate() != 0 {
		t.Errorf("empty strike rate: want 0, got %f", empty.StrikeRate())
	}

	// Unbeaten batter: average reports total runs (cricket convention).
	notOut := model.BattingSummary{Runs: 87, Balls: 50}
	if notOut.Average() != 87 {
		t.Errorf("not-out average: want 87, got %f", notOut.Average())
	}
	// One dismissal: back to a true mean.
	once := model.BattingSummary{Runs: 87, Balls: 50, Dismissals: 1}
	if once.Average() != 87 {
		t.Errorf("1-dismissal average: want 87, got %f", once.Average())
	}
	twice := model.BattingSummary{Runs: 87, Balls: 50, Dismissals: 2}
	if twice.Average() != 43.5 {
		t.Errorf("2-dismissal average: want 43.5, got %f", twice.Average())
	}
}

// ---- Bowling aggregation ----

func TestBowlingByGroup_EconomyAndExtras(t *testing.T) {
	// 12 balls: one wide-laden over and one tight over.
	rows := []model.Delivery{}
	for i := 0; i < 6; i++ {
		rows = append(rows, ball(i, "m1", 1, 1, "A", "X", 1, 2, false)) // 1 off bat + 1 extra
	}
	for i := 6; i < 12; i++ {
		rows = append(rows, ball(i, "m1", 1, 2, "A", "X", 0, 0, i == 11))
	}
	sums := BowlingByGroup(rows, KeyBowler)
	if len(sums) != 1 {
		t.Fatalf("expected 1 group, got %d", len(sums))
	}
	s := sums[0]
	if s.Runs != 12 || s.Balls != 12 || s.Wickets != 1 {
		t.Errorf("runs/balls/wickets: got %d/%d/%d", s.Runs, s.Balls, s.Wickets)
	}
	if s.Dots != 6 {
		t.Errorf("dots: want 6 (batter runs zero), got %d", s.Dots)
	}
	if eco := s.Economy(); eco != 6.0 {
		t.Errorf("economy: want 6.0 (12 runs in 2 overs), got %f", eco)
	}
	if avg := s.Average(); avg != 12 {
		t.Errorf("bowling average: want 12, got %f", avg)
	}
}

func TestBowlingSummary_Degenerate(t *testing.T) {
	empty := model.BowlingSummary{}
	if empty.Economy() != 0 {
		t.Errorf("zero-ball economy: want 0, got %f", empty.Economy())
	}

	wicketless := model.BowlingSummary{Runs: 40, Balls: 24}
	if !math.IsInf(wicketless.Average(), 1) {
		t.Errorf("wicketless average: want +Inf, got %f", wicketless.Average())
	}
}

func TestSortBowlingByAverage_InfSortsLast(t *testing.T) {
	sums := []model.BowlingSummary{
		{Key: "wicketless", Runs: 10, Balls: 24},              // +Inf
		{Key: "expensive", Runs: 60, Balls: 24, Wickets: 1},   // 60
		{Key: "cheap", Runs: 20, Balls: 24, Wickets: 2},       // 10
	}
	SortBowlingByAverage(sums)
	if sums[0].Key != "cheap" || sums[1].Key != "expensive" || sums[2].Key != "wicketless" {
		t.Errorf("ascending-is-better sort wrong: %s, %s, %s", sums[0].Key, sums[1].Key, sums[2].Key)
	}
}

// ---- Post-aggregation filters ----

func TestFilterBowling_AppliedAfterAggregation(t *testing.T) {
	var rows []model.Delivery
	// Bowler "short" bowls 6 balls, bowler "long" bowls 24.
	for i := 0; i < 6; i++ {
		rows = append(rows, ball(i, "m1", 1, 1, "A", "short", 1, 1, false))
	}
	for i := 0; i < 24; i++ {
		rows = append(rows, ball(6+i, "m1", 1, 2+i/6, "A", "long", 1, 1, false))
	}
	sums := BowlingByGroup(rows, KeyBowler)
	kept := FilterBowling(sums, func(s *model.BowlingSummary) bool { return s.Balls >= 12 })
	if len(kept) != 1 || kept[0].Key != "long" {
		t.Fatalf("expected only 'long' to survive min-sample filter, got %+v", kept)
	}
	// The surviving summary must still carry its full denominator.
	if kept[0].Balls != 24 {
		t.Errorf("filter must not touch aggregated balls: got %d", kept[0].Balls)
	}
}

// ---- Tie-break stability ----

func TestSortFigures_TwoKeyStable(t *testing.T) {
	figs := []model.BowlingFigures{
		{Bowler: "first-seen", MatchID: "m1", Wickets: 3, Runs: 20},
		{Bowler: "more-wickets", MatchID: "m2", Wickets: 4, Runs: 35},
		{Bowler: "same-as-first", MatchID: "m3", Wickets: 3, Runs: 20},
		{Bowler: "cheaper", MatchID: "m4", Wickets: 3, Runs: 15},
	}
	SortFigures(figs)
	want := []string{"more-wickets", "cheaper", "first-seen", "same-as-first"}
	for i, w := range want {
		if figs[i].Bowler != w {
			t.Errorf("rank %d: want %s, got %s", i, w, figs[i].Bowler)
		}
	}
}

// ---- Milestones ----

func TestDetectMilestones_ThirteenFours(t *testing.T) {
	// 13 balls, all fours: 52 runs, fifty reached on ball 13.
	runs := make([]int, 13)
	for i := range runs {
		runs[i] = 4
	}
	rows := innings("m1", "A", runs...)

	ms, issues := DetectMilestones(rows, 50)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if len(ms) != 1 {
		t.Fatalf("expected 1 milestone, got %d", len(ms))
	}
	m := ms[0]
	if m.Balls != 13 {
		t.Errorf("balls to fifty: want 13, got %d", m.Balls)
	}
	if m.FinalScore != 52 {
		t.Errorf("final score: want 52, got %d", m.FinalScore)
	}
	if m.Opponent != "Mumbai Indians" {
		t.Errorf("opponent: got %q", m.Opponent)
	}
}

func TestDetectMilestones_ExactThreshold(t *testing.T) {
	// Reaches exactly 50 on the 9th ball: 6,6,6,6,6,6,6,6,2.
	rows := innings("m1", "A", 6, 6, 6, 6, 6, 6, 6, 6, 2, 1, 1)
	ms, _ := DetectMilestones(rows, 50)
	if len(ms) != 1 || ms[0].Balls != 9 {
		t.Fatalf("expected crossing at ball 9, got %+v", ms)
	}
	if ms[0].FinalScore != 52 {
		t.Errorf("final score: want 52, got %d", ms[0].FinalScore)
	}
}

func TestDetectMilestones_NeverReaches(t *testing.T) {
	rows := innings("m1", "A", 4, 4, 4)
	ms, _ := DetectMilestones(rows, 50)
	if len(ms) != 0 {
		t.Errorf("expected no milestone for a 12-run innings, got %+v", ms)
	}
}

func TestDetectMilestones_CenturyThreshold(t *testing.T) {
	runs := make([]int, 20)
	for i := range runs {
		runs[i] = 6 // 120 runs; century on ball 17 (96 at 16, 102 at 17)
	}
	rows := innings("m1", "A", runs...)
	ms, _ := DetectMilestones(rows, 100)
	if len(ms) != 1 || ms[0].Balls != 17 {
		t.Fatalf("expected century at ball 17, got %+v", ms)
	}
}

func TestDetectMilestones_Deterministic(t *testing.T) {
	rows := append(innings("m1", "A", 6, 6, 6, 6, 6, 6, 6, 6, 6),
		innings("m2", "B", 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4)...)
	a, _ := DetectMilestones(rows, 50)
	b, _ := DetectMilestones(rows, 50)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic lengths: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("milestone %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestDetectMilestones_InterleavedMatchesUnaffected(t *testing.T) {
	mi := innings("m1", "A", 6, 6, 6, 6, 6, 6, 6, 6, 6)
	mj := innings("m2", "B", 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4)
	// Interleave the two matches ball by ball; within-innings order intact.
	var mixed []model.Delivery
	for i := 0; i < len(mi) || i < len(mj); i++ {
		if i < len(mi) {
			mixed = append(mixed, mi[i])
		}
		if i < len(mj) {
			mixed = append(mixed, mj[i])
		}
	}

	sequential, _ := DetectMilestones(append(append([]model.Delivery{}, mi...), mj...), 50)
	interleaved, _ := DetectMilestones(mixed, 50)
	if len(sequential) != 2 || len(interleaved) != 2 {
		t.Fatalf("expected 2 milestones each: %d, %d", len(sequential), len(interleaved))
	}
	for i := range sequential {
		if sequential[i] != interleaved[i] {
			t.Errorf("interleaving unrelated matches changed result %d: %+v vs %+v",
				i, sequential[i], interleaved[i])
		}
	}
}

func TestDetectMilestones_ReorderWithinInningsChangesResult(t *testing.T) {
	// 1,1,1,1,48,4,...: crossing depends on where the 48-run stretch sits.
	rows := innings("m1", "A", 1, 1, 1, 1, 6, 6, 6, 6, 6, 6, 6, 6, 4)
	base, _ := DetectMilestones(rows, 50)
	if len(base) != 1 {
		t.Fatalf("expected baseline milestone, got %+v", base)
	}

	// Move the big hits to the front.
	shuffled := innings("m1", "A", 6, 6, 6, 6, 6, 6, 6, 6, 4, 1, 1, 1, 1)
	moved, _ := DetectMilestones(shuffled, 50)
	if len(moved) != 1 {
		t.Fatalf("expected milestone after reorder, got %+v", moved)
	}
	if moved[0].Balls == base[0].Balls {
		t.Error("reordering within one innings must change balls-to-threshold")
	}
	if moved[0].FinalScore != base[0].FinalScore {
		t.Error("reordering must not change the innings total")
	}
}

func TestDetectMilestones_OpponentMismatchFlagged(t *testing.T) {
	rows := innings("m1", "A", 6, 6, 6, 6, 6, 6, 6, 6, 6)
	rows[4].BowlingTeam = "Kolkata Knight Riders" // mid-innings disagreement

	ms, issues := DetectMilestones(rows, 50)
	if len(ms) != 0 {
		t.Errorf("tainted innings must be excluded, got %+v", ms)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 integrity issue, got %d", len(issues))
	}
	if issues[0].MatchID != "m1" || issues[0].Batter != "A" {
		t.Errorf("issue attribution wrong: %+v", issues[0])
	}
}

func TestSortMilestones_FastestFirst(t *testing.T) {
	ms := []model.Milestone{
		{Batter: "slow", Balls: 40, FinalScore: 55},
		{Batter: "fast", Balls: 18, FinalScore: 61},
		{Batter: "tied-bigger", Balls: 18, FinalScore: 80},
	}
	SortMilestones(ms)
	if ms[0].Batter != "tied-bigger" || ms[1].Batter != "fast" || ms[2].Batter != "slow" {
		t.Errorf("order: %s, %s, %s", ms[0].Batter, ms[1].Batter, ms[2].Batter)
	}
}

// ---- Matchup ----

func TestMatchup_PhaseBreakdown(t *testing.T) {
	rows := []model.Delivery{
		ball(0, "m1", 1, 2, "A", "X", 4, 4, false),   // powerplay
		ball(1, "m1", 1, 10, "A", "X", 0, 0, false),  // middle
		ball(2, "m1", 1, 18, "A", "X", 6, 6, false),  // death
		ball(3, "m1", 1, 18, "A", "X", 0, 0, true),   // death wicket
		ball(4, "m1", 1, 18, "A", "other", 6, 6, false), // different bowler, excluded
		ball(5, "m1", 1, 18, "B", "X", 6, 6, false),     // different batter, excluded
	}
	total, phases := Matchup(rows, "A", "X")
	if total.Balls != 4 || total.Runs != 10 || total.Wickets != 1 {
		t.Errorf("total: %+v", total)
	}
	if total.StrikeRate() != 250 {
		t.Errorf("strike rate: want 250, got %f", total.StrikeRate())
	}
	if total.DismissalRate() != 25 {
		t.Errorf("dismissal rate: want 25, got %f", total.DismissalRate())
	}
	death := phases[model.PhaseDeath]
	if death.Balls != 2 || death.Runs != 6 || death.Wickets != 1 {
		t.Errorf("death phase: %+v", death)
	}
	if _, ok := phases[model.PhaseMiddle]; !ok {
		t.Error("middle phase missing")
	}
}

func TestMatchup_Empty(t *testing.T) {
	total, phases := Matchup(nil, "A", "X")
	if total.Balls != 0 || total.StrikeRate() != 0 || total.DismissalRate() != 0 {
		t.Errorf("empty matchup must be all defined zeros: %+v", total)
	}
	if len(phases) != 0 {
		t.Errorf("expected no phase entries, got %d", len(phases))
	}
}

// ---- Partnerships ----

func TestPartnerships_WicketClosesStand(t *testing.T) {
	rows := []model.Delivery{
		ball(0, "m1", 1, 1, "A", "X", 4, 4, false),
		ball(1, "m1", 1, 1, "B", "X", 1, 1, false),
		ball(2, "m1", 1, 1, "A", "X", 6, 6, false),
		ball(3, "m1", 1, 2, "B", "X", 0, 0, true), // stand ends at 11
		ball(4, "m1", 1, 2, "A", "X", 1, 1, false),
		ball(5, "m1", 1, 2, "C", "X", 4, 4, false),
		ball(6, "m1", 1, 3, "C", "X", 0, 0, true), // second stand: A+C, 5 runs
	}
	ps := Partnerships(rows)
	if len(ps) != 2 {
		t.Fatalf("expected 2 partnerships, got %d: %+v", len(ps), ps)
	}
	// Sorted by runs descending.
	if ps[0].FirstBat != "A" || ps[0].SecondBat != "B" || ps[0].Runs != 11 {
		t.Errorf("top stand: %+v", ps[0])
	}
	if ps[1].FirstBat != "A" || ps[1].SecondBat != "C" || ps[1].Runs != 5 {
		t.Errorf("second stand: %+v", ps[1])
	}
}

func TestPartnerships_SeparateInnings(t *testing.T) {
	rows := []model.Delivery{
		ball(0, "m1", 1, 1, "A", "X", 4, 4, false),
		ball(1, "m1", 1, 1, "B", "X", 0, 0, true),
		ball(2, "m1", 2, 1, "C", "Y", 2, 2, false),
		ball(3, "m1", 2, 1, "D", "Y", 0, 0, true),
	}
	ps := Partnerships(rows)
	if len(ps) != 2 {
		t.Fatalf("expected one stand per innings, got %d", len(ps))
	}
	for _, p := range ps {
		if p.Inning == 0 {
			t.Errorf("inning not recorded: %+v", p)
		}
	}
}

// ---- Match results and head-to-head ----

func TestHeadToHead_TieIsNotAWin(t *testing.T) {
	rows := []model.Delivery{
		// Innings 1: CSK score 10.
		{Seq: 0, MatchID: "m1", Inning: 1, Over: 1, Batter: "A", Bowler: "X",
			BattingTeam: "Chennai Super Kings", BowlingTeam: "Mumbai Indians", BatsmanRuns: 6, TotalRuns: 6},
		{Seq: 1, MatchID: "m1", Inning: 1, Over: 1, Batter: "A", Bowler: "X",
			BattingTeam: "Chennai Super Kings", BowlingTeam: "Mumbai Indians", BatsmanRuns: 4, TotalRuns: 4},
		// Innings 2: MI score 10 as well.
		{Seq: 2, MatchID: "m1", Inning: 2, Over: 1, Batter: "B", Bowler: "Y",
			BattingTeam: "Mumbai Indians", BowlingTeam: "Chennai Super Kings", BatsmanRuns: 6, TotalRuns: 6},
		{Seq: 3, MatchID: "m1", Inning: 2, Over: 1, Batter: "B", Bowler: "Y",
			BattingTeam: "Mumbai Indians", BowlingTeam: "Chennai Super Kings", BatsmanRuns: 4, TotalRuns: 4},
	}
	results := Results(rows)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if w := results[0].Winner(); w != "" {
		t.Errorf("equal totals must be a tie, got winner %q", w)
	}

	h := HeadToHeadRecord(results, "Chennai Super Kings", "Mumbai Indians")
	if h.Matches != 1 || h.Ties != 1 || h.WinsA != 0 || h.WinsB != 0 {
		t.Errorf("head-to-head: %+v", h)
	}
}

func TestHeadToHead_CountsBothDirections(t *testing.T) {
	results := []model.MatchResult{
		{MatchID: "m1", TeamA: "Chennai Super Kings", RunsA: 180, TeamB: "Mumbai Indians", RunsB: 170},
		{MatchID: "m2", TeamA: "Mumbai Indians", RunsA: 160, TeamB: "Chennai Super Kings", RunsB: 150},
		{MatchID: "m3", TeamA: "Mumbai Indians", RunsA: 160, TeamB: "Delhi Capitals", RunsB: 150}, // unrelated
	}
	h := HeadToHeadRecord(results, "Chennai Super Kings", "Mumbai Indians")
	if h.Matches != 2 || h.WinsA != 1 || h.WinsB != 1 || h.Ties != 0 {
		t.Errorf("head-to-head: %+v", h)
	}
}

// ---- Form ----

func TestBattingForm_RollingAverage(t *testing.T) {
	var rows []model.Delivery
	scores := []int{10, 20, 30, 40, 50, 60}
	for i, score := range scores {
		m := string(rune('a' + i))
		rows = append(rows, innings("m"+m, "A", score)...)
	}
	points := BattingForm(rows)
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0].Rolling != 10 {
		t.Errorf("first rolling: want 10, got %f", points[0].Rolling)
	}
	// Point 5 covers matches 1..5: (20+30+40+50+60)/5 = 40.
	if points[5].Rolling != 40 {
		t.Errorf("last rolling: want 40, got %f", points[5].Rolling)
	}
}

func TestBowlingForm_RollingEconomy(t *testing.T) {
	var rows []model.Delivery
	// Two matches: 12 runs in 6 balls, then 6 runs in 6 balls.
	for i := 0; i < 6; i++ {
		rows = append(rows, ball(i, "m1", 1, 1, "A", "X", 2, 2, false))
	}
	for i := 0; i < 6; i++ {
		rows = append(rows, ball(6+i, "m2", 1, 1, "A", "X", 1, 1, false))
	}
	points := BowlingForm(rows)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Rolling != 12 {
		t.Errorf("first rolling economy: want 12, got %f", points[0].Rolling)
	}
	if points[1].Rolling != 9 { // 18 runs in 2 overs
		t.Errorf("second rolling economy: want 9, got %f", points[1].Rolling)
	}
}

// ---- Index ----

func TestIndex_Views(t *testing.T) {
	rows := []model.Delivery{
		ball(0, "m1", 1, 1, "A", "X", 4, 4, false),
		ball(1, "m1", 1, 1, "B", "X", 1, 1, false),
		ball(2, "m2", 1, 1, "A", "Y", 6, 6, false),
	}
	ix := NewIndex(rows)

	if got := ix.Rows(); len(got) != 3 || got[0].Seq != 0 {
		t.Errorf("Rows view wrong: %+v", got)
	}
	if got := ix.Batter("A"); len(got) != 2 || got[0].Seq != 0 || got[1].Seq != 2 {
		t.Errorf("Batter view wrong: %+v", got)
	}
	if got := ix.Bowler("X"); len(got) != 2 {
		t.Errorf("Bowler view wrong: %+v", got)
	}
	if got := ix.Match("m2"); len(got) != 1 || got[0].Batter != "A" {
		t.Errorf("Match view wrong: %+v", got)
	}
	if ms := ix.Matches(); len(ms) != 2 || ms[0] != "m1" || ms[1] != "m2" {
		t.Errorf("Matches order wrong: %v", ms)
	}
	if bs := ix.Batters(); len(bs) != 2 || bs[0] != "A" {
		t.Errorf("Batters wrong: %v", bs)
	}
}

// ---- Filters ----

func TestBySeasons_DropsNullSeason(t *testing.T) {
	rows := []model.Delivery{
		{MatchID: "2020001", Season: 2020},
		{MatchID: "2021001", Season: 2021},
		{MatchID: "335982", Season: 0}, // no derivable season
	}
	out := BySeasons(rows, map[int]bool{2020: true, 2021: true})
	if len(out) != 2 {
		t.Errorf("null-season rows must be dropped under a season filter, got %d rows", len(out))
	}
}

func TestByPhase(t *testing.T) {
	rows := []model.Delivery{
		{Phase: model.PhasePowerplay},
		{Phase: model.PhaseDeath},
		{Phase: model.PhaseDeath},
	}
	if got := ByPhase(rows, model.PhaseDeath); len(got) != 2 {
		t.Errorf("expected 2 death-phase rows, got %d", len(got))
	}
}

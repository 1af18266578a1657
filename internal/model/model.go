package model

import "math"

// Phase is the standard T20 phase bucket for an over.
type Phase int

const (
	PhaseUnknown   Phase = 0
	PhasePowerplay Phase = 1
	PhaseMiddle    Phase = 2
	PhaseDeath     Phase = 3
)

func (p Phase) String() string {
	switch p {
	case PhasePowerplay:
		return "Powerplay"
	case PhaseMiddle:
		return "Middle"
	case PhaseDeath:
		return "Death"
	default:
		return "?"
	}
}

// Phases lists the three buckets in innings order.
var Phases = []Phase{PhasePowerplay, PhaseMiddle, PhaseDeath}

// ---- Raw rows produced by the loader ----

// Delivery is one ball of the delivery log. Seq is the source row index;
// within a (MatchID, Inning) pair ascending Seq is ball order and must never
// be disturbed before cumulative-sum work.
type Delivery struct {
	Seq         int
	MatchID     string
	Inning      int
	Over        int // 1-indexed, 1–20 for a regular innings
	Batter      string
	Bowler      string
	BattingTeam string
	BowlingTeam string
	BatsmanRuns int
	TotalRuns   int
	IsWicket    bool

	// Derived by the normalizer.
	Phase  Phase
	Season int // 0 when the match id carries no parseable year
}

// ---- Aggregated metrics ----

// BattingSummary holds grouped batting figures for one group key
// (a batter, a phase, an opposition — whatever the caller grouped by).
type BattingSummary struct {
	Key        string
	Runs       int
	Balls      int
	Dismissals int
	Dots       int
	Fours      int
	Sixes      int
	Matches    int
}

// StrikeRate is runs per 100 balls. Zero balls is a defined 0, not NaN.
func (s *BattingSummary) StrikeRate() float64 {
	if s.Balls == 0 {
		return 0
	}
	return float64(s.Runs) / float64(s.Balls) * 100
}

// Average reports runs per dismissal. By cricket convention an undismissed
// batter's average is their run total; the discontinuity going from
// 0 dismissals to 1 is intentional and documented.
func (s *BattingSummary) Average() float64 {
	if s.Dismissals == 0 {
		return float64(s.Runs)
	}
	return float64(s.Runs) / float64(s.Dismissals)
}

// Boundaries is fours plus sixes.
func (s *BattingSummary) Boundaries() int {
	return s.Fours + s.Sixes
}

// BowlingSummary holds grouped bowling figures for one group key.
type BowlingSummary struct {
	Key     string
	Runs    int // runs conceded, extras included
	Balls   int
	Wickets int
	Dots    int
	Matches int
}

// Overs is balls/6 as a fraction.
func (s *BowlingSummary) Overs() float64 {
	return float64(s.Balls) / 6
}

// Economy is runs conceded per over. Zero balls is a defined 0.
func (s *BowlingSummary) Economy() float64 {
	if s.Balls == 0 {
		return 0
	}
	return float64(s.Runs) / s.Overs()
}

// Average is runs conceded per wicket. A wicketless bowler's average is
// +Inf so it compares worse than any finite average in an ascending sort.
func (s *BowlingSummary) Average() float64 {
	if s.Wickets == 0 {
		return math.Inf(1)
	}
	return float64(s.Runs) / float64(s.Wickets)
}

// Milestone is one innings in which a batter's cumulative score crossed a
// threshold. Balls is the 1-based count of balls faced up to and including
// the crossing ball; FinalScore is the full innings total.
type Milestone struct {
	Batter      string
	MatchID     string
	Inning      int
	Balls       int
	FinalScore  int
	Opponent    string
	BattingTeam string
}

// MatchupSummary is the head-to-head record of one batter against one bowler.
type MatchupSummary struct {
	Batter  string
	Bowler  string
	Balls   int
	Runs    int
	Wickets int
	Dots    int
	Fours   int
	Sixes   int
}

func (m *MatchupSummary) StrikeRate() float64 {
	if m.Balls == 0 {
		return 0
	}
	return float64(m.Runs) / float64(m.Balls) * 100
}

// DismissalRate is dismissals per 100 balls of the matchup.
func (m *MatchupSummary) DismissalRate() float64 {
	if m.Balls == 0 {
		return 0
	}
	return float64(m.Wickets) / float64(m.Balls) * 100
}

// Partnership is a two-batter stand ended by a wicket.
type Partnership struct {
	MatchID     string
	Inning      int
	FirstBat    string // pair in lexical order
	SecondBat   string
	Runs        int
	Balls       int
	BattingTeam string
	BowlingTeam string
}

// MatchResult is one match reduced to the two innings totals.
type MatchResult struct {
	MatchID string
	Season  int
	TeamA   string
	RunsA   int
	TeamB   string
	RunsB   int
}

// Winner returns the winning team name, or "" for a tie.
func (r *MatchResult) Winner() string {
	switch {
	case r.RunsA > r.RunsB:
		return r.TeamA
	case r.RunsB > r.RunsA:
		return r.TeamB
	default:
		return ""
	}
}

// HeadToHead is the all-time record between two teams.
type HeadToHead struct {
	TeamA   string
	TeamB   string
	Matches int
	WinsA   int
	WinsB   int
	Ties    int
}

// FormPoint is one match in a player's chronological trend.
type FormPoint struct {
	MatchID string
	Season  int
	Runs    int // batter: runs scored; bowler: runs conceded
	Balls   int
	Wickets int
	Rolling float64 // 5-match rolling run average, or rolling economy
}

// BowlingFigures is a bowler's single-match return, ranked by wickets
// descending then runs ascending.
type BowlingFigures struct {
	Bowler   string
	MatchID  string
	Wickets  int
	Runs     int
	Balls    int
	Opponent string
}

// DatasetSummary describes one loaded delivery log. SkippedRows counts rows
// the parser dropped; FaultRows counts rows kept despite an out-of-range
// batsman_runs value.
type DatasetSummary struct {
	Hash        string
	Source      string
	LoadedAt    string
	Deliveries  int
	Matches     int
	SeasonMin   int
	SeasonMax   int
	SkippedRows int
	FaultRows   int
}

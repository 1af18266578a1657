package normalize

import (
	"testing"

	"github.com/tapeball/cricmetrics/internal/model"
)

func TestCanonicalTeam_Idempotent(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Deccan Chargers", "Sunrisers Hyderabad"},
		{"Delhi Daredevils", "Delhi Capitals"},
		{"Kings XI Punjab", "Punjab Kings"},
		{"Royal Challengers Bangalore", "Royal Challengers Bengaluru"},
		{"Rising Pune Supergiants", "Rising Pune Supergiant"},
		{"Chennai Super Kings", "Chennai Super Kings"}, // unmapped passes through
	}
	for _, c := range cases {
		got := CanonicalTeam(c.in)
		if got != c.want {
			t.Errorf("CanonicalTeam(%q): want %q, got %q", c.in, c.want, got)
		}
		if again := CanonicalTeam(got); again != got {
			t.Errorf("CanonicalTeam not idempotent: %q → %q → %q", c.in, got, again)
		}
	}
}

func TestPhaseFor_Boundaries(t *testing.T) {
	cases := []struct {
		over int
		want model.Phase
	}{
		{1, model.PhasePowerplay},
		{6, model.PhasePowerplay},
		{7, model.PhaseMiddle},
		{15, model.PhaseMiddle},
		{16, model.PhaseDeath},
		{20, model.PhaseDeath},
		{21, model.PhaseDeath}, // super over
	}
	for _, c := range cases {
		if got := PhaseFor(c.over); got != c.want {
			t.Errorf("PhaseFor(%d): want %v, got %v", c.over, c.want, got)
		}
	}
}

func TestSeasonFor(t *testing.T) {
	cases := []struct {
		id   string
		want int
	}{
		{"2024001", 2024},
		{"20160042", 2016},
		{"335982", 0},  // no year prefix
		{"abc2020", 0}, // year not leading
		{"99", 0},      // too short
	}
	for _, c := range cases {
		if got := SeasonFor(c.id); got != c.want {
			t.Errorf("SeasonFor(%q): want %d, got %d", c.id, c.want, got)
		}
	}
}

func TestNormalize_PreservesOrderAndCount(t *testing.T) {
	rows := []model.Delivery{
		{Seq: 0, MatchID: "2020001", Over: 1, Batter: "A", BattingTeam: "Deccan Chargers", BowlingTeam: "Delhi Daredevils", BatsmanRuns: 4},
		{Seq: 1, MatchID: "2020001", Over: 16, Batter: "B", BattingTeam: "Deccan Chargers", BowlingTeam: "Delhi Daredevils", BatsmanRuns: 0},
	}
	out, faults := Normalize(rows)
	if faults != 0 {
		t.Errorf("expected 0 faults, got %d", faults)
	}
	if len(out) != len(rows) {
		t.Fatalf("row count changed: %d → %d", len(rows), len(out))
	}
	for i := range out {
		if out[i].Seq != rows[i].Seq {
			t.Errorf("row %d reordered: seq %d", i, out[i].Seq)
		}
	}
	if out[0].BattingTeam != "Sunrisers Hyderabad" || out[0].BowlingTeam != "Delhi Capitals" {
		t.Errorf("teams not canonicalized: %+v", out[0])
	}
	if out[0].Phase != model.PhasePowerplay || out[1].Phase != model.PhaseDeath {
		t.Errorf("phases wrong: %v, %v", out[0].Phase, out[1].Phase)
	}
	if out[0].Season != 2020 {
		t.Errorf("season: want 2020, got %d", out[0].Season)
	}
	// Input slice must be untouched.
	if rows[0].BattingTeam != "Deccan Chargers" {
		t.Error("Normalize mutated its input")
	}
}

func TestNormalize_ZeroIndexedOvers(t *testing.T) {
	rows := []model.Delivery{
		{MatchID: "m1", Over: 0, BatsmanRuns: 1},
		{MatchID: "m1", Over: 19, BatsmanRuns: 1},
	}
	out, _ := Normalize(rows)
	if out[0].Over != 1 || out[1].Over != 20 {
		t.Errorf("expected overs shifted to 1/20, got %d/%d", out[0].Over, out[1].Over)
	}
	if out[0].Phase != model.PhasePowerplay || out[1].Phase != model.PhaseDeath {
		t.Errorf("phases after shift: %v, %v", out[0].Phase, out[1].Phase)
	}
}

func TestNormalize_CountsInvalidRuns(t *testing.T) {
	rows := []model.Delivery{
		{MatchID: "m1", Over: 3, BatsmanRuns: 5}, // never 5 in valid data
		{MatchID: "m1", Over: 3, BatsmanRuns: 6},
		{MatchID: "m1", Over: 3, BatsmanRuns: -1},
	}
	out, faults := Normalize(rows)
	if faults != 2 {
		t.Errorf("expected 2 faults, got %d", faults)
	}
	if len(out) != 3 {
		t.Errorf("faulty rows must be kept, got %d rows", len(out))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	rows := []model.Delivery{
		{Seq: 0, MatchID: "2019007", Over: 2, BattingTeam: "Deccan Chargers", BowlingTeam: "Mumbai Indians", BatsmanRuns: 4},
	}
	once, _ := Normalize(rows)
	twice, _ := Normalize(once)
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("row %d: normalize(normalize(x)) != normalize(x): %+v vs %+v", i, once[i], twice[i])
		}
	}
}

package cmd

// Minimum sample sizes for ranked views. Small samples produce headline
// numbers no one should act on, so record views filter after aggregating.
const (
	minBatterBalls  = 30
	minBowlerBalls  = 120 // 20 overs
	minPhaseMatches = 5
)

// top truncates a ranked slice.
func top[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

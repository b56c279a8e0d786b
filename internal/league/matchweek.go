package league

import (
	"sort"
)

// SortByDate orders matches by season, date, home team and away team.
// The sort is stable so fully equal keys keep their input order.
func SortByDate(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Home != b.Home {
			return a.Home < b.Home
		}
		return a.Away < b.Away
	})
}

// AssignMatchweeks reconstructs round-robin rounds from dated fixtures.
// It returns a sorted copy of matches with Matchweek set; the input is
// left untouched.
//
// Each match lands in the earliest of the season's 38 rounds in which
// neither side has played yet. When no round is free the match is put in
// round 38, so malformed or oversized seasons can end up with a team
// playing twice in the last round.
func AssignMatchweeks(matches []Match) []Match {
	out := make([]Match, len(matches))
	copy(out, matches)
	SortByDate(out)

	var (
		season string
		rounds []map[string]bool
	)
	for i := range out {
		m := &out[i]
		if rounds == nil || m.Season != season {
			season = m.Season
			rounds = newRounds()
		}
		m.Matchweek = scheduleInto(rounds, m.Home, m.Away)
	}
	return out
}

func newRounds() []map[string]bool {
	rounds := make([]map[string]bool, MaxMatchweeks)
	for i := range rounds {
		rounds[i] = make(map[string]bool)
	}
	return rounds
}

// scheduleInto marks home and away as busy in the first free round and
// returns its 1-based number.
func scheduleInto(rounds []map[string]bool, home, away string) int {
	for r, busy := range rounds {
		if busy[home] || busy[away] {
			continue
		}
		busy[home] = true
		busy[away] = true
		return r + 1
	}
	return MaxMatchweeks
}

package league

import "sort"

// seasonAccumulator folds one season's matches, in matchweek order, into
// cumulative stats for every team.
type seasonAccumulator struct {
	season  string
	team    string
	stats   map[string]*TeamStats
	week    int
	started bool
}

func newSeasonAccumulator(season, team string) *seasonAccumulator {
	return &seasonAccumulator{
		season: season,
		team:   team,
		stats:  make(map[string]*TeamStats),
	}
}

// step applies m. If m opens a new matchweek, the standing at the end of
// the previous one is returned first.
func (a *seasonAccumulator) step(m Match) (Standing, bool) {
	var (
		closed Standing
		ok     bool
	)
	if a.started && m.Matchweek != a.week {
		closed, ok = a.snapshot(a.week)
	}
	ApplyMatch(a.stats, m)
	a.week = m.Matchweek
	a.started = true
	return closed, ok
}

// snapshot ranks the whole league as it stands and reports the tracked
// team's row. It reports false until the tracked team has played.
func (a *seasonAccumulator) snapshot(week int) (Standing, bool) {
	s, ok := a.stats[a.team]
	if !ok {
		return Standing{}, false
	}
	pos, ok := Position(BuildTable(snapshotStats(a.stats)), a.team)
	if !ok {
		return Standing{}, false
	}
	return Standing{
		Season:         a.season,
		Matchweek:      week,
		Position:       &pos,
		Points:         s.Points,
		GoalDifference: s.GoalDiff(),
	}, true
}

// flush emits the last matchweek, which no later match closes.
func (a *seasonAccumulator) flush() (Standing, bool) {
	if !a.started {
		return Standing{}, false
	}
	return a.snapshot(a.week)
}

// SortByMatchweek orders matches by season, matchweek, date, home and away.
func SortByMatchweek(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Matchweek != b.Matchweek {
			return a.Matchweek < b.Matchweek
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

// ReconstructStandings replays every season match by match and records
// team's league position, points and goal difference at the end of each
// matchweek. matches must already carry matchweeks. Seasons team never
// played in produce no rows.
func ReconstructStandings(matches []Match, team string) []Standing {
	ordered := make([]Match, len(matches))
	copy(ordered, matches)
	SortByMatchweek(ordered)

	var (
		out []Standing
		acc *seasonAccumulator
	)
	for _, m := range ordered {
		if acc == nil || acc.season != m.Season {
			if acc != nil {
				if s, ok := acc.flush(); ok {
					out = append(out, s)
				}
			}
			acc = newSeasonAccumulator(m.Season, team)
		}
		if s, ok := acc.step(m); ok {
			out = append(out, s)
		}
	}
	if acc != nil {
		if s, ok := acc.flush(); ok {
			out = append(out, s)
		}
	}
	return out
}

func sortStandings(rows []Standing) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Season != rows[j].Season {
			return rows[i].Season < rows[j].Season
		}
		return rows[i].Matchweek < rows[j].Matchweek
	})
}

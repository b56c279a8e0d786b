package league

import (
	"fmt"
	"io"
	"sort"
)

// Points awarded per result.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// Add records one match to the team's cumulative stats.
func (s *TeamStats) Add(goalsFor, goalsAgainst int) {
	s.Played++
	s.GoalsFor += goalsFor
	s.GoalsAgainst += goalsAgainst
	switch {
	case goalsFor > goalsAgainst:
		s.Won++
		s.Points += PointsWin
	case goalsFor == goalsAgainst:
		s.Drawn++
		s.Points += PointsDraw
	default:
		s.Lost++
	}
}

// ApplyMatch updates both sides of m in stats, creating entries as needed.
func ApplyMatch(stats map[string]*TeamStats, m Match) {
	for _, team := range []string{m.Home, m.Away} {
		if _, ok := stats[team]; !ok {
			stats[team] = &TeamStats{}
		}
	}
	stats[m.Home].Add(m.HomeGoals, m.AwayGoals)
	stats[m.Away].Add(m.AwayGoals, m.HomeGoals)
}

// BuildTable ranks teams by points, goal difference and goals scored, all
// descending, then by name. Positions are 1-based and never shared. An
// empty map yields a nil table.
func BuildTable(stats map[string]TeamStats) []TableEntry {
	if len(stats) == 0 {
		return nil
	}
	entries := make([]TableEntry, 0, len(stats))
	for team, s := range stats {
		entries = append(entries, TableEntry{
			Team:         team,
			Played:       s.Played,
			Wins:         s.Won,
			Draws:        s.Drawn,
			Losses:       s.Lost,
			GoalsFor:     s.GoalsFor,
			GoalsAgainst: s.GoalsAgainst,
			GoalDiff:     s.GoalDiff(),
			Points:       s.Points,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team < b.Team
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// Position returns team's rank in table, or false if it is not listed.
func Position(table []TableEntry, team string) (int, bool) {
	for _, e := range table {
		if e.Team == team {
			return e.Position, true
		}
	}
	return 0, false
}

// TableAt rebuilds the full league table of season after the given
// matchweek. matches must already carry matchweeks.
func TableAt(matches []Match, season string, matchweek int) []TableEntry {
	stats := make(map[string]*TeamStats)
	for _, m := range matches {
		if m.Season != season || m.Matchweek > matchweek {
			continue
		}
		ApplyMatch(stats, m)
	}
	return BuildTable(snapshotStats(stats))
}

func snapshotStats(stats map[string]*TeamStats) map[string]TeamStats {
	out := make(map[string]TeamStats, len(stats))
	for team, s := range stats {
		out[team] = *s
	}
	return out
}

// PrintTable writes a fixed-width rendering of table to w.
func PrintTable(w io.Writer, label string, table []TableEntry) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%3s %-24s %2s %2s %2s %2s %3s %3s %4s %3s\n",
		"Pos", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"); err != nil {
		return err
	}
	for _, entry := range table {
		if _, err := fmt.Fprintf(w, "%3d %-24s %2d %2d %2d %2d %3d %3d %+4d %3d\n",
			entry.Position,
			entry.Team,
			entry.Played,
			entry.Wins,
			entry.Draws,
			entry.Losses,
			entry.GoalsFor,
			entry.GoalsAgainst,
			entry.GoalDiff,
			entry.Points,
		); err != nil {
			return err
		}
	}
	return nil
}

package league

// History is the output of one pipeline run.
type History struct {
	// Assigned is the full-league history with matchweeks set, sorted.
	Assigned []Match
	// Records is the enriched standings history.
	Records []Record
	// Skipped lists current-season labels that were ignored because the
	// full-league history already covers them.
	Skipped []string
}

// Build produces the enriched standings history for team.
//
// history holds full-league results; matchweeks are reconstructed and the
// table is replayed to find team's position. current holds seasons where
// only team's own fixtures are known and may be nil. Build is pure: equal
// inputs give equal output.
func Build(history, current []Match, team string) []Record {
	return BuildHistory(history, current, team).Records
}

// BuildHistory is Build keeping the intermediate matchweek assignment.
// Current-season matches whose season already appears in history are
// dropped: the full-league data wins.
func BuildHistory(history, current []Match, team string) History {
	assigned := AssignMatchweeks(history)
	standings := ReconstructStandings(assigned, team)
	games := EnrichGames(assigned, team)

	known := make(map[string]bool)
	for _, m := range assigned {
		known[SeasonKey(m.Season)] = true
	}
	var (
		kept    []Match
		skipped []string
		seen    = make(map[string]bool)
	)
	for _, m := range current {
		key := SeasonKey(m.Season)
		if !known[key] {
			kept = append(kept, m)
			continue
		}
		if !seen[key] {
			seen[key] = true
			skipped = append(skipped, m.Season)
		}
	}

	if len(kept) > 0 {
		s, g := DegradedSeason(kept, team)
		standings = append(standings, s...)
		games = append(games, g...)
	}
	return History{
		Assigned: assigned,
		Records:  Merge(standings, games),
		Skipped:  skipped,
	}
}

// SeasonKey returns the normalised form of label, or label itself when it
// is not a recognisable season.
func SeasonKey(label string) string {
	if s, err := ParseSeason(label); err == nil {
		return s
	}
	return label
}

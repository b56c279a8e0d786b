package league

// Merge left-joins games onto standings by season and matchweek. Standings
// with no game keep a nil Game. If a matchweek has several games (only
// possible with clamped, malformed input) the first one wins. The result is
// ordered by season then matchweek.
func Merge(standings []Standing, games []GameRow) []Record {
	byWeek := make(map[weekKey]Game, len(games))
	for _, g := range games {
		k := weekKey{g.Season, g.Matchweek}
		if _, dup := byWeek[k]; dup {
			continue
		}
		byWeek[k] = g.Game
	}

	rows := make([]Standing, len(standings))
	copy(rows, standings)
	sortStandings(rows)

	out := make([]Record, 0, len(rows))
	for _, s := range rows {
		r := Record{Standing: s}
		if g, ok := byWeek[weekKey{s.Season, s.Matchweek}]; ok {
			g := g
			r.Game = &g
		}
		out = append(out, r)
	}
	return out
}

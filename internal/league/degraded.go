package league

// DegradedSeason handles a season where only team's own fixtures are known.
// Matchweeks are numbered 1, 2, 3, ... per season in date order, position
// is always unavailable and half-time scores are ignored, so every game's
// lead status is LeadUnknown.
func DegradedSeason(matches []Match, team string) ([]Standing, []GameRow) {
	var own []Match
	for _, m := range matches {
		if m.Involves(team) {
			own = append(own, m)
		}
	}
	SortByDate(own)

	var (
		standings []Standing
		games     []GameRow
		season    string
		week      int
		stats     TeamStats
	)
	for i, m := range own {
		if i == 0 || m.Season != season {
			season, week, stats = m.Season, 0, TeamStats{}
		}
		week++
		m.Matchweek = week
		m.HalfTime = nil

		g := GameFor(m, team)
		stats.Add(g.GoalsFor, g.GoalsAgainst)
		standings = append(standings, Standing{
			Season:         season,
			Matchweek:      week,
			Points:         stats.Points,
			GoalDifference: stats.GoalDiff(),
		})
		games = append(games, GameRow{Season: season, Matchweek: week, Game: g})
	}
	return standings, games
}

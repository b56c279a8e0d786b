package league

// ResultFor classifies a scoreline from the scoring side's point of view.
func ResultFor(goalsFor, goalsAgainst int) Result {
	switch {
	case goalsFor > goalsAgainst:
		return Win
	case goalsFor == goalsAgainst:
		return Draw
	default:
		return Loss
	}
}

// GameFor derives the tracked team's view of m. m must involve team.
func GameFor(m Match, team string) Game {
	isHome := m.Home == team
	gf, ga, opp := m.HomeGoals, m.AwayGoals, m.Away
	if !isHome {
		gf, ga, opp = m.AwayGoals, m.HomeGoals, m.Home
	}
	g := Game{
		Result:       ResultFor(gf, ga),
		Opponent:     opp,
		IsHome:       isHome,
		GoalsFor:     gf,
		GoalsAgainst: ga,
		MatchGD:      gf - ga,
	}
	g.Lead = leadStatus(m.HalfTime, isHome, g.Result)
	g.DroppedFromLead = g.Lead == LeadDropped
	return g
}

func leadStatus(ht *HalfTime, isHome bool, result Result) LeadStatus {
	if ht == nil {
		return LeadUnknown
	}
	hf, ha := ht.HomeGoals, ht.AwayGoals
	if !isHome {
		hf, ha = ha, hf
	}
	switch {
	case hf <= ha:
		return LeadNone
	case result == Win:
		return LeadHeld
	default:
		return LeadDropped
	}
}

// EnrichGames returns one row per match involving team, in input order.
// matches must already carry matchweeks.
func EnrichGames(matches []Match, team string) []GameRow {
	var out []GameRow
	for _, m := range matches {
		if !m.Involves(team) {
			continue
		}
		out = append(out, GameRow{
			Season:    m.Season,
			Matchweek: m.Matchweek,
			Game:      GameFor(m, team),
		})
	}
	return out
}

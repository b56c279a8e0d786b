package league

import (
	"math"
	"math/rand"
	"time"
)

// Fixture is an unplayed pairing within a generated round.
type Fixture struct {
	Home, Away string
}

// GenerateSchedule returns a single round-robin for the provided teams using
// the circle method. With an odd number of teams one side sits out each
// round.
func GenerateSchedule(teams []string) [][]Fixture {
	if len(teams) < 2 {
		return nil
	}
	slots := make([]string, len(teams))
	copy(slots, teams)
	// An empty name stands for the bye.
	if len(slots)%2 != 0 {
		slots = append(slots, "")
	}
	n := len(slots)

	rounds := make([][]Fixture, n-1)
	for i := 0; i < n-1; i++ {
		round := make([]Fixture, 0, n/2)
		for j := 0; j < n/2; j++ {
			home, away := slots[j], slots[n-1-j]
			if home == "" || away == "" {
				continue
			}
			// alternate so no team is always at home
			if i%2 == 1 && j == 0 {
				home, away = away, home
			}
			round = append(round, Fixture{Home: home, Away: away})
		}
		rounds[i] = round

		// rotate every slot except the first
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}
	return rounds
}

// GenerateFullSeason returns a double round-robin: the single schedule
// followed by the same rounds with home and away swapped.
func GenerateFullSeason(teams []string) [][]Fixture {
	firstHalf := GenerateSchedule(teams)
	secondHalf := make([][]Fixture, len(firstHalf))
	for i, rnd := range firstHalf {
		swapped := make([]Fixture, len(rnd))
		for j, f := range rnd {
			swapped[j] = Fixture{Home: f.Away, Away: f.Home}
		}
		secondHalf[i] = swapped
	}
	return append(firstHalf, secondHalf...)
}

// GenerateSeason lays a double round-robin out one round per week from
// start. With a nil rng every match ends 0-0 and has no half-time score;
// otherwise scores are simulated.
func GenerateSeason(season string, teams []string, start time.Time, rng *rand.Rand) []Match {
	var matches []Match
	for r, round := range GenerateFullSeason(teams) {
		date := start.AddDate(0, 0, 7*r)
		for _, f := range round {
			m := Match{Season: season, Date: date, Home: f.Home, Away: f.Away}
			if rng != nil {
				SimulateMatch(&m, rng)
			}
			matches = append(matches, m)
		}
	}
	return matches
}

// Mean goals per half for each side.
const (
	homeGoalsPerHalf = 0.8
	awayGoalsPerHalf = 0.65
)

// SimulateMatch fills in a random half-time and full-time score.
func SimulateMatch(m *Match, rng *rand.Rand) {
	htHome := samplePoisson(rng, homeGoalsPerHalf)
	htAway := samplePoisson(rng, awayGoalsPerHalf)
	m.HalfTime = &HalfTime{HomeGoals: htHome, AwayGoals: htAway}
	m.HomeGoals = htHome + samplePoisson(rng, homeGoalsPerHalf)
	m.AwayGoals = htAway + samplePoisson(rng, awayGoalsPerHalf)
}

// samplePoisson draws from a Poisson distribution with mean lambda.
func samplePoisson(rng *rand.Rand, lambda float64) int {
	l := math.Exp(-lambda)
	p := 1.0
	k := 0
	for p > l {
		k++
		p *= rng.Float64()
	}
	return k - 1
}

package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameFor_DroppedHalfTimeLeadAtHome(t *testing.T) {
	m := match("2023/24", 0, "Arsenal", "Chelsea", 1, 1)
	m.HalfTime = &HalfTime{HomeGoals: 1, AwayGoals: 0}

	g := GameFor(m, "Arsenal")
	assert.Equal(t, Draw, g.Result)
	assert.True(t, g.DroppedFromLead)
	assert.Equal(t, LeadDropped, g.Lead)
	assert.Equal(t, "Chelsea", g.Opponent)
	assert.True(t, g.IsHome)
	assert.Equal(t, 0, g.MatchGD)
}

func TestGameFor_AwaySide(t *testing.T) {
	m := match("2023/24", 0, "Spurs", "Arsenal", 2, 1)
	m.HalfTime = &HalfTime{HomeGoals: 0, AwayGoals: 1}

	g := GameFor(m, "Arsenal")
	assert.Equal(t, Loss, g.Result)
	assert.True(t, g.DroppedFromLead)
	assert.False(t, g.IsHome)
	assert.Equal(t, "Spurs", g.Opponent)
	assert.Equal(t, 1, g.GoalsFor)
	assert.Equal(t, 2, g.GoalsAgainst)
	assert.Equal(t, -1, g.MatchGD)

	// Spurs trailed at the break, so nothing was dropped from their side.
	assert.Equal(t, LeadNone, GameFor(m, "Spurs").Lead)
}

func TestGameFor_LeadStatus(t *testing.T) {
	tests := []struct {
		name   string
		ht     *HalfTime
		hg, ag int
		want   LeadStatus
	}{
		{"held", &HalfTime{HomeGoals: 2}, 3, 1, LeadHeld},
		{"level at break", &HalfTime{HomeGoals: 1, AwayGoals: 1}, 1, 2, LeadNone},
		{"behind at break", &HalfTime{AwayGoals: 1}, 0, 1, LeadNone},
		{"lost after leading", &HalfTime{HomeGoals: 1}, 1, 2, LeadDropped},
		{"no half-time data", nil, 1, 1, LeadUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := match("2023/24", 0, "A", "B", tt.hg, tt.ag)
			m.HalfTime = tt.ht
			g := GameFor(m, "A")
			assert.Equal(t, tt.want, g.Lead)
			assert.Equal(t, tt.want == LeadDropped, g.DroppedFromLead)
			if g.DroppedFromLead {
				assert.NotEqual(t, Win, g.Result)
			}
		})
	}
}

func TestEnrichGames_ThreeTeamsNoDroppedLeadForA(t *testing.T) {
	rows := EnrichGames(AssignMatchweeks(threeTeamSeason()), "A")
	require.Len(t, rows, 2)

	dropped := 0
	for _, r := range rows {
		if r.Game.DroppedFromLead {
			dropped++
		}
	}
	assert.Zero(t, dropped)
	assert.Equal(t, 1, rows[0].Matchweek)
	assert.Equal(t, Win, rows[0].Game.Result)
	assert.Equal(t, LeadHeld, rows[0].Game.Lead)
	assert.Equal(t, 3, rows[1].Matchweek)
	assert.Equal(t, Draw, rows[1].Game.Result)
	assert.False(t, rows[1].Game.IsHome)
}

func TestResultFor(t *testing.T) {
	assert.Equal(t, Win, ResultFor(1, 0))
	assert.Equal(t, Draw, ResultFor(2, 2))
	assert.Equal(t, Loss, ResultFor(0, 3))
}

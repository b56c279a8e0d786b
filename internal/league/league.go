package league

import "time"

// MaxMatchweeks is the number of rounds in a 20-team double round-robin.
const MaxMatchweeks = 38

// HalfTime holds the score at the interval.
type HalfTime struct {
	HomeGoals int
	AwayGoals int
}

// Match is a played fixture. Matchweek is zero until assigned.
type Match struct {
	Season    string
	Date      time.Time
	Home      string
	Away      string
	HomeGoals int
	AwayGoals int
	HalfTime  *HalfTime
	Matchweek int
}

// Involves reports whether team played in the match.
func (m Match) Involves(team string) bool {
	return m.Home == team || m.Away == team
}

// TeamStats is a team's cumulative record within one season.
type TeamStats struct {
	Played, Won, Drawn, Lost int
	GoalsFor, GoalsAgainst   int
	Points                   int
}

// GoalDiff returns goals for minus goals against.
func (s TeamStats) GoalDiff() int {
	return s.GoalsFor - s.GoalsAgainst
}

// TableEntry holds the standings info for one team.
type TableEntry struct {
	Position     int    `json:"position"`
	Team         string `json:"team"`
	Played       int    `json:"played"`
	Wins         int    `json:"won"`
	Draws        int    `json:"drawn"`
	Losses       int    `json:"lost"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	GoalDiff     int    `json:"goalDiff"`
	Points       int    `json:"points"`
}

// Result is a match outcome from the tracked team's side.
type Result string

const (
	Win  Result = "Win"
	Draw Result = "Draw"
	Loss Result = "Loss"
)

// LeadStatus separates "did not drop a lead" from "no half-time data".
type LeadStatus string

const (
	LeadNone    LeadStatus = "none"    // not ahead at half-time
	LeadHeld    LeadStatus = "held"    // ahead at half-time and won
	LeadDropped LeadStatus = "dropped" // ahead at half-time, drew or lost
	LeadUnknown LeadStatus = "unknown" // half-time score not available
)

// Standing is the tracked team's position at the end of a matchweek.
// Position is nil when the full league table could not be built.
type Standing struct {
	Season         string `json:"season"`
	Matchweek      int    `json:"matchweek"`
	Position       *int   `json:"position"`
	Points         int    `json:"points"`
	GoalDifference int    `json:"goalDifference"`
}

// Game holds per-match facts for the tracked team.
type Game struct {
	Result          Result     `json:"result"`
	DroppedFromLead bool       `json:"droppedFromLead"`
	Lead            LeadStatus `json:"halfTimeLead"`
	Opponent        string     `json:"opponent"`
	IsHome          bool       `json:"isHome"`
	GoalsFor        int        `json:"goalsFor"`
	GoalsAgainst    int        `json:"goalsAgainst"`
	MatchGD         int        `json:"matchGD"`
}

// GameRow keys a Game by the season and matchweek it was played in.
type GameRow struct {
	Season    string
	Matchweek int
	Game      Game
}

// Record is one enriched row of output: a standing joined with the game
// played in that matchweek. Game is nil when no game matched.
type Record struct {
	Standing
	*Game
}

type weekKey struct {
	season    string
	matchweek int
}

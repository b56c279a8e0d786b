package league

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TitlePacePoints is the benchmark points total of a title-winning season.
const TitlePacePoints = 97

// TitlePace is the points a title-pace side has after matchweek mw,
// rounded to one decimal place.
func TitlePace(mw int) float64 {
	return math.Round(float64(TitlePacePoints)/MaxMatchweeks*float64(mw)*10) / 10
}

// SeasonSummary condenses one season of records.
type SeasonSummary struct {
	Season         string  `json:"season"`
	Matchweek      int     `json:"matchweek"`
	Position       *int    `json:"position"`
	Points         int     `json:"points"`
	GoalDifference int     `json:"goalDifference"`
	Won            int     `json:"won"`
	Drawn          int     `json:"drawn"`
	Lost           int     `json:"lost"`
	DroppedLeads   int     `json:"droppedLeads"`
	PointsDropped  int     `json:"pointsDroppedFromLeads"`
	HalfTimeKnown  bool    `json:"halfTimeKnown"`
	TitlePaceGap   float64 `json:"titlePaceGap"`
}

// Summarize returns one summary per season, in the order seasons first
// appear in records. Final values come from each season's highest
// matchweek.
func Summarize(records []Record) []SeasonSummary {
	var (
		out   []SeasonSummary
		index = make(map[string]int)
	)
	for _, r := range records {
		i, ok := index[r.Season]
		if !ok {
			i = len(out)
			index[r.Season] = i
			out = append(out, SeasonSummary{Season: r.Season})
		}
		s := &out[i]
		if r.Matchweek >= s.Matchweek {
			s.Matchweek = r.Matchweek
			s.Position = r.Position
			s.Points = r.Points
			s.GoalDifference = r.GoalDifference
		}
		if r.Game == nil {
			continue
		}
		switch r.Result {
		case Win:
			s.Won++
		case Draw:
			s.Drawn++
		case Loss:
			s.Lost++
		}
		if r.Lead != LeadUnknown {
			s.HalfTimeKnown = true
		}
		if r.DroppedFromLead {
			s.DroppedLeads++
			if r.Result == Draw {
				s.PointsDropped += PointsWin - PointsDraw
			} else {
				s.PointsDropped += PointsWin
			}
		}
	}
	for i := range out {
		s := &out[i]
		s.TitlePaceGap = math.Round((float64(s.Points)-TitlePace(s.Matchweek))*10) / 10
	}
	return out
}

// ParseSeason normalises a season label to the "2003/04" form. It accepts
// "/" or "-" separators and a two or four digit second year.
func ParseSeason(label string) (string, error) {
	s := strings.TrimSpace(label)
	if len(s) < 7 || (s[4] != '/' && s[4] != '-') {
		return "", fmt.Errorf("invalid season %q", label)
	}
	first, err := strconv.Atoi(s[:4])
	if err != nil {
		return "", fmt.Errorf("invalid season %q: %w", label, err)
	}
	rest := s[5:]
	switch len(rest) {
	case 2, 4:
	default:
		return "", fmt.Errorf("invalid season %q", label)
	}
	second, err := strconv.Atoi(rest)
	if err != nil {
		return "", fmt.Errorf("invalid season %q: %w", label, err)
	}
	if (len(rest) == 4 && second != first+1) || (len(rest) == 2 && second != (first+1)%100) {
		return "", fmt.Errorf("invalid season %q: years are not consecutive", label)
	}
	return fmt.Sprintf("%04d/%02d", first, (first+1)%100), nil
}

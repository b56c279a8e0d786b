// Package ingest loads match results from football-data style CSV files.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/utakatalp/standings-history/internal/league"
)

// Column names of the input files.
const (
	ColSeason     = "Season"
	ColDate       = "MatchDate"
	ColHome       = "HomeTeam"
	ColAway       = "AwayTeam"
	ColHomeGoals  = "FullTimeHomeGoals"
	ColAwayGoals  = "FullTimeAwayGoals"
	ColHTHomeGoal = "HalfTimeHomeGoals"
	ColHTAwayGoal = "HalfTimeAwayGoals"
)

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformedRow is returned when a cell cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/06",
}

// Options controls how rows are read.
type Options struct {
	// DefaultSeason labels rows when the file has no Season column. When
	// empty the column is required.
	DefaultSeason string
}

// LoadHistory reads the full-league results file. Any bad row fails the
// whole load.
func LoadHistory(path string) ([]league.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()
	return ReadMatches(f, path, Options{})
}

// LoadCurrent reads the tracked-team-only file for the in-progress season.
// A missing file is not an error: it returns nil matches.
func LoadCurrent(path, season string) ([]league.Match, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening current season file: %w", err)
	}
	defer f.Close()
	matches, err := ReadMatches(f, path, Options{DefaultSeason: season})
	if err != nil {
		return nil, err
	}
	// half-time scores are never used for this season
	for i := range matches {
		matches[i].HalfTime = nil
	}
	return matches, nil
}

// ReadMatches parses CSV rows with a header line. name is used in errors.
func ReadMatches(r io.Reader, name string, opts Options) ([]league.Match, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", name, err)
	}
	cols, err := indexColumns(headers, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var matches []league.Match
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", name, ErrMalformedRow, err)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}
		m, err := cols.parse(record, opts)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

type columns map[string]int

func indexColumns(headers []string, opts Options) (columns, error) {
	cols := make(columns, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff") // BOM
		}
		cols[h] = i
	}
	required := []string{ColDate, ColHome, ColAway, ColHomeGoals, ColAwayGoals}
	if opts.DefaultSeason == "" {
		required = append(required, ColSeason)
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}
	return cols, nil
}

func (c columns) get(record []string, col string) (string, bool) {
	i, ok := c[col]
	if !ok || i >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[i]), true
}

func (c columns) parse(record []string, opts Options) (league.Match, error) {
	var m league.Match

	m.Season, _ = c.get(record, ColSeason)
	if m.Season == "" {
		m.Season = opts.DefaultSeason
	}
	if m.Season == "" {
		return m, fmt.Errorf("%w: %s is empty", ErrMalformedRow, ColSeason)
	}
	m.Season = league.SeasonKey(m.Season)

	raw, _ := c.get(record, ColDate)
	date, err := ParseDate(raw)
	if err != nil {
		return m, fmt.Errorf("%w: %s: %v", ErrMalformedRow, ColDate, err)
	}
	m.Date = date

	m.Home, _ = c.get(record, ColHome)
	m.Away, _ = c.get(record, ColAway)
	if m.Home == "" || m.Away == "" {
		return m, fmt.Errorf("%w: team name is empty", ErrMalformedRow)
	}

	if m.HomeGoals, err = c.goals(record, ColHomeGoals); err != nil {
		return m, err
	}
	if m.AwayGoals, err = c.goals(record, ColAwayGoals); err != nil {
		return m, err
	}

	htHome, okHome := c.get(record, ColHTHomeGoal)
	htAway, okAway := c.get(record, ColHTAwayGoal)
	if okHome && okAway && htHome != "" && htAway != "" {
		ht := &league.HalfTime{}
		if ht.HomeGoals, err = c.goals(record, ColHTHomeGoal); err != nil {
			return m, err
		}
		if ht.AwayGoals, err = c.goals(record, ColHTAwayGoal); err != nil {
			return m, err
		}
		m.HalfTime = ht
	}
	return m, nil
}

func (c columns) goals(record []string, col string) (int, error) {
	raw, _ := c.get(record, col)
	// pandas writes integer columns with NaNs as floats
	raw = strings.TrimSuffix(raw, ".0")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a number", ErrMalformedRow, col, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s: negative goals %d", ErrMalformedRow, col, n)
	}
	return n, nil
}

// ParseDate accepts the date layouts found in football results files.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteMatches writes matches in the same layout ReadMatches accepts.
func WriteMatches(w io.Writer, matches []league.Match) error {
	cw := csv.NewWriter(w)
	header := []string{
		ColSeason, ColDate, ColHome, ColAway,
		ColHomeGoals, ColAwayGoals, ColHTHomeGoal, ColHTAwayGoal,
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, m := range matches {
		row := []string{
			m.Season,
			m.Date.Format("2006-01-02"),
			m.Home,
			m.Away,
			strconv.Itoa(m.HomeGoals),
			strconv.Itoa(m.AwayGoals),
			"",
			"",
		}
		if m.HalfTime != nil {
			row[6] = strconv.Itoa(m.HalfTime.HomeGoals)
			row[7] = strconv.Itoa(m.HalfTime.AwayGoals)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing match: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Package report renders enriched standings records for consumers of the
// engine: CSV for the dashboard, JSON for the API, and a plain text table.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/utakatalp/standings-history/internal/league"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Columns is the output schema, in order.
var Columns = []string{
	"Season", "Matchweek", "Position", "Points", "GoalDifference",
	"Result", "DroppedFromLead", "Opponent", "IsHome",
	"GoalsFor", "GoalsAgainst", "MatchGD", "HalfTimeLead",
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format Format, records []league.Record) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatText:
		return WriteText(w, records)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Row flattens a record into the cells of Columns. Unavailable values are
// empty strings.
func Row(r league.Record) []string {
	row := make([]string, len(Columns))
	row[0] = r.Season
	row[1] = strconv.Itoa(r.Matchweek)
	if r.Position != nil {
		row[2] = strconv.Itoa(*r.Position)
	}
	row[3] = strconv.Itoa(r.Points)
	row[4] = strconv.Itoa(r.GoalDifference)
	if g := r.Game; g != nil {
		row[5] = string(g.Result)
		row[6] = strconv.FormatBool(g.DroppedFromLead)
		row[7] = g.Opponent
		row[8] = strconv.FormatBool(g.IsHome)
		row[9] = strconv.Itoa(g.GoalsFor)
		row[10] = strconv.Itoa(g.GoalsAgainst)
		row[11] = strconv.Itoa(g.MatchGD)
		row[12] = string(g.Lead)
	}
	return row
}

// WriteCSV writes a header line followed by one line per record.
func WriteCSV(w io.Writer, records []league.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("writing record %s/%d: %w", r.Season, r.Matchweek, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []league.Record) error {
	if records == nil {
		records = []league.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteText writes an aligned table for terminals.
func WriteText(w io.Writer, records []league.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range Columns {
		sep := "\t"
		if i == len(Columns)-1 {
			sep = "\n"
		}
		fmt.Fprint(tw, c, sep)
	}
	for _, r := range records {
		for i, cell := range Row(r) {
			if cell == "" {
				cell = "-"
			}
			sep := "\t"
			if i == len(Columns)-1 {
				sep = "\n"
			}
			fmt.Fprint(tw, cell, sep)
		}
	}
	return tw.Flush()
}

// WriteSummaries writes one line per season summary.
func WriteSummaries(w io.Writer, summaries []league.SeasonSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Season\tMW\tPos\tPts\tGD\tW\tD\tL\tDroppedLeads\tPtsDropped\tVsTitlePace")
	for _, s := range summaries {
		pos := "-"
		if s.Position != nil {
			pos = strconv.Itoa(*s.Position)
		}
		dropped, lost := "-", "-"
		if s.HalfTimeKnown {
			dropped, lost = strconv.Itoa(s.DroppedLeads), strconv.Itoa(s.PointsDropped)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%+d\t%d\t%d\t%d\t%s\t%s\t%+.1f\n",
			s.Season, s.Matchweek, pos, s.Points, s.GoalDifference,
			s.Won, s.Drawn, s.Lost, dropped, lost, s.TitlePaceGap)
	}
	return tw.Flush()
}

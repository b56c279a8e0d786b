package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/utakatalp/standings-history/internal/league"
)

// ErrNoRuns is returned when no run has been saved for a team.
var ErrNoRuns = errors.New("no saved runs")

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists pipeline runs in Postgres or SQLite.
type Store struct {
	DB     *sql.DB
	driver string
	logger *logrus.Logger
}

// Run describes one saved pipeline result.
type Run struct {
	ID        string
	Team      string
	CreatedAt time.Time
	Records   int
}

// NewStore opens a connection. driver is "postgres" or "sqlite".
func NewStore(driver, dsn string, logger *logrus.Logger) (*Store, error) {
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	logger.WithField("driver", driver).Debug("database connection established")
	return &Store{DB: db, driver: driver, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// rebind turns ? placeholders into $n for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         TEXT    PRIMARY KEY,
			team       TEXT    NOT NULL,
			created_at TEXT    NOT NULL,
			records    INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id            TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			season            TEXT    NOT NULL,
			matchweek         INTEGER NOT NULL,
			position          INTEGER,
			points            INTEGER NOT NULL,
			goal_difference   INTEGER NOT NULL,
			result            TEXT,
			dropped_from_lead BOOLEAN,
			half_time_lead    TEXT,
			opponent          TEXT,
			is_home           BOOLEAN,
			goals_for         INTEGER,
			goals_against     INTEGER,
			match_gd          INTEGER,
			PRIMARY KEY (run_id, season, matchweek)
		)`,
		`CREATE INDEX IF NOT EXISTS runs_team_created ON runs (team, created_at)`,
	}
	for _, q := range queries {
		if _, err := s.DB.Exec(q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// SaveRun stores records for team in one transaction and returns the new
// run's ID.
func (s *Store) SaveRun(team string, records []league.Record) (string, error) {
	id := uuid.NewString()
	created := time.Now().UTC().Format(timeLayout)

	tx, err := s.DB.Begin()
	if err != nil {
		return "", fmt.Errorf("begin SaveRun tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		s.rebind(`INSERT INTO runs (id, team, created_at, records) VALUES (?, ?, ?, ?)`),
		id, team, created, len(records),
	); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.Prepare(s.rebind(`
		INSERT INTO records (
			run_id, season, matchweek, position, points, goal_difference,
			result, dropped_from_lead, half_time_lead, opponent, is_home,
			goals_for, goals_against, match_gd
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return "", fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var (
			position                        sql.NullInt64
			result, lead, opponent          sql.NullString
			dropped, isHome                 sql.NullBool
			goalsFor, goalsAgainst, matchGD sql.NullInt64
		)
		if r.Position != nil {
			position = sql.NullInt64{Int64: int64(*r.Position), Valid: true}
		}
		if g := r.Game; g != nil {
			result = sql.NullString{String: string(g.Result), Valid: true}
			lead = sql.NullString{String: string(g.Lead), Valid: true}
			opponent = sql.NullString{String: g.Opponent, Valid: true}
			dropped = sql.NullBool{Bool: g.DroppedFromLead, Valid: true}
			isHome = sql.NullBool{Bool: g.IsHome, Valid: true}
			goalsFor = sql.NullInt64{Int64: int64(g.GoalsFor), Valid: true}
			goalsAgainst = sql.NullInt64{Int64: int64(g.GoalsAgainst), Valid: true}
			matchGD = sql.NullInt64{Int64: int64(g.MatchGD), Valid: true}
		}
		if _, err := stmt.Exec(
			id, r.Season, r.Matchweek, position, r.Points, r.GoalDifference,
			result, dropped, lead, opponent, isHome,
			goalsFor, goalsAgainst, matchGD,
		); err != nil {
			return "", fmt.Errorf("inserting record %s/%d: %w", r.Season, r.Matchweek, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit SaveRun tx: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"run":     id,
		"team":    team,
		"records": len(records),
	}).Info("saved run")
	return id, nil
}

// LatestRun returns the most recently saved run for team.
func (s *Store) LatestRun(team string) (Run, error) {
	var (
		run     Run
		created string
	)
	err := s.DB.QueryRow(s.rebind(`
		SELECT id, team, created_at, records
		FROM runs
		WHERE team = ?
		ORDER BY created_at DESC
		LIMIT 1`), team).Scan(&run.ID, &run.Team, &created, &run.Records)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w for %s", ErrNoRuns, team)
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying latest run: %w", err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Run{}, fmt.Errorf("parsing run time %q: %w", created, err)
	}
	return run, nil
}

// LoadRun fetches a run's records ordered by season and matchweek.
func (s *Store) LoadRun(runID string) ([]league.Record, error) {
	const q = `
	SELECT
	  season, matchweek, position, points, goal_difference,
	  result, dropped_from_lead, half_time_lead, opponent, is_home,
	  goals_for, goals_against, match_gd
	FROM records
	WHERE run_id = ?
	ORDER BY season, matchweek
	`
	rows, err := s.DB.Query(s.rebind(q), runID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []league.Record
	for rows.Next() {
		var (
			r                               league.Record
			position                        sql.NullInt64
			result, lead, opponent          sql.NullString
			dropped, isHome                 sql.NullBool
			goalsFor, goalsAgainst, matchGD sql.NullInt64
		)
		if err := rows.Scan(
			&r.Season, &r.Matchweek, &position, &r.Points, &r.GoalDifference,
			&result, &dropped, &lead, &opponent, &isHome,
			&goalsFor, &goalsAgainst, &matchGD,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if position.Valid {
			p := int(position.Int64)
			r.Position = &p
		}
		if result.Valid {
			r.Game = &league.Game{
				Result:          league.Result(result.String),
				DroppedFromLead: dropped.Bool,
				Lead:            league.LeadStatus(lead.String),
				Opponent:        opponent.String,
				IsHome:          isHome.Bool,
				GoalsFor:        int(goalsFor.Int64),
				GoalsAgainst:    int(goalsAgainst.Int64),
				MatchGD:         int(matchGD.Int64),
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// DeleteAllRuns removes every saved run and its records.
func (s *Store) DeleteAllRuns() error {
	if _, err := s.DB.Exec(`DELETE FROM records`); err != nil {
		return fmt.Errorf("deleting all records: %w", err)
	}
	if _, err := s.DB.Exec(`DELETE FROM runs`); err != nil {
		return fmt.Errorf("deleting all runs: %w", err)
	}
	return nil
}

// Package service runs the standings pipeline over the configured input
// files and caches the result until one of the files changes.
package service

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/utakatalp/standings-history/internal/config"
	"github.com/utakatalp/standings-history/internal/ingest"
	"github.com/utakatalp/standings-history/internal/league"
	"github.com/utakatalp/standings-history/internal/store"
)

var (
	// ErrUnknownSeason is returned for a season absent from the output.
	ErrUnknownSeason = errors.New("unknown season")
	// ErrNoTable is returned when a league table cannot be rebuilt, as for
	// the current season where only the tracked team's fixtures are known.
	ErrNoTable = errors.New("league table not available")
)

type fileStamp struct {
	size    int64
	modTime int64
	exists  bool
}

type cacheKey struct {
	history, current fileStamp
}

type result struct {
	assigned []league.Match
	records  []league.Record
}

// Service owns the cached pipeline output.
type Service struct {
	cfg    *config.Config
	logger *logrus.Logger

	mu     sync.Mutex
	key    cacheKey
	cached *result
}

// New returns a Service reading the files named in cfg.
func New(cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

// Team is the tracked team.
func (s *Service) Team() string {
	return s.cfg.Team
}

func stat(path string) (fileStamp, error) {
	if path == "" {
		return fileStamp{}, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fileStamp{}, nil
	}
	if err != nil {
		return fileStamp{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return fileStamp{size: info.Size(), modTime: info.ModTime().UnixNano(), exists: true}, nil
}

func (s *Service) load() (*result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		key cacheKey
		err error
	)
	if key.history, err = stat(s.cfg.HistoryPath); err != nil {
		return nil, err
	}
	if key.current, err = stat(s.cfg.CurrentPath); err != nil {
		return nil, err
	}
	if s.cached != nil && key == s.key {
		return s.cached, nil
	}

	start := time.Now()
	history, err := ingest.LoadHistory(s.cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	current, err := ingest.LoadCurrent(s.cfg.CurrentPath, s.cfg.CurrentSeason)
	if err != nil {
		return nil, fmt.Errorf("loading current season: %w", err)
	}
	if s.cfg.CurrentPath != "" && !key.current.exists {
		s.logger.WithField("path", s.cfg.CurrentPath).Info("current season file not found, using history only")
	}

	built := league.BuildHistory(history, current, s.cfg.Team)
	for _, season := range built.Skipped {
		s.logger.WithFields(logrus.Fields{
			"path":   s.cfg.CurrentPath,
			"season": season,
		}).Warn("current season already in history, ignoring current season file rows")
	}
	res := &result{assigned: built.Assigned, records: built.Records}
	s.logger.WithFields(logrus.Fields{
		"team":    s.cfg.Team,
		"matches": len(history) + len(current),
		"records": len(res.records),
		"elapsed": time.Since(start).String(),
	}).Info("built standings history")

	s.key, s.cached = key, res
	return res, nil
}

// Records returns the full enriched history. Callers must not modify it.
func (s *Service) Records() ([]league.Record, error) {
	res, err := s.load()
	if err != nil {
		return nil, err
	}
	return res.records, nil
}

// Season returns the records of one season. label may use any form
// league.ParseSeason accepts.
func (s *Service) Season(label string) ([]league.Record, error) {
	res, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []league.Record
	for _, r := range res.records {
		if sameSeason(r.Season, label) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w %q", ErrUnknownSeason, label)
	}
	return out, nil
}

// Summaries returns one summary per season.
func (s *Service) Summaries() ([]league.SeasonSummary, error) {
	res, err := s.load()
	if err != nil {
		return nil, err
	}
	return league.Summarize(res.records), nil
}

// Table rebuilds the league table of a historical season after matchweek.
// A matchweek of zero or less means the season's last one.
func (s *Service) Table(label string, matchweek int) ([]league.TableEntry, error) {
	res, err := s.load()
	if err != nil {
		return nil, err
	}
	season, last := "", 0
	for _, m := range res.assigned {
		if !sameSeason(m.Season, label) {
			continue
		}
		season = m.Season
		if m.Matchweek > last {
			last = m.Matchweek
		}
	}
	if season == "" {
		for _, r := range res.records {
			if sameSeason(r.Season, label) {
				return nil, fmt.Errorf("%w for %q", ErrNoTable, label)
			}
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownSeason, label)
	}
	if matchweek <= 0 || matchweek > last {
		matchweek = last
	}
	return league.TableAt(res.assigned, season, matchweek), nil
}

// Persist saves the current records as a new run and returns its ID.
func (s *Service) Persist(st *store.Store) (string, error) {
	records, err := s.Records()
	if err != nil {
		return "", err
	}
	id, err := st.SaveRun(s.cfg.Team, records)
	if err != nil {
		return "", fmt.Errorf("persisting run: %w", err)
	}
	return id, nil
}

func sameSeason(season, label string) bool {
	return league.SeasonKey(season) == league.SeasonKey(label)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utakatalp/standings-history/internal/league"
	"github.com/utakatalp/standings-history/internal/service"
)

type fakeSource struct {
	records []league.Record
	err     error

	gotSeason    string
	gotMatchweek int
}

func (f *fakeSource) Team() string { return "Arsenal" }

func (f *fakeSource) Records() ([]league.Record, error) { return f.records, f.err }

func (f *fakeSource) Season(label string) ([]league.Record, error) {
	f.gotSeason = label
	if f.err != nil {
		return nil, f.err
	}
	season, err := league.ParseSeason(label)
	if err != nil {
		return nil, service.ErrUnknownSeason
	}
	var out []league.Record
	for _, r := range f.records {
		if r.Season == season {
			out = append(out, r)
		}
	}
	if out == nil {
		return nil, service.ErrUnknownSeason
	}
	return out, nil
}

func (f *fakeSource) Summaries() ([]league.SeasonSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return league.Summarize(f.records), nil
}

func (f *fakeSource) Table(season string, matchweek int) ([]league.TableEntry, error) {
	f.gotSeason, f.gotMatchweek = season, matchweek
	if f.err != nil {
		return nil, f.err
	}
	if season == "2025/26" {
		return nil, service.ErrNoTable
	}
	return []league.TableEntry{
		{Position: 1, Team: "Arsenal", Played: 1, Wins: 1, GoalsFor: 2, GoalDiff: 2, Points: 3},
		{Position: 2, Team: "Everton", Played: 1, Losses: 1, GoalsAgainst: 2, GoalDiff: -2},
	}, nil
}

func newFake() *fakeSource {
	one := 1
	return &fakeSource{records: []league.Record{
		{
			Standing: league.Standing{Season: "2003/04", Matchweek: 1, Position: &one, Points: 3, GoalDifference: 2},
			Game: &league.Game{
				Result: league.Win, Lead: league.LeadHeld, Opponent: "Everton",
				IsHome: true, GoalsFor: 2, MatchGD: 2,
			},
		},
		{
			Standing: league.Standing{Season: "2003/04", Matchweek: 2, Position: &one, Points: 3, GoalDifference: 2},
		},
		{
			Standing: league.Standing{Season: "2025/26", Matchweek: 1, Points: 1},
			Game: &league.Game{
				Result: league.Draw, Lead: league.LeadUnknown, Opponent: "Leeds",
				GoalsFor: 1, GoalsAgainst: 1,
			},
		},
	}}
}

func serve(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func newHandler(src Source) (*Handler, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewHandler(src, logger), hook
}

func TestHealth(t *testing.T) {
	h, hook := newHandler(newFake())
	rec, body := serve(t, h.Router(), "/api/v1/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Arsenal", body["team"])

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "handled request", hook.LastEntry().Message)
	assert.Equal(t, http.StatusOK, hook.LastEntry().Data["status"])
}

func TestRecords(t *testing.T) {
	h, _ := newHandler(newFake())

	rec, body := serve(t, h.Router(), "/api/v1/records")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, body["count"])

	records := body["records"].([]any)
	first := records[0].(map[string]any)
	assert.Equal(t, "2003/04", first["season"])
	assert.Equal(t, "Win", first["result"])
	assert.Equal(t, "held", first["halfTimeLead"])
	assert.NotContains(t, records[1].(map[string]any), "opponent")

	rec, body = serve(t, h.Router(), "/api/v1/records?season=2025-26")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])
}

func TestSeasons(t *testing.T) {
	h, _ := newHandler(newFake())
	rec, body := serve(t, h.Router(), "/api/v1/seasons")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])
	seasons := body["seasons"].([]any)
	assert.Equal(t, "2003/04", seasons[0].(map[string]any)["season"])
}

func TestSeason_PathForms(t *testing.T) {
	fake := newFake()
	h, _ := newHandler(fake)

	rec, body := serve(t, h.Router(), "/api/v1/seasons/2003-04")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])

	rec, body = serve(t, h.Router(), "/api/v1/seasons/2003%2F04")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2003/04", fake.gotSeason)
	assert.EqualValues(t, 2, body["count"])

	rec, body = serve(t, h.Router(), "/api/v1/seasons/1990-91")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "unknown season")
}

func TestTable(t *testing.T) {
	fake := newFake()
	h, _ := newHandler(fake)

	rec, body := serve(t, h.Router(), "/api/v1/seasons/2003-04/table?matchweek=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2003/04", body["season"])
	assert.Equal(t, 1, fake.gotMatchweek)
	table := body["table"].([]any)
	require.Len(t, table, 2)
	assert.Equal(t, "Arsenal", table[0].(map[string]any)["team"])

	_, _ = serve(t, h.Router(), "/api/v1/seasons/2003-04/table")
	assert.Equal(t, 0, fake.gotMatchweek)

	rec, _ = serve(t, h.Router(), "/api/v1/seasons/2003-04/table?matchweek=x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, h.Router(), "/api/v1/seasons/2003-04/table?matchweek=39")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, h.Router(), "/api/v1/seasons/2025%2F26/table")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInternalErrorIsLogged(t *testing.T) {
	fake := newFake()
	fake.err = errors.New("history file vanished")
	h, hook := newHandler(fake)

	rec, body := serve(t, h.Router(), "/api/v1/records")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "history file vanished", body["error"])

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Message == "request failed" {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestWithCORS(t *testing.T) {
	h, _ := newHandler(newFake())
	handler := h.WithCORS([]string{"https://dash.example"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://dash.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://dash.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewServer(t *testing.T) {
	srv := NewServer(":0", http.NotFoundHandler())
	assert.Equal(t, ":0", srv.Addr)
	assert.NotZero(t, srv.ReadHeaderTimeout)
}

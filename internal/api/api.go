// Package api serves the standings history over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/utakatalp/standings-history/internal/league"
	"github.com/utakatalp/standings-history/internal/service"
)

// Source is what the handlers read from. *service.Service implements it.
type Source interface {
	Team() string
	Records() ([]league.Record, error)
	Season(label string) ([]league.Record, error)
	Summaries() ([]league.SeasonSummary, error)
	Table(season string, matchweek int) ([]league.TableEntry, error)
}

// Handler handles HTTP requests for the standings history.
type Handler struct {
	src    Source
	logger *logrus.Logger
}

// NewHandler creates a new API handler.
func NewHandler(src Source, logger *logrus.Logger) *Handler {
	return &Handler{src: src, logger: logger}
}

// Router configures the HTTP routes.
func (h *Handler) Router() *mux.Router {
	// season labels may arrive as 2003%2F04
	r := mux.NewRouter().UseEncodedPath()
	r.Use(h.logRequests)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/records", h.handleRecords).Methods(http.MethodGet)
	api.HandleFunc("/seasons", h.handleSeasons).Methods(http.MethodGet)
	api.HandleFunc("/seasons/{season}", h.handleSeason).Methods(http.MethodGet)
	api.HandleFunc("/seasons/{season}/table", h.handleTable).Methods(http.MethodGet)
	return r
}

// WithCORS wraps the router with CORS for the given origins.
func (h *Handler) WithCORS(origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(h.Router())
}

// NewServer returns an http.Server for addr with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("handled request")
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"team":   h.src.Team(),
	})
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	var (
		records []league.Record
		err     error
	)
	if season := r.URL.Query().Get("season"); season != "" {
		records, err = h.src.Season(season)
	} else {
		records, err = h.src.Records()
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeRecords(w, records)
}

func (h *Handler) handleSeasons(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.src.Summaries()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []league.SeasonSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"team":    h.src.Team(),
		"seasons": summaries,
		"count":   len(summaries),
	})
}

func (h *Handler) handleSeason(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonVar(w, r)
	if !ok {
		return
	}
	records, err := h.src.Season(season)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeRecords(w, records)
}

func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonVar(w, r)
	if !ok {
		return
	}
	matchweek := 0
	if raw := r.URL.Query().Get("matchweek"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > league.MaxMatchweeks {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid matchweek " + strconv.Quote(raw)})
			return
		}
		matchweek = n
	}
	table, err := h.src.Table(season, matchweek)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if label, err := league.ParseSeason(season); err == nil {
		season = label
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"season": season,
		"table":  table,
	})
}

func seasonVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	season, err := url.PathUnescape(mux.Vars(r)["season"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season"})
		return "", false
	}
	return season, true
}

func (h *Handler) writeRecords(w http.ResponseWriter, records []league.Record) {
	if records == nil {
		records = []league.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"team":    h.src.Team(),
		"records": records,
		"count":   len(records),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUnknownSeason), errors.Is(err, service.ErrNoTable):
		status = http.StatusNotFound
	default:
		h.logger.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

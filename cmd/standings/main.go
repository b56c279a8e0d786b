package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/utakatalp/standings-history/internal/api"
	"github.com/utakatalp/standings-history/internal/config"
	"github.com/utakatalp/standings-history/internal/ingest"
	"github.com/utakatalp/standings-history/internal/league"
	"github.com/utakatalp/standings-history/internal/report"
	"github.com/utakatalp/standings-history/internal/service"
	"github.com/utakatalp/standings-history/internal/store"
)

// app is filled in before any subcommand runs.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *logrus.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "standings",
		Short:        "Reconstruct a team's league standings history",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.NewLogger()
			a.logger.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(a.buildCmd())
	root.AddCommand(a.tableCmd())
	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.persistCmd())
	root.AddCommand(a.latestCmd())
	root.AddCommand(a.serveCmd())
	root.AddCommand(a.sampleCmd())
	return root
}

func (a *app) service() *service.Service {
	return service.New(a.cfg, a.logger)
}

func (a *app) openStore() (*store.Store, error) {
	st, err := store.NewStore(a.cfg.DBDriver, a.cfg.DBDSN, a.logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// output returns stdout or the named file.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, f.Close, nil
}

// --------------------------------------------------------------------------
// build command
// --------------------------------------------------------------------------

func (a *app) buildCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the enriched standings history",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.service().Records()
			if err != nil {
				return err
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := report.Write(w, report.Format(format), records); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVar(&format, "format", string(report.FormatCSV), "Output format (csv, json, text)")
	cmd.Flags().StringVar(&out, "out", "", "Output file; stdout when empty")
	return cmd
}

// --------------------------------------------------------------------------
// table command
// --------------------------------------------------------------------------

func (a *app) tableCmd() *cobra.Command {
	var (
		season    string
		matchweek int
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the full league table of a historical season",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.service().Table(season, matchweek)
			if err != nil {
				return err
			}
			label := season
			if normalised, err := league.ParseSeason(season); err == nil {
				label = normalised
			}
			if matchweek > 0 {
				label = fmt.Sprintf("%s after matchweek %d", label, matchweek)
			}
			return league.PrintTable(cmd.OutOrStdout(), label, table)
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season, e.g. 2003/04")
	cmd.Flags().IntVar(&matchweek, "matchweek", 0, "Matchweek; the season's last when 0")
	cmd.MarkFlagRequired("season")
	return cmd
}

// --------------------------------------------------------------------------
// summary command
// --------------------------------------------------------------------------

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print one line per season",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := a.service().Summaries()
			if err != nil {
				return err
			}
			return report.WriteSummaries(cmd.OutOrStdout(), summaries)
		},
	}
}

// --------------------------------------------------------------------------
// persist and latest commands
// --------------------------------------------------------------------------

func (a *app) persistCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "persist",
		Short: "Save the standings history to the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if reset {
				if err := st.DeleteAllRuns(); err != nil {
					return err
				}
				a.logger.Info("deleted all saved runs")
			}
			id, err := a.service().Persist(st)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete every saved run first")
	return cmd
}

func (a *app) latestCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the most recently saved run for the configured team",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.LatestRun(a.cfg.Team)
			if err != nil {
				return err
			}
			records, err := st.LoadRun(run.ID)
			if err != nil {
				return err
			}
			a.logger.WithFields(logrus.Fields{
				"run":     run.ID,
				"created": run.CreatedAt.Format(time.RFC3339),
			}).Info("loaded run")
			return report.Write(cmd.OutOrStdout(), report.Format(format), records)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(report.FormatText), "Output format (csv, json, text)")
	return cmd
}

// --------------------------------------------------------------------------
// serve command
// --------------------------------------------------------------------------

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the standings history over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := a.service()
			// fail fast on unreadable input
			if _, err := svc.Records(); err != nil {
				return err
			}

			handler := api.NewHandler(svc, a.logger)
			srv := api.NewServer(a.cfg.HTTPAddr, handler.WithCORS(a.cfg.CORSOrigins))

			errCh := make(chan error, 1)
			go func() {
				a.logger.WithField("addr", a.cfg.HTTPAddr).Info("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// sample command
// --------------------------------------------------------------------------

func (a *app) sampleCmd() *cobra.Command {
	var (
		out         string
		teams       int
		seasons     int
		firstSeason int
		seed        int64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a simulated full-league history file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teams < 2 {
				return fmt.Errorf("need at least 2 teams, got %d", teams)
			}
			names := sampleTeams(a.cfg.Team, teams)
			rng := rand.New(rand.NewSource(seed))

			var matches []league.Match
			for i := 0; i < seasons; i++ {
				year := firstSeason + i
				label := fmt.Sprintf("%d/%02d", year, (year+1)%100)
				start := time.Date(year, time.August, 16, 15, 0, 0, 0, time.UTC)
				matches = append(matches, league.GenerateSeason(label, names, start, rng)...)
			}

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := ingest.WriteMatches(w, matches); err != nil {
				closeFn()
				return err
			}
			a.logger.WithFields(logrus.Fields{
				"matches": len(matches),
				"seasons": seasons,
				"teams":   teams,
			}).Info("wrote sample history")
			return closeFn()
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file; stdout when empty")
	cmd.Flags().IntVar(&teams, "teams", 20, "Number of teams")
	cmd.Flags().IntVar(&seasons, "seasons", 3, "Number of seasons")
	cmd.Flags().IntVar(&firstSeason, "first-season", 2003, "Starting year of the first season")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	return cmd
}

// sampleTeams names n clubs with the tracked team first.
func sampleTeams(tracked string, n int) []string {
	names := make([]string, 0, n)
	names = append(names, tracked)
	for i := 1; len(names) < n; i++ {
		name := fmt.Sprintf("Club %02d", i)
		if name == tracked {
			continue
		}
		names = append(names, name)
	}
	return names
}

package main

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	_ "github.com/gavraq/location-timeline/internal/analysis/activity"
	"github.com/gavraq/location-timeline/internal/config"
	"github.com/gavraq/location-timeline/internal/database"
	"github.com/gavraq/location-timeline/internal/params"
	"github.com/gavraq/location-timeline/internal/repository"
	"github.com/gavraq/location-timeline/internal/service"
)

var (
	cfg = config.Load()

	dbPath     string
	timezone   string
	workers    int
	persist    bool
	paramsFile string

	rootCmd = &cobra.Command{
		Use:   "timeline",
		Short: "Build location timelines from stored GPS points",
		Long: `timeline reads GPS points, known places and activity definitions from the
sqlite database and prints day or trip timelines as JSON.

Examples:
  timeline day 2024-03-02                 # Timeline for one day
  timeline day 2024-03-02 --persist       # ...and record the run
  timeline trip nice-2024 --workers 8     # Every day of a trip
  timeline detectors                      # Registered detector kinds`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "sqlite database path")
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", cfg.Timezone, "IANA timezone for calendar days")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", cfg.TripWorkers, "days analyzed in parallel per trip")
	rootCmd.PersistentFlags().BoolVar(&persist, "persist", false, "record analysis runs in the database")
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", cfg.ParamsFile, "JSON threshold overrides")

	rootCmd.AddCommand(dayCmd, tripCmd, detectorsCmd, tokenCmd)
}

// app is the wiring shared by the subcommands
type app struct {
	db       *sql.DB
	timeline *service.TimelineService
	trips    *service.TripService
}

func openApp() (*app, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	base, err := params.LoadFile(paramsFile)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	timeline := service.NewTimelineService(repos, base, loc)
	return &app{
		db:       db,
		timeline: timeline,
		trips:    service.NewTripService(repos, timeline, workers),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gavraq/location-timeline/internal/middleware"
	"github.com/gavraq/location-timeline/internal/models"
)

var dayCmd = &cobra.Command{
	Use:   "day YYYY-MM-DD",
	Short: "Print the timeline of one calendar day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := time.Parse(models.DateLayout, args[0]); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.timeline.AnalyzeDay(args[0], "", persist)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

var tripCmd = &cobra.Command{
	Use:   "trip ID",
	Short: "Print per-day timelines and the summary of a trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.trips.AnalyzeTrip(cmd.Context(), args[0], "", persist)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("trip %q not found", args[0])
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

var detectorsCmd = &cobra.Command{
	Use:   "detectors",
	Short: "List registered detector kinds with their definitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		detectors, err := a.timeline.Detectors()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), detectors)
	},
}

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token SUBJECT",
	Short: "Issue a bearer token for the HTTP API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := middleware.IssueToken(cfg.JWTSecret, args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

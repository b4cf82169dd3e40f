/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/gosimple/slug"
	"github.com/retail-lens/rldata/healthcheck"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var monitorSchedule string

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Manage the healthchecks.io monitor for scheduled refreshes",
}

var monitorCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a healthchecks.io check matching the refresh schedule",
	Run: func(cmd *cobra.Command, args []string) {
		checkSlug := slug.Make("rldata refresh")
		checkID, err := healthcheck.Create("rldata refresh", checkSlug, []string{"rldata"}, monitorSchedule)
		if err != nil {
			log.Fatal().Err(err).Msg("creating healthcheck failed")
		}

		log.Info().Str("CheckID", checkID).Msg("healthcheck created")
		fmt.Printf("Set healthchecks.check_id = %q in your config so refresh pings the monitor\n", checkID)
	},
}

var monitorPauseCmd = &cobra.Command{
	Use:   "pause <check-id>",
	Short: "Pause monitoring",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := healthcheck.Pause(args[0]); err != nil {
			log.Fatal().Err(err).Str("CheckID", args[0]).Msg("could not pause healthcheck")
		}
		log.Info().Str("CheckID", args[0]).Msg("healthcheck paused")
	},
}

var monitorResumeCmd = &cobra.Command{
	Use:   "resume <check-id>",
	Short: "Resume monitoring",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := healthcheck.Resume(args[0]); err != nil {
			log.Fatal().Err(err).Str("CheckID", args[0]).Msg("could not resume healthcheck")
		}
		log.Info().Str("CheckID", args[0]).Msg("healthcheck resumed")
	},
}

var monitorDeleteCmd = &cobra.Command{
	Use:   "delete <check-id>",
	Short: "Delete the check",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		confirmed := false
		confirmForm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Are you sure you want to delete check '%s'?", args[0])).
					Value(&confirmed),
			),
		)

		err := confirmForm.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create wizard")
		}

		if !confirmed {
			fmt.Printf("Ok, we won't delete '%s'\n", args[0])
			return
		}

		if err := healthcheck.Delete(args[0]); err != nil {
			log.Fatal().Err(err).Str("CheckID", args[0]).Msg("could not delete healthcheck")
		}
		log.Info().Str("CheckID", args[0]).Msg("healthcheck deleted")
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.AddCommand(monitorCreateCmd)
	monitorCmd.AddCommand(monitorPauseCmd)
	monitorCmd.AddCommand(monitorResumeCmd)
	monitorCmd.AddCommand(monitorDeleteCmd)

	monitorCreateCmd.Flags().StringVar(&monitorSchedule, "schedule", "0 6 * * *", "cron schedule the refresh runs on")
}

/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/hako/durafmt"
	"github.com/retail-lens/rldata/analytics"
	"github.com/retail-lens/rldata/data"
	"github.com/retail-lens/rldata/fetch"
	"github.com/retail-lens/rldata/healthcheck"
	"github.com/retail-lens/rldata/warehouse"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var skipFetch bool

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the latest snapshot, recompute analytics, and persist a run",
	Long: `The refresh sub-command runs the whole pipeline end to end: download
the latest dataset snapshot (when a base URL is configured), recompute every
analytics table, and persist the results to the warehouse as a new analysis
run. Refresh is built for scheduled execution; when healthchecks.check_id is
configured the check is pinged on success and signalled on failure.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		startTime := time.Now()

		checkID := viper.GetString("healthchecks.check_id")

		fail := func(err error, msg string) {
			if checkID != "" {
				if pingErr := healthcheck.PingFailure(checkID, err.Error()); pingErr != nil {
					log.Error().Err(pingErr).Msg("could not signal failure to healthchecks.io")
				}
			}
			log.Fatal().Err(err).Msg(msg)
		}

		baseURL := viper.GetString("dataset.base_url")
		if !skipFetch && baseURL != "" {
			client := fetch.New(baseURL, viper.GetString("dataset.dir"))
			client.RateLimit = viper.GetInt("dataset.rate_limit")
			if err := client.Snapshot(ctx); err != nil {
				fail(err, "could not download dataset snapshot")
			}
		}

		store, err := datasets.Load(viper.GetString("dataset.dir"))
		if err != nil {
			fail(err, "could not load dataset")
		}

		filter := filterFromFlags(cmd)
		view := filter.Apply(store.Transactions)
		metrics := metricsFor(store, view, filter)

		scored, err := analytics.ScoreRFM(metrics)
		if err != nil {
			fail(err, "could not score customers")
		}

		params := clvParams()
		empirical := analytics.EmpiricalCLV(view)
		parametric, err := analytics.ParametricCLV(metrics, params)
		if err != nil {
			fail(err, "could not compute parametric lifetime value")
		}

		matrix := analytics.BuildCohortMatrix(view, store.Cohorts)
		curve := analytics.BuildRevenueCurves(view, store.Cohorts)
		kpis := analytics.ComputeKPIs(view, empirical)

		var scenarioRows []*data.ScenarioImpactRow
		for _, scenario := range analytics.PresetScenarios() {
			scenarioRows = append(scenarioRows, analytics.SegmentImpacts(scored, empirical, scenario)...)
		}

		run := warehouse.NewRun(store.Fingerprint, os.Getenv("USER"))
		run.DatasetStart, run.DatasetEnd = store.DateRange()
		run.Transactions = len(view)
		run.Customers = len(store.Cohorts)
		run.FilterDesc = describeFilter(filter)

		snapshot := &warehouse.Snapshot{
			Run:             run,
			CohortCells:     matrix.CellRows(),
			RevenueCells:    curve.CellRows(),
			Segments:        analytics.SegmentRows(scored),
			SegmentStats:    analytics.ComputeSegmentStats(scored),
			CLV:             analytics.CLVRows(empirical, parametric),
			ScenarioImpacts: scenarioRows,
			Summaries:       analytics.SummarizeCustomers(view, scored),
			KPIs:            kpis.Row(),
		}

		wh := &warehouse.Warehouse{DBUrl: viper.GetString("db.url")}
		if err := wh.Connect(ctx); err != nil {
			fail(err, "could not connect to warehouse")
		}
		defer wh.Close()

		if err := wh.SaveSnapshot(ctx, snapshot); err != nil {
			fail(err, "could not save analytics snapshot")
		}

		if checkID != "" {
			if err := healthcheck.Ping(checkID); err != nil {
				log.Error().Err(err).Msg("could not ping healthchecks.io")
			}
		}

		runTime := time.Since(startTime)
		log.Info().Str("RunTime", durafmt.Parse(runTime).String()).Str("RunID", run.ID.String()).Msg("refresh complete")
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	addFilterFlags(refreshCmd)
	refreshCmd.Flags().BoolVar(&skipFetch, "skip-fetch", false, "recompute from the files already on disk")
}

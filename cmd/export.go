// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/retail-lens/rldata/analytics"
	"github.com/retail-lens/rldata/backblaze"
	"github.com/retail-lens/rldata/data"
	"github.com/retail-lens/rldata/export"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export computed analytics as csv, json, or parquet",
	Long: `Export runs the full analytics pipeline over the dataset snapshot
and writes every table -- cohort retention cells, cohort revenue,
customer segments, segment stats, lifetime value, scenario impacts,
customer summaries, and KPIs -- to the output directory in the chosen
format. Scenario impacts cover all four preset scenarios.

With --upload the artifacts are also stored in the configured backblaze
bucket under a date-stamped prefix.`,
	Run: func(cmd *cobra.Command, args []string) {
		store := loadStore()
		filter := filterFromFlags(cmd)
		view := filter.Apply(store.Transactions)
		metrics := metricsFor(store, view, filter)

		scored, err := analytics.ScoreRFM(metrics)
		if err != nil {
			log.Fatal().Err(err).Msg("could not score customers")
		}

		params := clvParams()
		empirical := analytics.EmpiricalCLV(view)
		parametric, err := analytics.ParametricCLV(metrics, params)
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute parametric lifetime value")
		}

		matrix := analytics.BuildCohortMatrix(view, store.Cohorts)
		curve := analytics.BuildRevenueCurves(view, store.Cohorts)
		kpis := analytics.ComputeKPIs(view, empirical)

		var scenarioRows []*data.ScenarioImpactRow
		for _, scenario := range analytics.PresetScenarios() {
			scenarioRows = append(scenarioRows, analytics.SegmentImpacts(scored, empirical, scenario)...)
		}

		bundle := &export.Bundle{
			Cohorts:   matrix.CellRows(),
			Revenue:   curve.CellRows(),
			Segments:  analytics.SegmentRows(scored),
			Stats:     analytics.ComputeSegmentStats(scored),
			CLV:       analytics.CLVRows(empirical, parametric),
			Scenarios: scenarioRows,
			Customers: analytics.SummarizeCustomers(view, scored),
			KPIs:      []*data.KPIRow{kpis.Row()},
		}

		formatName, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			log.Fatal().Err(err).Msg("could not parse export format")
		}

		outDir, _ := cmd.Flags().GetString("out")
		files, err := bundle.Write(outDir, format)
		if err != nil {
			log.Fatal().Err(err).Msg("could not write export bundle")
		}

		log.Info().Int("NumFiles", len(files)).Str("Dir", outDir).Msg("export bundle written")

		if upload, _ := cmd.Flags().GetBool("upload"); upload {
			dirname := slug.Make(fmt.Sprintf("rldata %s", time.Now().Format("2006-01-02")))
			if err := backblaze.UploadDir(outDir, viper.GetString("backblaze.bucket"), dirname); err != nil {
				log.Fatal().Err(err).Msg("could not upload export bundle")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "csv", "output format: csv, json, or parquet")
	exportCmd.Flags().String("out", "exports", "directory to write artifacts into")
	exportCmd.Flags().Bool("upload", false, "upload artifacts to backblaze")
}

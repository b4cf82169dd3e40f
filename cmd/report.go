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
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/retail-lens/rldata/analytics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the executive customer behavior report",
	Long: `Report assembles the headline KPIs, retention curve, top markets,
segment summary, and lifetime value sensitivity into a single markdown
document. By default the document renders in the terminal; use --out to
write the raw markdown to a file instead.`,
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
		sensitivity, err := analytics.Sensitivity(metrics, params)
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute rate sensitivity")
		}

		empirical := analytics.EmpiricalCLV(view)

		report := &analytics.Report{
			KPIs:        analytics.ComputeKPIs(view, empirical),
			Countries:   analytics.RevenueByCountry(view),
			Matrix:      analytics.BuildCohortMatrix(view, store.Cohorts),
			Stats:       analytics.ComputeSegmentStats(scored),
			Sensitivity: sensitivity,
			GeneratedAt: time.Now(),
		}

		document, err := report.Markdown()
		if err != nil {
			log.Fatal().Err(err).Msg("could not create report document")
		}

		if outFN, _ := cmd.Flags().GetString("out"); outFN != "" {
			if err := os.WriteFile(outFN, []byte(document), 0644); err != nil {
				log.Fatal().Err(err).Str("FileName", outFN).Msg("could not write report")
			}
			log.Info().Str("FileName", outFN).Msg("report written")
			return
		}

		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// wrap output at specific width (default is 80)
			glamour.WithWordWrap(80),
		)

		out, err := r.Render(document)
		if err != nil {
			log.Fatal().Err(err).Msg("could not render report document")
		}

		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	addFilterFlags(reportCmd)
	reportCmd.Flags().String("out", "", "write raw markdown to this file instead of the terminal")
}

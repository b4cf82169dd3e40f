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

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/retail-lens/rldata/analytics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// segmentsCmd represents the segments command
var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Display RFM customer segments and their next actions",
	Long: `Segments scores every customer 1-5 on recency, frequency, and
monetary value, maps the scores to named segments (Champions, At Risk,
Hibernating, ...), and summarizes each segment with its recommended
next action. Segments are ordered by activation priority.

With --priority the command instead prints the targeting matrix: each
segment scored 0-100 on average customer value and on size, averaged
into a single priority score.`,
	Run: func(cmd *cobra.Command, args []string) {
		store := loadStore()
		filter := filterFromFlags(cmd)
		view := filter.Apply(store.Transactions)

		scored, err := analytics.ScoreRFM(metricsFor(store, view, filter))
		if err != nil {
			log.Fatal().Err(err).Msg("could not score customers")
		}

		stats := analytics.ComputeSegmentStats(scored)

		showPriority, _ := cmd.Flags().GetBool("priority")
		if showPriority {
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeaderAutoFormat(tw.Off),
			)
			table.Header([]string{"Segment", "CLV Score", "Size Score", "Priority"})
			for _, cell := range analytics.PriorityMatrix(stats) {
				table.Append([]string{
					cell.Segment,
					fmt.Sprintf("%.0f", cell.CLVScore),
					fmt.Sprintf("%.0f", cell.SizeScore),
					fmt.Sprintf("%.0f", cell.PriorityScore),
				})
			}
			table.Render()
			return
		}

		table := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeaderAutoFormat(tw.Off),
		)
		table.Header([]string{"Segment", "Customers", "Share", "Avg Recency", "Avg Frequency", "Avg Monetary", "Total Monetary", "Next Action"})
		for _, stat := range stats {
			table.Append([]string{
				stat.Segment,
				fmt.Sprintf("%d", stat.Customers),
				fmt.Sprintf("%.1f%%", stat.SharePct),
				fmt.Sprintf("%.0f d", stat.AvgRecency),
				fmt.Sprintf("%.1f", stat.AvgFrequency),
				fmt.Sprintf("%.2f", stat.AvgMonetary),
				fmt.Sprintf("%.0f", stat.TotalMonetary),
				stat.Action,
			})
		}
		table.Render()
	},
}

func init() {
	rootCmd.AddCommand(segmentsCmd)

	addFilterFlags(segmentsCmd)
	segmentsCmd.Flags().Bool("priority", false, "show the segment targeting matrix")
}

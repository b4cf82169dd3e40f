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
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/retail-lens/rldata/analytics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// clvCmd represents the clv command
var clvCmd = &cobra.Command{
	Use:   "clv",
	Short: "Estimate customer lifetime value",
	Long: `CLV estimates lifetime value two ways: the empirical estimate sums
each customer's observed spending, and the parametric estimate projects
forward from the monetary measure using retention, discount, and margin
rates:

    CLV = monetary x margin x retention / (1 + discount - retention)

Rates where retention meets or exceeds 1 + discount are rejected; the
series they describe never converges.`,
	Run: func(cmd *cobra.Command, args []string) {
		store := loadStore()
		filter := filterFromFlags(cmd)
		view := filter.Apply(store.Transactions)
		metrics := metricsFor(store, view, filter)

		params := clvParams()
		if cmd.Flags().Changed("retention") {
			params.Retention, _ = cmd.Flags().GetFloat64("retention")
		}
		if cmd.Flags().Changed("discount") {
			params.Discount, _ = cmd.Flags().GetFloat64("discount")
		}
		if cmd.Flags().Changed("margin") {
			params.Margin, _ = cmd.Flags().GetFloat64("margin")
		}

		showSensitivity, _ := cmd.Flags().GetBool("sensitivity")
		if showSensitivity {
			rows, err := analytics.Sensitivity(metrics, params)
			if err != nil {
				log.Fatal().Err(err).Msg("could not compute rate sensitivity")
			}

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeaderAutoFormat(tw.Off),
			)
			table.Header([]string{"Scenario", "Total CLV", "Avg CLV"})
			for _, row := range rows {
				table.Append([]string{
					row.Name,
					fmt.Sprintf("%.0f", row.TotalCLV),
					fmt.Sprintf("%.2f", row.AvgCLV),
				})
			}
			table.Render()
			return
		}

		empirical := analytics.EmpiricalCLV(view)
		parametric, err := analytics.ParametricCLV(metrics, params)
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute parametric lifetime value")
		}

		rows := analytics.CLVRows(empirical, parametric)
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Empirical != rows[j].Empirical {
				return rows[i].Empirical > rows[j].Empirical
			}
			return rows[i].CustomerID < rows[j].CustomerID
		})

		top, _ := cmd.Flags().GetInt("top")
		if top > 0 && top < len(rows) {
			rows = rows[:top]
		}

		table := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeaderAutoFormat(tw.Off),
		)
		table.Header([]string{"Customer", "Empirical CLV", "Parametric CLV"})
		for _, row := range rows {
			table.Append([]string{
				row.CustomerID,
				fmt.Sprintf("%.2f", row.Empirical),
				fmt.Sprintf("%.2f", row.Parametric),
			})
		}
		table.Render()

		kpis := analytics.ComputeKPIs(view, empirical)
		fmt.Printf("\nAvg CLV: %.2f   Max CLV: %.0f   (retention %.2f, discount %.2f, margin %.2f)\n",
			kpis.AvgCLV, kpis.MaxCLV, params.Retention, params.Discount, params.Margin)
	},
}

func init() {
	rootCmd.AddCommand(clvCmd)

	addFilterFlags(clvCmd)
	clvCmd.Flags().Int("top", 20, "number of customers to display (0 shows all)")
	clvCmd.Flags().Float64("retention", 0, "override the configured retention rate")
	clvCmd.Flags().Float64("discount", 0, "override the configured discount rate")
	clvCmd.Flags().Float64("margin", 0, "override the configured profit margin")
	clvCmd.Flags().Bool("sensitivity", false, "show portfolio lifetime value under the standard rate scenarios")
}

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
	"github.com/spf13/cobra"
)

// cohortsCmd represents the cohorts command
var cohortsCmd = &cobra.Command{
	Use:   "cohorts",
	Short: "Display the monthly cohort retention matrix",
	Long: `Cohorts groups customers by the calendar month of their first
purchase and tracks how many of them stay active in each following
month. Cohort assignments always come from the full transaction log;
the filter flags only narrow which activity is counted, so a cohort's
size never changes with the view.

Cells with no observed activity print blank -- an unobserved month is
not the same thing as zero retained customers.`,
	Run: func(cmd *cobra.Command, args []string) {
		store := loadStore()
		filter := filterFromFlags(cmd)
		view := filter.Apply(store.Transactions)

		maxAge, _ := cmd.Flags().GetInt("max-age")
		showCounts, _ := cmd.Flags().GetBool("counts")
		showRevenue, _ := cmd.Flags().GetBool("revenue")

		if showRevenue {
			curve := analytics.BuildRevenueCurves(view, store.Cohorts)
			printRevenueTable(curve, maxAge)
			return
		}

		matrix := analytics.BuildCohortMatrix(view, store.Cohorts)
		printRetentionTable(matrix, maxAge, showCounts)
	},
}

func ageColumns(limit, maxAge int) []int {
	if limit > 0 && limit < maxAge {
		maxAge = limit
	}
	ages := make([]int, maxAge+1)
	for i := range ages {
		ages[i] = i
	}
	return ages
}

func printRetentionTable(matrix *analytics.CohortMatrix, maxAge int, showCounts bool) {
	ages := ageColumns(maxAge, matrix.MaxAge)

	headers := make([]string, 0, len(ages)+2)
	headers = append(headers, "Cohort", "Size")
	for _, age := range ages {
		headers = append(headers, fmt.Sprintf("M%d", age))
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)

	for _, month := range matrix.Months {
		row := make([]string, 0, len(headers))
		row = append(row, month.String(), fmt.Sprintf("%d", matrix.Sizes[month]))
		for _, age := range ages {
			if showCounts {
				count, ok := matrix.Count(month, age)
				if !ok {
					row = append(row, "")
					continue
				}
				row = append(row, fmt.Sprintf("%d", count))
				continue
			}

			ratio, ok := matrix.Retention(month, age)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%.1f%%", ratio*100))
		}
		table.Append(row)
	}

	if !showCounts {
		mean := make([]string, 0, len(headers))
		mean = append(mean, "MEAN", "")
		for _, age := range ages {
			ratio, ok := matrix.MeanRetention(age)
			if !ok {
				mean = append(mean, "")
				continue
			}
			mean = append(mean, fmt.Sprintf("%.1f%%", ratio*100))
		}
		table.Append(mean)
	}

	table.Render()
}

func printRevenueTable(curve *analytics.RevenueCurve, maxAge int) {
	ages := ageColumns(maxAge, curve.MaxAge)

	headers := make([]string, 0, len(ages)+1)
	headers = append(headers, "Cohort")
	for _, age := range ages {
		headers = append(headers, fmt.Sprintf("M%d", age))
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)

	for _, month := range curve.Months {
		row := make([]string, 0, len(headers))
		row = append(row, month.String())
		for _, age := range ages {
			revenue, ok := curve.Revenue[month][age]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%.0f", revenue))
		}
		table.Append(row)
	}

	table.Render()
}

func init() {
	rootCmd.AddCommand(cohortsCmd)

	addFilterFlags(cohortsCmd)
	cohortsCmd.Flags().Int("max-age", 12, "widest cohort age column to display (0 shows all)")
	cohortsCmd.Flags().Bool("counts", false, "show distinct customer counts instead of retention")
	cohortsCmd.Flags().Bool("revenue", false, "show revenue per cohort month instead of retention")
}

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
package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/retail-lens/rldata/data"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report bundles the computed analytics that make up the executive
// summary.
type Report struct {
	KPIs        *KPISet
	Countries   []CountryRevenue
	Matrix      *CohortMatrix
	Stats       []*data.SegmentStatRow
	Sensitivity []SensitivityRow
	GeneratedAt time.Time
}

// reportAges are the cohort ages the retention section highlights.
var reportAges = []int{1, 3, 6, 12}

// Markdown renders the report for terminal display or file export.
func (report *Report) Markdown() (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString("# Customer Behavior Report\n\n"); err != nil {
		return "", err
	}

	if !report.GeneratedAt.IsZero() {
		age := timeago.English.Format(report.GeneratedAt)
		if _, err := builder.WriteString(fmt.Sprintf("Generated: %s (%s)\n\n", age,
			report.GeneratedAt.Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	if report.KPIs != nil {
		if _, err := builder.WriteString("## Key Metrics\n\n"); err != nil {
			return "", err
		}
		if _, err := builder.WriteString(p.Sprintf("  * Total Revenue: £%.0f\n", report.KPIs.TotalRevenue)); err != nil {
			return "", err
		}
		if _, err := builder.WriteString(p.Sprintf("  * Customers: %d (%d new last month)\n",
			report.KPIs.TotalCustomers, report.KPIs.NewCustomers)); err != nil {
			return "", err
		}
		if _, err := builder.WriteString(p.Sprintf("  * Avg Order Value: £%.2f (σ %.2f)\n",
			report.KPIs.AvgOrderValue, report.KPIs.OrderValueStdDev)); err != nil {
			return "", err
		}
		if _, err := builder.WriteString(p.Sprintf("  * Avg CLV: £%.2f / Max CLV: £%.0f\n",
			report.KPIs.AvgCLV, report.KPIs.MaxCLV)); err != nil {
			return "", err
		}
		if _, err := builder.WriteString(p.Sprintf("  * Revenue Growth (MoM): %.1f%%\n\n",
			report.KPIs.RevenueGrowthPct)); err != nil {
			return "", err
		}
	}

	if report.Matrix != nil {
		if _, err := builder.WriteString("## Retention\n\n"); err != nil {
			return "", err
		}
		if _, err := builder.WriteString(p.Sprintf("  * Cohorts: %d (oldest %s)\n",
			len(report.Matrix.Months), oldestMonth(report.Matrix))); err != nil {
			return "", err
		}
		for _, age := range reportAges {
			mean, ok := report.Matrix.MeanRetention(age)
			if !ok {
				continue
			}
			if _, err := builder.WriteString(p.Sprintf("  * Month %d retention: %.1f%%\n", age, mean*100)); err != nil {
				return "", err
			}
		}
		if _, err := builder.WriteString("\n"); err != nil {
			return "", err
		}
	}

	if len(report.Countries) > 0 {
		if _, err := builder.WriteString("## Top Markets\n\n"); err != nil {
			return "", err
		}
		top := report.Countries
		if len(top) > 5 {
			top = top[:5]
		}
		for _, country := range top {
			if _, err := builder.WriteString(p.Sprintf("  * %s: £%.0f (%d customers)\n",
				country.Country, country.Revenue, country.Customers)); err != nil {
				return "", err
			}
		}
		if _, err := builder.WriteString("\n"); err != nil {
			return "", err
		}
	}

	if len(report.Stats) > 0 {
		if _, err := builder.WriteString("## Segments\n\n"); err != nil {
			return "", err
		}
		if _, err := builder.WriteString("| Segment | Customers | Share | Avg Monetary | Next Action |\n"); err != nil {
			return "", err
		}
		if _, err := builder.WriteString("|---------|-----------|-------|--------------|-------------|\n"); err != nil {
			return "", err
		}
		for _, stat := range report.Stats {
			if _, err := builder.WriteString(p.Sprintf("| %s | %d | %.1f%% | £%.0f | %s |\n",
				stat.Segment, stat.Customers, stat.SharePct, stat.AvgMonetary, stat.Action)); err != nil {
				return "", err
			}
		}
		if _, err := builder.WriteString("\n"); err != nil {
			return "", err
		}
	}

	if len(report.Sensitivity) > 0 {
		if _, err := builder.WriteString("## Lifetime Value Sensitivity\n\n"); err != nil {
			return "", err
		}
		for _, row := range report.Sensitivity {
			if _, err := builder.WriteString(p.Sprintf("  * %s: total £%.0f, avg £%.2f\n",
				row.Name, row.TotalCLV, row.AvgCLV)); err != nil {
				return "", err
			}
		}
		if _, err := builder.WriteString("\n"); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}

func oldestMonth(matrix *CohortMatrix) string {
	if len(matrix.Months) == 0 {
		return "n/a"
	}
	return matrix.Months[0].String()
}

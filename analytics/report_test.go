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
package analytics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retail-lens/rldata/analytics"
	"github.com/retail-lens/rldata/data"
)

var _ = Describe("Report", func() {
	It("renders every populated section", func() {
		log := []*data.Transaction{
			trx("alice", "2010-12-05 08:26:00", 100, "United Kingdom"),
			trx("alice", "2011-01-10 10:00:00", 50, "United Kingdom"),
			trx("bob", "2011-01-20 09:00:00", 75, "France"),
		}
		matrix := analytics.BuildCohortMatrix(log, analytics.AssignCohorts(log))

		sensitivity, err := analytics.Sensitivity(
			[]*data.RFMMetric{metric("alice", 10, 2, 150)},
			analytics.DefaultCLVParams())
		Expect(err).ToNot(HaveOccurred())

		report := &analytics.Report{
			KPIs:      analytics.ComputeKPIs(log, map[string]float64{"alice": 150, "bob": 75}),
			Countries: analytics.RevenueByCountry(log),
			Matrix:    matrix,
			Stats: []*data.SegmentStatRow{
				{Segment: "Champions", Customers: 2, SharePct: 100, AvgMonetary: 112.5, Action: "Reward"},
			},
			Sensitivity: sensitivity,
			GeneratedAt: time.Now(),
		}

		markdown, err := report.Markdown()
		Expect(err).ToNot(HaveOccurred())

		Expect(markdown).To(HavePrefix("# Customer Behavior Report"))
		Expect(markdown).To(ContainSubstring("Generated:"))
		Expect(markdown).To(ContainSubstring("## Key Metrics"))
		Expect(markdown).To(ContainSubstring("Total Revenue: £225"))
		Expect(markdown).To(ContainSubstring("## Retention"))
		Expect(markdown).To(ContainSubstring("Cohorts: 2 (oldest 2010-12)"))
		Expect(markdown).To(ContainSubstring("Month 1 retention: 100.0%"))
		Expect(markdown).To(ContainSubstring("## Top Markets"))
		Expect(markdown).To(ContainSubstring("United Kingdom: £150 (1 customers)"))
		Expect(markdown).To(ContainSubstring("## Segments"))
		Expect(markdown).To(ContainSubstring("| Champions | 2 | 100.0% | £112 | Reward |"))
		Expect(markdown).To(ContainSubstring("## Lifetime Value Sensitivity"))
		Expect(markdown).To(ContainSubstring("Baseline"))
	})

	It("renders only the title when nothing is populated", func() {
		markdown, err := (&analytics.Report{}).Markdown()
		Expect(err).ToNot(HaveOccurred())
		Expect(markdown).To(Equal("# Customer Behavior Report\n\n"))
		Expect(markdown).ToNot(ContainSubstring("## "))
	})
})

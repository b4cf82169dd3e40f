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
package export_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retail-lens/rldata/data"
	"github.com/retail-lens/rldata/export"
)

var _ = Describe("ParseFormat", func() {
	It("recognizes the three encodings", func() {
		Expect(export.ParseFormat("csv")).To(Equal(export.FormatCSV))
		Expect(export.ParseFormat(" JSON ")).To(Equal(export.FormatJSON))
		Expect(export.ParseFormat("Parquet")).To(Equal(export.FormatParquet))
	})

	It("rejects anything else", func() {
		_, err := export.ParseFormat("xml")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("xml"))
	})
})

var _ = Describe("Bundle", func() {
	var (
		dir    string
		bundle *export.Bundle
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		bundle = &export.Bundle{
			Cohorts: []*data.CohortCellRow{
				{CohortMonth: "2010-12", Age: 0, Customers: 2, CohortSize: 2, Retention: 1},
			},
			Revenue: []*data.RevenueCellRow{
				{CohortMonth: "2010-12", Age: 0, Revenue: 130, CumulativeRevenue: 130},
			},
			Segments: []*data.SegmentRow{
				{CustomerID: "alice", Recency: 5, Frequency: 12, Monetary: 1500.25,
					RScore: 5, FScore: 5, MScore: 5, RFMScore: "555", Segment: "Champions"},
			},
			Stats: []*data.SegmentStatRow{
				{Segment: "Champions", Customers: 1, SharePct: 100, Priority: 1, Action: "Reward"},
			},
			CLV: []*data.CLVRow{
				{CustomerID: "alice", Empirical: 1500.25, Parametric: 642.9642857142857},
			},
			Scenarios: []*data.ScenarioImpactRow{
				{Scenario: "Realistic", Segment: "Champions", Customers: 1,
					BaseCLV: 1500.25, ProjectedCLV: 1650.75, Improvement: 150.5, ImprovementPct: 10.03},
			},
			Customers: []*data.CustomerSummaryRow{
				{CustomerID: "alice", FirstPurchase: "2010-12-05", LastPurchase: "2011-03-15",
					OrderCount: 12, TotalSpent: 1500.25, AvgOrderValue: 125.02,
					Country: "United Kingdom", RFMScore: "555", Segment: "Champions"},
			},
			KPIs: []*data.KPIRow{
				{TotalRevenue: 1500.25, TotalCustomers: 1, AvgOrderValue: 125.02, NewCustomers: 1},
			},
		}
	})

	It("writes every populated table under a slugged name", func() {
		written, err := bundle.Write(dir, export.FormatCSV)
		Expect(err).ToNot(HaveOccurred())
		Expect(written).To(HaveLen(8))

		names := make([]string, 0, len(written))
		for _, fn := range written {
			names = append(names, filepath.Base(fn))
			_, statErr := os.Stat(fn)
			Expect(statErr).ToNot(HaveOccurred())
		}
		Expect(names).To(Equal([]string{
			"cohort-retention.csv",
			"cohort-revenue.csv",
			"customer-segments.csv",
			"segment-stats.csv",
			"customer-clv.csv",
			"scenario-impacts.csv",
			"customer-summary.csv",
			"kpis.csv",
		}))
	})

	It("skips empty tables", func() {
		sparse := &export.Bundle{Cohorts: bundle.Cohorts}

		written, err := sparse.Write(dir, export.FormatCSV)
		Expect(err).ToNot(HaveOccurred())
		Expect(written).To(HaveLen(1))
		Expect(filepath.Base(written[0])).To(Equal("cohort-retention.csv"))
	})

	It("honors the requested format in file names", func() {
		written, err := bundle.Write(dir, export.FormatJSON)
		Expect(err).ToNot(HaveOccurred())
		for _, fn := range written {
			Expect(fn).To(HaveSuffix(".json"))
		}
	})

	It("creates the output directory", func() {
		nested := filepath.Join(dir, "out", "2011-06-30")

		written, err := bundle.Write(nested, export.FormatCSV)
		Expect(err).ToNot(HaveOccurred())
		Expect(written).ToNot(BeEmpty())
	})
})

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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retail-lens/rldata/analytics"
	"github.com/retail-lens/rldata/data"
)

var _ = Describe("Classify", func() {
	It("labels the extremes", func() {
		Expect(analytics.Classify(5, 5, 5)).To(Equal("Champions"))
		Expect(analytics.Classify(1, 1, 1)).To(Equal("Lost"))
	})

	It("resolves overlapping rules by order", func() {
		// 3/3/3 sits inside both Loyal Customers and Need Attention;
		// the earlier rule wins.
		Expect(analytics.Classify(3, 3, 3)).To(Equal("Loyal Customers"))
	})

	It("falls back to Others when no rule matches", func() {
		Expect(analytics.Classify(1, 3, 1)).To(Equal(analytics.OtherSegment))
	})

	It("maps every score combination onto the closed label set", func() {
		labels := make(map[string]struct{})
		for _, label := range analytics.SegmentLabels() {
			labels[label] = struct{}{}
		}

		for r := 1; r <= 5; r++ {
			for f := 1; f <= 5; f++ {
				for m := 1; m <= 5; m++ {
					Expect(labels).To(HaveKey(analytics.Classify(r, f, m)),
						"score %d%d%d", r, f, m)
				}
			}
		}
	})
})

var _ = Describe("SegmentLabels", func() {
	It("lists twelve labels ending with Others", func() {
		labels := analytics.SegmentLabels()
		Expect(labels).To(HaveLen(12))
		Expect(labels[0]).To(Equal("Champions"))
		Expect(labels[len(labels)-1]).To(Equal(analytics.OtherSegment))
	})

	It("has an action and a unique priority for every label", func() {
		seen := make(map[int]string)
		for _, label := range analytics.SegmentLabels() {
			action, ok := analytics.SegmentActions[label]
			Expect(ok).To(BeTrue(), "label %s", label)
			Expect(action.Action).ToNot(BeEmpty())
			Expect(seen).ToNot(HaveKey(action.Priority), "label %s", label)
			seen[action.Priority] = label
		}
	})
})

var _ = Describe("ComputeSegmentStats", func() {
	var scored []*analytics.ScoredCustomer

	BeforeEach(func() {
		scored = []*analytics.ScoredCustomer{
			{CustomerID: "a", Recency: 5, Frequency: 20, Monetary: 1000, Segment: "Champions"},
			{CustomerID: "b", Recency: 10, Frequency: 30, Monetary: 2000, Segment: "Champions"},
			{CustomerID: "c", Recency: 300, Frequency: 1, Monetary: 50, Segment: "Lost"},
			{CustomerID: "d", Recency: 90, Frequency: 4, Monetary: 500, Segment: analytics.OtherSegment},
		}
	})

	It("aggregates per segment ordered by activation priority", func() {
		stats := analytics.ComputeSegmentStats(scored)
		Expect(stats).To(HaveLen(3))

		Expect(stats[0].Segment).To(Equal("Champions"))
		Expect(stats[0].Customers).To(Equal(2))
		Expect(stats[0].SharePct).To(Equal(50.0))
		Expect(stats[0].AvgRecency).To(Equal(7.5))
		Expect(stats[0].AvgFrequency).To(Equal(25.0))
		Expect(stats[0].AvgMonetary).To(Equal(1500.0))
		Expect(stats[0].TotalMonetary).To(Equal(3000.0))
		Expect(stats[0].Priority).To(Equal(1))
		Expect(stats[0].Action).To(Equal("Reward"))

		Expect(stats[1].Segment).To(Equal("Lost"))
		Expect(stats[2].Segment).To(Equal(analytics.OtherSegment))
	})

	It("shares sum to one hundred percent", func() {
		var total float64
		for _, stat := range analytics.ComputeSegmentStats(scored) {
			total += stat.SharePct
		}
		Expect(total).To(BeNumerically("~", 100.0, 1e-9))
	})
})

var _ = Describe("PriorityMatrix", func() {
	It("scales both axes to the largest segment and ranks by the mean", func() {
		stats := []*data.SegmentStatRow{
			{Segment: "Champions", Customers: 2, AvgMonetary: 1500},
			{Segment: "Lost", Customers: 1, AvgMonetary: 50},
			{Segment: analytics.OtherSegment, Customers: 1, AvgMonetary: 500},
		}

		cells := analytics.PriorityMatrix(stats)
		Expect(cells).To(HaveLen(3))

		Expect(cells[0].Segment).To(Equal("Champions"))
		Expect(cells[0].CLVScore).To(Equal(100.0))
		Expect(cells[0].SizeScore).To(Equal(100.0))
		Expect(cells[0].PriorityScore).To(Equal(100.0))

		Expect(cells[1].Segment).To(Equal(analytics.OtherSegment))
		Expect(cells[1].CLVScore).To(Equal(33.0))
		Expect(cells[1].SizeScore).To(Equal(50.0))
		Expect(cells[1].PriorityScore).To(Equal(41.5))

		Expect(cells[2].Segment).To(Equal("Lost"))
		Expect(cells[2].CLVScore).To(Equal(3.0))
	})

	It("breaks priority ties alphabetically", func() {
		stats := []*data.SegmentStatRow{
			{Segment: "Lost", Customers: 10, AvgMonetary: 100},
			{Segment: "Champions", Customers: 10, AvgMonetary: 100},
		}

		cells := analytics.PriorityMatrix(stats)
		Expect(cells[0].Segment).To(Equal("Champions"))
		Expect(cells[1].Segment).To(Equal("Lost"))
	})

	It("handles empty stats", func() {
		Expect(analytics.PriorityMatrix(nil)).To(BeEmpty())
	})
})

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
	"math"
	"sort"

	"github.com/retail-lens/rldata/data"
)

// DigitRange is an inclusive range of score digits.
type DigitRange struct {
	Lo int
	Hi int
}

func (r DigitRange) Contains(v int) bool {
	return v >= r.Lo && v <= r.Hi
}

// SegmentRule matches an (R, F, M) score triple to a named segment.
type SegmentRule struct {
	Label string
	R     DigitRange
	F     DigitRange
	M     DigitRange
}

func (rule SegmentRule) Matches(r, f, m int) bool {
	return rule.R.Contains(r) && rule.F.Contains(f) && rule.M.Contains(m)
}

// SegmentRules are evaluated in order and the first match wins. Several
// rules overlap (a 455 customer is both Loyal and At Risk territory), so
// reordering the table changes labels.
var SegmentRules = []SegmentRule{
	{Label: "Champions", R: DigitRange{4, 5}, F: DigitRange{4, 5}, M: DigitRange{4, 5}},
	{Label: "Loyal Customers", R: DigitRange{3, 5}, F: DigitRange{2, 4}, M: DigitRange{3, 5}},
	{Label: "Potential Loyalists", R: DigitRange{4, 5}, F: DigitRange{1, 2}, M: DigitRange{1, 3}},
	{Label: "New Customers", R: DigitRange{4, 5}, F: DigitRange{1, 2}, M: DigitRange{4, 5}},
	{Label: "Promising", R: DigitRange{3, 4}, F: DigitRange{3, 4}, M: DigitRange{3, 4}},
	{Label: "Need Attention", R: DigitRange{2, 3}, F: DigitRange{2, 3}, M: DigitRange{2, 3}},
	{Label: "About to Sleep", R: DigitRange{2, 3}, F: DigitRange{1, 2}, M: DigitRange{4, 5}},
	{Label: "At Risk", R: DigitRange{1, 2}, F: DigitRange{4, 5}, M: DigitRange{4, 5}},
	{Label: "Cannot Lose Them", R: DigitRange{1, 2}, F: DigitRange{4, 5}, M: DigitRange{1, 3}},
	{Label: "Hibernating", R: DigitRange{1, 2}, F: DigitRange{1, 2}, M: DigitRange{4, 5}},
	{Label: "Lost", R: DigitRange{1, 2}, F: DigitRange{1, 2}, M: DigitRange{1, 2}},
}

// OtherSegment labels score combinations no rule covers.
const OtherSegment = "Others"

// Classify returns the segment label for a score triple.
func Classify(r, f, m int) string {
	for _, rule := range SegmentRules {
		if rule.Matches(r, f, m) {
			return rule.Label
		}
	}
	return OtherSegment
}

// SegmentLabels returns the closed label set in rule order, ending with
// OtherSegment.
func SegmentLabels() []string {
	labels := make([]string, 0, len(SegmentRules)+1)
	for _, rule := range SegmentRules {
		labels = append(labels, rule.Label)
	}
	return append(labels, OtherSegment)
}

// SegmentAction is the recommended marketing move for a segment along with
// its activation priority (1 is highest).
type SegmentAction struct {
	Priority int
	Action   string
}

// SegmentActions keys every label returned by SegmentLabels.
var SegmentActions = map[string]SegmentAction{
	"Champions":           {Priority: 1, Action: "Reward"},
	"Loyal Customers":     {Priority: 2, Action: "Upsell"},
	"Potential Loyalists": {Priority: 3, Action: "Membership offers"},
	"New Customers":       {Priority: 4, Action: "Onboarding"},
	"Promising":           {Priority: 5, Action: "Free trials"},
	"Need Attention":      {Priority: 6, Action: "Limited-time offers"},
	"About to Sleep":      {Priority: 7, Action: "Recommendations"},
	"At Risk":             {Priority: 8, Action: "Reactivation"},
	"Cannot Lose Them":    {Priority: 9, Action: "Win back"},
	"Hibernating":         {Priority: 10, Action: "Cross-sell"},
	"Lost":                {Priority: 11, Action: "Ignore"},
	OtherSegment:          {Priority: 12, Action: "Review"},
}

// ComputeSegmentStats aggregates scored customers per segment, ordered by
// activation priority. Only segments with at least one customer appear.
func ComputeSegmentStats(scored []*ScoredCustomer) []*data.SegmentStatRow {
	type acc struct {
		customers int
		recency   float64
		frequency float64
		monetary  float64
	}

	totals := make(map[string]*acc, len(SegmentRules)+1)
	for _, sc := range scored {
		bucket, ok := totals[sc.Segment]
		if !ok {
			bucket = &acc{}
			totals[sc.Segment] = bucket
		}
		bucket.customers++
		bucket.recency += float64(sc.Recency)
		bucket.frequency += float64(sc.Frequency)
		bucket.monetary += sc.Monetary
	}

	stats := make([]*data.SegmentStatRow, 0, len(totals))
	for label, bucket := range totals {
		n := float64(bucket.customers)
		action := SegmentActions[label]
		stats = append(stats, &data.SegmentStatRow{
			Segment:       label,
			Customers:     bucket.customers,
			SharePct:      n / float64(len(scored)) * 100,
			AvgRecency:    bucket.recency / n,
			AvgFrequency:  bucket.frequency / n,
			AvgMonetary:   bucket.monetary / n,
			TotalMonetary: bucket.monetary,
			Priority:      action.Priority,
			Action:        action.Action,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Priority < stats[j].Priority
	})

	return stats
}

// PriorityCell positions one segment on the value/size plane. Each axis is
// scaled so the largest segment on it scores 100.
type PriorityCell struct {
	Segment       string  `json:"segment"`
	CLVScore      float64 `json:"clv_score"`
	SizeScore     float64 `json:"size_score"`
	PriorityScore float64 `json:"priority_score"`
}

// PriorityMatrix converts segment stats into prioritization scores,
// highest priority first.
func PriorityMatrix(stats []*data.SegmentStatRow) []PriorityCell {
	var maxMonetary float64
	var maxCustomers int
	for _, s := range stats {
		if s.AvgMonetary > maxMonetary {
			maxMonetary = s.AvgMonetary
		}
		if s.Customers > maxCustomers {
			maxCustomers = s.Customers
		}
	}

	cells := make([]PriorityCell, 0, len(stats))
	for _, s := range stats {
		cell := PriorityCell{Segment: s.Segment}
		if maxMonetary > 0 {
			cell.CLVScore = math.Round(s.AvgMonetary / maxMonetary * 100)
		}
		if maxCustomers > 0 {
			cell.SizeScore = math.Round(float64(s.Customers) / float64(maxCustomers) * 100)
		}
		cell.PriorityScore = (cell.CLVScore + cell.SizeScore) / 2
		cells = append(cells, cell)
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].PriorityScore != cells[j].PriorityScore {
			return cells[i].PriorityScore > cells[j].PriorityScore
		}
		return cells[i].Segment < cells[j].Segment
	})

	return cells
}

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
	"sort"

	"github.com/retail-lens/rldata/data"
)

// Scenario adjusts the three behavioral levers by fractional deltas; a
// RetentionChange of 0.15 models a 15% lift. The levers multiply
// independently; interaction effects are not modeled.
type Scenario struct {
	Name            string  `json:"name"`
	RetentionChange float64 `json:"retention_change"`
	FrequencyChange float64 `json:"frequency_change"`
	MonetaryChange  float64 `json:"monetary_change"`
}

// Factor is the combined multiplier the scenario applies to base lifetime
// value. A scenario with no changes has a factor of exactly 1.
func (s Scenario) Factor() float64 {
	return (1 + s.RetentionChange) * (1 + s.FrequencyChange) * (1 + s.MonetaryChange)
}

// CustomerImpact is the simulated lifetime value change for one customer.
type CustomerImpact struct {
	CustomerID  string  `json:"customer_id"`
	Base        float64 `json:"base"`
	Projected   float64 `json:"projected"`
	Improvement float64 `json:"improvement"`
}

// Simulate applies a scenario to a base lifetime value series, ordered by
// customer id.
func Simulate(base map[string]float64, scenario Scenario) []CustomerImpact {
	factor := scenario.Factor()
	impacts := make([]CustomerImpact, 0, len(base))
	for customerID, value := range base {
		projected := value * factor
		impacts = append(impacts, CustomerImpact{
			CustomerID:  customerID,
			Base:        value,
			Projected:   projected,
			Improvement: projected - value,
		})
	}

	sort.Slice(impacts, func(i, j int) bool {
		return impacts[i].CustomerID < impacts[j].CustomerID
	})

	return impacts
}

// TotalImpact sums a simulated scenario across all customers.
type TotalImpact struct {
	Customers      int     `json:"customers"`
	Base           float64 `json:"base"`
	Projected      float64 `json:"projected"`
	Improvement    float64 `json:"improvement"`
	ImprovementPct float64 `json:"improvement_pct"`
}

// Totals aggregates per-customer impacts.
func Totals(impacts []CustomerImpact) TotalImpact {
	total := TotalImpact{Customers: len(impacts)}
	for _, impact := range impacts {
		total.Base += impact.Base
		total.Projected += impact.Projected
		total.Improvement += impact.Improvement
	}
	if total.Base != 0 {
		total.ImprovementPct = total.Improvement / total.Base * 100
	}
	return total
}

// SegmentImpacts aggregates a scenario per customer segment, ordered by
// segment activation priority. Customers without a base value contribute
// nothing.
func SegmentImpacts(scored []*ScoredCustomer, base map[string]float64, scenario Scenario) []*data.ScenarioImpactRow {
	factor := scenario.Factor()

	byLabel := make(map[string]*data.ScenarioImpactRow, len(SegmentActions))
	for _, sc := range scored {
		value, ok := base[sc.CustomerID]
		if !ok {
			continue
		}

		row, ok := byLabel[sc.Segment]
		if !ok {
			row = &data.ScenarioImpactRow{Scenario: scenario.Name, Segment: sc.Segment}
			byLabel[sc.Segment] = row
		}
		row.Customers++
		row.BaseCLV += value
		row.ProjectedCLV += value * factor
	}

	rows := make([]*data.ScenarioImpactRow, 0, len(byLabel))
	for _, row := range byLabel {
		row.Improvement = row.ProjectedCLV - row.BaseCLV
		if row.BaseCLV != 0 {
			row.ImprovementPct = row.Improvement / row.BaseCLV * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return SegmentActions[rows[i].Segment].Priority < SegmentActions[rows[j].Segment].Priority
	})

	return rows
}

// PresetScenarios are the planning presets offered by the simulate
// command, mildest first.
func PresetScenarios() []Scenario {
	return []Scenario{
		{Name: "Conservative", RetentionChange: 0.03, FrequencyChange: 0.02, MonetaryChange: 0.01},
		{Name: "Realistic", RetentionChange: 0.08, FrequencyChange: 0.05, MonetaryChange: 0.03},
		{Name: "Optimistic", RetentionChange: 0.15, FrequencyChange: 0.10, MonetaryChange: 0.08},
		{Name: "Aggressive", RetentionChange: 0.25, FrequencyChange: 0.20, MonetaryChange: 0.15},
	}
}

// RateScenario pairs a label with closed-form rates for sensitivity
// comparisons.
type RateScenario struct {
	Name   string
	Params CLVParams
}

// RateScenarios builds the standard sensitivity set around a baseline: a
// five point retention lift, a two point margin cut, and both together.
func RateScenarios(base CLVParams) []RateScenario {
	return []RateScenario{
		{Name: "Baseline", Params: base},
		{Name: "Retention +5pts", Params: CLVParams{
			Retention: base.Retention + 0.05, Discount: base.Discount, Margin: base.Margin}},
		{Name: "Margin -2pts", Params: CLVParams{
			Retention: base.Retention, Discount: base.Discount, Margin: base.Margin - 0.02}},
		{Name: "Retention +5pts, Margin -2pts", Params: CLVParams{
			Retention: base.Retention + 0.05, Discount: base.Discount, Margin: base.Margin - 0.02}},
	}
}

// SensitivityRow is the portfolio-level lifetime value under one rate
// scenario.
type SensitivityRow struct {
	Name     string  `json:"name"`
	TotalCLV float64 `json:"total_clv"`
	AvgCLV   float64 `json:"avg_clv"`
}

// Sensitivity computes total and average parametric lifetime value under
// each rate scenario. Any divergent scenario fails the whole call.
func Sensitivity(metrics []*data.RFMMetric, base CLVParams) ([]SensitivityRow, error) {
	scenarios := RateScenarios(base)
	rows := make([]SensitivityRow, 0, len(scenarios))
	for _, scenario := range scenarios {
		values, err := ParametricCLV(metrics, scenario.Params)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		row := SensitivityRow{Name: scenario.Name}
		for _, value := range values {
			row.TotalCLV += value
		}
		if len(values) > 0 {
			row.AvgCLV = row.TotalCLV / float64(len(values))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

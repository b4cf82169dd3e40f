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

// EmpiricalCLV sums each customer's observed spending over the view. The
// estimate is backward looking and carries no projection.
func EmpiricalCLV(view []*data.Transaction) map[string]float64 {
	values := make(map[string]float64, len(view)/4)
	for _, trx := range view {
		values[trx.CustomerID] += trx.TotalAmount
	}
	return values
}

// CLVParams parameterizes the closed-form lifetime value estimate:
//
//	CLV = monetary * margin * retention / (1 + discount - retention)
type CLVParams struct {
	Retention float64 `json:"retention" toml:"retention"`
	Discount  float64 `json:"discount" toml:"discount"`
	Margin    float64 `json:"margin" toml:"margin"`
}

// DefaultCLVParams are the rates used for planning when no overrides are
// configured.
func DefaultCLVParams() CLVParams {
	return CLVParams{Retention: 0.75, Discount: 0.1, Margin: 0.2}
}

// Validate rejects rate combinations where the discounted geometric series
// does not converge.
func (params CLVParams) Validate() error {
	if params.Retention >= 1+params.Discount {
		return fmt.Errorf("%w: retention %.3f, discount %.3f",
			ErrDivergentCLV, params.Retention, params.Discount)
	}
	return nil
}

// Value computes lifetime value for one monetary amount.
func (params CLVParams) Value(monetary float64) float64 {
	return monetary * params.Margin * params.Retention / (1 + params.Discount - params.Retention)
}

// ParametricCLV projects lifetime value for every customer from their
// monetary measure. Divergent rates fail the whole call; no per-customer
// values are produced.
func ParametricCLV(metrics []*data.RFMMetric, params CLVParams) (map[string]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	values := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		values[m.CustomerID] = params.Value(m.Monetary)
	}

	return values, nil
}

// CLVRows joins the two estimates into export rows ordered by customer id.
// The union of both customer sets is kept; a customer absent from one
// estimator keeps a zero in that column.
func CLVRows(empirical, parametric map[string]float64) []*data.CLVRow {
	seen := make(map[string]struct{}, len(empirical))
	rows := make([]*data.CLVRow, 0, len(empirical))
	for customerID, value := range empirical {
		seen[customerID] = struct{}{}
		rows = append(rows, &data.CLVRow{
			CustomerID: customerID,
			Empirical:  value,
			Parametric: parametric[customerID],
		})
	}
	for customerID, value := range parametric {
		if _, ok := seen[customerID]; ok {
			continue
		}
		rows = append(rows, &data.CLVRow{
			CustomerID: customerID,
			Parametric: value,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CustomerID < rows[j].CustomerID
	})

	return rows
}

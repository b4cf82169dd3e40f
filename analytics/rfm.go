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

// MinSegmentCustomers is the fewest customers that can be split into five
// quantile bins.
const MinSegmentCustomers = 5

// ScoredCustomer carries one customer's RFM measures, their quantile
// scores, and the segment label the scores map to.
type ScoredCustomer struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
	RScore     int     `json:"r_score"`
	FScore     int     `json:"f_score"`
	MScore     int     `json:"m_score"`
	Score      string  `json:"rfm_score"`
	Segment    string  `json:"segment"`
}

// quantileBins assigns each value a bin from 1..bins with populations as
// equal as possible (sizes differ by at most one). Ties break by input
// position so the binning is stable.
func quantileBins(values []float64, bins int) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	result := make([]int, len(values))
	for rank, idx := range order {
		result[idx] = rank*bins/len(values) + 1
	}

	return result
}

// ScoreRFM scores every customer 1..5 on recency, frequency, and monetary
// value and attaches segment labels. Recency is inverted so the most
// recent buyers score 5. Input order does not affect the result beyond
// breaking exact ties.
func ScoreRFM(metrics []*data.RFMMetric) ([]*ScoredCustomer, error) {
	if len(metrics) < MinSegmentCustomers {
		return nil, fmt.Errorf("%w: have %d customers, need at least %d",
			ErrInsufficientData, len(metrics), MinSegmentCustomers)
	}

	recency := make([]float64, len(metrics))
	frequency := make([]float64, len(metrics))
	monetary := make([]float64, len(metrics))
	for i, m := range metrics {
		recency[i] = float64(m.Recency)
		frequency[i] = float64(m.Frequency)
		monetary[i] = m.Monetary
	}

	rBins := quantileBins(recency, 5)
	fBins := quantileBins(frequency, 5)
	mBins := quantileBins(monetary, 5)

	scored := make([]*ScoredCustomer, len(metrics))
	for i, m := range metrics {
		r := 6 - rBins[i] // low recency (bought recently) earns the top score
		f := fBins[i]
		mv := mBins[i]
		scored[i] = &ScoredCustomer{
			CustomerID: m.CustomerID,
			Recency:    m.Recency,
			Frequency:  m.Frequency,
			Monetary:   m.Monetary,
			RScore:     r,
			FScore:     f,
			MScore:     mv,
			Score:      fmt.Sprintf("%d%d%d", r, f, mv),
			Segment:    Classify(r, f, mv),
		}
	}

	return scored, nil
}

// SegmentRows flattens scored customers into export rows ordered by
// customer id.
func SegmentRows(scored []*ScoredCustomer) []*data.SegmentRow {
	rows := make([]*data.SegmentRow, 0, len(scored))
	for _, sc := range scored {
		rows = append(rows, &data.SegmentRow{
			CustomerID: sc.CustomerID,
			Recency:    sc.Recency,
			Frequency:  sc.Frequency,
			Monetary:   sc.Monetary,
			RScore:     sc.RScore,
			FScore:     sc.FScore,
			MScore:     sc.MScore,
			RFMScore:   sc.Score,
			Segment:    sc.Segment,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CustomerID < rows[j].CustomerID
	})

	return rows
}

// DeriveRFM recomputes recency, frequency, and monetary measures straight
// from a transaction log. Recency counts days from the customer's last
// purchase to the analysis date, frequency counts transactions, and
// monetary sums spending. Useful for checking a prepared metrics file
// against its source.
func DeriveRFM(transactions []*data.Transaction, analysisDate data.CSVDate) []*data.RFMMetric {
	type acc struct {
		last      int64
		frequency int
		monetary  float64
	}

	totals := make(map[string]*acc, len(transactions)/4)
	for _, trx := range transactions {
		bucket, ok := totals[trx.CustomerID]
		if !ok {
			bucket = &acc{}
			totals[trx.CustomerID] = bucket
		}
		if ts := trx.InvoiceDate.Unix(); ts > bucket.last {
			bucket.last = ts
		}
		bucket.frequency++
		bucket.monetary += trx.TotalAmount
	}

	metrics := make([]*data.RFMMetric, 0, len(totals))
	for customerID, bucket := range totals {
		days := int(analysisDate.Unix()-bucket.last) / 86400
		if days < 0 {
			days = 0
		}
		metrics = append(metrics, &data.RFMMetric{
			CustomerID: customerID,
			Recency:    days,
			Frequency:  bucket.frequency,
			Monetary:   bucket.monetary,
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].CustomerID < metrics[j].CustomerID
	})

	return metrics
}

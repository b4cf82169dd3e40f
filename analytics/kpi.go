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
	"time"

	"github.com/retail-lens/rldata/data"
)

// KPISet is the headline view of one transaction log.
type KPISet struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TotalCustomers   int     `json:"total_customers"`
	AvgOrderValue    float64 `json:"avg_order_value"`
	OrderValueStdDev float64 `json:"order_value_std_dev"`
	AvgCLV           float64 `json:"avg_clv"`
	MaxCLV           float64 `json:"max_clv"`
	RevenueGrowthPct float64 `json:"revenue_growth_pct"`
	NewCustomers     int     `json:"new_customers"`
}

// ComputeKPIs summarizes a transaction view against a lifetime value
// series. Growth compares the two most recent observed months; customers
// count as new when their first transaction falls in the latest observed
// month.
func ComputeKPIs(view []*data.Transaction, clv map[string]float64) *KPISet {
	kpis := &KPISet{}
	if len(view) == 0 {
		return kpis
	}

	customers := make(map[string]data.Month, len(view)/4)
	for _, trx := range view {
		kpis.TotalRevenue += trx.TotalAmount
		month := trx.Month()
		if acquired, ok := customers[trx.CustomerID]; !ok || month < acquired {
			customers[trx.CustomerID] = month
		}
	}
	kpis.TotalCustomers = len(customers)
	kpis.AvgOrderValue = kpis.TotalRevenue / float64(len(view))

	if len(view) > 1 {
		var squares float64
		for _, trx := range view {
			diff := trx.TotalAmount - kpis.AvgOrderValue
			squares += diff * diff
		}
		kpis.OrderValueStdDev = math.Sqrt(squares / float64(len(view)-1))
	}

	first := true
	for _, value := range clv {
		kpis.AvgCLV += value
		if first || value > kpis.MaxCLV {
			kpis.MaxCLV = value
			first = false
		}
	}
	if len(clv) > 0 {
		kpis.AvgCLV /= float64(len(clv))
	}

	monthly := RevenueByMonth(view)
	if n := len(monthly); n >= 2 && monthly[n-2].Revenue != 0 {
		kpis.RevenueGrowthPct = (monthly[n-1].Revenue - monthly[n-2].Revenue) /
			monthly[n-2].Revenue * 100
	}
	if len(monthly) > 0 {
		latest := monthly[len(monthly)-1].Month
		for _, acquired := range customers {
			if acquired == latest {
				kpis.NewCustomers++
			}
		}
	}

	return kpis
}

// Row flattens the KPI set for export.
func (k *KPISet) Row() *data.KPIRow {
	return &data.KPIRow{
		TotalRevenue:     k.TotalRevenue,
		TotalCustomers:   k.TotalCustomers,
		AvgOrderValue:    k.AvgOrderValue,
		OrderValueStdDev: k.OrderValueStdDev,
		AvgCLV:           k.AvgCLV,
		MaxCLV:           k.MaxCLV,
		RevenueGrowthPct: k.RevenueGrowthPct,
		NewCustomers:     k.NewCustomers,
	}
}

// MonthlyRevenue is one month of revenue.
type MonthlyRevenue struct {
	Month   data.Month `json:"month"`
	Revenue float64    `json:"revenue"`
}

// RevenueByMonth returns the revenue series in calendar order. Only months
// with activity appear.
func RevenueByMonth(view []*data.Transaction) []MonthlyRevenue {
	totals := make(map[data.Month]float64, 32)
	for _, trx := range view {
		totals[trx.Month()] += trx.TotalAmount
	}

	series := make([]MonthlyRevenue, 0, len(totals))
	for month, revenue := range totals {
		series = append(series, MonthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })

	return series
}

// CountryRevenue ranks one market by revenue.
type CountryRevenue struct {
	Country   string  `json:"country"`
	Revenue   float64 `json:"revenue"`
	Customers int     `json:"customers"`
}

// RevenueByCountry ranks countries by revenue, largest first.
func RevenueByCountry(view []*data.Transaction) []CountryRevenue {
	type acc struct {
		revenue   float64
		customers map[string]struct{}
	}

	totals := make(map[string]*acc, 40)
	for _, trx := range view {
		bucket, ok := totals[trx.Country]
		if !ok {
			bucket = &acc{customers: make(map[string]struct{})}
			totals[trx.Country] = bucket
		}
		bucket.revenue += trx.TotalAmount
		bucket.customers[trx.CustomerID] = struct{}{}
	}

	ranked := make([]CountryRevenue, 0, len(totals))
	for country, bucket := range totals {
		ranked = append(ranked, CountryRevenue{
			Country:   country,
			Revenue:   bucket.revenue,
			Customers: len(bucket.customers),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Country < ranked[j].Country
	})

	return ranked
}

// SummarizeCustomers builds the enriched per-customer export: purchase
// window, order counts, and spending joined with RFM scores. One row per
// customer present in both the view and the scored segments, ordered by
// customer id.
func SummarizeCustomers(view []*data.Transaction, scored []*ScoredCustomer) []*data.CustomerSummaryRow {
	type acc struct {
		first   time.Time
		last    time.Time
		orders  int
		total   float64
		country string
	}

	totals := make(map[string]*acc, len(view)/4)
	for _, trx := range view {
		bucket, ok := totals[trx.CustomerID]
		if !ok {
			bucket = &acc{
				first:   trx.InvoiceDate.Time,
				last:    trx.InvoiceDate.Time,
				country: trx.Country,
			}
			totals[trx.CustomerID] = bucket
		}
		if trx.InvoiceDate.Before(bucket.first) {
			bucket.first = trx.InvoiceDate.Time
			bucket.country = trx.Country
		}
		if trx.InvoiceDate.After(bucket.last) {
			bucket.last = trx.InvoiceDate.Time
		}
		bucket.orders++
		bucket.total += trx.TotalAmount
	}

	rows := make([]*data.CustomerSummaryRow, 0, len(scored))
	for _, sc := range scored {
		bucket, ok := totals[sc.CustomerID]
		if !ok {
			continue
		}
		rows = append(rows, &data.CustomerSummaryRow{
			CustomerID:    sc.CustomerID,
			FirstPurchase: bucket.first.Format("2006-01-02"),
			LastPurchase:  bucket.last.Format("2006-01-02"),
			OrderCount:    bucket.orders,
			TotalSpent:    bucket.total,
			AvgOrderValue: bucket.total / float64(bucket.orders),
			Country:       bucket.country,
			RFMScore:      sc.Score,
			Segment:       sc.Segment,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CustomerID < rows[j].CustomerID
	})

	return rows
}

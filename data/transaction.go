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
package data

// Transaction is one line of the cleaned retail transaction log. Column
// names match the prepared CSV exactly.
type Transaction struct {
	CustomerID  string  `csv:"Customer ID" json:"customer_id" db:"customer_id"`
	InvoiceDate CSVDate `csv:"InvoiceDate" json:"invoice_date" db:"invoice_date"`
	TotalAmount float64 `csv:"TotalAmount" json:"total_amount" db:"total_amount"`
	Country     string  `csv:"Country" json:"country" db:"country"`
}

// Month returns the calendar month the transaction falls in.
func (t *Transaction) Month() Month {
	return MonthOf(t.InvoiceDate.Time)
}

// RFMMetric carries the recency/frequency/monetary measures computed for a
// customer during data preparation. Recency counts days since the
// customer's last purchase as of the preparation snapshot date.
type RFMMetric struct {
	CustomerID string  `csv:"Customer ID" json:"customer_id" db:"customer_id"`
	Recency    int     `csv:"Recency" json:"recency" db:"recency"`
	Frequency  int     `csv:"Frequency" json:"frequency" db:"frequency"`
	Monetary   float64 `csv:"Monetary" json:"monetary" db:"monetary"`
}

// CustomerStat is the per-customer spending rollup produced during data
// preparation.
type CustomerStat struct {
	CustomerID    string  `csv:"Customer ID" json:"customer_id" db:"customer_id"`
	TotalSpending float64 `csv:"Total_Spending" json:"total_spending" db:"total_spending"`
	OrderCount    int     `csv:"Order_Count" json:"order_count" db:"order_count"`
}

// CohortAssignment maps a customer to their acquisition cohort: the
// calendar month of their first transaction in the full dataset. Each
// customer has exactly one cohort month.
type CohortAssignment struct {
	CustomerID  string `csv:"Customer ID" json:"customer_id" db:"customer_id"`
	CohortMonth Month  `csv:"CohortMonth" json:"cohort_month" db:"cohort_month"`
}

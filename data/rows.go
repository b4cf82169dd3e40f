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

// Flat row forms of the computed analytics. Every result the engines
// produce can be represented as a slice of one of these types, which is
// what the exporters write and the warehouse stores. Only observed cells
// become rows; a (cohort, age) pair with no activity has no row.

// CohortCellRow is one observed cell of the cohort retention matrix.
type CohortCellRow struct {
	CohortMonth string  `csv:"Cohort Month" json:"cohort_month" parquet:"name=cohort_month, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"cohort_month"`
	Age         int     `csv:"Age" json:"age" parquet:"name=age, type=INT32" db:"age"`
	Customers   int     `csv:"Customers" json:"customers" parquet:"name=customers, type=INT32" db:"customers"`
	CohortSize  int     `csv:"Cohort Size" json:"cohort_size" parquet:"name=cohort_size, type=INT32" db:"cohort_size"`
	Retention   float64 `csv:"Retention" json:"retention" parquet:"name=retention, type=DOUBLE" db:"retention"`
}

// RevenueCellRow is one observed cell of the cohort revenue curves.
type RevenueCellRow struct {
	CohortMonth       string  `csv:"Cohort Month" json:"cohort_month" parquet:"name=cohort_month, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"cohort_month"`
	Age               int     `csv:"Age" json:"age" parquet:"name=age, type=INT32" db:"age"`
	Revenue           float64 `csv:"Revenue" json:"revenue" parquet:"name=revenue, type=DOUBLE" db:"revenue"`
	CumulativeRevenue float64 `csv:"Cumulative Revenue" json:"cumulative_revenue" parquet:"name=cumulative_revenue, type=DOUBLE" db:"cumulative_revenue"`
}

// SegmentRow is one scored customer with their segment label.
type SegmentRow struct {
	CustomerID string  `csv:"Customer ID" json:"customer_id" parquet:"name=customer_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"customer_id"`
	Recency    int     `csv:"Recency" json:"recency" parquet:"name=recency, type=INT32" db:"recency"`
	Frequency  int     `csv:"Frequency" json:"frequency" parquet:"name=frequency, type=INT32" db:"frequency"`
	Monetary   float64 `csv:"Monetary" json:"monetary" parquet:"name=monetary, type=DOUBLE" db:"monetary"`
	RScore     int     `csv:"R_Score" json:"r_score" parquet:"name=r_score, type=INT32" db:"r_score"`
	FScore     int     `csv:"F_Score" json:"f_score" parquet:"name=f_score, type=INT32" db:"f_score"`
	MScore     int     `csv:"M_Score" json:"m_score" parquet:"name=m_score, type=INT32" db:"m_score"`
	RFMScore   string  `csv:"RFM_Score" json:"rfm_score" parquet:"name=rfm_score, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"rfm_score"`
	Segment    string  `csv:"Segment" json:"segment" parquet:"name=segment, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"segment"`
}

// SegmentStatRow aggregates one segment of the customer base.
type SegmentStatRow struct {
	Segment       string  `csv:"Segment" json:"segment" parquet:"name=segment, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"segment"`
	Customers     int     `csv:"Customers" json:"customers" parquet:"name=customers, type=INT32" db:"customers"`
	SharePct      float64 `csv:"Share %" json:"share_pct" parquet:"name=share_pct, type=DOUBLE" db:"share_pct"`
	AvgRecency    float64 `csv:"Avg Recency" json:"avg_recency" parquet:"name=avg_recency, type=DOUBLE" db:"avg_recency"`
	AvgFrequency  float64 `csv:"Avg Frequency" json:"avg_frequency" parquet:"name=avg_frequency, type=DOUBLE" db:"avg_frequency"`
	AvgMonetary   float64 `csv:"Avg Monetary" json:"avg_monetary" parquet:"name=avg_monetary, type=DOUBLE" db:"avg_monetary"`
	TotalMonetary float64 `csv:"Total Monetary" json:"total_monetary" parquet:"name=total_monetary, type=DOUBLE" db:"total_monetary"`
	Priority      int     `csv:"Priority" json:"priority" parquet:"name=priority, type=INT32" db:"priority"`
	Action        string  `csv:"Action" json:"action" parquet:"name=action, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"action"`
}

// CLVRow holds both lifetime value estimates for one customer. The two
// columns come from independent estimators and are never reconciled.
type CLVRow struct {
	CustomerID string  `csv:"Customer ID" json:"customer_id" parquet:"name=customer_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"customer_id"`
	Empirical  float64 `csv:"Empirical CLV" json:"empirical_clv" parquet:"name=empirical_clv, type=DOUBLE" db:"empirical_clv"`
	Parametric float64 `csv:"Parametric CLV" json:"parametric_clv" parquet:"name=parametric_clv, type=DOUBLE" db:"parametric_clv"`
}

// ScenarioImpactRow is the aggregate effect of a what-if scenario on one
// segment.
type ScenarioImpactRow struct {
	Scenario       string  `csv:"Scenario" json:"scenario" parquet:"name=scenario, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"scenario"`
	Segment        string  `csv:"Segment" json:"segment" parquet:"name=segment, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"segment"`
	Customers      int     `csv:"Customers" json:"customers" parquet:"name=customers, type=INT32" db:"customers"`
	BaseCLV        float64 `csv:"Base CLV" json:"base_clv" parquet:"name=base_clv, type=DOUBLE" db:"base_clv"`
	ProjectedCLV   float64 `csv:"Projected CLV" json:"projected_clv" parquet:"name=projected_clv, type=DOUBLE" db:"projected_clv"`
	Improvement    float64 `csv:"Improvement" json:"improvement" parquet:"name=improvement, type=DOUBLE" db:"improvement"`
	ImprovementPct float64 `csv:"Improvement %" json:"improvement_pct" parquet:"name=improvement_pct, type=DOUBLE" db:"improvement_pct"`
}

// CustomerSummaryRow is the enriched per-customer export record. Column
// names follow the prepared dataset conventions.
type CustomerSummaryRow struct {
	CustomerID    string  `csv:"Customer ID" json:"customer_id" parquet:"name=customer_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"customer_id"`
	FirstPurchase string  `csv:"First_Purchase" json:"first_purchase" parquet:"name=first_purchase, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"first_purchase"`
	LastPurchase  string  `csv:"Last_Purchase" json:"last_purchase" parquet:"name=last_purchase, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"last_purchase"`
	OrderCount    int     `csv:"Order_Count" json:"order_count" parquet:"name=order_count, type=INT32" db:"order_count"`
	TotalSpent    float64 `csv:"Total_Spent" json:"total_spent" parquet:"name=total_spent, type=DOUBLE" db:"total_spent"`
	AvgOrderValue float64 `csv:"Avg_Order_Value" json:"avg_order_value" parquet:"name=avg_order_value, type=DOUBLE" db:"avg_order_value"`
	Country       string  `csv:"Country" json:"country" parquet:"name=country, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"country"`
	RFMScore      string  `csv:"RFM_Score" json:"rfm_score" parquet:"name=rfm_score, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"rfm_score"`
	Segment       string  `csv:"Segment" json:"segment" parquet:"name=segment, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY" db:"segment"`
}

// KPIRow is the headline metrics of one analysis run as a single wide row.
type KPIRow struct {
	TotalRevenue     float64 `csv:"Total Revenue" json:"total_revenue" parquet:"name=total_revenue, type=DOUBLE" db:"total_revenue"`
	TotalCustomers   int     `csv:"Total Customers" json:"total_customers" parquet:"name=total_customers, type=INT32" db:"total_customers"`
	AvgOrderValue    float64 `csv:"Avg Order Value" json:"avg_order_value" parquet:"name=avg_order_value, type=DOUBLE" db:"avg_order_value"`
	OrderValueStdDev float64 `csv:"Order Value Std Dev" json:"order_value_std_dev" parquet:"name=order_value_std_dev, type=DOUBLE" db:"order_value_std_dev"`
	AvgCLV           float64 `csv:"Avg CLV" json:"avg_clv" parquet:"name=avg_clv, type=DOUBLE" db:"avg_clv"`
	MaxCLV           float64 `csv:"Max CLV" json:"max_clv" parquet:"name=max_clv, type=DOUBLE" db:"max_clv"`
	RevenueGrowthPct float64 `csv:"Revenue Growth %" json:"revenue_growth_pct" parquet:"name=revenue_growth_pct, type=DOUBLE" db:"revenue_growth_pct"`
	NewCustomers     int     `csv:"New Customers" json:"new_customers" parquet:"name=new_customers, type=INT32" db:"new_customers"`
}

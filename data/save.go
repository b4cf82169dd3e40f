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

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Warehouse table names. One row per (run, natural key); re-saving a run
// upserts so a re-computed analysis replaces its previous values.
const (
	CohortCellTable      = "cohort_cells"
	RevenueCellTable     = "cohort_revenue"
	SegmentTable         = "customer_segments"
	SegmentStatTable     = "segment_stats"
	CLVTable             = "customer_clv"
	ScenarioImpactTable  = "scenario_impacts"
	CustomerSummaryTable = "customer_summaries"
	KPITable             = "run_kpis"
)

func (row *CohortCellRow) Save(ctx context.Context, tx pgx.Tx, runID uuid.UUID) error {
	_, err := tx.Exec(ctx, `INSERT INTO cohort_cells (
		"run_id",
		"cohort_month",
		"age",
		"customers",
		"cohort_size",
		"retention"
	) VALUES (
		$1, $2, $3, $4, $5, $6
	) ON CONFLICT ON CONSTRAINT cohort_cells_pkey
	DO UPDATE SET
		customers = EXCLUDED.customers,
		cohort_size = EXCLUDED.cohort_size,
		retention = EXCLUDED.retention;`, runID, row.CohortMonth, row.Age,
		row.Customers, row.CohortSize, row.Retention)
	return err
}

func (row *RevenueCellRow) Save(ctx context.Context, tx pgx.Tx, runID uuid.UUID) error {
	_, err := tx.Exec(ctx, `INSERT INTO cohort_revenue (
		"run_id",
		"cohort_month",
		"age",
		"revenue",
		"cumulative_revenue"
	) VALUES (
		$1, $2, $3, $4, $5
	) ON CONFLICT ON CONSTRAINT cohort_revenue_pkey
	DO UPDATE SET
		revenue = EXCLUDED.revenue,
		cumulative_revenue = EXCLUDED.cumulative_revenue;`, runID,
		row.CohortMonth, row.Age, row.Revenue, row.CumulativeRevenue)
	return err
}

func (row *SegmentRow) Save(ctx context.Context, tx pgx.Tx, runID uuid.UUID) error {
	_, err := tx.Exec(ctx, `INSERT INTO customer_segments (
		"run_id",
		"customer_id",
		"recency",
		"frequency",
		"monetary",
		"r_score",
		"f_score",
		"m_score",
		"rfm_score",
		"segment"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	) ON CONFLICT ON CONSTRAINT customer_segments_pkey
	DO UPDATE SET
		recency = EXCLUDED.recency,
		frequency = EXCLUDED.frequency,
		monetary = EXCLUDED.monetary,
		r_score = EXCLUDED.r_score,
		f_score = EXCLUDED.f_score,
		m_score = EXCLUDED.m_score,
		rfm_score = EXCLUDED.rfm_score,
		segment = EXCLUDED.segment;`, runID, row.CustomerID, row.Recency,
		row.Frequency, row.Monetary, row.RScore, row.FScore, row.MScore,
		row.RFMScore, row.Segment)
	return err
}

func (row *SegmentStatRow) Save(ctx context.Context, tx pgx.Tx, runID uuid.UUID) error {
	_, err := tx.Exec(ctx, `INSERT INTO segment_stats (
		"run_id",
		"segment",
		"customers",
		"share_pct",
		"avg_recency",
		"avg_frequency",
		"avg_monetary",
		"total_monetary",
		"priority",
		"action"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	) ON CONFLICT ON CONSTRAINT segment_stats_pkey
	DO UPDATE SET
		customers = EXCLUDED.customers,
		share_pct = EXCLUDED.share_pct,
		avg_recency = EXCLUDED.avg_recency,
		avg_frequency = EXCLUDED.avg_frequency,
		avg_monetary = EXCLUDED.avg_monetary,
		total_monetary = EXCLUDED.total_monetary,
		priority = EXCLUDED.priority,
		action = EXCLUDED.action;`, runID, row.Segment, row.Customers,
		row.SharePct, row.AvgRecency, row.AvgFrequency, row.AvgMonetary,
		row.TotalMonetary, row.Priority, row.Action)
	return err
}

func (row *CLVRow) Save(ctx context.Context, tx pgx.Tx, runID uuid.UUID) error {
	_, err := tx.Exec(ctx, `INSERT INTO customer_clv (
		"run_id",
		"customer_id",
		"empirical_clv",
		"parametric_clv"
	) VALUES (
		$1, $2, $3, $4
	) ON CONFLICT ON CONSTRAINT customer_clv_pkey
	DO UPDATE SET
		empirical_clv = EXCLUDED.empirical_clv,
		parametric_clv = EXCLUDED.parametric_clv;`, runID, row.CustomerID,
		row.Empirical, row.Parametric)
	return err
}

func (row *ScenarioImpactRow) Save(ctx context.Context, tx pgx.Tx, runID uuid.UUID) error {
	_, err := tx.Exec(ctx, `INSERT INTO scenario_impacts (
		"run_id",
		"scenario",
		"segment",
		"customers",
		"base_clv",
		"projected_clv",
		"improvement",
		"improvement_pct"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	) ON CONFLICT ON CONSTRAINT scenario_impacts_pkey
	DO UPDATE SET
		customers = EXCLUDED.customers,
		base_clv = EXCLUDED.base_clv,
		projected_clv = EXCLUDED.projected_clv,
		improvement = EXCLUDED.improvement,
		improvement_pct = EXCLUDED.improvement_pct;`, runID, row.Scenario,
		row.Segment, row.Customers, row.BaseCLV, row.ProjectedCLV,
		row.Improvement, row.ImprovementPct)
	return err
}

func (row *CustomerSummaryRow) Save(ctx context.Context, tx pgx.Tx, runID uuid.UUID) error {
	_, err := tx.Exec(ctx, `INSERT INTO customer_summaries (
		"run_id",
		"customer_id",
		"first_purchase",
		"last_purchase",
		"order_count",
		"total_spent",
		"avg_order_value",
		"country",
		"rfm_score",
		"segment"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	) ON CONFLICT ON CONSTRAINT customer_summaries_pkey
	DO UPDATE SET
		first_purchase = EXCLUDED.first_purchase,
		last_purchase = EXCLUDED.last_purchase,
		order_count = EXCLUDED.order_count,
		total_spent = EXCLUDED.total_spent,
		avg_order_value = EXCLUDED.avg_order_value,
		country = EXCLUDED.country,
		rfm_score = EXCLUDED.rfm_score,
		segment = EXCLUDED.segment;`, runID, row.CustomerID,
		row.FirstPurchase, row.LastPurchase, row.OrderCount, row.TotalSpent,
		row.AvgOrderValue, row.Country, row.RFMScore, row.Segment)
	return err
}

func (row *KPIRow) Save(ctx context.Context, tx pgx.Tx, runID uuid.UUID) error {
	_, err := tx.Exec(ctx, `INSERT INTO run_kpis (
		"run_id",
		"total_revenue",
		"total_customers",
		"avg_order_value",
		"order_value_std_dev",
		"avg_clv",
		"max_clv",
		"revenue_growth_pct",
		"new_customers"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	) ON CONFLICT ON CONSTRAINT run_kpis_pkey
	DO UPDATE SET
		total_revenue = EXCLUDED.total_revenue,
		total_customers = EXCLUDED.total_customers,
		avg_order_value = EXCLUDED.avg_order_value,
		order_value_std_dev = EXCLUDED.order_value_std_dev,
		avg_clv = EXCLUDED.avg_clv,
		max_clv = EXCLUDED.max_clv,
		revenue_growth_pct = EXCLUDED.revenue_growth_pct,
		new_customers = EXCLUDED.new_customers;`, runID, row.TotalRevenue,
		row.TotalCustomers, row.AvgOrderValue, row.OrderValueStdDev,
		row.AvgCLV, row.MaxCLV, row.RevenueGrowthPct, row.NewCustomers)
	return err
}

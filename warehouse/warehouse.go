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
package warehouse

import (
	"context"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/retail-lens/rldata/data"
	"github.com/rs/zerolog/log"
)

// Warehouse wraps the analytics database where computed snapshots are
// persisted.
type Warehouse struct {
	DBUrl string

	Pool *pgxpool.Pool
}

// AnalysisRun records one computation over a dataset snapshot. Every
// persisted row references a run so snapshots remain comparable over
// time.
type AnalysisRun struct {
	ID           uuid.UUID `db:"id"`
	Fingerprint  string    `db:"fingerprint"`
	DatasetStart time.Time `db:"dataset_start"`
	DatasetEnd   time.Time `db:"dataset_end"`
	Transactions int       `db:"transactions"`
	Customers    int       `db:"customers"`
	FilterDesc   string    `db:"filter_desc"`
	CreatedOn    time.Time `db:"created_on"`
	CreatedBy    string    `db:"created_by"`
}

// Snapshot aggregates every table produced by a single analytics run.
type Snapshot struct {
	Run *AnalysisRun

	CohortCells     []*data.CohortCellRow
	RevenueCells    []*data.RevenueCellRow
	Segments        []*data.SegmentRow
	SegmentStats    []*data.SegmentStatRow
	CLV             []*data.CLVRow
	ScenarioImpacts []*data.ScenarioImpactRow
	Summaries       []*data.CustomerSummaryRow
	KPIs            *data.KPIRow
}

// NewRun builds a run record for the given dataset fingerprint.
func NewRun(fingerprint, createdBy string) *AnalysisRun {
	return &AnalysisRun{
		ID:          uuid.New(),
		Fingerprint: fingerprint,
		CreatedOn:   time.Now(),
		CreatedBy:   createdBy,
	}
}

// Connect to the warehouse database
func (wh *Warehouse) Connect(_ context.Context) error {
	if wh.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(context.Background(), wh.DBUrl)
	if err != nil {
		return err
	}
	wh.Pool = pool

	return nil
}

// Close the database pool
func (wh *Warehouse) Close() {
	wh.Pool.Close()
}

// SaveSnapshot persists a full analytics snapshot in a single
// transaction. Either every table lands or none do.
func (wh *Warehouse) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	if snapshot.Run == nil {
		return errors.New("snapshot has no run record")
	}

	conn, err := wh.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			if !errors.Is(err, pgx.ErrTxClosed) {
				log.Error().Err(err).Msg("error rollingback tx")
			}
		}
	}()

	run := snapshot.Run
	_, err = tx.Exec(ctx, `INSERT INTO analysis_runs (
"id", "fingerprint", "dataset_start", "dataset_end", "transactions", "customers",
"filter_desc", "created_on", "created_by"
) VALUES (
$1, $2, $3, $4, $5, $6, $7, $8, $9
) ON CONFLICT ON CONSTRAINT analysis_runs_pkey
DO UPDATE SET
	fingerprint = EXCLUDED.fingerprint,
	dataset_start = EXCLUDED.dataset_start,
	dataset_end = EXCLUDED.dataset_end,
	transactions = EXCLUDED.transactions,
	customers = EXCLUDED.customers,
	filter_desc = EXCLUDED.filter_desc`,
		run.ID, run.Fingerprint, run.DatasetStart, run.DatasetEnd,
		run.Transactions, run.Customers, run.FilterDesc, run.CreatedOn,
		run.CreatedBy)
	if err != nil {
		return err
	}

	for _, row := range snapshot.CohortCells {
		if err := row.Save(ctx, tx, run.ID); err != nil {
			return err
		}
	}

	for _, row := range snapshot.RevenueCells {
		if err := row.Save(ctx, tx, run.ID); err != nil {
			return err
		}
	}

	for _, row := range snapshot.Segments {
		if err := row.Save(ctx, tx, run.ID); err != nil {
			return err
		}
	}

	for _, row := range snapshot.SegmentStats {
		if err := row.Save(ctx, tx, run.ID); err != nil {
			return err
		}
	}

	for _, row := range snapshot.CLV {
		if err := row.Save(ctx, tx, run.ID); err != nil {
			return err
		}
	}

	for _, row := range snapshot.ScenarioImpacts {
		if err := row.Save(ctx, tx, run.ID); err != nil {
			return err
		}
	}

	for _, row := range snapshot.Summaries {
		if err := row.Save(ctx, tx, run.ID); err != nil {
			return err
		}
	}

	if snapshot.KPIs != nil {
		if err := snapshot.KPIs.Save(ctx, tx, run.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().
		Str("RunID", run.ID.String()).
		Str("Fingerprint", run.Fingerprint).
		Int("Customers", run.Customers).
		Msg("saved analytics snapshot")

	return nil
}

// Runs returns the most recent analysis runs, newest first.
func (wh *Warehouse) Runs(ctx context.Context, limit int) ([]*AnalysisRun, error) {
	if limit <= 0 {
		limit = 10
	}

	var runs []*AnalysisRun
	err := pgxscan.Select(ctx, wh.Pool, &runs,
		`SELECT id, fingerprint, dataset_start, dataset_end, transactions, customers,
filter_desc, created_on, created_by FROM analysis_runs ORDER BY created_on DESC LIMIT $1`, limit)
	return runs, err
}

// RunFromID fetches the analysis run whose id begins with the given
// prefix.
func (wh *Warehouse) RunFromID(ctx context.Context, id string) (*AnalysisRun, error) {
	conn, err := wh.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	run := &AnalysisRun{}

	rows, err := conn.Query(ctx,
		`SELECT id, fingerprint, dataset_start, dataset_end, transactions, customers,
filter_desc, created_on, created_by FROM analysis_runs WHERE id::text like $1 LIMIT 1`, id+"%")
	if err != nil {
		return nil, err
	}

	if err := pgxscan.ScanOne(run, rows); err != nil {
		return nil, err
	}

	return run, nil
}

// NumRuns returns the total count of analysis runs in the warehouse
func (wh *Warehouse) NumRuns(ctx context.Context) (int, error) {
	conn, err := wh.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM analysis_runs").Scan(&count)
	return count, err
}

// LastUpdated returns the date of the most recent analysis run
func (wh *Warehouse) LastUpdated(ctx context.Context) (time.Time, error) {
	conn, err := wh.Pool.Acquire(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Release()

	var lastUpdated time.Time
	err = conn.QueryRow(ctx, "SELECT coalesce(max(created_on), '0001-01-01'::timestamp) FROM analysis_runs").Scan(&lastUpdated)
	if err != nil {
		return time.Time{}, err
	}

	return lastUpdated, nil
}

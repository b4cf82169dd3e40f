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
package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/retail-lens/rldata/data"
	"github.com/rs/zerolog/log"
)

// File names of a prepared dataset directory. All four must be present.
const (
	TransactionsFile  = "online_retail_clean.csv"
	RFMMetricsFile    = "rfm_metrics.csv"
	CustomerStatsFile = "customer_stats.csv"
	CohortsFile       = "customer_cohorts.csv"
)

// DatasetFiles lists the required files in hashing order.
var DatasetFiles = []string{
	TransactionsFile,
	RFMMetricsFile,
	CustomerStatsFile,
	CohortsFile,
}

// requiredColumns is the exact header set each file must carry. Extra
// columns are ignored; a missing one fails the whole load.
var requiredColumns = map[string][]string{
	TransactionsFile:  {"Customer ID", "InvoiceDate", "TotalAmount", "Country"},
	RFMMetricsFile:    {"Customer ID", "Recency", "Frequency", "Monetary"},
	CustomerStatsFile: {"Customer ID", "Total_Spending", "Order_Count"},
	CohortsFile:       {"Customer ID", "CohortMonth"},
}

// Store is a fully loaded dataset. It is read-only after Load returns;
// analytics over filtered views never modify it.
type Store struct {
	Dir           string
	Fingerprint   string
	Transactions  []*data.Transaction
	RFMMetrics    []*data.RFMMetric
	CustomerStats []*data.CustomerStat
	Cohorts       []*data.CohortAssignment
	LoadedAt      time.Time
}

// Load reads the four dataset files from dir. A missing file, a missing
// required column, or an unparseable value fails the load; there are no
// partial results.
func Load(dir string) (*Store, error) {
	files, fingerprint, err := readDatasetDir(dir)
	if err != nil {
		return nil, err
	}
	return parse(dir, files, fingerprint)
}

// readDatasetDir reads and validates every dataset file, returning the
// raw bytes plus the sha256 fingerprint over all of them.
func readDatasetDir(dir string) (map[string][]byte, string, error) {
	files := make(map[string][]byte, len(DatasetFiles))
	hash := sha256.New()

	for _, name := range DatasetFiles {
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, "", fmt.Errorf("%w: %s", ErrMissingFile, path)
			}
			return nil, "", err
		}
		// spreadsheet exports prepend a byte order mark
		content = bytes.TrimPrefix(content, []byte("\uFEFF"))
		if err := checkColumns(name, content); err != nil {
			return nil, "", err
		}

		if _, err := hash.Write([]byte(name)); err != nil {
			return nil, "", err
		}
		if _, err := hash.Write(content); err != nil {
			return nil, "", err
		}
		files[name] = content
	}

	return files, hex.EncodeToString(hash.Sum(nil)), nil
}

// checkColumns verifies the file's header row carries every required
// column, naming the first missing one.
func checkColumns(name string, content []byte) error {
	reader := csv.NewReader(bytes.NewReader(content))
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", name, err)
	}

	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = struct{}{}
	}

	for _, col := range requiredColumns[name] {
		if _, ok := present[col]; !ok {
			return fmt.Errorf("%w: %q in %s", ErrMissingColumn, col, name)
		}
	}

	return nil
}

func parse(dir string, files map[string][]byte, fingerprint string) (*Store, error) {
	store := &Store{
		Dir:         dir,
		Fingerprint: fingerprint,
		LoadedAt:    time.Now(),
	}

	if err := gocsv.UnmarshalBytes(files[TransactionsFile], &store.Transactions); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", TransactionsFile, err)
	}
	if err := gocsv.UnmarshalBytes(files[RFMMetricsFile], &store.RFMMetrics); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", RFMMetricsFile, err)
	}
	if err := gocsv.UnmarshalBytes(files[CustomerStatsFile], &store.CustomerStats); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", CustomerStatsFile, err)
	}
	if err := gocsv.UnmarshalBytes(files[CohortsFile], &store.Cohorts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", CohortsFile, err)
	}

	log.Info().Str("Dir", dir).
		Str("Fingerprint", shortFingerprint(fingerprint)).
		Int("NumTransactions", len(store.Transactions)).
		Int("NumCustomers", len(store.Cohorts)).
		Msg("dataset loaded")

	return store, nil
}

// DateRange returns the earliest and latest transaction timestamps.
func (store *Store) DateRange() (time.Time, time.Time) {
	var first, last time.Time
	for _, trx := range store.Transactions {
		when := trx.InvoiceDate.Time
		if first.IsZero() || when.Before(first) {
			first = when
		}
		if last.IsZero() || when.After(last) {
			last = when
		}
	}
	return first, last
}

// Countries returns the number of distinct markets in the log.
func (store *Store) Countries() int {
	seen := make(map[string]struct{}, 40)
	for _, trx := range store.Transactions {
		seen[trx.Country] = struct{}{}
	}
	return len(seen)
}

func shortFingerprint(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}

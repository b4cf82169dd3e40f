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
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/retail-lens/rldata/data"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat recognizes csv, json, and parquet.
func ParseFormat(value string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(value))); format {
	case FormatCSV, FormatJSON, FormatParquet:
		return format, nil
	default:
		return "", fmt.Errorf("unknown export format %q", value)
	}
}

// Bundle is the complete set of computed tables for one analysis run.
// Empty tables are skipped when writing.
type Bundle struct {
	Cohorts   []*data.CohortCellRow
	Revenue   []*data.RevenueCellRow
	Segments  []*data.SegmentRow
	Stats     []*data.SegmentStatRow
	CLV       []*data.CLVRow
	Scenarios []*data.ScenarioImpactRow
	Customers []*data.CustomerSummaryRow
	KPIs      []*data.KPIRow
}

// writeTable writes one table under a slugged file name and returns the
// path.
func writeTable[T any](rows []*T, dir, name string, format Format) (string, error) {
	fn := filepath.Join(dir, fmt.Sprintf("%s.%s", slug.Make(name), format))

	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(rows, fn)
	case FormatJSON:
		err = WriteJSON(rows, fn)
	case FormatParquet:
		err = WriteParquet(rows, fn)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", err
	}

	return fn, nil
}

// Write writes every non-empty table to dir in the requested format and
// returns the paths written.
func (bundle *Bundle) Write(dir string, format Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	written := make([]string, 0, 8)

	if len(bundle.Cohorts) > 0 {
		fn, err := writeTable(bundle.Cohorts, dir, "Cohort Retention", format)
		if err != nil {
			return written, err
		}
		written = append(written, fn)
	}

	if len(bundle.Revenue) > 0 {
		fn, err := writeTable(bundle.Revenue, dir, "Cohort Revenue", format)
		if err != nil {
			return written, err
		}
		written = append(written, fn)
	}

	if len(bundle.Segments) > 0 {
		fn, err := writeTable(bundle.Segments, dir, "Customer Segments", format)
		if err != nil {
			return written, err
		}
		written = append(written, fn)
	}

	if len(bundle.Stats) > 0 {
		fn, err := writeTable(bundle.Stats, dir, "Segment Stats", format)
		if err != nil {
			return written, err
		}
		written = append(written, fn)
	}

	if len(bundle.CLV) > 0 {
		fn, err := writeTable(bundle.CLV, dir, "Customer CLV", format)
		if err != nil {
			return written, err
		}
		written = append(written, fn)
	}

	if len(bundle.Scenarios) > 0 {
		fn, err := writeTable(bundle.Scenarios, dir, "Scenario Impacts", format)
		if err != nil {
			return written, err
		}
		written = append(written, fn)
	}

	if len(bundle.Customers) > 0 {
		fn, err := writeTable(bundle.Customers, dir, "Customer Summary", format)
		if err != nil {
			return written, err
		}
		written = append(written, fn)
	}

	if len(bundle.KPIs) > 0 {
		fn, err := writeTable(bundle.KPIs, dir, "KPIs", format)
		if err != nil {
			return written, err
		}
		written = append(written, fn)
	}

	return written, nil
}

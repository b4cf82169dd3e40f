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
	"fmt"
	"strings"
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the warehouse in markdown
func (wh *Warehouse) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString("# Analytics Warehouse\n"); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Details\n\n"); err != nil {
		return "", err
	}

	// Database connection string
	if _, err := builder.WriteString(fmt.Sprintf("Database: %s\n\n", wh.DBUrl)); err != nil {
		return "", err
	}

	// Number of analysis runs
	numRuns, err := wh.NumRuns(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Num Runs: %d\n\n", numRuns)); err != nil {
		return "", err
	}

	// Last updated time
	lastUpdated, err := wh.LastUpdated(ctx)
	if err != nil {
		return "", err
	}

	age := timeago.English.Format(lastUpdated)

	if lastUpdated.Equal(time.Time{}) {
		if _, err := builder.WriteString("Last Updated: Never\n\n"); err != nil {
			return "", err
		}
	} else {
		if _, err := builder.WriteString(fmt.Sprintf("Last Updated: %s (%s)\n\n", age, lastUpdated.Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	// Recent runs
	if _, err := builder.WriteString("## Recent Runs\n\n"); err != nil {
		return "", err
	}

	runs, err := wh.Runs(ctx, 10)
	if err != nil {
		return "", err
	}

	for _, run := range runs {
		window := "all dates"
		if !run.DatasetStart.IsZero() || !run.DatasetEnd.IsZero() {
			window = fmt.Sprintf("%s - %s", run.DatasetStart.Format("Jan 2006"),
				run.DatasetEnd.Format("Jan 2006"))
		}

		if _, err := builder.WriteString(p.Sprintf("  * %s (%s) [%s]\n", run.CreatedOn.Format("01/02/2006"),
			window, run.ID.String()[:6])); err != nil {
			return "", err
		}

		if _, err := builder.WriteString(p.Sprintf("    * %d transactions / %d customers / dataset %s\n",
			run.Transactions, run.Customers, run.Fingerprint)); err != nil {
			return "", err
		}

		if run.FilterDesc != "" {
			if _, err := builder.WriteString(p.Sprintf("    * filter: %s\n", run.FilterDesc)); err != nil {
				return "", err
			}
		}
	}

	return builder.String(), nil
}

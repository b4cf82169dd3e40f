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
	"fmt"
	"strings"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the dataset in markdown
func (store *Store) Summary() (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString(fmt.Sprintf("# Dataset %s\n", store.Dir)); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Files\n\n"); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * %s: %d rows\n", TransactionsFile, len(store.Transactions))); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * %s: %d customers\n", RFMMetricsFile, len(store.RFMMetrics))); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * %s: %d customers\n", CustomerStatsFile, len(store.CustomerStats))); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * %s: %d customers\n\n", CohortsFile, len(store.Cohorts))); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Coverage\n\n"); err != nil {
		return "", err
	}

	first, last := store.DateRange()
	if first.IsZero() {
		if _, err := builder.WriteString("  * Transactions: none\n"); err != nil {
			return "", err
		}
	} else {
		if _, err := builder.WriteString(fmt.Sprintf("  * Transactions: %s through %s\n",
			first.Format("Jan 2 2006"), last.Format("Jan 2 2006"))); err != nil {
			return "", err
		}
	}

	if _, err := builder.WriteString(p.Sprintf("  * Markets: %d countries\n", store.Countries())); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(fmt.Sprintf("  * Fingerprint: %s\n\n", shortFingerprint(store.Fingerprint))); err != nil {
		return "", err
	}

	age := timeago.English.Format(store.LoadedAt)
	if _, err := builder.WriteString(fmt.Sprintf("Loaded: %s\n", age)); err != nil {
		return "", err
	}

	return builder.String(), nil
}

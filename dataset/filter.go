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
	"time"

	"github.com/retail-lens/rldata/data"
)

// Filter restricts a transaction view. Zero values leave a dimension
// unfiltered; timestamps are compared inclusively on both ends. Cohort
// assignments are never re-derived from a filtered view.
type Filter struct {
	StartDate time.Time
	EndDate   time.Time
	Countries []string
	MinAmount float64
}

// Empty reports whether the filter passes every transaction through.
func (f *Filter) Empty() bool {
	return f.StartDate.IsZero() && f.EndDate.IsZero() &&
		len(f.Countries) == 0 && f.MinAmount <= 0
}

// Apply returns the transactions that pass the filter. The input slice
// and its rows are left untouched; an empty filter returns the input
// as-is.
func (f *Filter) Apply(transactions []*data.Transaction) []*data.Transaction {
	if f == nil || f.Empty() {
		return transactions
	}

	var countries map[string]struct{}
	if len(f.Countries) > 0 {
		countries = make(map[string]struct{}, len(f.Countries))
		for _, country := range f.Countries {
			countries[country] = struct{}{}
		}
	}

	view := make([]*data.Transaction, 0, len(transactions))
	for _, trx := range transactions {
		if !f.StartDate.IsZero() && trx.InvoiceDate.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && trx.InvoiceDate.After(f.EndDate) {
			continue
		}
		if countries != nil {
			if _, ok := countries[trx.Country]; !ok {
				continue
			}
		}
		if f.MinAmount > 0 && trx.TotalAmount < f.MinAmount {
			continue
		}
		view = append(view, trx)
	}

	return view
}

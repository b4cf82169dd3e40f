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
	"sort"
	"time"

	"github.com/retail-lens/rldata/data"
)

// AssignCohorts maps every customer to their acquisition cohort: the
// calendar month of their first transaction. Assignments must be derived
// from the full transaction log; filtered views are analyzed against the
// assignments computed here, never against assignments re-derived from
// the view.
func AssignCohorts(transactions []*data.Transaction) []*data.CohortAssignment {
	first := make(map[string]time.Time, len(transactions)/4)
	for _, trx := range transactions {
		when, ok := first[trx.CustomerID]
		if !ok || trx.InvoiceDate.Before(when) {
			first[trx.CustomerID] = trx.InvoiceDate.Time
		}
	}

	assignments := make([]*data.CohortAssignment, 0, len(first))
	for customerID, when := range first {
		assignments = append(assignments, &data.CohortAssignment{
			CustomerID:  customerID,
			CohortMonth: data.MonthOf(when),
		})
	}

	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].CustomerID < assignments[j].CustomerID
	})

	return assignments
}

// CohortMatrix is the sparse cohort retention table. Counts holds distinct
// active customers per (cohort month, age in whole months); a pair with no
// observed activity has no entry, which is different from a zero. Sizes
// counts the customers assigned to each cohort.
type CohortMatrix struct {
	Months []data.Month
	Sizes  map[data.Month]int
	Counts map[data.Month]map[int]int
	MaxAge int
}

// BuildCohortMatrix counts distinct active customers per cohort and age
// over the transaction view. Transactions whose customer has no
// assignment are dropped, mirroring the inner join the cohort file is
// prepared with. On an unfiltered log every cohort's age-0 retention is
// exactly 1.0; filtering the view can remove acquisition-month activity
// and lower it.
func BuildCohortMatrix(view []*data.Transaction, assignments []*data.CohortAssignment) *CohortMatrix {
	cohortOf := make(map[string]data.Month, len(assignments))
	sizes := make(map[data.Month]int, 32)
	for _, a := range assignments {
		cohortOf[a.CustomerID] = a.CohortMonth
		sizes[a.CohortMonth]++
	}

	active := make(map[data.Month]map[int]map[string]struct{}, len(sizes))
	maxAge := 0
	for _, trx := range view {
		cohort, ok := cohortOf[trx.CustomerID]
		if !ok {
			continue
		}
		age := trx.Month().MonthsSince(cohort)
		if age < 0 {
			continue
		}
		if age > maxAge {
			maxAge = age
		}

		byAge, ok := active[cohort]
		if !ok {
			byAge = make(map[int]map[string]struct{})
			active[cohort] = byAge
		}
		customers, ok := byAge[age]
		if !ok {
			customers = make(map[string]struct{})
			byAge[age] = customers
		}
		customers[trx.CustomerID] = struct{}{}
	}

	counts := make(map[data.Month]map[int]int, len(active))
	for cohort, byAge := range active {
		counts[cohort] = make(map[int]int, len(byAge))
		for age, customers := range byAge {
			counts[cohort][age] = len(customers)
		}
	}

	months := make([]data.Month, 0, len(sizes))
	for month := range sizes {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	return &CohortMatrix{
		Months: months,
		Sizes:  sizes,
		Counts: counts,
		MaxAge: maxAge,
	}
}

// Count returns the distinct active customers in a cell, reporting whether
// the cell was observed.
func (cm *CohortMatrix) Count(cohort data.Month, age int) (int, bool) {
	byAge, ok := cm.Counts[cohort]
	if !ok {
		return 0, false
	}
	count, ok := byAge[age]
	return count, ok
}

// Retention returns count divided by cohort size for an observed cell.
func (cm *CohortMatrix) Retention(cohort data.Month, age int) (float64, bool) {
	count, ok := cm.Count(cohort, age)
	if !ok {
		return 0, false
	}
	size := cm.Sizes[cohort]
	if size == 0 {
		return 0, false
	}
	return float64(count) / float64(size), true
}

// Ages lists every age column of the matrix, 0 through MaxAge.
func (cm *CohortMatrix) Ages() []int {
	ages := make([]int, cm.MaxAge+1)
	for i := range ages {
		ages[i] = i
	}
	return ages
}

// MeanRetention averages retention at one age across the cohorts observed
// at that age. Unobserved cells do not pull the mean down.
func (cm *CohortMatrix) MeanRetention(age int) (float64, bool) {
	var sum float64
	n := 0
	for _, month := range cm.Months {
		if ratio, ok := cm.Retention(month, age); ok {
			sum += ratio
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// CellRows flattens observed cells into export rows ordered by cohort
// month then age.
func (cm *CohortMatrix) CellRows() []*data.CohortCellRow {
	rows := make([]*data.CohortCellRow, 0, len(cm.Months)*(cm.MaxAge+1))
	for _, month := range cm.Months {
		for age := 0; age <= cm.MaxAge; age++ {
			count, ok := cm.Count(month, age)
			if !ok {
				continue
			}
			retention, _ := cm.Retention(month, age)
			rows = append(rows, &data.CohortCellRow{
				CohortMonth: month.String(),
				Age:         age,
				Customers:   count,
				CohortSize:  cm.Sizes[month],
				Retention:   retention,
			})
		}
	}
	return rows
}

// RevenueCurve tracks revenue per cohort and age. Like the retention
// matrix it is sparse: only observed cells have entries.
type RevenueCurve struct {
	Months  []data.Month
	Revenue map[data.Month]map[int]float64
	MaxAge  int
}

// BuildRevenueCurves sums transaction revenue per (cohort month, age)
// cell over the view.
func BuildRevenueCurves(view []*data.Transaction, assignments []*data.CohortAssignment) *RevenueCurve {
	cohortOf := make(map[string]data.Month, len(assignments))
	for _, a := range assignments {
		cohortOf[a.CustomerID] = a.CohortMonth
	}

	revenue := make(map[data.Month]map[int]float64, 32)
	maxAge := 0
	for _, trx := range view {
		cohort, ok := cohortOf[trx.CustomerID]
		if !ok {
			continue
		}
		age := trx.Month().MonthsSince(cohort)
		if age < 0 {
			continue
		}
		if age > maxAge {
			maxAge = age
		}

		byAge, ok := revenue[cohort]
		if !ok {
			byAge = make(map[int]float64)
			revenue[cohort] = byAge
		}
		byAge[age] += trx.TotalAmount
	}

	months := make([]data.Month, 0, len(revenue))
	for month := range revenue {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	return &RevenueCurve{Months: months, Revenue: revenue, MaxAge: maxAge}
}

// CellRows flattens the curves into export rows ordered by cohort month
// then age, accumulating each cohort's running total across its observed
// ages.
func (rc *RevenueCurve) CellRows() []*data.RevenueCellRow {
	rows := make([]*data.RevenueCellRow, 0, len(rc.Months)*(rc.MaxAge+1))
	for _, month := range rc.Months {
		byAge := rc.Revenue[month]
		ages := make([]int, 0, len(byAge))
		for age := range byAge {
			ages = append(ages, age)
		}
		sort.Ints(ages)

		var running float64
		for _, age := range ages {
			running += byAge[age]
			rows = append(rows, &data.RevenueCellRow{
				CohortMonth:       month.String(),
				Age:               age,
				Revenue:           byAge[age],
				CumulativeRevenue: running,
			})
		}
	}
	return rows
}

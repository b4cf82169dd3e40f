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
package analytics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retail-lens/rldata/analytics"
	"github.com/retail-lens/rldata/data"
)

var _ = Describe("Cohorts", func() {
	var log []*data.Transaction

	BeforeEach(func() {
		log = []*data.Transaction{
			trx("alice", "2010-12-05 08:26:00", 100, "United Kingdom"),
			trx("alice", "2011-01-10 10:00:00", 50, "United Kingdom"),
			trx("alice", "2011-03-15 12:30:00", 25, "United Kingdom"),
			trx("bob", "2010-12-20 09:00:00", 10, "France"),
			trx("bob", "2010-12-21 09:00:00", 20, "France"),
			trx("carol", "2011-01-05 14:00:00", 40, "Germany"),
			trx("carol", "2011-02-14 11:00:00", 60, "Germany"),
			trx("dave", "2011-01-25 16:45:00", 30, "United Kingdom"),
			trx("erin", "2011-02-01 13:00:00", 70, "EIRE"),
			trx("erin", "2011-03-05 15:00:00", 80, "EIRE"),
		}
	})

	Describe("AssignCohorts", func() {
		It("assigns each customer the month of their first transaction", func() {
			assignments := analytics.AssignCohorts(log)
			Expect(assignments).To(HaveLen(5))

			byCustomer := make(map[string]data.Month)
			for _, a := range assignments {
				byCustomer[a.CustomerID] = a.CohortMonth
			}
			Expect(byCustomer).To(Equal(map[string]data.Month{
				"alice": month("2010-12"),
				"bob":   month("2010-12"),
				"carol": month("2011-01"),
				"dave":  month("2011-01"),
				"erin":  month("2011-02"),
			}))
		})

		It("orders assignments by customer id", func() {
			assignments := analytics.AssignCohorts(log)
			for i := 1; i < len(assignments); i++ {
				Expect(assignments[i-1].CustomerID < assignments[i].CustomerID).To(BeTrue())
			}
		})
	})

	Describe("BuildCohortMatrix", func() {
		var (
			assignments []*data.CohortAssignment
			matrix      *analytics.CohortMatrix
		)

		BeforeEach(func() {
			assignments = analytics.AssignCohorts(log)
			matrix = analytics.BuildCohortMatrix(log, assignments)
		})

		It("sizes cohorts so they sum to the distinct customer count", func() {
			total := 0
			for _, size := range matrix.Sizes {
				total += size
			}
			Expect(total).To(Equal(5))
			Expect(matrix.Sizes[month("2010-12")]).To(Equal(2))
			Expect(matrix.Sizes[month("2011-01")]).To(Equal(2))
			Expect(matrix.Sizes[month("2011-02")]).To(Equal(1))
		})

		It("reports age-0 retention of exactly 1.0 on an unfiltered log", func() {
			for _, cohort := range matrix.Months {
				ratio, ok := matrix.Retention(cohort, 0)
				Expect(ok).To(BeTrue())
				Expect(ratio).To(Equal(1.0))
			}
		})

		It("never reports retention above 1.0", func() {
			for _, cohort := range matrix.Months {
				for _, age := range matrix.Ages() {
					if ratio, ok := matrix.Retention(cohort, age); ok {
						Expect(ratio).To(BeNumerically("<=", 1.0))
					}
				}
			}
		})

		It("counts distinct customers, not transactions", func() {
			count, ok := matrix.Count(month("2010-12"), 0)
			Expect(ok).To(BeTrue())
			Expect(count).To(Equal(2))
		})

		It("leaves unobserved cells absent rather than zero", func() {
			_, ok := matrix.Count(month("2010-12"), 2)
			Expect(ok).To(BeFalse())
			_, ok = matrix.Retention(month("2010-12"), 2)
			Expect(ok).To(BeFalse())
		})

		It("tracks the deepest observed age", func() {
			Expect(matrix.MaxAge).To(Equal(3))
			Expect(matrix.Ages()).To(Equal([]int{0, 1, 2, 3}))
		})

		It("drops transactions whose customer has no assignment", func() {
			stray := append([]*data.Transaction{}, log...)
			stray = append(stray, trx("mallory", "2011-02-10 10:00:00", 999, "Unknown"))

			withStray := analytics.BuildCohortMatrix(stray, assignments)
			Expect(withStray.Counts).To(Equal(matrix.Counts))
			Expect(withStray.Sizes).To(Equal(matrix.Sizes))
		})

		It("skips activity that predates the assigned cohort", func() {
			early := []*data.CohortAssignment{
				{CustomerID: "bob", CohortMonth: month("2011-06")},
			}
			skewed := analytics.BuildCohortMatrix(log, early)

			Expect(skewed.Sizes[month("2011-06")]).To(Equal(1))
			_, ok := skewed.Count(month("2011-06"), 0)
			Expect(ok).To(BeFalse())
			Expect(skewed.MaxAge).To(Equal(0))
		})

		Context("with a filtered view", func() {
			var filtered *analytics.CohortMatrix

			BeforeEach(func() {
				cutoff := month("2011-01").Time()
				view := make([]*data.Transaction, 0, len(log))
				for _, t := range log {
					if !t.InvoiceDate.Before(cutoff) {
						view = append(view, t)
					}
				}
				filtered = analytics.BuildCohortMatrix(view, assignments)
			})

			It("keeps cohort sizes fixed from the full assignments", func() {
				Expect(filtered.Sizes).To(Equal(matrix.Sizes))
			})

			It("can observe less than full retention at age 0", func() {
				_, ok := filtered.Retention(month("2010-12"), 0)
				Expect(ok).To(BeFalse())

				ratio, ok := filtered.Retention(month("2010-12"), 1)
				Expect(ok).To(BeTrue())
				Expect(ratio).To(Equal(0.5))
			})
		})

		Describe("MeanRetention", func() {
			It("averages only the cohorts observed at an age", func() {
				mean, ok := matrix.MeanRetention(1)
				Expect(ok).To(BeTrue())
				Expect(mean).To(BeNumerically("~", (0.5+0.5+1.0)/3, 1e-9))

				mean, ok = matrix.MeanRetention(3)
				Expect(ok).To(BeTrue())
				Expect(mean).To(Equal(0.5))
			})

			It("reports no mean when no cohort is observed", func() {
				_, ok := matrix.MeanRetention(matrix.MaxAge + 1)
				Expect(ok).To(BeFalse())
			})
		})

		Describe("CellRows", func() {
			It("flattens observed cells ordered by cohort then age", func() {
				rows := matrix.CellRows()
				Expect(rows).To(HaveLen(7))

				Expect(rows[0].CohortMonth).To(Equal("2010-12"))
				Expect(rows[0].Age).To(Equal(0))
				Expect(rows[0].Customers).To(Equal(2))
				Expect(rows[0].CohortSize).To(Equal(2))
				Expect(rows[0].Retention).To(Equal(1.0))

				for i := 1; i < len(rows); i++ {
					prev, curr := rows[i-1], rows[i]
					if prev.CohortMonth == curr.CohortMonth {
						Expect(prev.Age < curr.Age).To(BeTrue())
					} else {
						Expect(prev.CohortMonth < curr.CohortMonth).To(BeTrue())
					}
				}
			})

			It("emits no row for unobserved cells", func() {
				for _, row := range matrix.CellRows() {
					Expect(row.CohortMonth == "2010-12" && row.Age == 2).To(BeFalse())
				}
			})
		})
	})

	Describe("BuildRevenueCurves", func() {
		var curves *analytics.RevenueCurve

		BeforeEach(func() {
			curves = analytics.BuildRevenueCurves(log, analytics.AssignCohorts(log))
		})

		It("sums revenue per cohort and age", func() {
			Expect(curves.Revenue[month("2010-12")][0]).To(Equal(130.0))
			Expect(curves.Revenue[month("2010-12")][1]).To(Equal(50.0))
			Expect(curves.Revenue[month("2011-01")][0]).To(Equal(70.0))
			Expect(curves.MaxAge).To(Equal(3))
		})

		It("accumulates cumulative revenue across age gaps", func() {
			rows := curves.CellRows()

			december := make([]*data.RevenueCellRow, 0, 3)
			for _, row := range rows {
				if row.CohortMonth == "2010-12" {
					december = append(december, row)
				}
			}
			Expect(december).To(HaveLen(3))
			Expect(december[0].Age).To(Equal(0))
			Expect(december[0].CumulativeRevenue).To(Equal(130.0))
			Expect(december[1].Age).To(Equal(1))
			Expect(december[1].CumulativeRevenue).To(Equal(180.0))
			Expect(december[2].Age).To(Equal(3))
			Expect(december[2].CumulativeRevenue).To(Equal(205.0))
		})
	})
})

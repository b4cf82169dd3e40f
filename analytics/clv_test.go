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

var _ = Describe("CLVParams", func() {
	It("computes the closed-form value", func() {
		params := analytics.DefaultCLVParams()
		Expect(params.Retention).To(Equal(0.75))
		Expect(params.Discount).To(Equal(0.1))
		Expect(params.Margin).To(Equal(0.2))

		// 100 * 0.2 * 0.75 / (1 + 0.1 - 0.75)
		Expect(params.Value(100)).To(BeNumerically("~", 42.857, 0.001))
	})

	It("rejects rates where the series diverges", func() {
		divergent := analytics.CLVParams{Retention: 1.1, Discount: 0.1, Margin: 0.2}
		Expect(divergent.Validate()).To(MatchError(analytics.ErrDivergentCLV))

		boundary := analytics.CLVParams{Retention: 1.05, Discount: 0.05, Margin: 0.2}
		Expect(boundary.Validate()).To(MatchError(analytics.ErrDivergentCLV))

		converging := analytics.CLVParams{Retention: 1.05, Discount: 0.1, Margin: 0.2}
		Expect(converging.Validate()).To(Succeed())
	})
})

var _ = Describe("EmpiricalCLV", func() {
	It("sums observed spending per customer", func() {
		view := []*data.Transaction{
			trx("alice", "2011-01-10 09:00:00", 100, "United Kingdom"),
			trx("alice", "2011-02-05 09:00:00", 200, "United Kingdom"),
			trx("bob", "2011-02-20 09:00:00", 50, "France"),
		}

		values := analytics.EmpiricalCLV(view)
		Expect(values).To(Equal(map[string]float64{"alice": 300, "bob": 50}))
	})
})

var _ = Describe("ParametricCLV", func() {
	It("projects each customer from their monetary measure", func() {
		metrics := []*data.RFMMetric{
			metric("alice", 10, 3, 100),
			metric("bob", 40, 1, 350),
		}
		params := analytics.DefaultCLVParams()

		values, err := analytics.ParametricCLV(metrics, params)
		Expect(err).ToNot(HaveOccurred())
		Expect(values).To(HaveLen(2))
		Expect(values["alice"]).To(BeNumerically("~", 42.857, 0.001))
		Expect(values["bob"]).To(Equal(params.Value(350)))
	})

	It("fails the whole call on divergent rates", func() {
		metrics := []*data.RFMMetric{metric("alice", 10, 3, 100)}
		params := analytics.CLVParams{Retention: 1.2, Discount: 0.1, Margin: 0.2}

		values, err := analytics.ParametricCLV(metrics, params)
		Expect(err).To(MatchError(analytics.ErrDivergentCLV))
		Expect(values).To(BeNil())
	})
})

var _ = Describe("CLVRows", func() {
	It("joins the union of both estimates ordered by customer id", func() {
		empirical := map[string]float64{"alice": 300, "carol": 75}
		parametric := map[string]float64{"alice": 42.5, "bob": 10}

		rows := analytics.CLVRows(empirical, parametric)
		Expect(rows).To(HaveLen(3))

		Expect(rows[0].CustomerID).To(Equal("alice"))
		Expect(rows[0].Empirical).To(Equal(300.0))
		Expect(rows[0].Parametric).To(Equal(42.5))

		Expect(rows[1].CustomerID).To(Equal("bob"))
		Expect(rows[1].Empirical).To(BeZero())
		Expect(rows[1].Parametric).To(Equal(10.0))

		Expect(rows[2].CustomerID).To(Equal("carol"))
		Expect(rows[2].Empirical).To(Equal(75.0))
		Expect(rows[2].Parametric).To(BeZero())
	})
})

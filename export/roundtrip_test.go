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
package export_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retail-lens/rldata/data"
	"github.com/retail-lens/rldata/export"
)

var _ = Describe("WriteCSV", func() {
	var fn string

	BeforeEach(func() {
		fn = filepath.Join(GinkgoT().TempDir(), "clv.csv")
	})

	It("round-trips rows without losing precision", func() {
		rows := []*data.CLVRow{
			{CustomerID: "alice", Empirical: 1500.25, Parametric: 642.9642857142857},
			{CustomerID: "bob", Empirical: 0.07, Parametric: 0},
		}
		Expect(export.WriteCSV(rows, fn)).To(Succeed())

		loaded, err := export.ReadCSV[*data.CLVRow](fn)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(rows))
	})

	It("writes the headers declared on the row type", func() {
		rows := []*data.CLVRow{{CustomerID: "alice"}}
		Expect(export.WriteCSV(rows, fn)).To(Succeed())

		content, err := os.ReadFile(fn)
		Expect(err).ToNot(HaveOccurred())

		header := strings.SplitN(string(content), "\n", 2)[0]
		Expect(header).To(Equal("Customer ID,Empirical CLV,Parametric CLV"))
	})
})

var _ = Describe("WriteJSON", func() {
	var fn string

	BeforeEach(func() {
		fn = filepath.Join(GinkgoT().TempDir(), "segments.json")
	})

	It("round-trips rows without losing precision", func() {
		rows := []*data.SegmentRow{
			{CustomerID: "alice", Recency: 5, Frequency: 12, Monetary: 1500.25,
				RScore: 5, FScore: 5, MScore: 5, RFMScore: "555", Segment: "Champions"},
			{CustomerID: "bob", Recency: 310, Frequency: 1, Monetary: 9.99,
				RScore: 1, FScore: 1, MScore: 1, RFMScore: "111", Segment: "Lost"},
		}
		Expect(export.WriteJSON(rows, fn)).To(Succeed())

		loaded, err := export.ReadJSON[*data.SegmentRow](fn)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(rows))
	})

	It("encodes snake_case keys", func() {
		rows := []*data.KPIRow{{TotalRevenue: 500, TotalCustomers: 3}}
		Expect(export.WriteJSON(rows, fn)).To(Succeed())

		content, err := os.ReadFile(fn)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(ContainSubstring(`"total_revenue"`))
		Expect(string(content)).To(ContainSubstring(`"new_customers"`))
	})
})

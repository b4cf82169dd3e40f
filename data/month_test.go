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
package data_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retail-lens/rldata/data"
)

var _ = Describe("Month", func() {
	It("truncates timestamps to their calendar month", func() {
		when := time.Date(2010, time.December, 9, 14, 32, 5, 0, time.UTC)
		Expect(data.MonthOf(when).String()).To(Equal("2010-12"))
	})

	It("parses the period form cohort files use", func() {
		month, err := data.ParseMonth("2011-03")
		Expect(err).NotTo(HaveOccurred())
		Expect(month.Year()).To(Equal(2011))
		Expect(month.Month()).To(Equal(time.March))
	})

	It("truncates full dates and timestamps while parsing", func() {
		fromDate, err := data.ParseMonth("2011-03-27")
		Expect(err).NotTo(HaveOccurred())

		fromStamp, err := data.ParseMonth("2011-03-27 10:15:00")
		Expect(err).NotTo(HaveOccurred())

		Expect(fromDate).To(Equal(fromStamp))
		Expect(fromDate.String()).To(Equal("2011-03"))
	})

	It("rejects unparseable months", func() {
		_, err := data.ParseMonth("March 2011")
		Expect(err).To(HaveOccurred())
	})

	It("counts whole months across year boundaries", func() {
		nov, err := data.ParseMonth("2010-11")
		Expect(err).NotTo(HaveOccurred())
		feb, err := data.ParseMonth("2011-02")
		Expect(err).NotTo(HaveOccurred())

		Expect(feb.MonthsSince(nov)).To(Equal(3))
		Expect(nov.MonthsSince(feb)).To(Equal(-3))
		Expect(nov.Add(3)).To(Equal(feb))
	})

	It("orders chronologically as plain integers", func() {
		dec, err := data.ParseMonth("2010-12")
		Expect(err).NotTo(HaveOccurred())
		jan, err := data.ParseMonth("2011-01")
		Expect(err).NotTo(HaveOccurred())

		Expect(dec < jan).To(BeTrue())
	})

	It("round trips through csv and json", func() {
		month, err := data.ParseMonth("2011-07")
		Expect(err).NotTo(HaveOccurred())

		csv, err := month.MarshalCSV()
		Expect(err).NotTo(HaveOccurred())
		Expect(csv).To(Equal("2011-07"))

		var fromCSV data.Month
		Expect(fromCSV.UnmarshalCSV(csv)).To(Succeed())
		Expect(fromCSV).To(Equal(month))

		raw, err := month.MarshalJSON()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(Equal(`"2011-07"`))

		var fromJSON data.Month
		Expect(fromJSON.UnmarshalJSON(raw)).To(Succeed())
		Expect(fromJSON).To(Equal(month))
	})
})

var _ = Describe("CSVDate", func() {
	It("parses the timestamp form transaction logs use", func() {
		var when data.CSVDate
		Expect(when.UnmarshalCSV("2010-12-01 08:26:00")).To(Succeed())
		Expect(when.Year()).To(Equal(2010))
		Expect(when.Hour()).To(Equal(8))
	})

	It("tolerates bare dates", func() {
		var when data.CSVDate
		Expect(when.UnmarshalCSV("2010-12-01")).To(Succeed())
		Expect(when.Month()).To(Equal(time.December))
	})

	It("rejects unparseable timestamps", func() {
		var when data.CSVDate
		Expect(when.UnmarshalCSV("01/12/2010")).To(HaveOccurred())
	})

	It("marshals with the canonical layout", func() {
		when := data.CSVDate{Time: time.Date(2011, time.June, 5, 13, 45, 0, 0, time.UTC)}
		out, err := when.MarshalCSV()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("2011-06-05 13:45:00"))
	})
})

var _ = Describe("Transaction", func() {
	It("reports the calendar month it occurred in", func() {
		trx := &data.Transaction{
			CustomerID:  "13085",
			InvoiceDate: data.CSVDate{Time: time.Date(2010, time.December, 1, 8, 26, 0, 0, time.UTC)},
			TotalAmount: 83.4,
			Country:     "United Kingdom",
		}
		Expect(trx.Month().String()).To(Equal("2010-12"))
	})
})

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
package dataset_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retail-lens/rldata/data"
	"github.com/retail-lens/rldata/dataset"
)

func filterTrx(customerID, invoiceDate string, amount float64, country string) *data.Transaction {
	GinkgoHelper()
	var when data.CSVDate
	Expect(when.UnmarshalCSV(invoiceDate)).To(Succeed())
	return &data.Transaction{
		CustomerID:  customerID,
		InvoiceDate: when,
		TotalAmount: amount,
		Country:     country,
	}
}

var _ = Describe("Filter", func() {
	var transactions []*data.Transaction

	BeforeEach(func() {
		transactions = []*data.Transaction{
			filterTrx("alice", "2011-01-15 09:00:00", 100, "United Kingdom"),
			filterTrx("bob", "2011-03-01 00:00:00", 20, "France"),
			filterTrx("carol", "2011-06-30 23:59:59", 75, "United Kingdom"),
			filterTrx("dave", "2011-07-01 00:00:00", 50, "Germany"),
		}
	})

	It("is empty when no dimension is set", func() {
		filter := &dataset.Filter{}
		Expect(filter.Empty()).To(BeTrue())

		view := filter.Apply(transactions)
		Expect(view).To(HaveLen(len(transactions)))
		Expect(view[0]).To(BeIdenticalTo(transactions[0]))
	})

	It("passes everything through when nil", func() {
		var filter *dataset.Filter
		Expect(filter.Apply(transactions)).To(HaveLen(len(transactions)))
	})

	It("includes both boundary timestamps", func() {
		filter := &dataset.Filter{
			StartDate: time.Date(2011, time.March, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2011, time.June, 30, 23, 59, 59, 0, time.UTC),
		}
		Expect(filter.Empty()).To(BeFalse())

		view := filter.Apply(transactions)
		Expect(view).To(HaveLen(2))
		Expect(view[0].CustomerID).To(Equal("bob"))
		Expect(view[1].CustomerID).To(Equal("carol"))
	})

	It("restricts to the requested countries", func() {
		filter := &dataset.Filter{Countries: []string{"United Kingdom", "Germany"}}

		view := filter.Apply(transactions)
		Expect(view).To(HaveLen(3))
		for _, trx := range view {
			Expect(trx.Country).ToNot(Equal("France"))
		}
	})

	It("keeps transactions at exactly the minimum amount", func() {
		filter := &dataset.Filter{MinAmount: 50}

		view := filter.Apply(transactions)
		Expect(view).To(HaveLen(3))
		for _, trx := range view {
			Expect(trx.TotalAmount).To(BeNumerically(">=", 50))
		}
	})

	It("applies all dimensions together", func() {
		filter := &dataset.Filter{
			StartDate: time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2011, time.June, 30, 23, 59, 59, 0, time.UTC),
			Countries: []string{"United Kingdom"},
			MinAmount: 80,
		}

		view := filter.Apply(transactions)
		Expect(view).To(HaveLen(1))
		Expect(view[0].CustomerID).To(Equal("alice"))
	})

	It("leaves the input untouched", func() {
		filter := &dataset.Filter{Countries: []string{"France"}}
		filter.Apply(transactions)

		Expect(transactions).To(HaveLen(4))
		Expect(transactions[0].CustomerID).To(Equal("alice"))
	})
})

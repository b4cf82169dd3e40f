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
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retail-lens/rldata/dataset"
)

var _ = Describe("Cache", func() {
	var (
		cache *dataset.Cache
		dir   string
	)

	BeforeEach(func() {
		cache = dataset.NewCache()
		dir = GinkgoT().TempDir()
		writeDataset(dir, nil)
	})

	It("returns the same store while the files are unchanged", func() {
		first, err := cache.Load(dir)
		Expect(err).ToNot(HaveOccurred())

		second, err := cache.Load(dir)
		Expect(err).ToNot(HaveOccurred())
		Expect(second).To(BeIdenticalTo(first))
		Expect(cache.Len()).To(Equal(1))
	})

	It("misses when a file on disk changes", func() {
		first, err := cache.Load(dir)
		Expect(err).ToNot(HaveOccurred())

		writeDataset(dir, map[string]string{
			dataset.TransactionsFile: transactionsCSV + "13000,2011-02-01 12:00:00,5.00,France\n",
		})

		edited, err := cache.Load(dir)
		Expect(err).ToNot(HaveOccurred())
		Expect(edited).ToNot(BeIdenticalTo(first))
		Expect(edited.Transactions).To(HaveLen(5))
		Expect(cache.Len()).To(Equal(2))
	})

	It("reloads after the fingerprint is invalidated", func() {
		first, err := cache.Load(dir)
		Expect(err).ToNot(HaveOccurred())

		cache.Invalidate(first.Fingerprint)
		Expect(cache.Len()).To(BeZero())

		reloaded, err := cache.Load(dir)
		Expect(err).ToNot(HaveOccurred())
		Expect(reloaded).ToNot(BeIdenticalTo(first))
		Expect(reloaded.Fingerprint).To(Equal(first.Fingerprint))
	})

	It("empties on InvalidateAll", func() {
		_, err := cache.Load(dir)
		Expect(err).ToNot(HaveOccurred())

		other := GinkgoT().TempDir()
		writeDataset(other, map[string]string{
			dataset.CohortsFile: cohortsCSV + "99999,2011-02\n",
		})
		_, err = cache.Load(other)
		Expect(err).ToNot(HaveOccurred())
		Expect(cache.Len()).To(Equal(2))

		cache.InvalidateAll()
		Expect(cache.Len()).To(BeZero())
	})

	It("propagates load failures without caching them", func() {
		Expect(os.Remove(filepath.Join(dir, dataset.RFMMetricsFile))).To(Succeed())

		_, err := cache.Load(dir)
		Expect(err).To(MatchError(dataset.ErrMissingFile))
		Expect(cache.Len()).To(BeZero())
	})
})

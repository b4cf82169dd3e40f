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
	"github.com/alphadose/haxmap"
	"github.com/rs/zerolog/log"
)

// Cache memoizes parsed datasets keyed by the content hash of their
// files. Every lookup re-hashes the files on disk, so an edited file is a
// miss rather than a stale hit. The cache is owned by its creator; there
// is no process-wide instance, and correctness never depends on a hit.
type Cache struct {
	stores *haxmap.Map[string, *Store]
}

// NewCache returns an empty dataset cache.
func NewCache() *Cache {
	return &Cache{stores: haxmap.New[string, *Store]()}
}

// Load returns the cached dataset for dir when its files are unchanged,
// parsing and caching them otherwise.
func (cache *Cache) Load(dir string) (*Store, error) {
	files, fingerprint, err := readDatasetDir(dir)
	if err != nil {
		return nil, err
	}

	if store, ok := cache.stores.Get(fingerprint); ok {
		log.Debug().Str("Fingerprint", shortFingerprint(fingerprint)).Msg("dataset cache hit")
		return store, nil
	}

	store, err := parse(dir, files, fingerprint)
	if err != nil {
		return nil, err
	}
	cache.stores.Set(fingerprint, store)

	return store, nil
}

// Invalidate drops the dataset with the given fingerprint.
func (cache *Cache) Invalidate(fingerprint string) {
	cache.stores.Del(fingerprint)
}

// InvalidateAll empties the cache.
func (cache *Cache) InvalidateAll() {
	cache.stores.ForEach(func(fingerprint string, _ *Store) bool {
		cache.stores.Del(fingerprint)
		return true
	})
}

// Len reports how many datasets are cached.
func (cache *Cache) Len() int {
	return int(cache.stores.Len())
}

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
package export

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// WriteJSON writes rows to fn as an indented JSON array.
func WriteJSON[T any](rows []T, fn string) error {
	fh, err := os.Create(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create json file")
		return err
	}
	defer fh.Close()

	encoder := json.NewEncoder(fh)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

// ReadJSON loads rows previously written with WriteJSON.
func ReadJSON[T any](fn string) ([]T, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var rows []T
	if err := json.NewDecoder(fh).Decode(&rows); err != nil {
		return nil, err
	}

	return rows, nil
}

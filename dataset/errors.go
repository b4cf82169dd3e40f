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

import "errors"

var (
	// ErrMissingFile indicates one of the required dataset files does not
	// exist. Loading stops at the first missing file; nothing partial is
	// returned.
	ErrMissingFile = errors.New("required dataset file is missing")

	// ErrMissingColumn indicates a dataset file does not carry one of its
	// required columns.
	ErrMissingColumn = errors.New("required column is missing")
)

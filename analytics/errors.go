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

import "errors"

var (
	// ErrInsufficientData indicates there are too few customers to split
	// into five quantile bins.
	ErrInsufficientData = errors.New("not enough customers to compute quantile bins")

	// ErrDivergentCLV indicates the geometric series behind the
	// closed-form lifetime value formula does not converge for the
	// requested rates.
	ErrDivergentCLV = errors.New("retention rate must be less than 1 + discount rate")
)

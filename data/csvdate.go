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
package data

import (
	"fmt"
	"strings"
	"time"
)

// timestamp layouts seen in retail transaction exports
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// CSVDate wraps time.Time with tolerant parsing for the timestamp forms
// transaction logs are exported with.
type CSVDate struct {
	time.Time
}

func (d CSVDate) MarshalCSV() (string, error) {
	return d.Format("2006-01-02 15:04:05"), nil
}

func (d *CSVDate) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", value)
}

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

// Month is a calendar month stored as a flat index (year*12 + month - 1).
// Cohort ages reduce to integer subtraction and months sort as plain ints.
type Month int

// monthLayouts covers the forms cohort files show up with; pandas writes
// periods as "2006-01" but some preparation scripts emit full timestamps.
var monthLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// MonthOf truncates t to its calendar month.
func MonthOf(t time.Time) Month {
	return Month(t.Year()*12 + int(t.Month()) - 1)
}

// ParseMonth reads a month in YYYY-MM form (or a full date, which is
// truncated).
func ParseMonth(value string) (Month, error) {
	value = strings.TrimSpace(value)
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return MonthOf(t), nil
		}
	}
	return 0, fmt.Errorf("unrecognized month %q", value)
}

func (m Month) Year() int {
	return int(m) / 12
}

func (m Month) Month() time.Month {
	return time.Month(int(m)%12 + 1)
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string {
	return m.Time().Format("2006-01")
}

// Add returns the month n months after m.
func (m Month) Add(n int) Month {
	return m + Month(n)
}

// MonthsSince returns the number of whole calendar months from other to m.
func (m Month) MonthsSince(other Month) int {
	return int(m - other)
}

func (m Month) MarshalCSV() (string, error) {
	return m.String(), nil
}

func (m *Month) UnmarshalCSV(value string) error {
	parsed, err := ParseMonth(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Month) UnmarshalJSON(raw []byte) error {
	return m.UnmarshalCSV(strings.Trim(string(raw), `"`))
}

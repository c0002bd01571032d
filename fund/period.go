// Copyright 2024-2025
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

package fund

import (
	"strings"
	"time"
)

// Period is a standard lookback window measured in calendar units.
type Period string

const (
	OneMonth   Period = "1M"
	ThreeMonth Period = "3M"
	SixMonth   Period = "6M"
	OneYear    Period = "1Y"
	ThreeYear  Period = "3Y"
	FiveYear   Period = "5Y"
)

// Periods returns every supported lookback window, shortest first.
func Periods() []Period {
	return []Period{OneMonth, ThreeMonth, SixMonth, OneYear, ThreeYear, FiveYear}
}

// ParsePeriod converts a user supplied string like "3m" to a Period.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case OneMonth, ThreeMonth, SixMonth, OneYear, ThreeYear, FiveYear:
		return p, nil
	}
	return "", ErrUnknownPeriod
}

// StartDate computes the first calendar day covered by the period, anchored
// at asOf. Offsets are calendar months/years (AddDate), not day counts, so
// leap years and month-length variance do not drift the window.
func (p Period) StartDate(asOf time.Time) time.Time {
	d := Day(asOf)
	switch p {
	case OneMonth:
		return d.AddDate(0, -1, 0)
	case ThreeMonth:
		return d.AddDate(0, -3, 0)
	case SixMonth:
		return d.AddDate(0, -6, 0)
	case OneYear:
		return d.AddDate(-1, 0, 0)
	case ThreeYear:
		return d.AddDate(-3, 0, 0)
	case FiveYear:
		return d.AddDate(-5, 0, 0)
	}
	return d.AddDate(0, -1, 0)
}

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
	"sort"
	"time"
)

// Component is one fund's contribution to a synthetic basket.
// AllocationPercent values are normalized by their sum, so {60, 40} and
// {30, 20} describe the same basket.
type Component struct {
	Series            Series
	AllocationPercent float64
}

// CombineBasket merges the component series into one allocation-weighted
// synthetic series.
//
// Only calendar days on which every component reports a value are retained;
// a basket point always reflects a fully weighted combination, never a
// partial one. The result is rebased so its first point is exactly 100.
//
// An empty result means the components share no trading days (or no valid
// components were given) and must be treated as insufficient data, not an
// error.
func CombineBasket(components []Component) Series {
	if len(components) == 0 {
		return Series{}
	}

	total := 0.0
	for _, c := range components {
		total += c.AllocationPercent
	}
	if total <= 0 {
		return Series{}
	}

	lookups := make([]map[time.Time]float64, len(components))
	for i, c := range components {
		m := make(map[time.Time]float64, len(c.Series))
		for _, o := range c.Series {
			m[Day(o.Date)] = o.Value
		}
		lookups[i] = m
	}

	// strict intersection of calendar days
	dates := make([]time.Time, 0, len(lookups[0]))
	for d := range lookups[0] {
		shared := true
		for _, m := range lookups[1:] {
			if _, ok := m[d]; !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return Series{}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	combined := make(Series, 0, len(dates))
	for _, d := range dates {
		v := 0.0
		for i, c := range components {
			v += lookups[i][d] * (c.AllocationPercent / total)
		}
		combined = append(combined, Observation{Date: d, Value: v})
	}

	base := combined[0].Value
	if !ValidValue(base) {
		return Series{}
	}
	for i := range combined {
		combined[i].Value = combined[i].Value / base * 100
	}
	return combined
}

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
	"math"
	"sort"
	"time"
)

// Observation is a single end-of-day NAV record for a fund or index.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"nav"`
}

// Series is a list of observations in ascending date order with at most one
// observation per calendar day. Build one with Dedupe to get both invariants.
type Series []Observation

// Day truncates t to midnight UTC. NAV records are keyed by calendar day;
// intraday times on incoming rows are noise.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidValue reports whether v is usable as a NAV: finite and positive.
func ValidValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Dedupe collapses same-calendar-day duplicates and sorts ascending by date.
// When a day appears more than once the last record wins.
func Dedupe(obs []Observation) Series {
	byDay := make(map[time.Time]Observation, len(obs))
	for _, o := range obs {
		o.Date = Day(o.Date)
		byDay[o.Date] = o
	}

	res := make(Series, 0, len(byDay))
	for _, o := range byDay {
		res = append(res, o)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Date.Before(res[j].Date)
	})
	return res
}

// FilterByPeriod returns the subsequence with period start <= date <= asOf.
// The receiver is not modified.
func (s Series) FilterByPeriod(p Period, asOf time.Time) Series {
	start := p.StartDate(asOf)
	end := Day(asOf)

	res := make(Series, 0, len(s))
	for _, o := range s {
		d := Day(o.Date)
		if !d.Before(start) && !d.After(end) {
			res = append(res, o)
		}
	}
	return res
}

// FindClosest returns the observation nearest to target. Targets before the
// first observation clamp to the first, after the last clamp to the last.
// When two observations are equally distant the earlier one wins.
//
// The series must be non-empty and sorted ascending.
func (s Series) FindClosest(target time.Time) Observation {
	target = Day(target)

	idx := sort.Search(len(s), func(i int) bool {
		return !Day(s[i].Date).Before(target)
	})

	if idx == 0 {
		return s[0]
	}
	if idx == len(s) {
		return s[len(s)-1]
	}

	before := s[idx-1]
	after := s[idx]
	if target.Sub(Day(before.Date)) <= Day(after.Date).Sub(target) {
		return before
	}
	return after
}

// sorted returns s itself when already ascending, otherwise a sorted copy.
func (s Series) sorted() Series {
	if sort.SliceIsSorted(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) }) {
		return s
	}

	c := make(Series, len(s))
	copy(c, s)
	sort.Slice(c, func(i, j int) bool { return c[i].Date.Before(c[j].Date) })
	return c
}

// Validate checks the preconditions shared by the risk calculations: at
// least two observations and every value finite and positive.
func (s Series) Validate() error {
	if len(s) < 2 {
		return ErrInsufficientSeries
	}
	for _, o := range s {
		if !ValidValue(o.Value) {
			return ErrInvalidSeries
		}
	}
	return nil
}

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
	"time"
)

// daysPerYear is the elapsed-time basis for annualization. Period start
// dates use calendar arithmetic instead; see Period.StartDate.
const daysPerYear = 365.25

// ReturnMetrics describes the performance of a series over one lookback
// period. When InsufficientData is set the numeric fields are zero and must
// be rendered as "N/A", never as 0%.
type ReturnMetrics struct {
	AbsoluteReturn   float64   `json:"absoluteReturn"`
	AnnualizedReturn float64   `json:"annualizedReturn"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	StartValue       float64   `json:"startValue"`
	EndValue         float64   `json:"endValue"`
	InsufficientData bool      `json:"insufficientData"`
}

// CAGR returns the compound annual growth rate, in percent, implied by
// growing start to end over the given number of years.
func CAGR(start, end, years float64) float64 {
	return (math.Pow(end/start, 1/years) - 1) * 100
}

// CalculateReturns computes absolute and annualized returns over the period
// ending at asOf. The start value comes from the observation closest to the
// period start date; the end value is the last observation in the series.
//
// InsufficientData is set when the series has fewer than two points, when
// its history does not reach back to the period start, or when the start and
// end observations fall on the same day (zero elapsed time).
func CalculateReturns(s Series, p Period, asOf time.Time) ReturnMetrics {
	if len(s) < 2 {
		return ReturnMetrics{InsufficientData: true}
	}

	sorted := s.sorted()
	periodStart := p.StartDate(asOf)
	end := sorted[len(sorted)-1]

	if periodStart.Before(Day(sorted[0].Date)) {
		return ReturnMetrics{
			StartDate:        periodStart,
			EndDate:          end.Date,
			EndValue:         end.Value,
			InsufficientData: true,
		}
	}

	start := sorted.FindClosest(periodStart)
	years := Day(end.Date).Sub(Day(start.Date)).Hours() / 24 / daysPerYear
	if years <= 0 {
		return ReturnMetrics{
			StartDate:        start.Date,
			EndDate:          end.Date,
			InsufficientData: true,
		}
	}

	return ReturnMetrics{
		AbsoluteReturn:   (end.Value - start.Value) / start.Value * 100,
		AnnualizedReturn: CAGR(start.Value, end.Value, years),
		StartDate:        start.Date,
		EndDate:          end.Date,
		StartValue:       start.Value,
		EndValue:         end.Value,
	}
}

// CalculateAllPeriodReturns runs CalculateReturns for every supported
// period. Each period is independent; a short history simply flags the
// longer windows as insufficient.
func CalculateAllPeriodReturns(s Series, asOf time.Time) map[Period]ReturnMetrics {
	res := make(map[Period]ReturnMetrics, len(Periods()))
	sorted := s.sorted()
	for _, p := range Periods() {
		res[p] = CalculateReturns(sorted, p, asOf)
	}
	return res
}

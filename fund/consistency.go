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

import "math"

// Rating is the discrete label attached to a consistency score.
type Rating string

const (
	RatingVeryLow  Rating = "Very Low"
	RatingLow      Rating = "Low"
	RatingModerate Rating = "Moderate"
	RatingHigh     Rating = "High"
	RatingVeryHigh Rating = "Very High"
)

// ScoreInputs are the metrics blended into a consistency score. Returns and
// Volatility are in percent; MaxDrawdown is in percent of peak.
type ScoreInputs struct {
	SharpeRatio       float64 `json:"sharpeRatio"`
	PositiveMonthsPct float64 `json:"positiveMonthsPercentage"`
	MaxDrawdown       float64 `json:"maxDrawdown"`
	Returns           float64 `json:"returns"`
	Volatility        float64 `json:"volatility"`
}

// MonthlyReturns partitions the series into calendar-month buckets and
// returns the cumulative return, in percent, of each bucket. The reference
// for a month is the closing value of the prior month; the first month uses
// the series' first observation. A partial trailing month produces a return
// like any other; a first month holding only a single observation spans no
// time and is skipped.
//
// The series must be sorted ascending.
func MonthlyReturns(s Series) []float64 {
	if len(s) < 2 {
		return []float64{}
	}

	monthly := make([]float64, 0, len(s)/20+1)
	ref := s[0].Value
	refDate := s[0].Date
	close := s[0]

	flush := func() {
		if !Day(close.Date).Equal(Day(refDate)) || len(monthly) > 0 {
			monthly = append(monthly, (close.Value-ref)/ref*100)
			ref = close.Value
			refDate = close.Date
		}
	}

	for _, o := range s[1:] {
		if o.Date.Year() != close.Date.Year() || o.Date.Month() != close.Date.Month() {
			flush()
		}
		close = o
	}
	flush()

	return monthly
}

// PositiveMonthsPct is the percentage of months with a positive return.
func PositiveMonthsPct(monthly []float64) float64 {
	if len(monthly) == 0 {
		return 0
	}

	positive := 0
	for _, r := range monthly {
		if r > 0 {
			positive++
		}
	}
	return float64(positive) / float64(len(monthly)) * 100
}

// Score blends risk and return metrics into a single 0-100 consistency
// score. Each input is normalized to a 0-100 scale first:
//
//	sharpe * 25 capped at 100 (Sharpe >= 4 earns the max)
//	positive months already 0-100
//	100 - drawdown, floored at 0
//	returns * 5 capped at 100 (20% absolute return earns the max)
//	100 - volatility*5, floored at 0
//
// then weighted 25/25/20/15/15. The result is clamped to [0, 100] so a
// deeply negative Sharpe cannot drive the score below zero.
func Score(in ScoreInputs) float64 {
	sharpeNorm := math.Min(in.SharpeRatio*25, 100)
	drawdownNorm := math.Max(0, 100-in.MaxDrawdown)
	returnsNorm := math.Min(math.Max(in.Returns, 0)*5, 100)
	volatilityNorm := math.Max(0, 100-in.Volatility*5)

	score := sharpeNorm*0.25 +
		in.PositiveMonthsPct*0.25 +
		drawdownNorm*0.20 +
		returnsNorm*0.15 +
		volatilityNorm*0.15

	return math.Max(0, math.Min(100, score))
}

// RatingFor maps a consistency score to its display label.
func RatingFor(score float64) Rating {
	switch {
	case score > 80:
		return RatingVeryHigh
	case score > 60:
		return RatingHigh
	case score > 40:
		return RatingModerate
	case score > 20:
		return RatingLow
	}
	return RatingVeryLow
}

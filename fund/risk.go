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

	"gonum.org/v1/gonum/stat"
)

const (
	// tradingDaysPerYear is the annualization convention for daily returns.
	tradingDaysPerYear = 252

	// minVolatility floors the Sharpe denominator; raw Sharpe on a
	// near-flat series blows up otherwise.
	minVolatility = 0.02

	// sharpeBound clamps Sharpe to [-sharpeBound, sharpeBound]. Short or
	// sparse series produce absurd raw values that must not reach ranking.
	sharpeBound = 5.0

	// DefaultRiskFreeRate is the annual risk-free rate, as a fraction,
	// used when no override is configured.
	DefaultRiskFreeRate = 0.06
)

// RiskMetrics describes the volatility profile of a series.
// StandardDeviation is the annualized standard deviation of daily returns,
// in percent. Beta is nil unless a benchmark was supplied and its variance
// is non-zero.
type RiskMetrics struct {
	StandardDeviation float64  `json:"standardDeviation"`
	SharpeRatio       float64  `json:"sharpeRatio"`
	Beta              *float64 `json:"beta,omitempty"`
}

// DailyReturns computes simple day-over-day returns, as fractions, in
// chronological order. The series must be sorted ascending.
func DailyReturns(s Series) []float64 {
	if len(s) < 2 {
		return []float64{}
	}

	rets := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		rets = append(rets, (s[i].Value-s[i-1].Value)/s[i-1].Value)
	}
	return rets
}

// CalculateRisk computes annualized volatility and Sharpe ratio from the
// daily returns of the series. A benchmark series may be supplied to also
// compute beta over the dates both series share.
//
// The overall return feeding the Sharpe ratio compounds the mean daily
// return over a trading year: (1+mean)^252 - 1.
//
// Unlike the returns engine this is a precondition failure, not a soft
// zero: series with fewer than three observations (two daily returns) or
// with non-finite / non-positive values are rejected.
func CalculateRisk(s Series, riskFreeRate float64, benchmark Series) (RiskMetrics, error) {
	if err := s.Validate(); err != nil {
		return RiskMetrics{}, err
	}

	sorted := s.sorted()
	rets := DailyReturns(sorted)
	if len(rets) < 2 {
		// sample standard deviation needs n-1 >= 1
		return RiskMetrics{}, ErrInsufficientSeries
	}

	annVol := stat.StdDev(rets, nil) * math.Sqrt(tradingDaysPerYear)
	annRet := math.Pow(1+stat.Mean(rets, nil), tradingDaysPerYear) - 1

	sharpe := (annRet - riskFreeRate) / math.Max(annVol, minVolatility)
	sharpe = math.Max(-sharpeBound, math.Min(sharpeBound, sharpe))

	metrics := RiskMetrics{
		StandardDeviation: annVol * 100,
		SharpeRatio:       sharpe,
	}

	if len(benchmark) >= 2 {
		fundRets, benchRets := alignedDailyReturns(sorted, benchmark.sorted())
		if len(benchRets) >= 2 {
			if b := beta(fundRets, benchRets); !math.IsNaN(b) {
				metrics.Beta = &b
			}
		}
	}

	return metrics, nil
}

// MaxDrawdown returns the largest peak-to-trough decline, in percent, over
// the series. Result is in [0, 100]; series with fewer than two points
// return 0.
func MaxDrawdown(s Series) float64 {
	if len(s) < 2 {
		return 0
	}

	sorted := s.sorted()
	peak := sorted[0].Value
	maxDD := 0.0
	for _, o := range sorted {
		if o.Value > peak {
			peak = o.Value
		}
		dd := (peak - o.Value) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// beta is cov(fund, benchmark) / var(benchmark); NaN when the benchmark
// never moves.
func beta(fundRets, benchRets []float64) float64 {
	v := stat.Variance(benchRets, nil)
	if v == 0 {
		return math.NaN()
	}
	return stat.Covariance(fundRets, benchRets, nil) / v
}

// alignedDailyReturns restricts both series to the calendar days they share
// and computes daily returns over the aligned values, so the two return
// slices are equal length and date-matched.
func alignedDailyReturns(a, b Series) ([]float64, []float64) {
	bVals := make(map[time.Time]float64, len(b))
	for _, o := range b {
		bVals[Day(o.Date)] = o.Value
	}

	alignedA := make(Series, 0, len(a))
	alignedB := make(Series, 0, len(a))
	for _, o := range a {
		d := Day(o.Date)
		if bv, ok := bVals[d]; ok {
			alignedA = append(alignedA, Observation{Date: d, Value: o.Value})
			alignedB = append(alignedB, Observation{Date: d, Value: bv})
		}
	}

	return DailyReturns(alignedA), DailyReturns(alignedB)
}

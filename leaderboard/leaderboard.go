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

package leaderboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fundlens/fl-api/data"
	"github.com/fundlens/fl-api/fund"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// minTrailingYearObs is the eligibility bar for consistency ranking: a fund
// must have at least this many NAV points over the trailing year. Funds
// with sparser history produce unstable monthly-return statistics.
const minTrailingYearObs = 240

// Entry is the precomputed analytics snapshot for one fund.
type Entry struct {
	Fund     *data.Fund                         `json:"fund"`
	Returns  map[fund.Period]fund.ReturnMetrics `json:"returns"`
	Risk     fund.RiskMetrics                   `json:"risk"`
	Score    float64                            `json:"consistencyScore"`
	Rating   fund.Rating                        `json:"consistencyRating"`
	Inputs   fund.ScoreInputs                   `json:"scoreInputs"`
	Eligible bool                               `json:"-"`
}

var (
	mu          sync.RWMutex
	entries     []*Entry
	refreshedAt time.Time
)

// Refresh recomputes the snapshot for every fund. Called once at startup
// and then on a schedule; requests never trigger a recompute.
func Refresh(ctx context.Context) error {
	navDb := data.NewNavDb()

	funds, err := navDb.ListFunds(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not list funds for leaderboard refresh")
		return err
	}

	asOf := time.Now()
	begin := fund.FiveYear.StartDate(asOf)
	riskFree := viper.GetFloat64("metrics.risk_free_rate")

	fresh := make([]*Entry, 0, len(funds))
	for _, f := range funds {
		subLog := log.With().Str("SchemeCode", f.SchemeCode).Logger()

		series, err := navDb.NavSeries(ctx, f.ID, begin, asOf)
		if err != nil {
			subLog.Warn().Err(err).Msg("skipping fund with unusable nav history")
			continue
		}
		if len(series) < 2 {
			continue
		}

		entry := &Entry{
			Fund:    f,
			Returns: fund.CalculateAllPeriodReturns(series, asOf),
		}

		trailingYear := series.FilterByPeriod(fund.OneYear, asOf)
		risk, err := fund.CalculateRisk(series, riskFree, nil)
		if err != nil {
			subLog.Warn().Err(err).Msg("skipping fund that fails risk preconditions")
			continue
		}
		entry.Risk = risk

		if len(trailingYear) >= minTrailingYearObs {
			yearRisk, err := fund.CalculateRisk(trailingYear, riskFree, nil)
			if err == nil {
				monthly := fund.MonthlyReturns(trailingYear)
				entry.Inputs = fund.ScoreInputs{
					SharpeRatio:       yearRisk.SharpeRatio,
					PositiveMonthsPct: fund.PositiveMonthsPct(monthly),
					MaxDrawdown:       fund.MaxDrawdown(trailingYear),
					Returns:           entry.Returns[fund.OneYear].AbsoluteReturn,
					Volatility:        yearRisk.StandardDeviation,
				}
				entry.Score = fund.Score(entry.Inputs)
				entry.Rating = fund.RatingFor(entry.Score)
				entry.Eligible = true
			}
		}

		fresh = append(fresh, entry)
	}

	sort.SliceStable(fresh, func(i, j int) bool { return fresh[i].Score > fresh[j].Score })

	mu.Lock()
	entries = fresh
	refreshedAt = time.Now()
	mu.Unlock()

	log.Info().Int("NumFunds", len(fresh)).Msg("refreshed fund leaderboard")
	return nil
}

// Entries returns the current snapshot, most consistent first.
func Entries() []*Entry {
	mu.RLock()
	defer mu.RUnlock()

	res := make([]*Entry, len(entries))
	copy(res, entries)
	return res
}

// RefreshedAt reports when the snapshot was last rebuilt.
func RefreshedAt() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return refreshedAt
}

// MostConsistent returns the eligible fund with the highest consistency
// score, or nil when no fund qualifies.
func MostConsistent() *Entry {
	mu.RLock()
	defer mu.RUnlock()

	for _, e := range entries {
		if e.Eligible {
			return e
		}
	}
	return nil
}

// TopPerformer returns the fund with the best absolute return over the
// period, ignoring funds whose history cannot cover it.
func TopPerformer(p fund.Period) *Entry {
	mu.RLock()
	defer mu.RUnlock()

	var best *Entry
	for _, e := range entries {
		m, ok := e.Returns[p]
		if !ok || m.InsufficientData {
			continue
		}
		if best == nil || m.AbsoluteReturn > best.Returns[p].AbsoluteReturn {
			best = e
		}
	}
	return best
}

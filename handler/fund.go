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

package handler

import (
	"errors"
	"time"

	"github.com/fundlens/fl-api/data"
	"github.com/fundlens/fl-api/fund"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// FundAnalytics is the full analytics payload for one fund. Risk and the
// consistency fields are omitted when the history is too short to compute
// them; Returns entries carry their own insufficientData flags per period.
type FundAnalytics struct {
	Fund             *data.Fund                         `json:"fund"`
	Returns          map[fund.Period]fund.ReturnMetrics `json:"returns"`
	Risk             *fund.RiskMetrics                  `json:"risk,omitempty"`
	ConsistencyScore *float64                           `json:"consistencyScore,omitempty"`
	Rating           fund.Rating                        `json:"consistencyRating,omitempty"`
	AsOf             time.Time                          `json:"asOf"`
}

// GetFund returns fund master data plus all-period return, risk, and
// consistency metrics.
func GetFund(c *fiber.Ctx) error {
	schemeCode := c.Params("schemeCode")
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	navDb := data.NewNavDb()
	f, err := navDb.GetFund(c.Context(), schemeCode)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	series, err := navDb.NavSeries(c.Context(), f.ID, time.Time{}, asOf)
	if err != nil {
		log.Error().Stack().Err(err).Str("SchemeCode", schemeCode).Msg("could not load nav history")
		return fiber.ErrInternalServerError
	}

	benchmark, err := benchmarkSeries(c, navDb, asOf)
	if err != nil {
		return err
	}

	return c.JSON(buildAnalytics(f, series, benchmark, asOf))
}

// GetNavHistory returns the fund's NAV series, optionally restricted to a
// lookback period.
func GetNavHistory(c *fiber.Ctx) error {
	schemeCode := c.Params("schemeCode")
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	navDb := data.NewNavDb()
	f, err := navDb.GetFund(c.Context(), schemeCode)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	series, err := navDb.NavSeries(c.Context(), f.ID, time.Time{}, asOf)
	if err != nil {
		log.Error().Stack().Err(err).Str("SchemeCode", schemeCode).Msg("could not load nav history")
		return fiber.ErrInternalServerError
	}

	if c.Query("period", "") != "" {
		p, err := parsePeriod(c, fund.OneYear)
		if err != nil {
			return err
		}
		series = series.FilterByPeriod(p, asOf)
	}

	return c.JSON(fiber.Map{
		"schemeCode": f.SchemeCode,
		"schemeName": f.SchemeName,
		"navHistory": series,
		"asOf":       asOf,
	})
}

// SearchFunds finds funds by name fragment, fund house, or category.
func SearchFunds(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 25)
	if limit < 1 || limit > 200 {
		return fiber.ErrBadRequest
	}

	navDb := data.NewNavDb()
	funds, err := navDb.SearchFunds(c.Context(), data.SearchQuery{
		Text:      c.Query("q"),
		FundHouse: c.Query("fundHouse"),
		Category:  c.Query("category"),
		Limit:     limit,
	})
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(funds)
}

// benchmarkSeries loads an index series when the request names one; beta is
// only computed against an explicit benchmark.
func benchmarkSeries(c *fiber.Ctx, navDb *data.NavDb, asOf time.Time) (fund.Series, error) {
	symbol := c.Query("benchmark", "")
	if symbol == "" {
		return nil, nil
	}

	series, err := navDb.IndexSeries(c.Context(), symbol, time.Time{}, asOf)
	if err != nil {
		log.Warn().Err(err).Str("Benchmark", symbol).Msg("could not load benchmark series")
		return nil, fiber.ErrBadRequest
	}
	return series, nil
}

// buildAnalytics assembles the analytics payload shared by the fund detail
// and comparison endpoints.
func buildAnalytics(f *data.Fund, series fund.Series, benchmark fund.Series, asOf time.Time) *FundAnalytics {
	analytics := &FundAnalytics{
		Fund:    f,
		Returns: fund.CalculateAllPeriodReturns(series, asOf),
		AsOf:    asOf,
	}

	risk, err := fund.CalculateRisk(series, riskFreeRate(), benchmark)
	if err != nil {
		// insufficient history is rendered as absent metrics, not zeros
		return analytics
	}
	analytics.Risk = &risk

	trailingYear := series.FilterByPeriod(fund.OneYear, asOf)
	yearRisk, err := fund.CalculateRisk(trailingYear, riskFreeRate(), nil)
	if err != nil {
		return analytics
	}

	monthly := fund.MonthlyReturns(trailingYear)
	score := fund.Score(fund.ScoreInputs{
		SharpeRatio:       yearRisk.SharpeRatio,
		PositiveMonthsPct: fund.PositiveMonthsPct(monthly),
		MaxDrawdown:       fund.MaxDrawdown(trailingYear),
		Returns:           analytics.Returns[fund.OneYear].AbsoluteReturn,
		Volatility:        yearRisk.StandardDeviation,
	})
	analytics.ConsistencyScore = &score
	analytics.Rating = fund.RatingFor(score)

	return analytics
}

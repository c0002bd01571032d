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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fundlens/fl-api/common"
	"github.com/fundlens/fl-api/data"
	"github.com/fundlens/fl-api/fund"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

const maxBasketFunds = 10

type basketAllocation struct {
	SchemeCode        string  `json:"schemeCode"`
	AllocationPercent float64 `json:"allocationPercent"`
}

type basketRequest struct {
	Allocations []basketAllocation `json:"allocations"`
}

// BasketAnalytics is the response for a synthetic basket. The combined
// series is rebased to start at 100. InsufficientData is set when the
// contributing funds share no trading days.
type BasketAnalytics struct {
	Series           fund.Series                        `json:"series"`
	Returns          map[fund.Period]fund.ReturnMetrics `json:"returns,omitempty"`
	Risk             *fund.RiskMetrics                  `json:"risk,omitempty"`
	MaxDrawdown      float64                            `json:"maxDrawdown"`
	ConsistencyScore *float64                           `json:"consistencyScore,omitempty"`
	Rating           fund.Rating                        `json:"consistencyRating,omitempty"`
	InsufficientData bool                               `json:"insufficientData"`
	AsOf             time.Time                          `json:"asOf"`
}

// AnalyzeBasket combines the requested funds into one allocation-weighted
// series and runs the standard analytics over it. Responses are cached
// under a blake3 hash of the sorted allocation set and the asOf day.
func AnalyzeBasket(c *fiber.Ctx) error {
	var req basketRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn().Err(err).Msg("bad basket request body")
		return fiber.ErrBadRequest
	}

	if len(req.Allocations) == 0 || len(req.Allocations) > maxBasketFunds {
		return fiber.ErrBadRequest
	}
	for _, a := range req.Allocations {
		if a.SchemeCode == "" || a.AllocationPercent <= 0 {
			return fiber.ErrBadRequest
		}
	}

	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	key := basketCacheKey(req.Allocations, asOf)
	if cached, err := common.CacheGet(key); err == nil && len(cached) > 0 {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}

	navDb := data.NewNavDb()
	components := make([]fund.Component, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		f, err := navDb.GetFund(c.Context(), a.SchemeCode)
		if err != nil {
			if errors.Is(err, data.ErrNotFound) {
				return fiber.ErrNotFound
			}
			return fiber.ErrInternalServerError
		}

		series, err := navDb.NavSeries(c.Context(), f.ID, time.Time{}, asOf)
		if err != nil {
			log.Error().Stack().Err(err).Str("SchemeCode", a.SchemeCode).Msg("could not load nav history")
			return fiber.ErrInternalServerError
		}

		components = append(components, fund.Component{
			Series:            series,
			AllocationPercent: a.AllocationPercent,
		})
	}

	analytics := analyzeBasket(components, asOf)

	body, err := json.Marshal(analytics)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not marshal basket analytics")
		return fiber.ErrInternalServerError
	}
	if err := common.CacheSet(key, body); err != nil {
		log.Warn().Err(err).Msg("could not cache basket analytics")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func analyzeBasket(components []fund.Component, asOf time.Time) *BasketAnalytics {
	combined := fund.CombineBasket(components)
	analytics := &BasketAnalytics{
		Series: combined,
		AsOf:   asOf,
	}

	if len(combined) == 0 {
		analytics.InsufficientData = true
		return analytics
	}

	analytics.Returns = fund.CalculateAllPeriodReturns(combined, asOf)
	analytics.MaxDrawdown = fund.MaxDrawdown(combined)

	risk, err := fund.CalculateRisk(combined, riskFreeRate(), nil)
	if err != nil {
		return analytics
	}
	analytics.Risk = &risk

	monthly := fund.MonthlyReturns(combined)
	score := fund.Score(fund.ScoreInputs{
		SharpeRatio:       risk.SharpeRatio,
		PositiveMonthsPct: fund.PositiveMonthsPct(monthly),
		MaxDrawdown:       analytics.MaxDrawdown,
		Returns:           analytics.Returns[fund.OneYear].AbsoluteReturn,
		Volatility:        risk.StandardDeviation,
	})
	analytics.ConsistencyScore = &score
	analytics.Rating = fund.RatingFor(score)

	return analytics
}

func basketCacheKey(allocations []basketAllocation, asOf time.Time) string {
	parts := make([]string, 0, len(allocations))
	for _, a := range allocations {
		parts = append(parts, fmt.Sprintf("%s=%.6f", a.SchemeCode, a.AllocationPercent))
	}
	sort.Strings(parts)

	h := blake3.New()
	_, _ = h.Write([]byte(strings.Join(parts, "&")))
	_, _ = h.Write([]byte(fund.Day(asOf).Format("2006-01-02")))
	return fmt.Sprintf("basket:%x", h.Sum(nil))
}

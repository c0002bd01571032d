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
	"github.com/fundlens/fl-api/fund"
	"github.com/fundlens/fl-api/leaderboard"
	"github.com/gofiber/fiber/v2"
)

// TopPerformers serves the best fund for the requested period from the
// leaderboard snapshot.
func TopPerformers(c *fiber.Ctx) error {
	p, err := parsePeriod(c, fund.OneYear)
	if err != nil {
		return err
	}

	best := leaderboard.TopPerformer(p)
	if best == nil {
		return c.JSON(fiber.Map{
			"period":           p,
			"insufficientData": true,
		})
	}

	m := best.Returns[p]
	return c.JSON(fiber.Map{
		"period":           p,
		"fund":             best.Fund,
		"absoluteReturn":   m.AbsoluteReturn,
		"annualizedReturn": m.AnnualizedReturn,
		"refreshedAt":      leaderboard.RefreshedAt(),
	})
}

// MostConsistent serves the fund with the highest consistency score.
func MostConsistent(c *fiber.Ctx) error {
	best := leaderboard.MostConsistent()
	if best == nil {
		return c.JSON(fiber.Map{
			"insufficientData": true,
		})
	}

	return c.JSON(fiber.Map{
		"fund":             best.Fund,
		"returns":          best.Inputs.Returns,
		"consistencyScore": best.Score,
		"consistency":      best.Rating,
		"scoreInputs":      best.Inputs,
		"refreshedAt":      leaderboard.RefreshedAt(),
	})
}

// Leaderboard serves the full consistency ranking.
func Leaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 25)
	if limit < 1 || limit > 200 {
		return fiber.ErrBadRequest
	}

	entries := leaderboard.Entries()
	eligible := make([]*leaderboard.Entry, 0, limit)
	for _, e := range entries {
		if !e.Eligible {
			continue
		}
		eligible = append(eligible, e)
		if len(eligible) == limit {
			break
		}
	}

	return c.JSON(fiber.Map{
		"funds":       eligible,
		"refreshedAt": leaderboard.RefreshedAt(),
	})
}

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
	"strings"
	"time"

	"github.com/fundlens/fl-api/data"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const maxCompareFunds = 5

// CompareFunds computes the full analytics payload for each requested fund
// so the UI can render them side by side. Each fund is independent; one
// fund with a short history does not fail the whole comparison.
func CompareFunds(c *fiber.Ctx) error {
	codesParam := c.Query("schemeCodes", "")
	if codesParam == "" {
		return fiber.ErrBadRequest
	}

	schemeCodes := strings.Split(codesParam, ",")
	if len(schemeCodes) < 2 || len(schemeCodes) > maxCompareFunds {
		log.Warn().Int("NumFunds", len(schemeCodes)).Msg("compare called with unsupported fund count")
		return fiber.ErrBadRequest
	}

	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	navDb := data.NewNavDb()
	benchmark, err := benchmarkSeries(c, navDb, asOf)
	if err != nil {
		return err
	}

	results := make([]*FundAnalytics, 0, len(schemeCodes))
	for _, code := range schemeCodes {
		code = strings.TrimSpace(code)

		f, err := navDb.GetFund(c.Context(), code)
		if err != nil {
			if errors.Is(err, data.ErrNotFound) {
				return fiber.ErrNotFound
			}
			return fiber.ErrInternalServerError
		}

		series, err := navDb.NavSeries(c.Context(), f.ID, time.Time{}, asOf)
		if err != nil {
			log.Error().Stack().Err(err).Str("SchemeCode", code).Msg("could not load nav history")
			return fiber.ErrInternalServerError
		}

		results = append(results, buildAnalytics(f, series, benchmark, asOf))
	}

	return c.JSON(fiber.Map{
		"funds": results,
		"asOf":  asOf,
	})
}

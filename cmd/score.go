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

package cmd

import (
	"context"
	"time"

	"github.com/fundlens/fl-api/common"
	"github.com/fundlens/fl-api/data"
	"github.com/fundlens/fl-api/database"
	"github.com/fundlens/fl-api/fund"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score <schemeCode>",
	Short: "calculate return, risk, and consistency metrics for a fund (mostly useful for debugging)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		common.SetupLogging()
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}

		navDb := data.NewNavDb()
		f, err := navDb.GetFund(ctx, args[0])
		if err != nil {
			log.Fatal().Err(err).Str("SchemeCode", args[0]).Msg("could not load fund")
		}

		subLog := log.With().Str("SchemeCode", f.SchemeCode).Str("SchemeName", f.SchemeName).Logger()

		asOf := time.Now()
		series, err := navDb.NavSeries(ctx, f.ID, fund.FiveYear.StartDate(asOf), asOf)
		if err != nil {
			subLog.Fatal().Err(err).Msg("could not load nav history")
		}
		subLog.Info().Int("NumObservations", len(series)).Msg("loaded nav history")

		for p, m := range fund.CalculateAllPeriodReturns(series, asOf) {
			subLog.Info().
				Str("Period", string(p)).
				Float64("AbsoluteReturn", m.AbsoluteReturn).
				Float64("AnnualizedReturn", m.AnnualizedReturn).
				Bool("InsufficientData", m.InsufficientData).
				Send()
		}

		risk, err := fund.CalculateRisk(series, viper.GetFloat64("metrics.risk_free_rate"), nil)
		if err != nil {
			subLog.Fatal().Err(err).Msg("could not compute risk metrics")
		}
		subLog.Info().
			Float64("StandardDeviation", risk.StandardDeviation).
			Float64("SharpeRatio", risk.SharpeRatio).
			Float64("MaxDrawdown", fund.MaxDrawdown(series)).
			Send()

		trailingYear := series.FilterByPeriod(fund.OneYear, asOf)
		yearRisk, err := fund.CalculateRisk(trailingYear, viper.GetFloat64("metrics.risk_free_rate"), nil)
		if err != nil {
			subLog.Warn().Err(err).Msg("not enough trailing-year history for a consistency score")
			return
		}

		monthly := fund.MonthlyReturns(trailingYear)
		score := fund.Score(fund.ScoreInputs{
			SharpeRatio:       yearRisk.SharpeRatio,
			PositiveMonthsPct: fund.PositiveMonthsPct(monthly),
			MaxDrawdown:       fund.MaxDrawdown(trailingYear),
			Returns:           fund.CalculateReturns(series, fund.OneYear, asOf).AbsoluteReturn,
			Volatility:        yearRisk.StandardDeviation,
		})
		subLog.Info().
			Int("NumMonths", len(monthly)).
			Float64("PositiveMonthsPct", fund.PositiveMonthsPct(monthly)).
			Float64("ConsistencyScore", score).
			Str("Rating", string(fund.RatingFor(score))).
			Send()
	},
}

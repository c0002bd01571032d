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

package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fundlens/fl-api/database"
	"github.com/fundlens/fl-api/fund"
	"github.com/fundlens/fl-api/observability/opentelemetry"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// NavDb loads fund master data and NAV history from postgres. It is the NAV
// fetch collaborator for the calculation engine: values are validated once
// at this boundary and series are deduped and sorted before they reach any
// calculation.
type NavDb struct {
}

// NewNavDb creates a new postgres NAV provider.
func NewNavDb() *NavDb {
	return &NavDb{}
}

// GetFund loads one fund by its scheme code.
func (db *NavDb) GetFund(ctx context.Context, schemeCode string) (*Fund, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "navdb.GetFund")
	defer span.End()

	subLog := log.With().Str("SchemeCode", schemeCode).Logger()

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when querying fund")
		return nil, err
	}

	row := trx.QueryRow(ctx, "SELECT id, scheme_code, scheme_name, fund_house, category FROM fund WHERE scheme_code=$1", schemeCode)
	f := &Fund{}
	if err := row.Scan(&f.ID, &f.SchemeCode, &f.SchemeName, &f.FundHouse, &f.Category); err != nil {
		span.SetStatus(codes.Error, "fund not found")
		subLog.Warn().Err(err).Msg("fund not found")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, ErrNotFound
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}
	return f, nil
}

// SearchFunds returns funds matching the query ordered by scheme name.
func (db *NavDb) SearchFunds(ctx context.Context, q SearchQuery) ([]*Fund, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "navdb.SearchFunds")
	defer span.End()

	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if q.Text != "" {
		args = append(args, "%"+q.Text+"%")
		where = append(where, fmt.Sprintf("scheme_name ILIKE $%d", len(args)))
	}
	if q.FundHouse != "" {
		args = append(args, q.FundHouse)
		where = append(where, fmt.Sprintf("fund_house=$%d", len(args)))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		where = append(where, fmt.Sprintf("category=$%d", len(args)))
	}

	sql := "SELECT id, scheme_code, scheme_name, fund_house, category FROM fund"
	if len(where) > 0 {
		sql = fmt.Sprintf("%s WHERE %s", sql, strings.Join(where, " AND "))
	}
	sql += " ORDER BY scheme_name"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sql = fmt.Sprintf("%s LIMIT $%d", sql, len(args))
	}

	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction when searching funds")
		return nil, err
	}

	rows, err := trx.Query(ctx, sql, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "database query failed")
		log.Error().Stack().Err(err).Str("SQL", sql).Msg("could not search funds")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	funds := make([]*Fund, 0, 16)
	for rows.Next() {
		f := &Fund{}
		if err := rows.Scan(&f.ID, &f.SchemeCode, &f.SchemeName, &f.FundHouse, &f.Category); err != nil {
			log.Error().Stack().Err(err).Msg("could not scan fund row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		funds = append(funds, f)
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}
	return funds, nil
}

// ListFunds returns every fund; used by the leaderboard refresh.
func (db *NavDb) ListFunds(ctx context.Context) ([]*Fund, error) {
	return db.SearchFunds(ctx, SearchQuery{})
}

// NavSeries loads the NAV history for a fund. A zero begin or end leaves
// that side of the range open. The returned series is deduped by calendar
// day and sorted ascending; rows holding non-finite or non-positive values
// fail the load rather than leak into calculations.
func (db *NavDb) NavSeries(ctx context.Context, fundID uuid.UUID, begin, end time.Time) (fund.Series, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "navdb.NavSeries")
	defer span.End()

	subLog := log.With().Str("FundID", fundID.String()).Logger()

	sql := "SELECT event_date, nav FROM nav_history WHERE fund_id=$1"
	args := []interface{}{fundID}
	if !begin.IsZero() {
		args = append(args, begin)
		sql = fmt.Sprintf("%s AND event_date >= $%d", sql, len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		sql = fmt.Sprintf("%s AND event_date <= $%d", sql, len(args))
	}
	sql += " ORDER BY event_date"

	return db.loadSeries(ctx, subLog, span, sql, args)
}

// IndexSeries loads the value history for a market index, e.g. a benchmark
// used for beta.
func (db *NavDb) IndexSeries(ctx context.Context, symbol string, begin, end time.Time) (fund.Series, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "navdb.IndexSeries")
	defer span.End()

	subLog := log.With().Str("Symbol", symbol).Logger()

	sql := "SELECT event_date, value FROM index_history WHERE symbol=$1"
	args := []interface{}{symbol}
	if !begin.IsZero() {
		args = append(args, begin)
		sql = fmt.Sprintf("%s AND event_date >= $%d", sql, len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		sql = fmt.Sprintf("%s AND event_date <= $%d", sql, len(args))
	}
	sql += " ORDER BY event_date"

	return db.loadSeries(ctx, subLog, span, sql, args)
}

func (db *NavDb) loadSeries(ctx context.Context, subLog zerolog.Logger, span trace.Span, sql string, args []interface{}) (fund.Series, error) {
	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when querying series")
		return nil, err
	}

	rows, err := trx.Query(ctx, sql, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "database query failed")
		subLog.Error().Stack().Err(err).Str("SQL", sql).Msg("could not query series")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	obs := make([]fund.Observation, 0, 252)
	for rows.Next() {
		var dt time.Time
		var value float64
		if err := rows.Scan(&dt, &value); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not scan series row")
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		if !fund.ValidValue(value) {
			span.SetStatus(codes.Error, "invalid nav value")
			subLog.Error().Stack().Time("Date", dt).Float64("Value", value).Msg("invalid nav value in database")
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, ErrInvalidNav
		}
		obs = append(obs, fund.Observation{Date: dt, Value: value})
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	return fund.Dedupe(obs), nil
}

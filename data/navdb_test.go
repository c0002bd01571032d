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

package data_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock"

	"github.com/fundlens/fl-api/data"
	"github.com/fundlens/fl-api/database"
)

var _ = Describe("NavDb", func() {
	var (
		ctx   context.Context
		mock  pgxmock.PgxConnIface
		navDb *data.NavDb
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		mock, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		database.SetPool(mock)
		navDb = data.NewNavDb()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mock.Close(ctx)
	})

	Describe("When loading a fund by scheme code", func() {
		It("returns the fund row", func() {
			fundID := uuid.New()
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT id, scheme_code, scheme_name, fund_house, category FROM fund").
				WithArgs("120503").
				WillReturnRows(pgxmock.NewRows([]string{"id", "scheme_code", "scheme_name", "fund_house", "category"}).
					AddRow(fundID, "120503", "Bluechip Growth Direct", "Axis", "Large Cap"))
			mock.ExpectCommit()

			f, err := navDb.GetFund(ctx, "120503")
			Expect(err).To(BeNil())
			Expect(f.ID).To(Equal(fundID))
			Expect(f.SchemeName).To(Equal("Bluechip Growth Direct"))
			Expect(f.Category).To(Equal("Large Cap"))
		})

		It("maps missing rows to ErrNotFound", func() {
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT id, scheme_code, scheme_name, fund_house, category FROM fund").
				WithArgs("999999").
				WillReturnError(pgx.ErrNoRows)
			mock.ExpectRollback()

			_, err := navDb.GetFund(ctx, "999999")
			Expect(err).To(MatchError(data.ErrNotFound))
		})
	})

	Describe("When searching funds", func() {
		It("applies text filter and limit", func() {
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT id, scheme_code, scheme_name, fund_house, category FROM fund WHERE scheme_name ILIKE").
				WithArgs("%blue%", 10).
				WillReturnRows(pgxmock.NewRows([]string{"id", "scheme_code", "scheme_name", "fund_house", "category"}).
					AddRow(uuid.New(), "120503", "Bluechip Growth Direct", "Axis", "Large Cap").
					AddRow(uuid.New(), "118551", "Bluechip Fund Direct", "SBI", "Large Cap"))
			mock.ExpectCommit()

			funds, err := navDb.SearchFunds(ctx, data.SearchQuery{Text: "blue", Limit: 10})
			Expect(err).To(BeNil())
			Expect(funds).To(HaveLen(2))
		})

		It("lists every fund when the query is empty", func() {
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT id, scheme_code, scheme_name, fund_house, category FROM fund ORDER BY scheme_name").
				WillReturnRows(pgxmock.NewRows([]string{"id", "scheme_code", "scheme_name", "fund_house", "category"}).
					AddRow(uuid.New(), "120503", "Bluechip Growth Direct", "Axis", "Large Cap"))
			mock.ExpectCommit()

			funds, err := navDb.ListFunds(ctx)
			Expect(err).To(BeNil())
			Expect(funds).To(HaveLen(1))
		})
	})

	Describe("When loading a NAV series", func() {
		var fundID uuid.UUID

		BeforeEach(func() {
			fundID = uuid.New()
		})

		It("dedupes and sorts the observations", func() {
			begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

			mock.ExpectBegin()
			mock.ExpectQuery("SELECT event_date, nav FROM nav_history").
				WithArgs(fundID, begin, end).
				WillReturnRows(pgxmock.NewRows([]string{"event_date", "nav"}).
					AddRow(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 11.0).
					AddRow(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 10.0).
					AddRow(time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC), 11.5))
			mock.ExpectCommit()

			series, err := navDb.NavSeries(ctx, fundID, begin, end)
			Expect(err).To(BeNil())
			Expect(series).To(HaveLen(2))
			Expect(series[0].Date).To(Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
			Expect(series[1].Value).To(Equal(11.5))
		})

		It("leaves the range open when begin and end are zero", func() {
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT event_date, nav FROM nav_history WHERE fund_id=").
				WithArgs(fundID).
				WillReturnRows(pgxmock.NewRows([]string{"event_date", "nav"}).
					AddRow(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 10.0))
			mock.ExpectCommit()

			series, err := navDb.NavSeries(ctx, fundID, time.Time{}, time.Time{})
			Expect(err).To(BeNil())
			Expect(series).To(HaveLen(1))
		})

		It("rejects non-positive values stored in the database", func() {
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT event_date, nav FROM nav_history").
				WithArgs(fundID).
				WillReturnRows(pgxmock.NewRows([]string{"event_date", "nav"}).
					AddRow(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), -1.0))
			mock.ExpectRollback()

			_, err := navDb.NavSeries(ctx, fundID, time.Time{}, time.Time{})
			Expect(err).To(MatchError(data.ErrInvalidNav))
		})
	})

	Describe("When loading an index series", func() {
		It("queries by symbol", func() {
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT event_date, value FROM index_history").
				WithArgs("NIFTY50").
				WillReturnRows(pgxmock.NewRows([]string{"event_date", "value"}).
					AddRow(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 21741.9).
					AddRow(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 21517.35))
			mock.ExpectCommit()

			series, err := navDb.IndexSeries(ctx, "NIFTY50", time.Time{}, time.Time{})
			Expect(err).To(BeNil())
			Expect(series).To(HaveLen(2))
		})
	})
})

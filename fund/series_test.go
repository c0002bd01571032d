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

package fund_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fundlens/fl-api/fund"
)

var _ = Describe("Series", func() {
	Describe("When de-duplicating observations", func() {
		It("keeps the last record for a repeated date", func() {
			s := fund.Series{
				{Date: date(2024, 1, 2), Value: 10},
				{Date: time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC), Value: 11},
			}
			deduped := fund.Dedupe(s)
			Expect(deduped).To(HaveLen(1))
			Expect(deduped[0].Value).To(Equal(11.0))
			Expect(deduped[0].Date).To(Equal(date(2024, 1, 2)))
		})

		It("sorts observations into ascending date order", func() {
			s := fund.Series{
				{Date: date(2024, 1, 5), Value: 12},
				{Date: date(2024, 1, 1), Value: 10},
				{Date: date(2024, 1, 3), Value: 11},
			}
			deduped := fund.Dedupe(s)
			Expect(deduped).To(HaveLen(3))
			Expect(deduped[0].Date).To(Equal(date(2024, 1, 1)))
			Expect(deduped[1].Date).To(Equal(date(2024, 1, 3)))
			Expect(deduped[2].Date).To(Equal(date(2024, 1, 5)))
		})

		It("is idempotent", func() {
			s := fund.Series{
				{Date: date(2024, 1, 5), Value: 12},
				{Date: date(2024, 1, 1), Value: 10},
				{Date: date(2024, 1, 5), Value: 13},
			}
			once := fund.Dedupe(s)
			twice := fund.Dedupe(once)
			Expect(twice).To(Equal(once))
		})
	})

	Describe("When filtering by period", func() {
		It("keeps only observations on or after the period start", func() {
			asOf := date(2024, 6, 30)
			s := daily(date(2022, 6, 30), 10, 11, 12)
			s = append(s, fund.Observation{Date: date(2024, 6, 1), Value: 15})
			s = append(s, fund.Observation{Date: date(2024, 6, 30), Value: 16})

			filtered := s.FilterByPeriod(fund.OneYear, asOf)
			Expect(filtered).To(HaveLen(2))
			Expect(filtered[0].Date).To(Equal(date(2024, 6, 1)))
		})

		It("returns an empty series when nothing falls in the window", func() {
			asOf := date(2024, 6, 30)
			s := daily(date(2020, 1, 1), 10, 11, 12)
			Expect(s.FilterByPeriod(fund.OneMonth, asOf)).To(BeEmpty())
		})
	})

	Describe("When finding the closest observation", func() {
		var s fund.Series

		BeforeEach(func() {
			s = fund.Series{
				{Date: date(2024, 1, 1), Value: 10},
				{Date: date(2024, 1, 10), Value: 11},
				{Date: date(2024, 1, 20), Value: 12},
			}
		})

		It("returns an exact match when one exists", func() {
			obs := s.FindClosest(date(2024, 1, 10))
			Expect(obs.Value).To(Equal(11.0))
		})

		It("clamps to the first observation for dates before the series", func() {
			obs := s.FindClosest(date(2023, 6, 1))
			Expect(obs.Date).To(Equal(date(2024, 1, 1)))
		})

		It("clamps to the last observation for dates after the series", func() {
			obs := s.FindClosest(date(2025, 1, 1))
			Expect(obs.Date).To(Equal(date(2024, 1, 20)))
		})

		It("prefers the earlier observation when distances tie", func() {
			// Jan 15 is 5 days from both Jan 10 and Jan 20
			obs := s.FindClosest(date(2024, 1, 15))
			Expect(obs.Date).To(Equal(date(2024, 1, 10)))
		})
	})

	Describe("When validating a series", func() {
		It("rejects series with fewer than two observations", func() {
			s := daily(date(2024, 1, 1), 10)
			Expect(s.Validate()).To(MatchError(fund.ErrInsufficientSeries))
		})

		It("rejects non-positive values", func() {
			s := fund.Series{
				{Date: date(2024, 1, 1), Value: 10},
				{Date: date(2024, 1, 2), Value: 0},
			}
			Expect(s.Validate()).To(MatchError(fund.ErrInvalidSeries))
		})

		It("accepts a well-formed series", func() {
			Expect(daily(date(2024, 1, 1), 10, 11, 12).Validate()).To(Succeed())
		})
	})
})

var _ = Describe("Period", func() {
	It("parses symbols case-insensitively", func() {
		p, err := fund.ParsePeriod(" 1y ")
		Expect(err).To(BeNil())
		Expect(p).To(Equal(fund.OneYear))
	})

	It("rejects unknown symbols", func() {
		_, err := fund.ParsePeriod("7Q")
		Expect(err).To(MatchError(fund.ErrUnknownPeriod))
	})

	It("uses calendar arithmetic for period starts", func() {
		asOf := date(2024, 3, 15)
		Expect(fund.OneMonth.StartDate(asOf)).To(Equal(date(2024, 2, 15)))
		Expect(fund.SixMonth.StartDate(asOf)).To(Equal(date(2023, 9, 15)))
		Expect(fund.OneYear.StartDate(asOf)).To(Equal(date(2023, 3, 15)))
		Expect(fund.FiveYear.StartDate(asOf)).To(Equal(date(2019, 3, 15)))
	})

	It("normalizes month-end overflow the way the standard library does", func() {
		// Mar 31 minus one month lands in early March on leap years
		Expect(fund.OneMonth.StartDate(date(2024, 3, 31))).To(Equal(date(2024, 3, 2)))
	})
})

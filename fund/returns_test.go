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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fundlens/fl-api/fund"
)

var _ = Describe("Returns", func() {
	Describe("When computing CAGR", func() {
		It("recovers the annual rate from a multi-year gain", func() {
			// 100 -> 121 over 2 years is 10% per year
			Expect(fund.CAGR(100, 121, 2)).To(BeNumerically("~", 10, 1e-9))
		})

		It("is negative for a loss", func() {
			Expect(fund.CAGR(100, 81, 2)).To(BeNumerically("~", -10, 1e-9))
		})
	})

	Describe("When computing period returns", func() {
		It("computes absolute and annualized returns over the window", func() {
			s := fund.Series{
				{Date: date(2021, 6, 30), Value: 100},
				{Date: date(2023, 6, 30), Value: 121},
			}
			m := fund.CalculateReturns(s, fund.OneYear, date(2023, 6, 30))
			Expect(m.InsufficientData).To(BeFalse())
			Expect(m.AbsoluteReturn).To(BeNumerically("~", 21, 1e-9))
			Expect(m.AnnualizedReturn).To(BeNumerically("~", 10, 0.05))
			Expect(m.StartValue).To(Equal(100.0))
			Expect(m.EndValue).To(Equal(121.0))
		})

		It("flags windows longer than the available history", func() {
			asOf := date(2024, 6, 30)
			s := make(fund.Series, 0, 100)
			for i := 0; i < 100; i++ {
				s = append(s, fund.Observation{Date: asOf.AddDate(0, 0, i-99), Value: 100 + float64(i)})
			}
			m := fund.CalculateReturns(s, fund.FiveYear, asOf)
			Expect(m.InsufficientData).To(BeTrue())
			Expect(m.AbsoluteReturn).To(BeZero())
			Expect(m.AnnualizedReturn).To(BeZero())
			Expect(m.EndValue).To(Equal(199.0))
		})

		It("flags series with fewer than two observations", func() {
			m := fund.CalculateReturns(daily(date(2024, 1, 1), 10), fund.OneMonth, date(2024, 6, 30))
			Expect(m.InsufficientData).To(BeTrue())
		})

		It("flags zero elapsed time between start and end", func() {
			s := fund.Series{
				{Date: date(2024, 1, 1), Value: 100},
				{Date: date(2024, 1, 31), Value: 110},
			}
			// the closest observation to the period start is the final one
			m := fund.CalculateReturns(s, fund.OneMonth, date(2024, 2, 20))
			Expect(m.InsufficientData).To(BeTrue())
		})

		It("agrees in sign with the price move", func() {
			asOf := date(2024, 6, 30)
			up := fund.CalculateReturns(growth(asOf.AddDate(0, -2, 0), 60, 0.001), fund.OneMonth, asOf)
			down := fund.CalculateReturns(growth(asOf.AddDate(0, -2, 0), 60, -0.001), fund.OneMonth, asOf)
			flat := fund.CalculateReturns(growth(asOf.AddDate(0, -2, 0), 60, 0), fund.OneMonth, asOf)

			Expect(up.AbsoluteReturn).To(BeNumerically(">", 0))
			Expect(down.AbsoluteReturn).To(BeNumerically("<", 0))
			Expect(flat.AbsoluteReturn).To(BeZero())
		})

		It("tolerates unsorted input", func() {
			s := fund.Series{
				{Date: date(2023, 6, 30), Value: 121},
				{Date: date(2021, 6, 30), Value: 100},
			}
			m := fund.CalculateReturns(s, fund.OneYear, date(2023, 6, 30))
			Expect(m.AbsoluteReturn).To(BeNumerically("~", 21, 1e-9))
		})
	})

	Describe("When computing all period returns", func() {
		It("covers every supported period", func() {
			asOf := date(2024, 6, 30)
			res := fund.CalculateAllPeriodReturns(growth(asOf.AddDate(-2, 0, 0), 730, 0.0003), asOf)
			Expect(res).To(HaveLen(len(fund.Periods())))
			Expect(res[fund.OneYear].InsufficientData).To(BeFalse())
			Expect(res[fund.FiveYear].InsufficientData).To(BeTrue())
		})
	})
})

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

var _ = Describe("Basket", func() {
	Describe("When combining component series", func() {
		It("keeps only the calendar days every component reports", func() {
			a := daily(date(2024, 1, 1), 100, 110, 121) // Jan 1-3
			b := daily(date(2024, 1, 2), 50, 55, 60)    // Jan 2-4

			combined := fund.CombineBasket([]fund.Component{
				{Series: a, AllocationPercent: 50},
				{Series: b, AllocationPercent: 50},
			})

			Expect(combined).To(HaveLen(2))
			Expect(combined[0].Date).To(Equal(date(2024, 1, 2)))
			Expect(combined[1].Date).To(Equal(date(2024, 1, 3)))
		})

		It("rebases the combined series to start at 100", func() {
			a := daily(date(2024, 1, 1), 110, 121)
			b := daily(date(2024, 1, 1), 55, 60.5)

			combined := fund.CombineBasket([]fund.Component{
				{Series: a, AllocationPercent: 50},
				{Series: b, AllocationPercent: 50},
			})

			// raw weighted values are 82.5 then 90.75, a 10% gain
			Expect(combined[0].Value).To(Equal(100.0))
			Expect(combined[1].Value).To(BeNumerically("~", 110, 1e-9))
		})

		It("normalizes allocations by their sum", func() {
			a := daily(date(2024, 1, 1), 100, 110, 99)
			b := daily(date(2024, 1, 1), 200, 190, 205)

			x := fund.CombineBasket([]fund.Component{
				{Series: a, AllocationPercent: 60},
				{Series: b, AllocationPercent: 40},
			})
			y := fund.CombineBasket([]fund.Component{
				{Series: a, AllocationPercent: 30},
				{Series: b, AllocationPercent: 20},
			})

			Expect(x).To(HaveLen(len(y)))
			for i := range x {
				Expect(x[i].Value).To(BeNumerically("~", y[i].Value, 1e-9))
			}
		})

		It("weights each day by allocation", func() {
			a := daily(date(2024, 1, 1), 100, 200) // +100%
			b := daily(date(2024, 1, 1), 100, 100) // flat

			combined := fund.CombineBasket([]fund.Component{
				{Series: a, AllocationPercent: 25},
				{Series: b, AllocationPercent: 75},
			})

			// 25% of a doubling plus 75% flat is a 25% gain
			Expect(combined[1].Value).To(BeNumerically("~", 125, 1e-9))
		})

		It("returns an empty series when components share no days", func() {
			a := daily(date(2024, 1, 1), 100, 110)
			b := daily(date(2024, 6, 1), 50, 55)

			combined := fund.CombineBasket([]fund.Component{
				{Series: a, AllocationPercent: 50},
				{Series: b, AllocationPercent: 50},
			})
			Expect(combined).To(BeEmpty())
		})

		It("returns an empty series for empty input", func() {
			Expect(fund.CombineBasket(nil)).To(BeEmpty())
		})

		It("returns an empty series when allocations sum to zero", func() {
			a := daily(date(2024, 1, 1), 100, 110)
			combined := fund.CombineBasket([]fund.Component{
				{Series: a, AllocationPercent: 0},
			})
			Expect(combined).To(BeEmpty())
		})

		It("passes a single fully-allocated component through rebased", func() {
			a := daily(date(2024, 1, 1), 50, 55, 60)
			combined := fund.CombineBasket([]fund.Component{
				{Series: a, AllocationPercent: 100},
			})
			Expect(combined).To(HaveLen(3))
			Expect(combined[0].Value).To(Equal(100.0))
			Expect(combined[2].Value).To(BeNumerically("~", 120, 1e-9))
		})
	})
})

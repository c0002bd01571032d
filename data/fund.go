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
	"errors"

	"github.com/google/uuid"
)

// Fund is the master record for one mutual fund scheme.
type Fund struct {
	ID         uuid.UUID `json:"id"`
	SchemeCode string    `json:"schemeCode"`
	SchemeName string    `json:"schemeName"`
	FundHouse  string    `json:"fundHouse"`
	Category   string    `json:"category"`
}

// SearchQuery filters fund searches. Zero-valued fields are ignored.
type SearchQuery struct {
	Text      string
	FundHouse string
	Category  string
	Limit     int
}

var (
	ErrNotFound   = errors.New("fund not found")
	ErrInvalidNav = errors.New("nav value is not a positive finite number")
)

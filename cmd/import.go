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
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fundlens/fl-api/common"
	"github.com/fundlens/fl-api/database"
	"github.com/fundlens/fl-api/fund"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

// importCmd loads NAV history from a CSV export. Expected columns:
// scheme_code, scheme_name, fund_house, category, date (2006-01-02), nav
var importCmd = &cobra.Command{
	Use:   "import <csv file>",
	Short: "import fund NAV history from a CSV file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		common.SetupLogging()
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}

		fh, err := os.Open(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("File", args[0]).Msg("could not open import file")
		}
		defer fh.Close()

		trx, err := database.Trx(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not begin transaction")
		}

		reader := csv.NewReader(fh)
		fundIDs := make(map[string]uuid.UUID)

		numRows := 0
		for {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				log.Fatal().Err(err).Msg("could not read csv row")
			}
			if len(row) != 6 {
				log.Fatal().Int("NumColumns", len(row)).Msg("unexpected column count")
			}
			if numRows == 0 && row[0] == "scheme_code" {
				continue // header
			}

			schemeCode := row[0]
			subLog := log.With().Str("SchemeCode", schemeCode).Logger()

			eventDate, err := time.Parse("2006-01-02", row[4])
			if err != nil {
				subLog.Fatal().Err(err).Str("Date", row[4]).Msg("could not parse date")
			}

			nav, err := strconv.ParseFloat(row[5], 64)
			if err != nil || !fund.ValidValue(nav) {
				subLog.Fatal().Err(err).Str("Nav", row[5]).Msg("nav is not a positive finite number")
			}

			fundID, ok := fundIDs[schemeCode]
			if !ok {
				fundID = uuid.New()
				idRow := trx.QueryRow(ctx,
					`INSERT INTO fund (id, scheme_code, scheme_name, fund_house, category) VALUES ($1, $2, $3, $4, $5)
					 ON CONFLICT (scheme_code) DO UPDATE SET scheme_name=$3, fund_house=$4, category=$5
					 RETURNING id`,
					fundID, schemeCode, row[1], row[2], row[3])
				if err := idRow.Scan(&fundID); err != nil {
					subLog.Fatal().Err(err).Msg("could not upsert fund")
				}
				fundIDs[schemeCode] = fundID
			}

			_, err = trx.Exec(ctx,
				`INSERT INTO nav_history (fund_id, event_date, nav) VALUES ($1, $2, $3)
				 ON CONFLICT (fund_id, event_date) DO UPDATE SET nav=$3`,
				fundID, eventDate, nav)
			if err != nil {
				subLog.Fatal().Err(err).Time("EventDate", eventDate).Msg("could not upsert nav")
			}

			numRows++
		}

		if err := trx.Commit(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not commit import")
		}

		log.Info().Int("NumRows", numRows).Int("NumFunds", len(fundIDs)).Msg("import complete")
	},
}

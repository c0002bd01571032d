package handler

import (
	"time"

	"github.com/fundlens/fl-api/fund"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Time    string `json:"time" example:"2025-06-19T08:09:10.115924+05:30"`
}

func Ping(c *fiber.Ctx) error {
	var response PingResponse
	now, err := time.Now().MarshalText()
	if err != nil {
		log.Error().Stack().Err(err).Msg("error while getting time in ping")
		response = PingResponse{
			Status:  "error",
			Message: err.Error(),
			Time:    string(now),
		}
	} else {
		response = PingResponse{
			Status:  "success",
			Message: "API is alive",
			Time:    string(now),
		}
	}
	return c.JSON(response)
}

// parseAsOf reads the optional asOf query parameter; analytics anchor every
// period computation to this date so responses are reproducible. Defaults
// to today.
func parseAsOf(c *fiber.Ctx) (time.Time, error) {
	asOfStr := c.Query("asOf", "")
	if asOfStr == "" {
		return time.Now(), nil
	}

	asOf, err := time.Parse("2006-01-02", asOfStr)
	if err != nil {
		log.Warn().Err(err).Str("AsOf", asOfStr).Msg("cannot parse asOf query parameter")
		return time.Time{}, fiber.ErrBadRequest
	}
	return asOf, nil
}

// parsePeriod reads the optional period query parameter.
func parsePeriod(c *fiber.Ctx, dflt fund.Period) (fund.Period, error) {
	periodStr := c.Query("period", "")
	if periodStr == "" {
		return dflt, nil
	}

	p, err := fund.ParsePeriod(periodStr)
	if err != nil {
		log.Warn().Err(err).Str("Period", periodStr).Msg("invalid period query parameter")
		return "", fiber.ErrBadRequest
	}
	return p, nil
}

func riskFreeRate() float64 {
	if viper.IsSet("metrics.risk_free_rate") {
		return viper.GetFloat64("metrics.risk_free_rate")
	}
	return fund.DefaultRiskFreeRate
}

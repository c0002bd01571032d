package router

import (
	"github.com/fundlens/fl-api/handler"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App) {
	api := app.Group("/v1")
	api.Get("/", handler.Ping)

	// Fund
	fund := api.Group("/fund")
	fund.Get("/", handler.SearchFunds)
	fund.Get("/:schemeCode", handler.GetFund)
	fund.Get("/:schemeCode/nav", handler.GetNavHistory)

	// Comparison
	api.Get("/compare", handler.CompareFunds)

	// Basket
	api.Post("/basket", handler.AnalyzeBasket)

	// Market dashboard
	market := api.Group("/market")
	market.Get("/top-performers", handler.TopPerformers)
	market.Get("/consistent", handler.MostConsistent)
	market.Get("/leaderboard", handler.Leaderboard)
}

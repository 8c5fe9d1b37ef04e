package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register wires every route onto the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Giraffe Terminal API is running", "version": "1.0.0"})
	})

	api := r.Group("/api")

	accounts := api.Group("/accounts")
	accounts.GET("", h.ListAccounts)
	accounts.POST("", h.CreateAccount)
	accounts.GET("/:id", h.GetAccount)
	accounts.PUT("/:id", h.UpdateAccount)
	accounts.DELETE("/:id", h.DeleteAccount)

	holdings := api.Group("/holdings")
	holdings.GET("", h.ListHoldings)
	holdings.POST("", h.CreateHolding)
	holdings.GET("/:id", h.GetHolding)
	holdings.PUT("/:id", h.UpdateHolding)
	holdings.DELETE("/:id", h.DeleteHolding)

	transactions := api.Group("/transactions")
	transactions.GET("", h.ListTransactions)
	transactions.POST("", h.CreateTransaction)
	transactions.POST("/sell", h.Sell)
	transactions.GET("/:id", h.GetTransaction)
	transactions.PUT("/:id", h.UpdateTransaction)
	transactions.DELETE("/:id", h.DeleteTransaction)

	dividends := api.Group("/dividends")
	dividends.GET("", h.ListDividends)
	dividends.POST("", h.CreateDividend)
	dividends.GET("/:id", h.GetDividend)
	dividends.PUT("/:id", h.UpdateDividend)
	dividends.DELETE("/:id", h.DeleteDividend)

	movements := api.Group("/cash-movements")
	movements.GET("", h.ListCashMovements)
	movements.POST("", h.CreateCashMovement)
	movements.GET("/:id", h.GetCashMovement)
	movements.PUT("/:id", h.UpdateCashMovement)
	movements.DELETE("/:id", h.DeleteCashMovement)

	splits := api.Group("/stock-splits")
	splits.GET("", h.ListSplits)
	splits.POST("", h.ApplySplit)
	splits.DELETE("/:id", h.DeleteSplit)

	prices := api.Group("/prices")
	prices.GET("", h.ListPrices)
	prices.POST("/refresh", h.RefreshPrices)
	prices.GET("/fetch/:symbol", h.FetchPrice)
	prices.PUT("/:symbol", h.UpdateResearch)

	performance := api.Group("/performance")
	performance.GET("", h.Performance)
	performance.GET("/allocation", h.Allocation)
	performance.GET("/history", h.History)
	performance.GET("/snapshot", h.Snapshot)

	roles := api.Group("/roles")
	roles.GET("", h.ListRoles)
	roles.POST("", h.CreateRole)
	roles.PUT("/:id", h.UpdateRole)
	roles.DELETE("/:id", h.DeleteRole)

	themes := api.Group("/themes")
	themes.GET("", h.ListThemes)
	themes.POST("", h.CreateTheme)
	themes.PUT("/:id", h.UpdateTheme)
	themes.DELETE("/:id", h.DeleteTheme)

	settings := api.Group("/settings")
	settings.GET("", h.ListSettings)
	settings.PUT("", h.SetSetting)

	admin := api.Group("/admin")
	admin.GET("/export-db", h.ExportDB)
	admin.POST("/import-db", h.ImportDB)
	admin.GET("/stats", h.AdminStats)
}

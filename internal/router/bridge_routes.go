package router

import (
	"github.com/gin-gonic/gin"

	"xchain-backend/internal/app"
	"xchain-backend/internal/handlers"
)

// SetupBridgeRoutes registers the authenticated API; totp guards the
// administrative writes
func SetupBridgeRoutes(api *gin.RouterGroup, c *app.ServiceContainer, totp gin.HandlerFunc) {
	adminHandler := handlers.NewAdminHandler(c.Admin)
	registryHandler := handlers.NewRegistryHandler(c.Registry)
	addressHandler := handlers.NewAddressHandler(c.Addresses)
	xinHandler := handlers.NewXinOrderHandler(c.XinOrders)
	xoutHandler := handlers.NewXoutOrderHandler(c.XoutOrder)
	ledgerHandler := handlers.NewLedgerHandler(c.Transfers, c.Accounts)

	admin := api.Group("/admin")
	{
		admin.POST("/init", totp, adminHandler.Init)
		admin.POST("/fee-rate", totp, adminHandler.SetFeeRate)
		admin.POST("/reward-conf", totp, adminHandler.SetRewardConf)
		admin.GET("/state", adminHandler.GetState)
	}

	api.GET("/chains", registryHandler.ListChains)
	api.POST("/chains", totp, registryHandler.AddChain)
	api.DELETE("/chains/:chain", totp, registryHandler.DelChain)
	api.GET("/coins", registryHandler.ListCoins)
	api.POST("/coins", totp, registryHandler.AddCoin)
	api.DELETE("/coins/:code", totp, registryHandler.DelCoin)
	api.GET("/chain-coins", registryHandler.ListChainCoins)
	api.POST("/chain-coins", totp, registryHandler.AddChainCoin)
	api.DELETE("/chain-coins/:chain/:coin", totp, registryHandler.DelChainCoin)

	addresses := api.Group("/addresses")
	{
		addresses.GET("", addressHandler.List)
		addresses.POST("/request", addressHandler.Request)
		addresses.POST("/assign", addressHandler.Assign)
	}

	xin := api.Group("/xin-orders")
	{
		xin.GET("", xinHandler.List)
		xin.POST("", xinHandler.Create)
		xin.GET("/:id", xinHandler.Get)
		xin.POST("/:id/approve", xinHandler.Approve)
		xin.POST("/:id/cancel", xinHandler.Cancel)
	}

	xout := api.Group("/xout-orders")
	{
		xout.GET("", xoutHandler.List)
		xout.GET("/:id", xoutHandler.Get)
		xout.POST("/:id/sent", xoutHandler.MarkSent)
		xout.POST("/:id/confirm", xoutHandler.Confirm)
		xout.POST("/:id/approve", xoutHandler.Approve)
		xout.POST("/:id/cancel", xoutHandler.Cancel)
	}

	api.POST("/transfers", ledgerHandler.Transfer)
	api.POST("/notifications/transfer", xoutHandler.Notify)

	accounts := api.Group("/accounts")
	{
		accounts.POST("", ledgerHandler.OpenAccount)
		accounts.POST("/:name/issue", ledgerHandler.Issue)
		accounts.GET("/:name/balances", ledgerHandler.Balances)
	}
}

package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/formlane/template-billing/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Price quote (open, no authentication required)
		v1.GET("/templates/quote", handler.Quote)

		// Wallet endpoints (requires authentication)
		v1.GET("/wallet", middleware.Auth(authCfg), handler.GetWallet)
		v1.POST("/wallet/topup", middleware.Auth(authCfg), handler.Topup)
		v1.GET("/wallet/transactions", middleware.Auth(authCfg), handler.ListTransactions)

		// Template endpoints (requires authentication)
		v1.GET("/templates", middleware.Auth(authCfg), handler.ListTemplates)
		v1.POST("/templates", middleware.Auth(authCfg), handler.CreateTemplate)
		v1.GET("/templates/downloads", middleware.Auth(authCfg), handler.ListDownloads)
		v1.GET("/templates/:id", middleware.Auth(authCfg), handler.GetTemplate)
		v1.PATCH("/templates/:id", middleware.Auth(authCfg), handler.UpdateTemplate)
		v1.POST("/templates/:id/download", middleware.Auth(authCfg), handler.DownloadTemplate)

		// Price change endpoints (requires API key authentication only)
		v1.GET("/price-changes", middleware.APIKeyAuth(authCfg), handler.ListPriceChanges)
		v1.POST("/price-changes/:id/acknowledge", middleware.APIKeyAuth(authCfg), handler.AcknowledgePriceChange)
	}
}

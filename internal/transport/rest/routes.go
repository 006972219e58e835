package rest

import (
	"github.com/KotFed0t/portfolio_tracker/internal/transport/rest/middleware"
	"github.com/gin-gonic/gin"
)

func (ctrl *Controller) RegisterRoutes(router gin.IRouter, jwtSecret string) {
	router.GET("/health", ctrl.Health)

	api := router.Group("/api/portfolio", middleware.Auth(jwtSecret))
	api.GET("", ctrl.ListPortfolios)
	api.POST("", ctrl.CreatePortfolio)
	api.POST("/:portfolioId/assets", ctrl.AddAsset)
	api.DELETE("/:portfolioId/assets/:assetId", ctrl.RemoveAsset)
	api.GET("/:portfolioId/performance", ctrl.GetPerformance)
	api.GET("/:portfolioId/performance/report", ctrl.GetPerformanceReport)
}

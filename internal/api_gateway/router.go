package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/settlement-reporting/internal/api_gateway/handler"
	"github.com/settlement-reporting/internal/api_gateway/middleware"
)

// Permissions guarding the gateway's mutating endpoints.
const (
	PermissionRunReports      = "reports:run"
	PermissionOnboardMerchant = "merchants:onboard"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	checker middleware.PermissionChecker,
	reportHandler *handler.ReportHandler,
	merchantHandler *handler.MerchantHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Report run operations
		reports := v1.Group("/reports")
		{
			reports.POST("/run",
				middleware.RequirePermission(PermissionRunReports, checker, logger),
				reportHandler.Run)
			reports.GET("/runs/:id", reportHandler.GetRun)
			reports.GET("/runs", reportHandler.ListRuns)
		}

		// Merchant onboarding
		merchants := v1.Group("/merchants")
		{
			merchants.POST("/onboarding",
				middleware.RequirePermission(PermissionOnboardMerchant, checker, logger),
				merchantHandler.Onboard)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}

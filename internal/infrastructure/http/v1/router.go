// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"barinalp/internal/config"
	"barinalp/internal/domain/audit"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/domain/expense"
	"barinalp/internal/domain/funding"
	"barinalp/internal/domain/invoice"
	"barinalp/internal/infrastructure/http/v1/handlers"
	"barinalp/internal/infrastructure/http/v1/middleware"
	"barinalp/pkg/logger"
)

// RouterConfig holds the services the API is built from.
type RouterConfig struct {
	App config.App

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Pinger backs the readiness probe; nil for in-memory storage
	Pinger handlers.Pinger

	Invoices    *invoice.Service
	Submissions expense.InvoiceCreator

	Objects       *costobject.Service
	ObjectOptions costobject.Lister

	// Funding enables the transaction and balance routes when set
	Funding *funding.Service

	// Trail enables the history routes when set
	Trail audit.Trail
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.App, cfg.Pinger)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTValidator))
	{
		baseHandler := handlers.NewBaseHandler()
		invoices := v1.Group("/invoices")
		objects := v1.Group("/objects")

		RegisterInvoiceRoutes(invoices,
			handlers.NewInvoiceHandler(baseHandler, cfg.Submissions, cfg.Invoices))
		RegisterCostObjectRoutes(objects,
			handlers.NewCostObjectHandler(baseHandler, cfg.Objects, cfg.ObjectOptions))
		RegisterReportRoutes(objects,
			handlers.NewReportHandler(baseHandler, cfg.Objects, cfg.Invoices))

		if cfg.Funding != nil {
			RegisterFundingRoutes(v1.Group("/transactions"), v1.Group("/technicians"),
				handlers.NewFundingHandler(baseHandler, cfg.Funding))
		}

		if cfg.Trail != nil {
			RegisterHistoryRoutes(invoices, objects, handlers.NewHistoryHandler(baseHandler, cfg.Trail))
		}
	}

	return router
}

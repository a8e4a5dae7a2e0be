package v1

import (
	"github.com/gin-gonic/gin"

	appctx "barinalp/internal/core/context"
	"barinalp/internal/infrastructure/http/v1/handlers"
	"barinalp/internal/infrastructure/http/v1/middleware"
)

// RegisterInvoiceRoutes registers the expense submission routes.
// Any authenticated user may submit; visibility is enforced by the service.
func RegisterInvoiceRoutes(group *gin.RouterGroup, handler *handlers.InvoiceHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.DELETE("/:id", middleware.RequireRole(appctx.RoleDirector), handler.Delete)
}

// RegisterHistoryRoutes registers the director-only audit trail routes.
func RegisterHistoryRoutes(invoices, objects *gin.RouterGroup, handler *handlers.HistoryHandler) {
	directorOnly := middleware.RequireRole(appctx.RoleDirector)

	invoices.GET("/:id/history", directorOnly, handler.Invoice)
	objects.GET("/:id/history", directorOnly, handler.CostObject)
}

// RegisterCostObjectRoutes registers cost object routes. Writes are director-only.
func RegisterCostObjectRoutes(group *gin.RouterGroup, handler *handlers.CostObjectHandler) {
	directorOnly := middleware.RequireRole(appctx.RoleDirector)

	group.GET("", handler.List)
	group.GET("/options", handler.Options)
	group.POST("", directorOnly, handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", directorOnly, handler.Update)
	group.POST("/:id/archive", directorOnly, handler.Archive)
}

// RegisterReportRoutes registers the director-only expense reports.
func RegisterReportRoutes(objects *gin.RouterGroup, handler *handlers.ReportHandler) {
	objects.GET("/:id/report", middleware.RequireRole(appctx.RoleDirector), handler.CostObject)
}

// RegisterFundingRoutes registers technician funding and balance routes.
// Only directors fund; technicians see their own transactions and balance.
func RegisterFundingRoutes(transactions, technicians *gin.RouterGroup, handler *handlers.FundingHandler) {
	transactions.GET("", handler.List)
	transactions.POST("", middleware.RequireRole(appctx.RoleDirector), handler.Create)
	technicians.GET("/:id/balance", handler.Balance)
}

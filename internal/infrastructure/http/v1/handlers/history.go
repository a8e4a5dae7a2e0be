package handlers

import (
	"github.com/gin-gonic/gin"

	"barinalp/internal/core/apperror"
	"barinalp/internal/domain/audit"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/domain/invoice"
	"barinalp/internal/infrastructure/http/v1/dto"
)

// HistoryHandler serves the audit trail of invoices and cost objects.
type HistoryHandler struct {
	*BaseHandler
	trail audit.Trail
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(base *BaseHandler, trail audit.Trail) *HistoryHandler {
	return &HistoryHandler{BaseHandler: base, trail: trail}
}

// Invoice handles GET /invoices/:id/history.
func (h *HistoryHandler) Invoice(c *gin.Context) {
	h.history(c, invoice.EntityType)
}

// CostObject handles GET /objects/:id/history.
func (h *HistoryHandler) CostObject(c *gin.Context) {
	h.history(c, costobject.EntityType)
}

func (h *HistoryHandler) history(c *gin.Context, entityType string) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	if limit <= 0 || limit > 500 {
		h.Error(c, apperror.NewValidation("limit must be between 1 and 500").WithDetail("limit", limit))
		return
	}

	entries, err := h.trail.History(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      entries,
		TotalCount: int64(len(entries)),
		Limit:      limit,
	})
}

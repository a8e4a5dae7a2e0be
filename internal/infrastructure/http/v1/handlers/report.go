package handlers

import (
	"github.com/gin-gonic/gin"

	"barinalp/internal/domain/costobject"
	"barinalp/internal/domain/invoice"
	"barinalp/internal/infrastructure/http/v1/dto"
)

// ReportHandler serves expense reports.
type ReportHandler struct {
	*BaseHandler
	objects  *costobject.Service
	invoices *invoice.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(base *BaseHandler, objects *costobject.Service, invoices *invoice.Service) *ReportHandler {
	return &ReportHandler{
		BaseHandler: base,
		objects:     objects,
		invoices:    invoices,
	}
}

// CostObject handles GET /objects/:id/report.
func (h *ReportHandler) CostObject(c *gin.Context) {
	objID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.ObjectReportRequest
	if !h.BindQuery(c, &req) {
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	obj, err := h.objects.GetByID(ctx, objID)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.invoices.ObjectReport(ctx, obj.ID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromObjectReport(obj, report))
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"barinalp/internal/domain/expense"
	"barinalp/internal/domain/invoice"
	"barinalp/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler serves submitted expenses.
type InvoiceHandler struct {
	*BaseHandler
	creator expense.InvoiceCreator
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler. Submissions go through
// creator so the HTTP API accepts exactly the payload the webhook client sends.
func NewInvoiceHandler(base *BaseHandler, creator expense.InvoiceCreator, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		creator:     creator,
		service:     service,
	}
}

// Create handles POST /invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.creator.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.CreatedInvoiceResponse{
		ID:             created.ID,
		RegistryNumber: created.RegistryNumber,
	})
}

// List handles GET /invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	var req dto.ListInvoicesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromInvoices(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	invID, ok := h.ParamID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), invID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(inv))
}

// Delete handles DELETE /invoices/:id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), invID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

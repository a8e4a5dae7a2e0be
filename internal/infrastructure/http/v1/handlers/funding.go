package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"barinalp/internal/core/apperror"
	"barinalp/internal/domain/funding"
	"barinalp/internal/infrastructure/http/v1/dto"
)

// FundingHandler serves technician funding and balances.
type FundingHandler struct {
	*BaseHandler
	service *funding.Service
}

// NewFundingHandler creates a new funding handler.
func NewFundingHandler(base *BaseHandler, service *funding.Service) *FundingHandler {
	return &FundingHandler{BaseHandler: base, service: service}
}

// Create handles POST /transactions.
func (h *FundingHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), t); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromTransaction(t))
}

// List handles GET /transactions.
func (h *FundingHandler) List(c *gin.Context) {
	var req dto.ListTransactionsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromTransactions(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Balance handles GET /technicians/:id/balance. The id "me" is the caller.
func (h *FundingHandler) Balance(c *gin.Context) {
	technicianID := strings.TrimSpace(c.Param("id"))
	if technicianID == "me" {
		technicianID = h.GetUserID(c)
	}
	if technicianID == "" {
		h.Error(c, apperror.NewValidation("technician is required").WithDetail("field", "id"))
		return
	}

	balance, err := h.service.Balance(c.Request.Context(), technicianID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBalance(balance))
}

package invoice

import (
	"strings"
	"time"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/types"
	"barinalp/internal/domain/expense"
)

// RequestFromPayload converts a submitted expense payload into a CreateRequest.
// The date is parsed and amounts are range-checked here; everything else is
// checked by Create.
func RequestFromPayload(p expense.Payload) (CreateRequest, error) {
	var date time.Time
	if raw := strings.TrimSpace(p.Date); raw != "" {
		parsed, err := time.Parse(types.APIDateLayout, raw)
		if err != nil {
			return CreateRequest{}, apperror.NewBusinessRule(apperror.CodeInvalidHeader, "date must be YYYY-MM-DD").
				WithDetail("field", "date").
				WithDetail("value", p.Date)
		}
		date = parsed
	}

	req := CreateRequest{
		InvoiceNumber: strings.TrimSpace(p.InvoiceNumber),
		Date:          date,
		Vendor:        p.Vendor,
		PaymentMethod: p.PaymentMethod,
		Notes:         strings.TrimSpace(p.Notes),
		TechnicianID:  strings.TrimSpace(p.TechnicianID),
		TotalAmount:   p.TotalAmount,
		Lines:         make([]LineRequest, 0, len(p.Positions)),
	}
	for _, line := range p.Positions {
		req.Lines = append(req.Lines, LineRequest{
			Description:  line.Description,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			LineTotal:    line.LineTotal,
			CostObjectID: strings.TrimSpace(line.CostObjectID),
		})
	}
	if err := checkAmounts(req); err != nil {
		return CreateRequest{}, err
	}
	return req, nil
}

package dto

import (
	"encoding/json"
	"strings"
	"time"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/types"
	"barinalp/internal/domain/funding"
)

// CreateTransactionRequest is the request body for funding a technician.
// Amount is a JSON number or a quoted one.
type CreateTransactionRequest struct {
	TechnicianID string       `json:"userId" binding:"required"`
	Type         funding.Kind `json:"type" binding:"required"`
	Amount       json.Number  `json:"amount" binding:"required"`
	Date         string       `json:"date" binding:"required"`
	Note         string       `json:"note"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateTransactionRequest) ToEntity() (*funding.Transaction, error) {
	amount, err := types.ParseAmount(r.Amount.String())
	if err != nil {
		return nil, apperror.NewValidation("invalid amount").
			WithDetail("field", "amount").
			WithCause(err)
	}

	date, err := parseDateParam("date", r.Date)
	if err != nil {
		return nil, err
	}
	if date == nil {
		return funding.New(r.TechnicianID, r.Type, amount, time.Time{}, r.Note), nil
	}

	return funding.New(r.TechnicianID, r.Type, amount, *date, r.Note), nil
}

// ListTransactionsRequest holds the transaction list query parameters.
type ListTransactionsRequest struct {
	PageRequest
	TechnicianID string `form:"userId"`
	Type         string `form:"type"`
}

// ToFilter converts the query into a funding.ListFilter.
func (r ListTransactionsRequest) ToFilter() funding.ListFilter {
	return funding.ListFilter{
		ListFilter:   r.PageRequest.ToFilter(),
		TechnicianID: strings.TrimSpace(r.TechnicianID),
		Kind:         funding.Kind(strings.TrimSpace(r.Type)),
	}
}

// TransactionResponse is the response body for a funding transaction.
type TransactionResponse struct {
	ID           string       `json:"id"`
	TechnicianID string       `json:"userId"`
	Type         funding.Kind `json:"type"`
	Label        string       `json:"label"`
	Amount       types.Money  `json:"amount"`
	Date         string       `json:"date"`
	Note         string       `json:"note,omitempty"`
	CreatedBy    string       `json:"createdBy,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// FromTransaction creates TransactionResponse from the domain entity.
func FromTransaction(t *funding.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID.String(),
		TechnicianID: t.TechnicianID,
		Type:         t.Kind,
		Label:        t.Kind.Label(),
		Amount:       t.Amount,
		Date:         t.Date.Format(types.APIDateLayout),
		Note:         t.Note,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}

// FromTransactions maps a page of transactions.
func FromTransactions(items []*funding.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(items))
	for _, t := range items {
		out = append(out, FromTransaction(t))
	}
	return out
}

// BalanceEntryResponse is one movement on a technician's balance.
type BalanceEntryResponse struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Label       string      `json:"label"`
	Amount      types.Money `json:"amount"`
	Date        string      `json:"date"`
	Description string      `json:"description,omitempty"`
	Reference   string      `json:"reference,omitempty"`
}

// BalanceResponse is a technician's balance with its history.
type BalanceResponse struct {
	TechnicianID string                 `json:"userId"`
	Funded       types.Money            `json:"funded"`
	Spent        types.Money            `json:"spent"`
	Balance      types.Money            `json:"balance"`
	Transactions []BalanceEntryResponse `json:"transactions"`
}

// FromBalance creates BalanceResponse from the domain balance.
func FromBalance(b *funding.Balance) BalanceResponse {
	resp := BalanceResponse{
		TechnicianID: b.TechnicianID,
		Funded:       b.Funded,
		Spent:        b.Spent,
		Balance:      b.Balance,
		Transactions: make([]BalanceEntryResponse, 0, len(b.Entries)),
	}
	for _, e := range b.Entries {
		resp.Transactions = append(resp.Transactions, BalanceEntryResponse{
			ID:          e.ID.String(),
			Type:        e.Type,
			Label:       e.Label,
			Amount:      e.Amount,
			Date:        e.Date.Format(types.APIDateLayout),
			Description: e.Description,
			Reference:   e.Reference,
		})
	}
	return resp
}

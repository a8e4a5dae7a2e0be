package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barinalp/internal/config"
	appctx "barinalp/internal/core/context"
	"barinalp/internal/core/types"
	"barinalp/internal/domain/audit"
	"barinalp/internal/domain/auth"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/domain/expense"
	"barinalp/internal/domain/funding"
	"barinalp/internal/domain/invoice"
	"barinalp/internal/infrastructure/backend/local"
	"barinalp/internal/infrastructure/backend/webhook"
	v1 "barinalp/internal/infrastructure/http/v1"
	"barinalp/internal/infrastructure/http/v1/dto"
	"barinalp/internal/infrastructure/storage/memory"
	"barinalp/pkg/logger"
)

type apiFixture struct {
	handler   http.Handler
	jwt       *auth.JWTService
	active    *costobject.CostObject
	completed *costobject.CostObject
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	active := costobject.New("Обект Витоша", "бул. Витошка 100")
	completed := costobject.New("Обект Център", "ул. Граф Игнатиев 45")
	completed.Status = costobject.StatusCompleted

	trail := memory.NewAuditLog()

	objects := costobject.NewService(memory.NewCostObjectRepo(active, completed), nil)
	objects.Hooks().OnBeforeCreate(audit.EnrichCreatedBy[*costobject.CostObject])
	objects.Hooks().OnAfterCreate(audit.RecordOn[*costobject.CostObject](trail, costobject.EntityType, audit.ActionCreate))
	objects.Hooks().OnAfterUpdate(audit.RecordOn[*costobject.CostObject](trail, costobject.EntityType, audit.ActionUpdate))

	invoices := invoice.NewService(memory.NewInvoiceRepo(), objects, memory.NewSequence(), nil)
	invoices.Hooks().OnBeforeCreate(audit.EnforceTechnician[*invoice.Invoice])
	invoices.Hooks().OnBeforeCreate(audit.EnrichCreatedBy[*invoice.Invoice])

	transactions := funding.NewService(memory.NewFundingRepo(), invoices)
	transactions.Hooks().OnBeforeCreate(audit.EnrichCreatedBy[*funding.Transaction])

	jwtSvc := auth.NewJWTService(config.Default().JWT)

	router := v1.NewRouter(v1.RouterConfig{
		App:          config.Default().App,
		Logger:       logger.Nop(),
		JWTValidator: jwtSvc,
		Invoices:     invoices,
		Submissions:  local.New(invoices, objects),
		Objects:      objects,
		Funding:      transactions,
		Trail:        trail,
	})

	return &apiFixture{handler: router, jwt: jwtSvc, active: active, completed: completed}
}

func (f *apiFixture) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(appctx.UserContext{UserID: userID, Role: role})
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) payload(objectID string) expense.Payload {
	return expense.Payload{
		InvoiceNumber: "0000123",
		Date:          "2025-01-10",
		Vendor:        "Практикер",
		PaymentMethod: types.PaymentCash,
		Positions: []expense.PayloadLine{
			{
				Description:  "Кабел",
				Quantity:     types.MustMoney("2"),
				UnitPrice:    types.MustMoney("3.50"),
				LineTotal:    types.MustMoney("7"),
				CostObjectID: objectID,
			},
		},
		TotalAmount: types.MustMoney("7"),
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "memory")

	rec = f.do(t, http.MethodGet, "/health/info", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.0.0")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
		})
	}
}

func TestInvoices_SubmitAndRead(t *testing.T) {
	f := newAPIFixture(t)
	tech := f.token(t, "tech-1", appctx.RoleTechnician)

	rec := f.do(t, http.MethodPost, "/api/v1/invoices", tech, f.payload(f.active.ID.String()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.CreatedInvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, strings.HasPrefix(created.RegistryNumber, "EXP-"), created.RegistryNumber)

	rec = f.do(t, http.MethodGet, "/api/v1/invoices/"+created.ID, tech, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var inv dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	assert.Equal(t, "tech-1", inv.TechnicianID)
	assert.Equal(t, "2025-01-10", inv.Date)
	assert.Equal(t, "7.00", inv.TotalAmount.StringFixed(2))
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, f.active.ID.String(), inv.Lines[0].CostObjectID)

	// another technician cannot see it
	other := f.token(t, "tech-2", appctx.RoleTechnician)
	rec = f.do(t, http.MethodGet, "/api/v1/invoices/"+created.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/invoices", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":0`)

	// the director sees everything and may delete
	director := f.token(t, "dir-1", appctx.RoleDirector)
	rec = f.do(t, http.MethodGet, "/api/v1/invoices?objectId="+f.active.ID.String(), director, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":1`)

	rec = f.do(t, http.MethodDelete, "/api/v1/invoices/"+created.ID, tech, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/invoices/"+created.ID, director, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestInvoices_SubmitRejected(t *testing.T) {
	f := newAPIFixture(t)
	tech := f.token(t, "tech-1", appctx.RoleTechnician)

	tests := []struct {
		name       string
		mutate     func(p *expense.Payload)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "completed object",
			mutate:     func(p *expense.Payload) { p.Positions[0].CostObjectID = f.completed.ID.String() },
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "OBJECT_ARCHIVED",
		},
		{
			name:       "missing allocation",
			mutate:     func(p *expense.Payload) { p.Positions[0].CostObjectID = "" },
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "MISSING_ALLOCATION",
		},
		{
			name:       "bad date",
			mutate:     func(p *expense.Payload) { p.Date = "10.01.2025" },
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_HEADER",
		},
		{
			name:       "total mismatch",
			mutate:     func(p *expense.Payload) { p.TotalAmount = types.MustMoney("8") },
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "TOTAL_MISMATCH",
		},
		{
			name:       "filing for someone else",
			mutate:     func(p *expense.Payload) { p.TechnicianID = "tech-2" },
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := f.payload(f.active.ID.String())
			tt.mutate(&p)

			rec := f.do(t, http.MethodPost, "/api/v1/invoices", tech, p)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestInvoices_ListQueryValidation(t *testing.T) {
	f := newAPIFixture(t)
	director := f.token(t, "dir-1", appctx.RoleDirector)

	for _, query := range []string{"objectId=nope", "dateFrom=2025-13-01", "dateTo=yesterday"} {
		t.Run(query, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/api/v1/invoices?"+query, director, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
		})
	}
}

func TestObjects_Permissions(t *testing.T) {
	f := newAPIFixture(t)
	tech := f.token(t, "tech-1", appctx.RoleTechnician)
	director := f.token(t, "dir-1", appctx.RoleDirector)

	body := dto.CreateCostObjectRequest{Name: "Обект Люлин", Address: "ж.к. Люлин бл. 205"}

	rec := f.do(t, http.MethodPost, "/api/v1/objects", tech, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/objects", director, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.CostObjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, costobject.StatusActive, created.Status)

	rec = f.do(t, http.MethodPost, "/api/v1/objects/"+created.ID+"/archive", director, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var archived dto.CostObjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
	assert.Equal(t, costobject.StatusArchived, archived.Status)

	rec = f.do(t, http.MethodGet, "/api/v1/objects/not-an-id", tech, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/objects/"+created.ID+"/history", tech, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/objects/"+created.ID+"/history", director, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Items []audit.Entry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Items, 2)
	assert.Equal(t, audit.ActionUpdate, history.Items[0].Action)
	assert.Equal(t, "dir-1", history.Items[1].UserID)
}

func TestObjects_Options(t *testing.T) {
	f := newAPIFixture(t)
	tech := f.token(t, "tech-1", appctx.RoleTechnician)

	rec := f.do(t, http.MethodGet, "/api/v1/objects/options", tech, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var options []costobject.Option
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	require.Len(t, options, 1)
	assert.Equal(t, f.active.ID.String(), options[0].ID)
}

// The webhook client must be able to talk to this API unchanged.
func TestWebhookClientRoundTrip(t *testing.T) {
	f := newAPIFixture(t)
	server := httptest.NewServer(f.handler)
	t.Cleanup(server.Close)

	client := webhook.New(config.Backend{
		BaseURL: server.URL + "/api/v1",
		Token:   f.token(t, "tech-1", appctx.RoleTechnician),
		Timeout: 5 * time.Second,
	})
	ctx := context.Background()

	options, err := client.ListActiveOptions(ctx)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "Обект Витоша", options[0].Name)

	created, err := client.CreateInvoice(ctx, f.payload(options[0].ID))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.RegistryNumber)

	_, err = client.CreateInvoice(ctx, f.payload(f.completed.ID.String()))
	require.Error(t, err)
	assert.True(t, webhook.IsStatus(err, http.StatusUnprocessableEntity))
}

func TestObjects_Report(t *testing.T) {
	f := newAPIFixture(t)
	tech := f.token(t, "tech-1", appctx.RoleTechnician)
	director := f.token(t, "dir-1", appctx.RoleDirector)

	rec := f.do(t, http.MethodPost, "/api/v1/invoices", tech, f.payload(f.active.ID.String()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/objects/"+f.active.ID.String()+"/report", tech, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/objects/"+f.active.ID.String()+"/report", director, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report dto.ObjectReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "Обект Витоша", report.ObjectName)
	assert.Equal(t, "7.00", report.TotalExpenses.StringFixed(2))
	assert.Equal(t, 1, report.InvoiceCount)
	require.Len(t, report.ByTechnician, 1)
	assert.Equal(t, "tech-1", report.ByTechnician[0].Name)

	rec = f.do(t, http.MethodGet, "/api/v1/objects/"+f.active.ID.String()+"/report?dateFrom=2025-02-01", director, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"invoiceCount":0`)

	rec = f.do(t, http.MethodGet, "/api/v1/objects/"+f.active.ID.String()+"/report?dateFrom=01.02.2025", director, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/objects/00000000-0000-0000-0000-000000000001/report", director, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFunding_Balance(t *testing.T) {
	f := newAPIFixture(t)
	tech := f.token(t, "tech-1", appctx.RoleTechnician)
	director := f.token(t, "dir-1", appctx.RoleDirector)

	fund := map[string]any{"userId": "tech-1", "type": "cash_funding", "amount": 100, "date": "2025-01-05", "note": "аванс"}

	rec := f.do(t, http.MethodPost, "/api/v1/transactions", tech, fund)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/transactions", director, fund)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "dir-1", created.CreatedBy)
	assert.Equal(t, "2025-01-05", created.Date)

	rec = f.do(t, http.MethodPost, "/api/v1/invoices", tech, f.payload(f.active.ID.String()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/technicians/me/balance", tech, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var balance dto.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
	assert.Equal(t, "tech-1", balance.TechnicianID)
	assert.Equal(t, "93.00", balance.Balance.StringFixed(2))
	require.Len(t, balance.Transactions, 2)
	assert.Equal(t, "invoice", balance.Transactions[0].Type)

	rec = f.do(t, http.MethodGet, "/api/v1/technicians/tech-1/balance", director, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	other := f.token(t, "tech-2", appctx.RoleTechnician)
	rec = f.do(t, http.MethodGet, "/api/v1/technicians/tech-1/balance", other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/transactions", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":0`)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"huge amount", map[string]any{"userId": "tech-1", "type": "cash_funding", "amount": "1e100000000", "date": "2025-01-05"}, http.StatusBadRequest},
		{"unknown type", map[string]any{"userId": "tech-1", "type": "expense", "amount": 10, "date": "2025-01-05"}, http.StatusBadRequest},
		{"display date", map[string]any{"userId": "tech-1", "type": "bank_transfer", "amount": 10, "date": "05.01.2025"}, http.StatusBadRequest},
		{"missing user", map[string]any{"type": "bank_transfer", "amount": 10, "date": "2025-01-05"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/v1/transactions", director, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

package expense

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barinalp/internal/core/apperror"
)

func TestBuildPayload_CableScenario(t *testing.T) {
	d := newTestDraft()
	fillCable(d)

	require.Len(t, d.ValidPositions(), 1)
	assert.Equal(t, "20", d.GrandTotal().String())
	assert.True(t, d.IsReadyToSubmit())

	p, err := BuildPayload(d, "tech-3")
	require.NoError(t, err)

	assert.Equal(t, "2025-01-10", p.Date)
	assert.Equal(t, "ACME", p.Vendor)
	assert.Equal(t, "tech-3", p.TechnicianID)
	assert.Equal(t, "20", p.TotalAmount.String())
	require.Len(t, p.Positions, 1)

	line := p.Positions[0]
	assert.Equal(t, "Cable", line.Description)
	assert.Equal(t, "2", line.Quantity.String())
	assert.Equal(t, "10", line.UnitPrice.String())
	assert.Equal(t, "20", line.LineTotal.String())
	assert.Equal(t, "site-1", line.CostObjectID)
}

func TestBuildPayload_JSONShape(t *testing.T) {
	d := newTestDraft()
	fillCable(d)

	p, err := BuildPayload(d, "tech-3")
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Nil(t, got["invoiceNumber"])
	assert.Nil(t, got["notes"])
	assert.Equal(t, "cash", got["paymentMethod"])
	assert.Equal(t, float64(20), got["totalAmount"])

	positions, ok := got["positions"].([]any)
	require.True(t, ok)
	require.Len(t, positions, 1)
	assert.Equal(t, map[string]any{
		"description":  "Cable",
		"quantity":     float64(2),
		"unitPrice":    float64(10),
		"lineTotal":    float64(20),
		"costObjectId": "site-1",
	}, positions[0])

	var back Payload
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "", back.InvoiceNumber)
	assert.True(t, back.TotalAmount.Equal(p.TotalAmount))
}

func TestBuildPayload_WholeInvoiceStampDoesNotTouchDraft(t *testing.T) {
	d := newTestDraft()
	fillCable(d)
	require.NoError(t, d.AssignPosition("p1", "site-2"))
	before := d.Snapshot()

	p, err := BuildPayload(d, "tech-3")
	require.NoError(t, err)

	assert.Equal(t, "site-1", p.Positions[0].CostObjectID)
	assert.Equal(t, before, d.Snapshot())

	require.NoError(t, d.SetAllocationMode(ModePerLine))
	pos, _ := d.Position("p1")
	assert.Equal(t, "site-2", pos.CostObjectID)
}

func TestBuildPayload_PerLine(t *testing.T) {
	d := newTestDraft()
	fillCable(d)
	second := d.Positions()[1].ID
	_, _ = d.UpdatePosition(second, FieldDescription, "Винтове")
	_, _ = d.UpdatePosition(second, FieldQuantity, "3")
	_, _ = d.UpdatePosition(second, FieldUnitPrice, "0.35")
	require.NoError(t, d.SetAllocationMode(ModePerLine))
	require.NoError(t, d.AssignPosition("p1", "site-1"))
	require.NoError(t, d.AssignPosition(second, "site-2"))

	p, err := BuildPayload(d, "tech-3")
	require.NoError(t, err)

	require.Len(t, p.Positions, 2)
	assert.Equal(t, "site-1", p.Positions[0].CostObjectID)
	assert.Equal(t, "site-2", p.Positions[1].CostObjectID)
	assert.Equal(t, "1.05", p.Positions[1].LineTotal.String())
	assert.Equal(t, "21.05", p.TotalAmount.String())
}

func TestBuildPayload_Errors(t *testing.T) {
	d := newTestDraft()
	_, err := BuildPayload(d, "tech-3")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidHeader))

	fillCable(d)
	_, err = BuildPayload(d, "")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

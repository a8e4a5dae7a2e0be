package invoice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barinalp/internal/core/types"
	"barinalp/internal/domain"
	"barinalp/internal/domain/invoice"
)

// splitRequest puts 15.00 on active and 10.00 on other.
func (f *fixture) splitRequest() invoice.CreateRequest {
	return invoice.CreateRequest{
		Date:          time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		Vendor:        "Меркурий",
		PaymentMethod: types.PaymentCard,
		TotalAmount:   types.MustMoney("25"),
		Lines: []invoice.LineRequest{
			{
				Description:  "Гипс",
				Quantity:     types.MustMoney("10"),
				UnitPrice:    types.MustMoney("1.50"),
				CostObjectID: f.active.ID.String(),
			},
			{
				Description:  "Шпакловка",
				Quantity:     types.MustMoney("2"),
				UnitPrice:    types.MustMoney("5"),
				CostObjectID: f.other.ID.String(),
			},
		},
	}
}

func TestService_ObjectReport(t *testing.T) {
	f := newFixture(nil)

	_, err := f.service.Create(technicianCtx("tech-1"), f.cableRequest())
	require.NoError(t, err)
	_, err = f.service.Create(technicianCtx("tech-2"), f.splitRequest())
	require.NoError(t, err)

	t.Run("shared object", func(t *testing.T) {
		report, err := f.service.ObjectReport(directorCtx(), f.active.ID, invoice.ListFilter{})
		require.NoError(t, err)

		assert.Equal(t, f.active.ID, report.ObjectID)
		assert.Equal(t, "35.05", report.TotalExpenses.StringFixed(2))
		assert.Equal(t, 2, report.InvoiceCount)
		assert.Equal(t, 3, report.LineCount)

		require.Len(t, report.ByTechnician, 2)
		assert.Equal(t, "tech-1", report.ByTechnician[0].Name)
		assert.Equal(t, 2, report.ByTechnician[0].Count)
		assert.Equal(t, "20.05", report.ByTechnician[0].Total.StringFixed(2))
		assert.Equal(t, "tech-2", report.ByTechnician[1].Name)
		assert.Equal(t, "15.00", report.ByTechnician[1].Total.StringFixed(2))

		require.Len(t, report.ByVendor, 2)
		assert.Equal(t, "Практикер", report.ByVendor[0].Name)
		assert.Equal(t, "Меркурий", report.ByVendor[1].Name)
	})

	t.Run("only the allocated share counts", func(t *testing.T) {
		report, err := f.service.ObjectReport(directorCtx(), f.other.ID, invoice.ListFilter{})
		require.NoError(t, err)

		assert.Equal(t, "10.00", report.TotalExpenses.StringFixed(2))
		assert.Equal(t, 1, report.InvoiceCount)
		assert.Equal(t, 1, report.LineCount)
	})

	t.Run("object without expenses", func(t *testing.T) {
		report, err := f.service.ObjectReport(directorCtx(), f.completed.ID, invoice.ListFilter{})
		require.NoError(t, err)

		assert.True(t, report.TotalExpenses.IsZero())
		assert.Zero(t, report.InvoiceCount)
		assert.Empty(t, report.ByTechnician)
	})

	t.Run("date range", func(t *testing.T) {
		from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		report, err := f.service.ObjectReport(directorCtx(), f.active.ID, invoice.ListFilter{DateFrom: &from})
		require.NoError(t, err)

		assert.Equal(t, "15.00", report.TotalExpenses.StringFixed(2))
		assert.Equal(t, 1, report.InvoiceCount)
	})

	t.Run("technician sees own share", func(t *testing.T) {
		report, err := f.service.ObjectReport(technicianCtx("tech-2"), f.active.ID, invoice.ListFilter{})
		require.NoError(t, err)

		assert.Equal(t, "15.00", report.TotalExpenses.StringFixed(2))
	})
}

func TestService_AllReadsPastOnePage(t *testing.T) {
	f := newFixture(nil)
	ctx := technicianCtx("tech-1")

	for range 3 {
		_, err := f.service.Create(ctx, f.cableRequest())
		require.NoError(t, err)
	}

	page, err := f.service.List(ctx, invoice.ListFilter{ListFilter: domain.ListFilter{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	all, err := f.service.All(ctx, invoice.ListFilter{ListFilter: domain.ListFilter{Limit: 1, Offset: 2}})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

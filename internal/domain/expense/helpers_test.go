package expense

import (
	"context"
	"fmt"
	"sync"
	"time"

	"barinalp/internal/domain/costobject"
)

var testToday = time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

// seqIDs returns an id generator yielding p1, p2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

func newTestDraft() *Draft {
	return newDraft(testToday, seqIDs())
}

// fakeCreator is a test implementation of InvoiceCreator.
type fakeCreator struct {
	CreateInvoiceFunc func(ctx context.Context, payload Payload) (Created, error)

	mu    sync.Mutex
	calls []Payload
}

func (f *fakeCreator) CreateInvoice(ctx context.Context, payload Payload) (Created, error) {
	f.mu.Lock()
	f.calls = append(f.calls, payload)
	f.mu.Unlock()

	if f.CreateInvoiceFunc != nil {
		return f.CreateInvoiceFunc(ctx, payload)
	}
	return Created{ID: "inv-1", RegistryNumber: "EXP-2025-00001"}, nil
}

func (f *fakeCreator) Calls() []Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Payload(nil), f.calls...)
}

// fakeLister is a test implementation of CostObjectLister.
type fakeLister struct {
	ListActiveOptionsFunc func(ctx context.Context) ([]costobject.Option, error)
}

func (f *fakeLister) ListActiveOptions(ctx context.Context) ([]costobject.Option, error) {
	if f.ListActiveOptionsFunc != nil {
		return f.ListActiveOptionsFunc(ctx)
	}
	return []costobject.Option{
		{ID: "site-1", Name: "Обект Витоша"},
		{ID: "site-2", Name: "Обект Люлин"},
	}, nil
}

type notice struct {
	Message  string
	Severity Severity
}

// recordingNotifier collects notifications.
type recordingNotifier struct {
	notices []notice
}

func (r *recordingNotifier) Notify(_ context.Context, message string, severity Severity) {
	r.notices = append(r.notices, notice{Message: message, Severity: severity})
}

func (r *recordingNotifier) Last() notice {
	if len(r.notices) == 0 {
		return notice{}
	}
	return r.notices[len(r.notices)-1]
}

// fillCable builds the example draft: Cable ×2 @10 plus a blank row, whole invoice to site-1.
func fillCable(d *Draft) {
	d.SetVendor("ACME")
	d.SetPaymentMethod("cash")

	first := d.Positions()[0].ID
	_, _ = d.UpdatePosition(first, FieldDescription, "Cable")
	_, _ = d.UpdatePosition(first, FieldQuantity, "2")
	_, _ = d.UpdatePosition(first, FieldUnitPrice, "10")
	d.AddPosition()

	_ = d.SetAllocationMode(ModeWholeInvoice)
	d.SetWholeObject("site-1")
}

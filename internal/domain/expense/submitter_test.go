package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barinalp/internal/core/apperror"
)

func newTestSubmitter(creator InvoiceCreator) *Submitter {
	return NewSubmitter(SubmitterConfig{
		Creator:    creator,
		Technician: StaticTechnician("tech-3"),
		Clock:      func() time.Time { return testToday },
	})
}

func TestSubmitter_SuccessResetsDraft(t *testing.T) {
	creator := &fakeCreator{}
	sub := newTestSubmitter(creator)
	d := newTestDraft()
	fillCable(d)

	created, err := sub.Submit(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, "inv-1", created.ID)
	require.Len(t, creator.Calls(), 1)
	assert.Equal(t, "tech-3", creator.Calls()[0].TechnicianID)
	assert.Equal(t, "20", creator.Calls()[0].TotalAmount.String())

	state := d.Snapshot()
	require.Len(t, state.Positions, 1)
	assert.Empty(t, state.Positions[0].Description)
	assert.Empty(t, state.Header.Vendor)
	assert.Equal(t, ModeWholeInvoice, state.Allocation.Mode)
	assert.Empty(t, state.Allocation.WholeObjectID)
	assert.Equal(t, StateIdle, sub.State())
}

func TestSubmitter_ValidationFailsBeforeNetwork(t *testing.T) {
	creator := &fakeCreator{}
	sub := newTestSubmitter(creator)
	d := newTestDraft()
	fillCable(d)
	d.SetWholeObject("")

	_, err := sub.Submit(context.Background(), d)

	assert.True(t, apperror.HasCode(err, apperror.CodeMissingAllocation))
	assert.Empty(t, creator.Calls())
	assert.Equal(t, StateIdle, sub.State())
}

func TestSubmitter_FailurePreservesDraft(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "backend message passed through",
			err:     apperror.NewSubmissionFailed("Доставчикът е блокиран", nil),
			wantMsg: "Доставчикът е блокиран",
		},
		{
			name:    "domain error message passed through",
			err:     apperror.NewBusinessRule(apperror.CodeObjectArchived, "cost object is not active"),
			wantMsg: "cost object is not active",
		},
		{
			name:    "plain error becomes generic",
			err:     errors.New("connection reset by peer"),
			wantMsg: MsgSaveFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &fakeCreator{
				CreateInvoiceFunc: func(ctx context.Context, payload Payload) (Created, error) {
					return Created{}, tt.err
				},
			}
			sub := newTestSubmitter(creator)
			d := newTestDraft()
			fillCable(d)
			d.SetNotes("бележка")
			before := d.Snapshot()

			_, err := sub.Submit(context.Background(), d)

			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeSubmissionFailed, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, before, d.Snapshot())
			assert.Equal(t, StateIdle, sub.State())
		})
	}
}

func TestSubmitter_RejectsReentrantSubmit(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	creator := &fakeCreator{
		CreateInvoiceFunc: func(ctx context.Context, payload Payload) (Created, error) {
			close(started)
			<-release
			return Created{ID: "inv-1"}, nil
		},
	}
	sub := newTestSubmitter(creator)
	d := newTestDraft()
	fillCable(d)

	type result struct {
		created Created
		err     error
	}
	done := make(chan result, 1)
	go func() {
		c, err := sub.Submit(context.Background(), d)
		done <- result{c, err}
	}()

	<-started
	assert.Equal(t, StateSubmitting, sub.State())

	_, err := sub.Submit(context.Background(), newTestDraft())
	assert.True(t, apperror.HasCode(err, apperror.CodeSubmissionInProgress))

	close(release)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "inv-1", res.created.ID)
	assert.Equal(t, StateIdle, sub.State())
	assert.Len(t, creator.Calls(), 1)
}

package audit_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "barinalp/internal/core/context"
	"barinalp/internal/domain/audit"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/infrastructure/storage/memory"
)

func TestRecordOn_WritesSnapshots(t *testing.T) {
	trail := memory.NewAuditLog()
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "dir-1", Role: appctx.RoleDirector})

	svc := costobject.NewService(memory.NewCostObjectRepo(), nil)
	svc.Hooks().OnAfterCreate(audit.RecordOn[*costobject.CostObject](trail, costobject.EntityType, audit.ActionCreate))
	svc.Hooks().OnAfterUpdate(audit.RecordOn[*costobject.CostObject](trail, costobject.EntityType, audit.ActionUpdate))

	obj := costobject.New("Обект Младост", "ж.к. Младост 4")
	require.NoError(t, svc.Create(ctx, obj))
	_, err := svc.Archive(ctx, obj.ID)
	require.NoError(t, err)

	history, err := trail.History(ctx, costobject.EntityType, obj.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, audit.ActionUpdate, history[0].Action)
	assert.Equal(t, audit.ActionCreate, history[1].Action)
	assert.Equal(t, "dir-1", history[1].UserID)

	var snapshot costobject.CostObject
	require.NoError(t, json.Unmarshal(history[0].Snapshot, &snapshot))
	assert.Equal(t, costobject.StatusArchived, snapshot.Status)
}

func TestHistory_Limit(t *testing.T) {
	trail := memory.NewAuditLog()
	ctx := context.Background()
	obj := costobject.New("Обект Люлин", "")

	record := audit.RecordOn[*costobject.CostObject](trail, costobject.EntityType, audit.ActionUpdate)
	for range 3 {
		require.NoError(t, record(ctx, obj))
	}

	history, err := trail.History(ctx, costobject.EntityType, obj.ID, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	other, err := trail.History(ctx, "invoice", obj.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

package costobject_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barinalp/internal/core/apperror"
	appctx "barinalp/internal/core/context"
	"barinalp/internal/core/id"
	"barinalp/internal/domain/audit"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/infrastructure/storage/memory"
)

func newService(seed ...*costobject.CostObject) *costobject.Service {
	return costobject.NewService(memory.NewCostObjectRepo(seed...), nil)
}

func TestService_CreateStampsAuthor(t *testing.T) {
	svc := newService()
	svc.Hooks().OnBeforeCreate(audit.EnrichCreatedBy[*costobject.CostObject])

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "dir-1", Role: appctx.RoleDirector})
	obj := costobject.New("Обект Бояна", "ул. Кумата 3")
	require.NoError(t, svc.Create(ctx, obj))

	stored, err := svc.GetByID(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, "dir-1", stored.CreatedBy)
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	svc := newService()

	err := svc.Create(context.Background(), costobject.New(" ", ""))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	all, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	obj := costobject.New("Обект Витоша", "")
	svc := newService(obj)

	name := "Обект Витоша 2"
	completed := costobject.StatusCompleted
	updated, err := svc.Update(ctx, obj.ID, costobject.UpdateRequest{Name: &name, Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, "Обект Витоша 2", updated.Name)
	assert.Equal(t, costobject.StatusCompleted, updated.Status)
	assert.Equal(t, 2, updated.Version)

	_, err = svc.Update(ctx, id.New(), costobject.UpdateRequest{Name: &name})
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_ArchivedIsReadOnly(t *testing.T) {
	ctx := context.Background()
	obj := costobject.New("Обект Витоша", "")
	svc := newService(obj)

	archived, err := svc.Archive(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, costobject.StatusArchived, archived.Status)

	again, err := svc.Archive(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, archived.Version, again.Version)

	name := "renamed"
	_, err = svc.Update(ctx, obj.ID, costobject.UpdateRequest{Name: &name})
	assert.True(t, apperror.HasCode(err, apperror.CodeObjectArchived))
}

func TestService_ListActiveOptions(t *testing.T) {
	svc := newService(costobject.DemoObjects()...)

	options, err := svc.ListActiveOptions(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(options))
	for _, opt := range options {
		names = append(names, opt.Name)
	}
	assert.Equal(t, []string{"Обект Витоша", "Обект Люлин", "Обект Младост"}, names)
}

func TestService_RequireActive(t *testing.T) {
	active := costobject.New("Обект Витоша", "")
	completed := costobject.New("Обект Център", "")
	completed.Status = costobject.StatusCompleted
	svc := newService(active, completed)

	tests := []struct {
		name     string
		raw      string
		wantCode string
	}{
		{name: "active", raw: active.ID.String()},
		{name: "completed", raw: completed.ID.String(), wantCode: apperror.CodeObjectArchived},
		{name: "unknown", raw: id.NewString(), wantCode: apperror.CodeNotFound},
		{name: "malformed", raw: "site-1", wantCode: apperror.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := svc.RequireActive(context.Background(), tt.raw)
			if tt.wantCode != "" {
				assert.True(t, apperror.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, active.ID, obj.ID)
		})
	}
}

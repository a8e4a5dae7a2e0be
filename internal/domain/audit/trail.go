package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appctx "barinalp/internal/core/context"
	"barinalp/internal/core/id"
)

// Action is the audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one audit trail record: who did what to which entity, with the
// entity's state after the change.
type Entry struct {
	ID         id.ID           `db:"id" json:"id"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   id.ID           `db:"entity_id" json:"entityId"`
	Action     Action          `db:"action" json:"action"`
	UserID     string          `db:"user_id" json:"userId,omitempty"`
	Snapshot   json.RawMessage `db:"snapshot" json:"snapshot"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Trail stores and reads audit entries.
type Trail interface {
	Record(ctx context.Context, entry Entry) error
	// History returns the newest entries first.
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Identified is implemented by every persisted entity.
type Identified interface {
	GetID() id.ID
}

// RecordOn returns a lifecycle hook that writes the entity to trail.
func RecordOn[T Identified](trail Trail, entityType string, action Action) func(ctx context.Context, entity T) error {
	return func(ctx context.Context, entity T) error {
		snapshot, err := json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("marshal %s snapshot: %w", entityType, err)
		}

		return trail.Record(ctx, Entry{
			EntityType: entityType,
			EntityID:   entity.GetID(),
			Action:     action,
			UserID:     appctx.GetUserID(ctx),
			Snapshot:   snapshot,
		})
	}
}

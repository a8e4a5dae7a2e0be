package costobject

import (
	"context"

	"barinalp/internal/core/id"
)

// Repository defines persistence operations for cost objects.
type Repository interface {
	Create(ctx context.Context, obj *CostObject) error
	GetByID(ctx context.Context, objID id.ID) (*CostObject, error)
	// Update saves obj when its stored version equals obj.Version-1 (optimistic locking).
	Update(ctx context.Context, obj *CostObject) error
	List(ctx context.Context, filter ListFilter) ([]*CostObject, error)
}

// ListFilter for filtering cost objects. The zero value lists active and completed objects.
type ListFilter struct {
	IncludeArchived bool
	ActiveOnly      bool
}

// Matches reports whether obj passes the filter.
func (f ListFilter) Matches(obj *CostObject) bool {
	if f.ActiveOnly {
		return obj.Status == StatusActive
	}
	if !f.IncludeArchived && obj.Status == StatusArchived {
		return false
	}
	return true
}

// Package costobject provides construction sites (cost objects) that expenses are allocated to.
package costobject

import (
	"context"
	"strings"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/entity"
)

// Status is the lifecycle state of a cost object.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived:
		return true
	default:
		return false
	}
}

// EntityType names cost objects in the audit trail.
const EntityType = "cost_object"

// CostObject is a construction site. Only active objects accept new allocations.
type CostObject struct {
	entity.BaseEntity

	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address,omitempty"`
	Status  Status `db:"status" json:"status"`

	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`
}

// New creates an active cost object.
func New(name, address string) *CostObject {
	return &CostObject{
		BaseEntity: entity.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Address:    strings.TrimSpace(address),
		Status:     StatusActive,
	}
}

// Validate implements entity.Validatable.
func (o *CostObject) Validate(ctx context.Context) error {
	if strings.TrimSpace(o.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !o.Status.IsValid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", o.Status)
	}
	return nil
}

// IsActive reports whether the object can receive allocations.
func (o *CostObject) IsActive() bool {
	return o.Status == StatusActive
}

// Archive moves the object to archived. Returns false when it already was.
func (o *CostObject) Archive() bool {
	if o.Status == StatusArchived {
		return false
	}
	o.Status = StatusArchived
	o.Touch()
	return true
}

// SetCreatedBy implements audit.CreatedBySetter.
func (o *CostObject) SetCreatedBy(userID string) {
	o.CreatedBy = userID
}

// Option returns the selector entry for this object.
func (o *CostObject) Option() Option {
	return Option{ID: o.ID.String(), Name: o.Name}
}

// Option is one entry of a cost-object selector.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Package audit provides BeforeCreate hooks that stamp authorship on entities.
package audit

import (
	"context"

	"barinalp/internal/core/apperror"
	appctx "barinalp/internal/core/context"
)

// CreatedBySetter is implemented by entities that record their author.
type CreatedBySetter interface {
	SetCreatedBy(userID string)
}

// TechnicianOwned is implemented by entities filed on behalf of a technician.
type TechnicianOwned interface {
	GetTechnicianID() string
	SetTechnicianID(technicianID string)
}

// EnrichCreatedBy sets the author from the context user.
// If no user is in context, this is a no-op.
func EnrichCreatedBy[T CreatedBySetter](ctx context.Context, entity T) error {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}
	entity.SetCreatedBy(userID)
	return nil
}

// EnforceTechnician fills an empty technician from the context user and
// rejects a technician filing on behalf of someone else. Directors may file
// for anyone.
func EnforceTechnician[T TechnicianOwned](ctx context.Context, entity T) error {
	user := appctx.GetUser(ctx)
	if user == nil {
		return nil
	}

	if entity.GetTechnicianID() == "" {
		entity.SetTechnicianID(user.UserID)
		return nil
	}

	if entity.GetTechnicianID() != user.UserID && !user.IsDirector() {
		return apperror.NewForbidden("cannot file expenses for another technician").
			WithDetail("technicianId", entity.GetTechnicianID())
	}
	return nil
}

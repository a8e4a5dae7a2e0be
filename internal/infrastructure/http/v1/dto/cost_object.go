package dto

import (
	"time"

	"barinalp/internal/domain/costobject"
)

// --- Request DTOs ---

// CreateCostObjectRequest is the request body for creating a cost object.
type CreateCostObjectRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCostObjectRequest) ToEntity() *costobject.CostObject {
	return costobject.New(r.Name, r.Address)
}

// UpdateCostObjectRequest is a partial update; nil fields are left alone.
type UpdateCostObjectRequest struct {
	Name    *string            `json:"name"`
	Address *string            `json:"address"`
	Status  *costobject.Status `json:"status"`
}

// ToDomain converts DTO to the service request.
func (r *UpdateCostObjectRequest) ToDomain() costobject.UpdateRequest {
	return costobject.UpdateRequest{
		Name:    r.Name,
		Address: r.Address,
		Status:  r.Status,
	}
}

// ListCostObjectsRequest holds the cost object list query parameters.
type ListCostObjectsRequest struct {
	IncludeArchived bool `form:"includeArchived"`
}

// --- Response DTOs ---

// CostObjectResponse is the response body for a cost object.
type CostObjectResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Address   string            `json:"address,omitempty"`
	Status    costobject.Status `json:"status"`
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// FromCostObject creates CostObjectResponse from the domain entity.
func FromCostObject(obj *costobject.CostObject) CostObjectResponse {
	return CostObjectResponse{
		ID:        obj.ID.String(),
		Name:      obj.Name,
		Address:   obj.Address,
		Status:    obj.Status,
		Version:   obj.Version,
		CreatedAt: obj.CreatedAt,
		UpdatedAt: obj.UpdatedAt,
	}
}

// FromCostObjects maps a slice of cost objects.
func FromCostObjects(items []*costobject.CostObject) []CostObjectResponse {
	out := make([]CostObjectResponse, 0, len(items))
	for _, obj := range items {
		out = append(out, FromCostObject(obj))
	}
	return out
}

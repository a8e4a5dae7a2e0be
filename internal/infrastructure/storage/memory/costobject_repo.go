// Package memory provides in-process repositories used by the demo backend and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/id"
	"barinalp/internal/domain/costobject"
)

// CostObjectRepo is an in-memory implementation of costobject.Repository.
type CostObjectRepo struct {
	mu    sync.RWMutex
	items map[id.ID]costobject.CostObject
}

// NewCostObjectRepo creates the repository, optionally pre-filled.
func NewCostObjectRepo(seed ...*costobject.CostObject) *CostObjectRepo {
	r := &CostObjectRepo{items: make(map[id.ID]costobject.CostObject)}
	for _, obj := range seed {
		r.items[obj.ID] = *obj
	}
	return r
}

func (r *CostObjectRepo) Create(_ context.Context, obj *costobject.CostObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[obj.ID]; exists {
		return apperror.NewConflict("cost object already exists").WithDetail("id", obj.ID)
	}
	r.items[obj.ID] = *obj
	return nil
}

func (r *CostObjectRepo) GetByID(_ context.Context, objID id.ID) (*costobject.CostObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.items[objID]
	if !ok {
		return nil, apperror.NewNotFound("cost object", objID)
	}
	return &obj, nil
}

func (r *CostObjectRepo) Update(_ context.Context, obj *costobject.CostObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[obj.ID]
	if !ok {
		return apperror.NewNotFound("cost object", obj.ID)
	}
	if stored.Version != obj.Version-1 {
		return apperror.NewConflict("cost object was modified concurrently").
			WithDetail("id", obj.ID).
			WithDetail("version", stored.Version)
	}
	r.items[obj.ID] = *obj
	return nil
}

func (r *CostObjectRepo) List(_ context.Context, filter costobject.ListFilter) ([]*costobject.CostObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*costobject.CostObject, 0, len(r.items))
	for _, obj := range r.items {
		if filter.Matches(&obj) {
			out = append(out, &obj)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

var _ costobject.Repository = (*CostObjectRepo)(nil)

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/id"
	"barinalp/internal/domain"
	"barinalp/internal/domain/funding"
)

// FundingRepo is an in-memory implementation of funding.Repository.
type FundingRepo struct {
	mu    sync.RWMutex
	items map[id.ID]funding.Transaction
}

// NewFundingRepo creates an empty repository.
func NewFundingRepo() *FundingRepo {
	return &FundingRepo{items: make(map[id.ID]funding.Transaction)}
}

func (r *FundingRepo) Create(_ context.Context, t *funding.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[t.ID]; exists {
		return apperror.NewConflict("transaction already exists").WithDetail("id", t.ID)
	}
	r.items[t.ID] = *t
	return nil
}

func (r *FundingRepo) List(_ context.Context, filter funding.ListFilter) (domain.ListResult[*funding.Transaction], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]*funding.Transaction, 0)
	for _, t := range r.items {
		if filter.TechnicianID != "" && t.TechnicianID != filter.TechnicianID {
			continue
		}
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Note), search) {
			continue
		}
		matched = append(matched, &t)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	result := domain.ListResult[*funding.Transaction]{
		TotalCount: int64(len(matched)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		Items:      []*funding.Transaction{},
	}
	if filter.Offset < len(matched) {
		end := len(matched)
		if filter.Limit > 0 && filter.Offset+filter.Limit < end {
			end = filter.Offset + filter.Limit
		}
		result.Items = matched[filter.Offset:end]
	}
	return result, nil
}

var _ funding.Repository = (*FundingRepo)(nil)

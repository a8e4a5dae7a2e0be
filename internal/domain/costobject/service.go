package costobject

import (
	"context"
	"fmt"
	"strings"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/id"
	"barinalp/internal/core/tx"
	"barinalp/internal/domain"
	"barinalp/pkg/logger"
)

// Service provides business operations for cost objects.
type Service struct {
	repo      Repository
	txManager tx.Manager
	hooks     *domain.HookRegistry[*CostObject]
}

// NewService creates a new cost object service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	if txManager == nil {
		txManager = tx.Direct
	}
	return &Service{
		repo:      repo,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*CostObject](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*CostObject] {
	return s.hooks
}

// Create validates and stores a new cost object.
func (s *Service) Create(ctx context.Context, obj *CostObject) error {
	if err := s.hooks.RunBeforeCreate(ctx, obj); err != nil {
		return err
	}

	if err := obj.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, obj); err != nil {
		return fmt.Errorf("create cost object: %w", err)
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, obj); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "cost object created", "id", obj.ID, "name", obj.Name)
	return nil
}

// UpdateRequest carries the fields a caller may change. Nil fields are left as is.
type UpdateRequest struct {
	Name    *string
	Address *string
	Status  *Status
}

// Update applies req to the object. Archived objects are read-only.
func (s *Service) Update(ctx context.Context, objID id.ID, req UpdateRequest) (*CostObject, error) {
	var updated *CostObject

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		obj, err := s.repo.GetByID(ctx, objID)
		if err != nil {
			return err
		}

		if obj.Status == StatusArchived {
			return apperror.NewBusinessRule(apperror.CodeObjectArchived, "archived object cannot be modified").
				WithDetail("id", objID)
		}

		if req.Name != nil {
			obj.Name = strings.TrimSpace(*req.Name)
		}
		if req.Address != nil {
			obj.Address = strings.TrimSpace(*req.Address)
		}
		if req.Status != nil {
			obj.Status = *req.Status
		}

		if err := obj.Validate(ctx); err != nil {
			return err
		}

		obj.Touch()
		if err := s.repo.Update(ctx, obj); err != nil {
			return fmt.Errorf("update cost object: %w", err)
		}
		updated = obj
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterUpdate(ctx, updated)
	return updated, nil
}

// Archive archives the object. Archiving an archived object is a no-op.
func (s *Service) Archive(ctx context.Context, objID id.ID) (*CostObject, error) {
	var (
		archived *CostObject
		changed  bool
	)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		obj, err := s.repo.GetByID(ctx, objID)
		if err != nil {
			return err
		}

		if changed = obj.Archive(); changed {
			if err := s.repo.Update(ctx, obj); err != nil {
				return fmt.Errorf("archive cost object: %w", err)
			}
			logger.Info(ctx, "cost object archived", "id", obj.ID)
		}
		archived = obj
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.afterUpdate(ctx, archived)
	}
	return archived, nil
}

func (s *Service) afterUpdate(ctx context.Context, obj *CostObject) {
	if err := s.hooks.Run(ctx, domain.AfterUpdate, obj); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
}

// GetByID retrieves a cost object.
func (s *Service) GetByID(ctx context.Context, objID id.ID) (*CostObject, error) {
	return s.repo.GetByID(ctx, objID)
}

// List returns active and completed objects, plus archived ones when asked.
func (s *Service) List(ctx context.Context, includeArchived bool) ([]*CostObject, error) {
	return s.repo.List(ctx, ListFilter{IncludeArchived: includeArchived})
}

// ListActive returns the objects that may receive allocations.
func (s *Service) ListActive(ctx context.Context) ([]*CostObject, error) {
	return s.repo.List(ctx, ListFilter{ActiveOnly: true})
}

// ListActiveOptions implements Lister.
func (s *Service) ListActiveOptions(ctx context.Context) ([]Option, error) {
	objects, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]Option, 0, len(objects))
	for _, obj := range objects {
		options = append(options, obj.Option())
	}
	return options, nil
}

// RequireActive loads the object referenced by raw and checks it accepts allocations.
func (s *Service) RequireActive(ctx context.Context, raw string) (*CostObject, error) {
	objID, err := id.Parse(raw)
	if err != nil {
		return nil, apperror.NewNotFound("cost object", raw)
	}

	obj, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	if !obj.IsActive() {
		return nil, apperror.NewBusinessRule(apperror.CodeObjectArchived, "cost object is not active").
			WithDetail("id", raw).
			WithDetail("status", obj.Status)
	}
	return obj, nil
}

var _ Lister = (*Service)(nil)

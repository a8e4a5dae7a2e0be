// Package catalog_repo provides PostgreSQL repositories for reference data.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/id"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/infrastructure/storage/postgres"
)

const costObjectsTable = "cost_objects"

// CostObjectRepo implements costobject.Repository.
// Writes fire the cost_objects_changed notification through a table trigger.
type CostObjectRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewCostObjectRepo creates a new cost object repository.
func NewCostObjectRepo(txm *postgres.TxManager) *CostObjectRepo {
	return &CostObjectRepo{
		txm:  txm,
		cols: postgres.Columns[costobject.CostObject](),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *CostObjectRepo) Create(ctx context.Context, obj *costobject.CostObject) error {
	sql, args, err := builder().
		Insert(costObjectsTable).
		SetMap(postgres.StructToMap(obj)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", costObjectsTable, err)
	}
	return nil
}

func (r *CostObjectRepo) GetByID(ctx context.Context, objID id.ID) (*costobject.CostObject, error) {
	sql, args, err := builder().
		Select(r.cols...).
		From(costObjectsTable).
		Where(squirrel.Eq{"id": objID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var obj costobject.CostObject
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &obj, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("cost object", objID)
		}
		return nil, fmt.Errorf("get cost object: %w", err)
	}
	return &obj, nil
}

func (r *CostObjectRepo) Update(ctx context.Context, obj *costobject.CostObject) error {
	data := postgres.Without(postgres.StructToMap(obj), "id", "created_at", "created_by")

	sql, args, err := builder().
		Update(costObjectsTable).
		SetMap(data).
		Where(squirrel.Eq{"id": obj.ID}).
		Where(squirrel.Eq{"version": obj.Version - 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", costObjectsTable, err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, obj.ID); err != nil {
			return err
		}
		return apperror.NewConflict("cost object was modified concurrently").
			WithDetail("id", obj.ID)
	}
	return nil
}

func (r *CostObjectRepo) listQuery(filter costobject.ListFilter) squirrel.SelectBuilder {
	q := builder().
		Select(r.cols...).
		From(costObjectsTable).
		OrderBy("name", "id")

	switch {
	case filter.ActiveOnly:
		q = q.Where(squirrel.Eq{"status": costobject.StatusActive})
	case !filter.IncludeArchived:
		q = q.Where(squirrel.NotEq{"status": costobject.StatusArchived})
	}
	return q
}

func (r *CostObjectRepo) List(ctx context.Context, filter costobject.ListFilter) ([]*costobject.CostObject, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	objects := make([]*costobject.CostObject, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &objects, sql, args...); err != nil {
		return nil, fmt.Errorf("list cost objects: %w", err)
	}
	return objects, nil
}

var _ costobject.Repository = (*CostObjectRepo)(nil)

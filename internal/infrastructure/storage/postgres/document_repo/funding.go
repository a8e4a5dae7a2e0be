package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barinalp/internal/domain"
	"barinalp/internal/domain/funding"
	"barinalp/internal/infrastructure/storage/postgres"
)

const fundingTable = "funding_transactions"

// FundingRepo implements funding.Repository.
type FundingRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewFundingRepo creates a new funding transaction repository.
func NewFundingRepo(txm *postgres.TxManager) *FundingRepo {
	return &FundingRepo{
		txm:  txm,
		cols: postgres.Columns[funding.Transaction](),
	}
}

func (r *FundingRepo) Create(ctx context.Context, t *funding.Transaction) error {
	sql, args, err := builder().
		Insert(fundingTable).
		SetMap(postgres.StructToMap(t)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", fundingTable, err)
	}
	return nil
}

func (r *FundingRepo) filterQuery(filter funding.ListFilter) squirrel.SelectBuilder {
	q := builder().Select(r.cols...).From(fundingTable)

	if filter.TechnicianID != "" {
		q = q.Where(squirrel.Eq{"technician_id": filter.TechnicianID})
	}
	if filter.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"note": "%" + likeEscaper.Replace(filter.Search) + "%"})
	}
	return q
}

func (r *FundingRepo) List(ctx context.Context, filter funding.ListFilter) (domain.ListResult[*funding.Transaction], error) {
	result := domain.ListResult[*funding.Transaction]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Items:  make([]*funding.Transaction, 0),
	}

	q := r.filterQuery(filter)

	countSQL, countArgs, err := builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("date DESC", "created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list transactions: %w", err)
	}
	return result, nil
}

var _ funding.Repository = (*FundingRepo)(nil)

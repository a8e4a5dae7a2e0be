// Package document_repo provides PostgreSQL repositories for expense invoices and funding transactions.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/id"
	"barinalp/internal/domain"
	"barinalp/internal/domain/invoice"
	"barinalp/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable = "invoices"
	linesTable    = "invoice_lines"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	txm       *postgres.TxManager
	cols      []string
	lineCols  []string
	orderedBy []string
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		txm:       txm,
		cols:      postgres.Columns[invoice.Invoice](),
		lineCols:  postgres.Columns[invoice.Line](),
		orderedBy: []string{"date DESC", "created_at DESC"},
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	sql, args, err := builder().
		Insert(invoicesTable).
		SetMap(postgres.StructToMap(inv)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", invoicesTable, err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, invID id.ID) (*invoice.Invoice, error) {
	sql, args, err := builder().
		Select(r.cols...).
		From(invoicesTable).
		Where(squirrel.Eq{"id": invID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inv invoice.Invoice
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice", invID)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// Delete removes the invoice; lines go with it through ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, invID id.ID) error {
	sql, args, err := builder().
		Delete(invoicesTable).
		Where(squirrel.Eq{"id": invID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", invID)
	}
	return nil
}

func (r *InvoiceRepo) GetLines(ctx context.Context, invID id.ID) ([]invoice.Line, error) {
	sql, args, err := builder().
		Select(r.lineCols...).
		From(linesTable).
		Where(squirrel.Eq{"invoice_id": invID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := make([]invoice.Line, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// SaveLines replaces all lines of the invoice.
func (r *InvoiceRepo) SaveLines(ctx context.Context, invID id.ID, lines []invoice.Line) error {
	querier := r.txm.GetQuerier(ctx)

	delSQL, delArgs, err := builder().
		Delete(linesTable).
		Where(squirrel.Eq{"invoice_id": invID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	cols := append(append([]string(nil), r.lineCols...), "invoice_id")
	q := builder().Insert(linesTable).Columns(cols...)
	for _, line := range lines {
		data := postgres.StructToMap(line)
		values := make([]any, 0, len(cols))
		for _, col := range r.lineCols {
			values = append(values, data[col])
		}
		values = append(values, invID)
		q = q.Values(values...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

// filterQuery selects the invoices matching filter, without ordering or pagination.
func (r *InvoiceRepo) filterQuery(filter invoice.ListFilter) squirrel.SelectBuilder {
	q := builder().Select(r.cols...).From(invoicesTable)

	if filter.TechnicianID != "" {
		q = q.Where(squirrel.Eq{"technician_id": filter.TechnicianID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.CostObjectID != nil {
		q = q.Where(squirrel.Expr(
			"id IN (SELECT invoice_id FROM "+linesTable+" WHERE cost_object_id = ?)",
			*filter.CostObjectID,
		))
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"vendor": pattern},
			squirrel.ILike{"invoice_number": pattern},
			squirrel.ILike{"registry_number": pattern},
			squirrel.ILike{"notes": pattern},
		})
	}
	return q
}

// likeEscaper makes LIKE wildcards in user input match literally.
// Backslash is the default LIKE escape character in Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Items:  make([]*invoice.Invoice, 0),
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

	q = q.OrderBy(r.orderedBy...)
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
		return result, fmt.Errorf("list invoices: %w", err)
	}
	return result, nil
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

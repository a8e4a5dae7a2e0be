// Package app assembles the domain services on top of the configured storage.
package app

import (
	"context"
	"fmt"

	"barinalp/internal/config"
	"barinalp/internal/core/numerator"
	"barinalp/internal/core/tx"
	"barinalp/internal/domain/audit"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/domain/funding"
	"barinalp/internal/domain/invoice"
	"barinalp/internal/infrastructure/backend/local"
	"barinalp/internal/infrastructure/cache"
	infranumerator "barinalp/internal/infrastructure/numerator"
	"barinalp/internal/infrastructure/storage/memory"
	"barinalp/internal/infrastructure/storage/postgres"
	"barinalp/internal/infrastructure/storage/postgres/catalog_repo"
	"barinalp/internal/infrastructure/storage/postgres/document_repo"
	"barinalp/pkg/logger"
)

// Stack holds the wired services. Pool is nil in memory mode.
type Stack struct {
	Pool *postgres.Pool

	Objects  *costobject.Service
	Options  *costobject.CachedLister
	Invoices *invoice.Service
	Funding  *funding.Service
	Local    *local.Backend
	Trail    audit.Trail

	invalidator *cache.Invalidator
}

// Build wires Postgres when cfg.Database.URL is set, otherwise an in-memory
// store seeded with the demo cost objects.
func Build(ctx context.Context, cfg config.Config) (*Stack, error) {
	var (
		objectRepo  costobject.Repository
		invoiceRepo invoice.Repository
		fundingRepo funding.Repository
		gen         numerator.Generator
		txm         tx.Manager
		s           = &Stack{}
	)

	if cfg.Database.URL != "" {
		pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg.Database))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		pgTx := postgres.NewTxManager(pool)

		auditLog, err := postgres.NewAuditLog(pgTx)
		if err != nil {
			pool.Close()
			return nil, err
		}

		s.Pool = pool
		s.Trail = auditLog
		objectRepo = catalog_repo.NewCostObjectRepo(pgTx)
		invoiceRepo = document_repo.NewInvoiceRepo(pgTx)
		fundingRepo = document_repo.NewFundingRepo(pgTx)
		gen = infranumerator.New(pool).JoinTransactions(func(ctx context.Context) infranumerator.Querier {
			return pgTx.GetQuerier(ctx)
		})
		txm = pgTx
	} else {
		logger.Info(ctx, "DATABASE_URL not set, using in-memory storage with demo objects")
		objectRepo = memory.NewCostObjectRepo(costobject.DemoObjects()...)
		invoiceRepo = memory.NewInvoiceRepo()
		fundingRepo = memory.NewFundingRepo()
		gen = memory.NewSequence()
		s.Trail = memory.NewAuditLog()
	}

	s.Objects = costobject.NewService(objectRepo, txm)
	s.Objects.Hooks().OnBeforeCreate(audit.EnrichCreatedBy[*costobject.CostObject])
	s.Objects.Hooks().OnAfterCreate(audit.RecordOn[*costobject.CostObject](s.Trail, costobject.EntityType, audit.ActionCreate))
	s.Objects.Hooks().OnAfterUpdate(audit.RecordOn[*costobject.CostObject](s.Trail, costobject.EntityType, audit.ActionUpdate))

	s.Invoices = invoice.NewService(invoiceRepo, s.Objects, gen, txm)
	s.Invoices.Hooks().OnBeforeCreate(audit.EnforceTechnician[*invoice.Invoice])
	s.Invoices.Hooks().OnBeforeCreate(audit.EnrichCreatedBy[*invoice.Invoice])
	s.Invoices.Hooks().OnAfterCreate(audit.RecordOn[*invoice.Invoice](s.Trail, invoice.EntityType, audit.ActionCreate))
	s.Invoices.Hooks().OnAfterDelete(audit.RecordOn[*invoice.Invoice](s.Trail, invoice.EntityType, audit.ActionDelete))

	s.Funding = funding.NewService(fundingRepo, s.Invoices)
	s.Funding.Hooks().OnBeforeCreate(audit.EnrichCreatedBy[*funding.Transaction])
	s.Funding.Hooks().OnAfterCreate(audit.RecordOn[*funding.Transaction](s.Trail, funding.EntityType, audit.ActionCreate))

	s.Options = costobject.NewCachedLister(s.Objects, cfg.Backend.ObjectsCacheTTL)
	s.Local = local.New(s.Invoices, s.Options)

	if s.Pool != nil {
		s.invalidator = cache.NewInvalidator(s.Pool.Pool, cache.ChannelCostObjects)
		s.invalidator.Register(cache.ChannelCostObjects, s.Options)
		s.invalidator.Start(ctx)
	} else {
		// No NOTIFY without Postgres: writes through the service drop the cache directly.
		invalidate := func(context.Context, *costobject.CostObject) error {
			s.Options.Invalidate()
			return nil
		}
		s.Objects.Hooks().OnAfterCreate(invalidate)
		s.Objects.Hooks().OnAfterUpdate(invalidate)
	}

	return s, nil
}

// Close stops background listeners and closes the pool.
func (s *Stack) Close() {
	if s.invalidator != nil {
		s.invalidator.Stop()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}

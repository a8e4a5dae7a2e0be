// Package main provides a CLI tool for seeding the database with the demo cost objects.
package main

import (
	"context"
	"fmt"
	"os"

	"barinalp/internal/config"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/infrastructure/storage/postgres"
	"barinalp/internal/infrastructure/storage/postgres/catalog_repo"
	"barinalp/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg.Database))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	service := costobject.NewService(catalog_repo.NewCostObjectRepo(txm), txm)

	created, err := seedCostObjects(ctx, service)
	if err != nil {
		log.Fatalw("failed to seed cost objects", "error", err)
	}

	log.Infow("seed completed", "created", created)
}

// seedCostObjects inserts the demo objects whose names are not taken yet.
func seedCostObjects(ctx context.Context, service *costobject.Service) (int, error) {
	existing, err := service.List(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("list cost objects: %w", err)
	}

	names := make(map[string]bool, len(existing))
	for _, obj := range existing {
		names[obj.Name] = true
	}

	created := 0
	for _, obj := range costobject.DemoObjects() {
		if names[obj.Name] {
			logger.Info(ctx, "cost object exists, skipping", "name", obj.Name)
			continue
		}
		if err := service.Create(ctx, obj); err != nil {
			return created, fmt.Errorf("create %q: %w", obj.Name, err)
		}
		created++
	}
	return created, nil
}

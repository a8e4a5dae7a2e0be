package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barinalp/internal/domain/costobject"
	"barinalp/internal/infrastructure/storage/memory"
)

func TestSeedCostObjects_SkipsExistingNames(t *testing.T) {
	ctx := context.Background()

	existing := costobject.DemoObjects()[0]
	service := costobject.NewService(memory.NewCostObjectRepo(existing), nil)

	created, err := seedCostObjects(ctx, service)
	require.NoError(t, err)
	assert.Equal(t, len(costobject.DemoObjects())-1, created)

	again, err := seedCostObjects(ctx, service)
	require.NoError(t, err)
	assert.Zero(t, again)

	all, err := service.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, len(costobject.DemoObjects()))
}

package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "barinalp/internal/core/context"
)

func TestFromContext_AddsTechnicianAndTrace(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := FromZap(zap.New(core))

	ctx := WithLogger(context.Background(), base)
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "tech-7", Role: appctx.RoleTechnician})
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})

	Info(ctx, "expense submitted", "total", "20.00")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "tech-7", fields["technician_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "20.00", fields["total"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}

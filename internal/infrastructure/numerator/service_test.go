package numerator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "barinalp/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = m.val
	}
	return nil
}

// mockQuerier simulates sys_sequences keyed rows.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
	calls  int
	err    error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{values: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := args[0].(string)
	switch {
	case strings.Contains(sql, "SET current_val = $2"):
		m.values[key] = args[1].(int64)
	case len(args) == 2:
		m.values[key] += args[1].(int64)
	default:
		m.values[key]++
	}
	return &mockRow{val: m.values[key]}
}

var period2025 = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.ExpenseConfig()

	first, err := svc.GetNextNumber(ctx, cfg, nil, period2025)
	require.NoError(t, err)
	second, err := svc.GetNextNumber(ctx, cfg, nil, period2025)
	require.NoError(t, err)

	assert.Equal(t, "EXP-2025-00001", first)
	assert.Equal(t, "EXP-2025-00002", second)
	assert.Equal(t, int64(2), q.values["EXP_2025"])
}

func TestGetNextNumber_YearlyReset(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.ExpenseConfig()

	_, err := svc.GetNextNumber(ctx, cfg, nil, period2025)
	require.NoError(t, err)

	next, err := svc.GetNextNumber(ctx, cfg, nil, period2025.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "EXP-2026-00001", next)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("ORD")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}

	for i := 1; i <= 10; i++ {
		num, err := svc.GetNextNumber(ctx, cfg, opts, period2025)
		require.NoError(t, err)
		assert.Equal(t, int64(i), corenumerator.Parse(num))
	}
	assert.Equal(t, 1, q.calls)
	assert.Equal(t, int64(10), q.values["ORD_2025"])

	num, err := svc.GetNextNumber(ctx, cfg, opts, period2025)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-00011", num)
	assert.Equal(t, 2, q.calls)
	assert.Equal(t, int64(20), q.values["ORD_2025"])
}

func TestSetNextNumber_InvalidatesCache(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("ORD")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}

	_, err := svc.GetNextNumber(ctx, cfg, opts, period2025)
	require.NoError(t, err)

	require.NoError(t, svc.SetNextNumber(ctx, cfg, period2025, 100))

	num, err := svc.GetNextNumber(ctx, cfg, opts, period2025)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-00101", num)
}

func TestGetNextNumber_Error(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("connection reset")
	svc := New(q)

	_, err := svc.GetNextNumber(context.Background(), corenumerator.ExpenseConfig(), nil, period2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

type txKey struct{}

func TestGetNextNumber_StrictJoinsTransaction(t *testing.T) {
	pool := newMockQuerier()
	txQuerier := newMockQuerier()
	svc := New(pool).JoinTransactions(func(ctx context.Context) Querier {
		if ctx.Value(txKey{}) != nil {
			return txQuerier
		}
		return pool
	})
	cfg := corenumerator.ExpenseConfig()
	txCtx := context.WithValue(context.Background(), txKey{}, true)

	num, err := svc.GetNextNumber(txCtx, cfg, nil, period2025)
	require.NoError(t, err)
	assert.Equal(t, "EXP-2025-00001", num)
	assert.Equal(t, 1, txQuerier.calls)
	assert.Equal(t, 0, pool.calls)

	// cached ranges outlive a rollback, so they never join the transaction
	_, err = svc.GetNextNumber(txCtx, corenumerator.DefaultConfig("ORD"),
		&corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 5}, period2025)
	require.NoError(t, err)
	assert.Equal(t, 1, pool.calls)
	assert.Equal(t, 1, txQuerier.calls)
}

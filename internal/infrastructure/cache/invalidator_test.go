package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingCache struct {
	invalidated int
}

func (c *countingCache) Invalidate() {
	c.invalidated++
}

func newTestInvalidator() *Invalidator {
	inv := NewInvalidator(nil)
	inv.ctx = context.Background()
	return inv
}

func TestInvalidator_DefaultChannel(t *testing.T) {
	assert.Equal(t, []string{ChannelCostObjects}, NewInvalidator(nil).channels)
}

func TestInvalidator_HandleNotification(t *testing.T) {
	inv := newTestInvalidator()
	objects := &countingCache{}
	other := &countingCache{}
	inv.Register(ChannelCostObjects, objects)
	inv.Register("invoices_changed", other)

	var got []string
	inv.OnInvalidation(func(channel, payload string) {
		got = append(got, channel+":"+payload)
	})

	inv.handleNotification(ChannelCostObjects, "site-1")
	inv.handleNotification(ChannelCostObjects, "site-2")

	assert.Equal(t, 2, objects.invalidated)
	assert.Zero(t, other.invalidated)
	assert.Equal(t, []string{"cost_objects_changed:site-1", "cost_objects_changed:site-2"}, got)
}

func TestInvalidator_ListenerPanicIsRecovered(t *testing.T) {
	inv := newTestInvalidator()
	objects := &countingCache{}
	inv.Register(ChannelCostObjects, objects)

	called := false
	inv.OnInvalidation(func(string, string) { panic("boom") })
	inv.OnInvalidation(func(string, string) { called = true })

	assert.NotPanics(t, func() {
		inv.handleNotification(ChannelCostObjects, "site-1")
	})
	assert.True(t, called)
	assert.Equal(t, 1, objects.invalidated)
}

func TestInvalidator_InvalidateAll(t *testing.T) {
	inv := newTestInvalidator()
	a, b := &countingCache{}, &countingCache{}
	inv.Register(ChannelCostObjects, a)
	inv.Register("invoices_changed", b)

	inv.invalidateAll()

	assert.Equal(t, 1, a.invalidated)
	assert.Equal(t, 1, b.invalidated)
}

func TestInvalidator_StopWithoutStart(t *testing.T) {
	assert.NotPanics(t, func() { NewInvalidator(nil).Stop() })
}

// Package cache keeps in-process caches fresh through PostgreSQL LISTEN/NOTIFY.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"barinalp/pkg/logger"
)

// ChannelCostObjects is notified by a trigger on every cost_objects write.
// The payload is the object id.
const ChannelCostObjects = "cost_objects_changed"

// Invalidatable is a cache that can drop its contents.
type Invalidatable interface {
	Invalidate()
}

// InvalidationListener is called for every notification received.
type InvalidationListener func(channel string, payload string)

// Invalidator listens on a dedicated connection and clears registered caches
// when their channel fires.
type Invalidator struct {
	pool     *pgxpool.Pool
	channels []string

	mu        sync.RWMutex
	targets   map[string][]Invalidatable
	listeners []InvalidationListener

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewInvalidator creates an invalidator for the given channels.
func NewInvalidator(pool *pgxpool.Pool, channels ...string) *Invalidator {
	if len(channels) == 0 {
		channels = []string{ChannelCostObjects}
	}
	return &Invalidator{
		pool:     pool,
		channels: channels,
		targets:  make(map[string][]Invalidatable),
	}
}

// Register clears target whenever channel is notified.
func (c *Invalidator) Register(channel string, target Invalidatable) {
	c.mu.Lock()
	c.targets[channel] = append(c.targets[channel], target)
	c.mu.Unlock()
}

// OnInvalidation registers a listener called after targets are cleared.
func (c *Invalidator) OnInvalidation(listener InvalidationListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, listener)
	c.mu.Unlock()
}

// Start begins listening in the background.
func (c *Invalidator) Start(ctx context.Context) {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	if c.started {
		return
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true

	c.wg.Add(1)
	go c.listenLoop()
	logger.Info(c.ctx, "cache invalidator started", "channels", c.channels)
}

// Stop cancels the listener and waits for it to exit.
func (c *Invalidator) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	cancel()
	c.wg.Wait()
	logger.Info(context.Background(), "cache invalidator stopped")
}

func (c *Invalidator) listenLoop() {
	defer c.wg.Done()

	for c.ctx.Err() == nil {
		conn, err := c.pool.Acquire(c.ctx)
		if err != nil {
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			c.sleep(time.Second)
			continue
		}

		if err := c.subscribe(conn); err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "error", err)
			conn.Release()
			c.sleep(time.Second)
			continue
		}

		// anything cached before the subscription may be stale
		c.invalidateAll()

		c.waitForNotifications(conn)
		conn.Release()
	}
}

func (c *Invalidator) subscribe(conn *pgxpool.Conn) error {
	for _, channel := range c.channels {
		if _, err := conn.Exec(c.ctx, "LISTEN "+channel); err != nil {
			return err
		}
	}
	return nil
}

func (c *Invalidator) waitForNotifications(conn *pgxpool.Conn) {
	for c.ctx.Err() == nil {
		ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			if conn.Conn().IsClosed() {
				logger.Warn(c.ctx, "LISTEN connection lost, reconnecting")
				return
			}
			continue
		}

		c.handleNotification(notification.Channel, notification.Payload)
	}
}

func (c *Invalidator) handleNotification(channel, payload string) {
	logger.Debug(c.ctx, "received notification", "channel", channel, "payload", payload)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, target := range c.targets[channel] {
		target.Invalidate()
	}

	for _, listener := range c.listeners {
		func(l InvalidationListener) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(c.ctx, "listener panic recovered", "channel", channel, "panic", r)
				}
			}()
			l(channel, payload)
		}(listener)
	}
}

func (c *Invalidator) invalidateAll() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, targets := range c.targets {
		for _, target := range targets {
			target.Invalidate()
		}
	}
}

func (c *Invalidator) sleep(d time.Duration) {
	select {
	case <-c.ctx.Done():
	case <-time.After(d):
	}
}

package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"barinalp/internal/core/id"
	"barinalp/internal/domain/audit"
)

// AuditLog implements audit.Trail in memory.
type AuditLog struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

// NewAuditLog creates an empty audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Record implements audit.Trail.
func (l *AuditLog) Record(_ context.Context, entry audit.Entry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.Snapshot = slices.Clone(entry.Snapshot)

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	return nil
}

// History implements audit.Trail. Entries recorded later come first.
func (l *AuditLog) History(_ context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]audit.Entry, 0)
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := l.entries[i]
		if e.EntityType == entityType && e.EntityID == entityID {
			e.Snapshot = slices.Clone(e.Snapshot)
			out = append(out, e)
		}
	}
	return out, nil
}

var _ audit.Trail = (*AuditLog)(nil)

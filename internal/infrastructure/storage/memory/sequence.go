package memory

import (
	"context"
	"sync"
	"time"

	"barinalp/internal/core/numerator"
)

// Sequence is an in-memory numerator.Generator. Every strategy behaves as strict.
type Sequence struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewSequence creates a sequence starting at 1 for every key.
func NewSequence() *Sequence {
	return &Sequence{counters: make(map[string]int64)}
}

// GetNextNumber implements numerator.Generator.
func (s *Sequence) GetNextNumber(_ context.Context, cfg numerator.Config, _ *numerator.Options, period time.Time) (string, error) {
	key := numerator.Key(cfg, period)

	s.mu.Lock()
	s.counters[key]++
	num := s.counters[key]
	s.mu.Unlock()

	return numerator.Format(cfg, period, num), nil
}

// SetNextNumber implements numerator.Generator.
func (s *Sequence) SetNextNumber(_ context.Context, cfg numerator.Config, period time.Time, value int64) error {
	s.mu.Lock()
	s.counters[numerator.Key(cfg, period)] = value
	s.mu.Unlock()
	return nil
}

var _ numerator.Generator = (*Sequence)(nil)

// Package dedupe tracks which canonical forms have already been emitted.
package dedupe

import (
	"context"
	"sync"
)

// Set records emitted forms. Add reports whether form was new.
type Set interface {
	Add(ctx context.Context, form string) (bool, error)
	Len() int
	Close() error
}

// Stager is a Set whose additions only become durable on Commit. Runs
// commit after their output is flushed and roll back on failure.
type Stager interface {
	Set
	Commit(ctx context.Context) error
	Rollback() error
}

// MemorySet lives for one run and is discarded afterwards.
type MemorySet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemorySet() *MemorySet {
	return &MemorySet{seen: make(map[string]struct{})}
}

func (s *MemorySet) Add(_ context.Context, form string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[form]; ok {
		return false, nil
	}
	s.seen[form] = struct{}{}
	return true, nil
}

func (s *MemorySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func (s *MemorySet) Close() error { return nil }

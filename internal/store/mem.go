package store

import (
	"context"
	"sync"
)

// Mem is an in-memory Store. Two contexts sharing one *Mem behave like
// two tabs sharing the same origin, which is what the channel and log
// tests rely on.
type Mem struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMem() *Mem {
	return &Mem{m: make(map[string]string)}
}

func (s *Mem) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Mem) Set(_ context.Context, key, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = raw
	return nil
}

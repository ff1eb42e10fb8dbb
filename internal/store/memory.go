package store

import (
	"context"
	"sync"
)

// Memory is a process-local StatusStore.
type Memory struct {
	mu    sync.RWMutex
	lines map[string][]string
}

func NewMemory() *Memory { return &Memory{lines: make(map[string][]string)} }

func (m *Memory) Save(ctx context.Context, action string, lines []string) error {
	m.mu.Lock()
	m.lines[action] = append([]string(nil), lines...)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load(ctx context.Context, action string) ([]string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lines[action]
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), l...), true, nil
}

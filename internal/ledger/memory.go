package ledger

import (
	"context"
	"sync"
)

// Memory is an in-process ledger used by tests and token-less setups.
type Memory struct {
	mu   sync.RWMutex
	apps []*Application
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(_ context.Context, app *Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apps = append(m.apps, app)
	return nil
}

func (m *Memory) ByStatus(_ context.Context, status Status) ([]*Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Application, 0)
	for _, app := range m.apps {
		if app.Status == status {
			result = append(result, app)
		}
	}
	return result, nil
}

// Recent returns up to limit applications, newest appends first.
func (m *Memory) Recent(_ context.Context, limit int) ([]*Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.apps) {
		limit = len(m.apps)
	}

	result := make([]*Application, 0, limit)
	for i := len(m.apps) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.apps[i])
	}
	return result, nil
}

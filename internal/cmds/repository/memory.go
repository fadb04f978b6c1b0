package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmdshop/cmdshop/internal/cmds"
)

// MemoryRepo is an in-memory repository used for local development
// (STORE_DRIVER=memory) and unit tests. Reads hand out copies so callers
// never alias stored state.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*cmds.Cmd
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*cmds.Cmd), now: func() time.Time { return time.Now().UTC() }}
}

func (m *MemoryRepo) List(ctx context.Context) ([]*cmds.Cmd, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*cmds.Cmd, 0, len(m.store))
	for _, c := range m.store {
		out = append(out, clone(c))
	}
	// byte-wise ordering, same as Mongo's default collation
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Title == out[j].Title {
			return out[i].ID < out[j].ID
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*cmds.Cmd, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.store[id]; ok {
		return clone(c), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Create(ctx context.Context, c *cmds.Cmd) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := clone(c)
	stored.CreatedAt = m.now()
	stored.UpdatedAt = stored.CreatedAt
	m.store[c.ID] = stored
	return nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, p cmds.Patch) (*cmds.Cmd, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.Tags != nil {
		c.Tags = append([]string{}, (*p.Tags)...)
	}
	c.UpdatedAt = m.now()
	return clone(c), nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) Ping(ctx context.Context) error { return nil }

func clone(c *cmds.Cmd) *cmds.Cmd {
	cp := *c
	cp.Tags = append([]string{}, c.Tags...)
	return &cp
}

package cache

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

type Memory struct {
	ttl      time.Duration
	now      func() time.Time
	versions *xsync.MapOf[string, *atomic.Int64]
	pages    *xsync.MapOf[string, memoryEntry]
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:      ttl,
		now:      time.Now,
		versions: xsync.NewMapOf[string, *atomic.Int64](),
		pages:    xsync.NewMapOf[string, memoryEntry](),
	}
}

func (m *Memory) counter(contestID string) *atomic.Int64 {
	v, _ := m.versions.LoadOrCompute(contestID, func() *atomic.Int64 {
		return new(atomic.Int64)
	})
	return v
}

func (m *Memory) Version(_ context.Context, contestID string) (int64, error) {
	return m.counter(contestID).Load(), nil
}

func (m *Memory) Bump(_ context.Context, contestID string) error {
	m.counter(contestID).Add(1)

	// Pages of older versions are unreachable now; drop them eagerly.
	prefix := "arena:leaderboard:" + contestID + ":"
	m.pages.Range(func(key string, _ memoryEntry) bool {
		if strings.HasPrefix(key, prefix) {
			m.pages.Delete(key)
		}
		return true
	})
	return nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.pages.Load(key)
	if !ok {
		return nil, false, nil
	}
	if m.now().After(e.expires) {
		m.pages.Delete(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.pages.Store(key, memoryEntry{value: value, expires: m.now().Add(m.ttl)})
	return nil
}

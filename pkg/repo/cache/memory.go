package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/alphadose/haxmap"

	"github.com/scienceol/chemlookup/pkg/repo"
)

type memoryEntry struct {
	data     []*repo.CompoundInfo
	expireAt time.Time
}

type memoryImpl struct {
	entries *haxmap.Map[string, memoryEntry]
	ttl     time.Duration
	now     func() time.Time

	// unix nanos of the next sweep of expired entries
	nextSweep atomic.Int64
}

// NewMemory keeps results in process. ttl <= 0 never expires.
func NewMemory(ttl time.Duration) repo.CompoundCache {
	return &memoryImpl{
		entries: haxmap.New[string, memoryEntry](),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *memoryImpl) Get(_ context.Context, key string) ([]*repo.CompoundInfo, bool, error) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !entry.expireAt.IsZero() && m.now().After(entry.expireAt) {
		m.entries.Del(key)
		return nil, false, nil
	}
	return entry.data, true, nil
}

func (m *memoryImpl) Set(_ context.Context, key string, data []*repo.CompoundInfo) error {
	entry := memoryEntry{data: data}
	if m.ttl > 0 {
		entry.expireAt = m.now().Add(m.ttl)
	}
	m.entries.Set(key, entry)
	m.sweep()
	return nil
}

// sweep drops expired entries at most once per ttl, so keys that are never
// read again do not pile up.
func (m *memoryImpl) sweep() {
	if m.ttl <= 0 {
		return
	}
	now := m.now()
	next := m.nextSweep.Load()
	if now.UnixNano() < next || !m.nextSweep.CompareAndSwap(next, now.Add(m.ttl).UnixNano()) {
		return
	}

	var expired []string
	m.entries.ForEach(func(key string, entry memoryEntry) bool {
		if !entry.expireAt.IsZero() && now.After(entry.expireAt) {
			expired = append(expired, key)
		}
		return true
	})
	if len(expired) > 0 {
		m.entries.Del(expired...)
	}
}

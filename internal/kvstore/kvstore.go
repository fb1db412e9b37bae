package kvstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

var (
	// ErrQuotaExceeded indicates the backend refused a write because the
	// store is full.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Backend is a raw byte-oriented key-value store. Get returns
// domain.ErrNotFound for missing keys; Set returns ErrQuotaExceeded when
// the store is full.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Memory is a map-backed Backend with an optional byte quota. It doubles
// as the degraded in-session store when no durable backend is available.
type Memory struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	maxBytes int64
}

// NewMemory returns an in-memory backend. maxBytes of 0 means unlimited.
func NewMemory(maxBytes int64) *Memory {
	return &Memory{
		entries:  make(map[string][]byte),
		maxBytes: maxBytes,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxBytes > 0 {
		var used int64
		for k, v := range m.entries {
			if k == key {
				continue
			}
			used += int64(len(v))
		}
		if used+int64(len(value)) > m.maxBytes {
			return ErrQuotaExceeded
		}
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[key] = stored
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

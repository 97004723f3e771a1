package record

import (
	"context"
	"sync"

	"github.com/kailas-cloud/talentmatch/internal/db"
)

// memStore is an in-memory stand-in for the JSON and set commands.
type memStore struct {
	mu    sync.Mutex
	docs  map[string][]byte
	sets  map[string]map[string]struct{}
	err   error
	calls []string
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]byte{}, sets: map[string]map[string]struct{}{}}
}

func (m *memStore) JSONSet(_ context.Context, key, _ string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "JSON.SET "+key)
	if m.err != nil {
		return m.err
	}
	m.docs[key] = data
	return nil
}

func (m *memStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.docs[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return d, nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "DEL "+key)
	delete(m.docs, key)
	return nil
}

func (m *memStore) SAdd(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sets[key] == nil {
		m.sets[key] = map[string]struct{}{}
	}
	for _, v := range members {
		m.sets[key][v] = struct{}{}
	}
	return nil
}

func (m *memStore) SRem(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range members {
		delete(m.sets[key], v)
	}
	return nil
}

func (m *memStore) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]string, 0, len(m.sets[key]))
	for v := range m.sets[key] {
		out = append(out, v)
	}
	return out, nil
}

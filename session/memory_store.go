package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. It is meant for local development
// and tests; sessions are lost on restart and not shared between replicas.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	raw       []byte
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	s.mu.Lock()
	item, ok := s.items[id]
	if ok && !item.expiresAt.After(s.now()) {
		delete(s.items, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	var data Data
	if err := json.Unmarshal(item.raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Set stores a copy of data, so later changes by the caller are not visible
// until Set is called again.
func (s *MemoryStore) Set(_ context.Context, id string, data *Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[id] = memoryItem{raw: raw, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

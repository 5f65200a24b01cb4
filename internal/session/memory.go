package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process. Sessions are lost on restart.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, ttl/2)}
}

func (s *MemoryStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	id := newID()
	s.cache.Set(id, userID, ttl)
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (int64, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return 0, ErrNoSession
	}
	return v.(int64), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Len is the number of live sessions.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}

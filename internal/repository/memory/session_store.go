package memory

import (
	"context"
	"time"

	"policy-matching-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionStore keeps sessions in process memory. Suitable for a single
// instance; swap for the Redis store when running more than one.
type SessionStore struct {
	cache *cache.Cache
}

func NewSessionStore() *SessionStore {
	c := cache.New(store.SessionTTL, 10*time.Minute)
	return &SessionStore{
		cache: c,
	}
}

func (r *SessionStore) Get(_ context.Context, id string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*store.Session), true, nil
	}
	return nil, false, nil
}

func (r *SessionStore) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionStore) Delete(_ context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

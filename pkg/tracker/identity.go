package tracker

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	visitorKey         = "beacon_visitor_id"
	defaultSessionIdle = 30 * time.Minute
)

// Store persists the visitor identifier between runs. Embedders can
// back it with whatever storage they have; the default is in-memory.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStore is a Store that lives for the process lifetime only.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Identity manages the persistent visitor ID and the rolling session ID.
// A session expires after the idle timeout; the next activity starts a
// fresh one.
type Identity struct {
	mu           sync.Mutex
	store        Store
	idleTimeout  time.Duration
	sessionID    string
	lastActivity time.Time
}

// NewIdentity creates an identity manager backed by the given store.
func NewIdentity(store Store) *Identity {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Identity{
		store:       store,
		idleTimeout: defaultSessionIdle,
	}
}

// VisitorID returns the stable visitor identifier, creating and
// persisting one on first use.
func (i *Identity) VisitorID() string {
	if v, ok := i.store.Get(visitorKey); ok && v != "" {
		return v
	}
	v := uuid.NewString()
	i.store.Set(visitorKey, v)
	return v
}

// Touch records activity at the given instant and returns the current
// session ID. isNew reports that a fresh session just started, either
// because none existed or because the idle timeout elapsed.
func (i *Identity) Touch(at time.Time) (sessionID string, isNew bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.sessionID == "" || at.Sub(i.lastActivity) > i.idleTimeout {
		i.sessionID = uuid.NewString()
		isNew = true
	}
	i.lastActivity = at
	return i.sessionID, isNew
}

package session

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	sessionmodel "github.com/hearthlabs/hearth/backend/internal/model/session"
)

// DefaultCapacity bounds the session store when no override is configured.
const DefaultCapacity = 4096

// Store keeps per-thread conversational context. Reads always succeed: an
// unknown thread materializes as a companion-mode default. The backing cache
// is a bounded LRU, so an evicted thread quietly re-materializes the same
// way. Contexts are stored whole; concurrent writers are last-write-wins and
// a read never observes a torn context.
type Store struct {
	cache *lru.Cache[string, sessionmodel.Context]
}

// NewStore creates a bounded session store.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[string, sessionmodel.Context](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// Get returns the context for a thread, creating the default on first reference.
func (s *Store) Get(threadID string) sessionmodel.Context {
	if ctx, ok := s.cache.Get(threadID); ok {
		return ctx
	}

	ctx := sessionmodel.Context{ThreadID: threadID, Mode: sessionmodel.ModeCompanion}
	s.cache.Add(threadID, ctx)
	return ctx
}

// Set overwrites the context for a thread.
func (s *Store) Set(threadID string, mode sessionmodel.Mode, personaID string) sessionmodel.Context {
	ctx := sessionmodel.Context{ThreadID: threadID, Mode: mode, ActivePersona: personaID}
	s.cache.Add(threadID, ctx)
	return ctx
}

// SetActivePersona records the persona selected for the latest dispatch,
// preserving the thread's mode.
func (s *Store) SetActivePersona(threadID, personaID string) sessionmodel.Context {
	ctx := s.Get(threadID)
	ctx.ActivePersona = personaID
	s.cache.Add(threadID, ctx)
	return ctx
}

// Len reports how many contexts are currently resident.
func (s *Store) Len() int {
	return s.cache.Len()
}

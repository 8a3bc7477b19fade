// Package identity maps chat users to their tracker emails.
package identity

import (
	"context"
	"sync"
)

// Store persists chat-user to tracker-email mappings. Each user owns at
// most one mapping and the last write for a user wins.
type Store interface {
	// Remember associates email with the chat user, replacing any
	// previous mapping.
	Remember(ctx context.Context, chatUserID, email string) error
	// Forget removes the mapping for the chat user, if any.
	Forget(ctx context.Context, chatUserID string) error
	// Lookup returns the email mapped to the chat user. ok is false when
	// the user has no mapping.
	Lookup(ctx context.Context, chatUserID string) (email string, ok bool, err error)
}

// MemoryStore is an in-process Store, used when no storage path is
// configured and by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	emails map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{emails: make(map[string]string)}
}

func (s *MemoryStore) Remember(_ context.Context, chatUserID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails[chatUserID] = email
	return nil
}

func (s *MemoryStore) Forget(_ context.Context, chatUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.emails, chatUserID)
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, chatUserID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email, ok := s.emails[chatUserID]
	return email, ok, nil
}

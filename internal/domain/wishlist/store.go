// internal/domain/wishlist/store.go
package wishlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/your-org/storefront-backend/internal/pkg/optimistic"
)

const storeName = "wishlist"

// Remote is the authoritative wishlist behind a session store. *Service
// implements it; tests substitute fakes.
type Remote interface {
	Fetch(userID uint) ([]Entry, error)
	Add(userID, productID uint) error
	Remove(userID, productID uint) error
	Clear(userID uint) error
}

// BlobCache persists the session mirror as a JSON blob. Satisfied by the
// Redis infrastructure client.
type BlobCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Store is a session-scoped wishlist mirror with the same optimistic
// write-through contract as the cart store: apply locally, attempt remote,
// restore the snapshot when the remote write fails. Entries are unique per
// product id and Toggle flips membership.
type Store struct {
	sessionID string
	userID    *uint
	remote    Remote
	cache     BlobCache
	ttl       time.Duration

	mu          sync.Mutex
	entries     []Entry
	createdAt   time.Time
	lastSyncErr error
}

// NewStore creates a session wishlist store. A nil userID or remote
// degrades the store to local-only mode.
func NewStore(sessionID string, userID *uint, remote Remote, cache BlobCache, ttl time.Duration) *Store {
	return &Store{
		sessionID: sessionID,
		userID:    userID,
		remote:    remote,
		cache:     cache,
		ttl:       ttl,
		createdAt: time.Now().UTC(),
	}
}

// Load hydrates the store from the persisted mirror, discarding state
// owned by a different user, then resyncs authenticated stores from the
// remote.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mirror Mirror
	err := s.cache.GetJSON(ctx, s.cacheKey(), &mirror)
	if err == nil {
		if s.ownedBy(mirror.OwnerID) {
			s.entries = mirror.Entries
			s.createdAt = mirror.CreatedAt
		} else {
			s.entries = nil
			_ = s.cache.Del(ctx, s.cacheKey())
		}
	}

	if s.bound() {
		return s.resyncLocked(ctx)
	}

	return nil
}

// Toggle adds the product when absent and removes it when present,
// reporting whether the product is in the wishlist afterwards.
func (s *Store) Toggle(ctx context.Context, productID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	adding := s.indexOf(productID) < 0

	var attempt func() error
	if adding {
		attempt = s.attempt(func() error { return s.remote.Add(*s.userID, productID) })
	} else {
		attempt = s.attempt(func() error { return s.remote.Remove(*s.userID, productID) })
	}

	err := optimistic.Mutate(cloneEntries(s.entries),
		func() {
			if adding {
				s.entries = append(s.entries, Entry{ProductID: productID, AddedAt: time.Now().UTC()})
			} else if i := s.indexOf(productID); i >= 0 {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
			}
		},
		attempt,
		func(prev []Entry) { s.entries = prev },
	)

	s.finishMutation(ctx, err)
	if err != nil {
		return !adding, err
	}
	return adding, nil
}

// Remove deletes a product from the wishlist
func (s *Store) Remove(ctx context.Context, productID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(productID) < 0 {
		return fmt.Errorf("item not found in wishlist")
	}

	err := optimistic.Mutate(cloneEntries(s.entries),
		func() {
			if i := s.indexOf(productID); i >= 0 {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
			}
		},
		s.attempt(func() error { return s.remote.Remove(*s.userID, productID) }),
		func(prev []Entry) { s.entries = prev },
	)

	s.finishMutation(ctx, err)
	return err
}

// Clear empties the wishlist
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := optimistic.Mutate(cloneEntries(s.entries),
		func() { s.entries = nil },
		s.attempt(func() error { return s.remote.Clear(*s.userID) }),
		func(prev []Entry) { s.entries = prev },
	)

	s.finishMutation(ctx, err)
	return err
}

// Resync refetches the authoritative collection and replaces local state
// wholesale. Local-only stores keep what they have.
func (s *Store) Resync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bound() {
		return nil
	}
	return s.resyncLocked(ctx)
}

// Reset discards in-memory and persisted state
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.lastSyncErr = nil
	return s.cache.Del(ctx, s.cacheKey())
}

// Contains reports whether the product is currently in the wishlist
func (s *Store) Contains(productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

// Entries returns a copy of the current wishlist entries
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.entries)
}

// LastSyncError reports the most recent synchronization failure.
// Successful mutations clear it.
func (s *Store) LastSyncError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncErr
}

// Private helper methods

func (s *Store) bound() bool {
	return s.remote != nil && s.userID != nil
}

func (s *Store) ownedBy(ownerID *uint) bool {
	if ownerID == nil && s.userID == nil {
		return true
	}
	if ownerID != nil && s.userID != nil {
		return *ownerID == *s.userID
	}
	return ownerID == nil
}

func (s *Store) attempt(fn func() error) func() error {
	if !s.bound() {
		return nil
	}
	return fn
}

func (s *Store) finishMutation(ctx context.Context, mutationErr error) {
	s.lastSyncErr = mutationErr

	if err := s.persistLocked(ctx); err != nil && s.lastSyncErr == nil {
		s.lastSyncErr = err
	}
}

func (s *Store) resyncLocked(ctx context.Context) error {
	entries, err := s.remote.Fetch(*s.userID)
	if err != nil {
		s.lastSyncErr = err
		return fmt.Errorf("failed to resync wishlist: %w", err)
	}

	s.entries = entries
	s.lastSyncErr = nil
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	mirror := Mirror{
		SessionID: s.sessionID,
		OwnerID:   s.userID,
		Entries:   cloneEntries(s.entries),
		CreatedAt: s.createdAt,
		UpdatedAt: time.Now().UTC(),
	}
	return s.cache.SetJSON(ctx, s.cacheKey(), mirror, s.ttl)
}

func (s *Store) indexOf(productID uint) int {
	for i := range s.entries {
		if s.entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) cacheKey() string {
	return fmt.Sprintf("store:%s:%s", storeName, s.sessionID)
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

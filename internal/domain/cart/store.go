// internal/domain/cart/store.go
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/your-org/storefront-backend/internal/pkg/optimistic"
)

const storeName = "cart"

// Remote is the authoritative cart behind a session store. *Service
// implements it; tests substitute fakes.
type Remote interface {
	Fetch(userID uint) ([]Line, error)
	Add(userID uint, key ItemKey, quantity int, price int64) error
	SetQuantity(userID uint, key ItemKey, quantity int) error
	Remove(userID uint, key ItemKey) error
	Clear(userID uint) error
}

// BlobCache persists the session mirror as a JSON blob. Satisfied by the
// Redis infrastructure client.
type BlobCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Store is a session-scoped cart mirror. Mutations apply to the in-memory
// lines first so callers see the change immediately, then write through to
// the remote; a failed remote write restores the pre-mutation snapshot.
// A store without a bound user runs local-only against the blob cache.
//
// Construct one per session with NewStore, hydrate it with Load, and tear
// it down with Reset at logout.
type Store struct {
	sessionID string
	userID    *uint
	remote    Remote
	cache     BlobCache
	ttl       time.Duration

	mu          sync.Mutex
	lines       []Line
	createdAt   time.Time
	lastSyncErr error
}

// NewStore creates a session cart store. userID may be nil for guests and
// remote may be nil when no backend is reachable; both degrade the store
// to local-only mode.
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

// Load hydrates the store from the persisted mirror, discarding state that
// belongs to a different user. Authenticated stores then resync from the
// remote, which is the single source of truth.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mirror Mirror
	err := s.cache.GetJSON(ctx, s.cacheKey(), &mirror)
	if err == nil {
		if s.ownedBy(mirror.OwnerID) {
			s.lines = mirror.Lines
			s.createdAt = mirror.CreatedAt
		} else {
			// Different login than previously stored: wipe before
			// loading the new user's state so carts never leak
			// across sessions.
			s.lines = nil
			_ = s.cache.Del(ctx, s.cacheKey())
		}
	}

	if s.bound() {
		return s.resyncLocked(ctx)
	}

	return nil
}

// Add puts quantity of the keyed selection into the cart, accumulating
// onto an existing line with the same key.
func (s *Store) Add(ctx context.Context, key ItemKey, quantity int, price int64) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := optimistic.Mutate(cloneLines(s.lines),
		func() {
			for i := range s.lines {
				if s.lines[i].Key() == key {
					s.lines[i].Quantity += quantity
					s.lines[i].Price = price
					return
				}
			}
			s.lines = append(s.lines, Line{
				ProductID: key.ProductID,
				Size:      key.Size,
				Color:     key.Color,
				Quantity:  quantity,
				Price:     price,
				AddedAt:   time.Now().UTC(),
			})
		},
		s.attempt(func() error { return s.remote.Add(*s.userID, key, quantity, price) }),
		func(prev []Line) { s.lines = prev },
	)

	s.finishMutation(ctx, err)
	return err
}

// UpdateQuantity sets a line's quantity. Zero or below removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, key ItemKey, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(key) < 0 {
		return fmt.Errorf("item not found in cart")
	}

	err := optimistic.Mutate(cloneLines(s.lines),
		func() {
			if i := s.indexOf(key); i >= 0 {
				s.lines[i].Quantity = quantity
			}
		},
		s.attempt(func() error { return s.remote.SetQuantity(*s.userID, key, quantity) }),
		func(prev []Line) { s.lines = prev },
	)

	s.finishMutation(ctx, err)
	return err
}

// Remove deletes a line from the cart
func (s *Store) Remove(ctx context.Context, key ItemKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(key) < 0 {
		return fmt.Errorf("item not found in cart")
	}

	err := optimistic.Mutate(cloneLines(s.lines),
		func() {
			if i := s.indexOf(key); i >= 0 {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
			}
		},
		s.attempt(func() error { return s.remote.Remove(*s.userID, key) }),
		func(prev []Line) { s.lines = prev },
	)

	s.finishMutation(ctx, err)
	return err
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := optimistic.Mutate(cloneLines(s.lines),
		func() { s.lines = nil },
		s.attempt(func() error { return s.remote.Clear(*s.userID) }),
		func(prev []Line) { s.lines = prev },
	)

	s.finishMutation(ctx, err)
	return err
}

// Resync refetches the authoritative collection and replaces local state
// wholesale. Call on app foreground. Local-only stores keep what they have.
func (s *Store) Resync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bound() {
		return nil
	}
	return s.resyncLocked(ctx)
}

// Reset discards in-memory and persisted state. Call at logout or before
// binding a different user to the session.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.lastSyncErr = nil
	return s.cache.Del(ctx, s.cacheKey())
}

// Lines returns a copy of the current cart lines
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

// Totals calculates totals over the current lines
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CalculateTotals(s.lines)
}

// LastSyncError reports the most recent remote or cache synchronization
// failure. Successful mutations clear it.
func (s *Store) LastSyncError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncErr
}

// Mirror snapshots the store for persistence or transfer
func (s *Store) Mirror() Mirror {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirrorLocked()
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
	// A guest blob may be adopted by the user logging in on the same
	// session; the login flow merges it explicitly instead.
	return ownerID == nil
}

// attempt wraps a remote call, or returns nil in local-only mode so the
// mutation stands without a remote round trip.
func (s *Store) attempt(fn func() error) func() error {
	if !s.bound() {
		return nil
	}
	return fn
}

// finishMutation records the sync outcome and persists the mirror. Cache
// write failures are remembered on lastSyncErr but do not fail the
// mutation; the blob is a cache, not a source of truth.
func (s *Store) finishMutation(ctx context.Context, mutationErr error) {
	s.lastSyncErr = mutationErr

	if err := s.persistLocked(ctx); err != nil && s.lastSyncErr == nil {
		s.lastSyncErr = err
	}
}

func (s *Store) resyncLocked(ctx context.Context) error {
	lines, err := s.remote.Fetch(*s.userID)
	if err != nil {
		s.lastSyncErr = err
		return fmt.Errorf("failed to resync cart: %w", err)
	}

	s.lines = lines
	s.lastSyncErr = nil
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	return s.cache.SetJSON(ctx, s.cacheKey(), s.mirrorLocked(), s.ttl)
}

func (s *Store) mirrorLocked() Mirror {
	return Mirror{
		SessionID: s.sessionID,
		OwnerID:   s.userID,
		Lines:     cloneLines(s.lines),
		CreatedAt: s.createdAt,
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *Store) indexOf(key ItemKey) int {
	for i := range s.lines {
		if s.lines[i].Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) cacheKey() string {
	return fmt.Sprintf("store:%s:%s", storeName, s.sessionID)
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

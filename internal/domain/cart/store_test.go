package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory Remote with a switchable failure mode
type fakeRemote struct {
	carts   map[uint]map[ItemKey]Line
	failErr error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{carts: make(map[uint]map[ItemKey]Line)}
}

func (f *fakeRemote) cart(userID uint) map[ItemKey]Line {
	if f.carts[userID] == nil {
		f.carts[userID] = make(map[ItemKey]Line)
	}
	return f.carts[userID]
}

func (f *fakeRemote) Fetch(userID uint) ([]Line, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	var lines []Line
	for _, line := range f.cart(userID) {
		lines = append(lines, line)
	}
	return lines, nil
}

func (f *fakeRemote) Add(userID uint, key ItemKey, quantity int, price int64) error {
	if f.failErr != nil {
		return f.failErr
	}
	c := f.cart(userID)
	line := c[key]
	line.ProductID = key.ProductID
	line.Size = key.Size
	line.Color = key.Color
	line.Quantity += quantity
	line.Price = price
	c[key] = line
	return nil
}

func (f *fakeRemote) SetQuantity(userID uint, key ItemKey, quantity int) error {
	if f.failErr != nil {
		return f.failErr
	}
	c := f.cart(userID)
	if _, ok := c[key]; !ok {
		return errors.New("item not found in cart")
	}
	if quantity <= 0 {
		delete(c, key)
		return nil
	}
	line := c[key]
	line.Quantity = quantity
	c[key] = line
	return nil
}

func (f *fakeRemote) Remove(userID uint, key ItemKey) error {
	if f.failErr != nil {
		return f.failErr
	}
	delete(f.cart(userID), key)
	return nil
}

func (f *fakeRemote) Clear(userID uint) error {
	if f.failErr != nil {
		return f.failErr
	}
	delete(f.carts, userID)
	return nil
}

// fakeCache is an in-memory BlobCache
type fakeCache struct {
	blobs map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{blobs: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.blobs[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.blobs[key] = raw
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.blobs, key)
	}
	return nil
}

func uintPtr(v uint) *uint { return &v }

var blackM = ItemKey{ProductID: 7, Size: "M", Color: "Black"}

func TestAddSameKeyAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	store := NewStore("sess-1", uintPtr(1), remote, newFakeCache(), time.Hour)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Add(ctx, blackM, 1, 2500))
	}

	lines := store.Lines()
	require.Len(t, lines, 1, "duplicate adds must not create separate rows")
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, remote.cart(1)[blackM].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	store := NewStore("sess-1", uintPtr(1), newFakeRemote(), newFakeCache(), time.Hour)

	require.NoError(t, store.Add(ctx, blackM, 2, 2500))
	require.NoError(t, store.UpdateQuantity(ctx, blackM, 0))

	assert.Empty(t, store.Lines())
}

func TestRemoteFailureRollsBackToSnapshot(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	store := NewStore("sess-1", uintPtr(1), remote, newFakeCache(), time.Hour)

	require.NoError(t, store.Add(ctx, blackM, 2, 2500))
	before := store.Lines()

	remote.failErr = errors.New("backend unavailable")
	err := store.Add(ctx, ItemKey{ProductID: 9, Size: "L", Color: "Red"}, 1, 9900)

	require.Error(t, err)
	assert.Equal(t, before, store.Lines(), "rolled-back state must equal the pre-mutation collection")
	assert.Error(t, store.LastSyncError())

	// A successful mutation clears the recorded sync error
	remote.failErr = nil
	require.NoError(t, store.Add(ctx, blackM, 1, 2500))
	assert.NoError(t, store.LastSyncError())
}

func TestGuestStoreIsLocalOnly(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	cache := newFakeCache()
	store := NewStore("sess-guest", nil, remote, cache, time.Hour)

	require.NoError(t, store.Add(ctx, blackM, 1, 2500))
	require.NoError(t, store.UpdateQuantity(ctx, blackM, 5))

	assert.Equal(t, 5, store.Lines()[0].Quantity)
	assert.Empty(t, remote.carts, "guest mutations must not reach the remote")

	// State survives a restart through the persisted blob
	reloaded := NewStore("sess-guest", nil, remote, cache, time.Hour)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 5, reloaded.Lines()[0].Quantity)
}

func TestResyncReplacesLocalStateWholesale(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	store := NewStore("sess-1", uintPtr(1), remote, newFakeCache(), time.Hour)

	require.NoError(t, store.Add(ctx, blackM, 2, 2500))

	// The remote moves on without us
	other := ItemKey{ProductID: 42, Size: "S", Color: "White"}
	require.NoError(t, remote.Clear(1))
	require.NoError(t, remote.Add(1, other, 4, 1500))

	require.NoError(t, store.Resync(ctx))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, other, lines[0].Key())
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestLoadDiscardsAnotherUsersMirror(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	cache := newFakeCache()

	first := NewStore("shared-sess", uintPtr(1), remote, cache, time.Hour)
	require.NoError(t, first.Add(ctx, blackM, 2, 2500))

	// A different user logs in on the same device session
	second := NewStore("shared-sess", uintPtr(2), remote, cache, time.Hour)
	require.NoError(t, second.Load(ctx))

	assert.Empty(t, second.Lines(), "one user's cart must not leak into another's session")
}

func TestRemoveMissingItemFailsWithoutMutation(t *testing.T) {
	ctx := context.Background()
	store := NewStore("sess-1", uintPtr(1), newFakeRemote(), newFakeCache(), time.Hour)

	require.NoError(t, store.Add(ctx, blackM, 1, 2500))
	err := store.Remove(ctx, ItemKey{ProductID: 999})

	require.Error(t, err)
	assert.Len(t, store.Lines(), 1)
}

func TestAddTwiceThenRemoveScenario(t *testing.T) {
	ctx := context.Background()
	store := NewStore("sess-1", uintPtr(1), newFakeRemote(), newFakeCache(), time.Hour)

	// Add product P (size "M", color "Black") twice
	require.NoError(t, store.Add(ctx, blackM, 1, 2500))
	require.NoError(t, store.Add(ctx, blackM, 1, 2500))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	totals := store.Totals()
	assert.Equal(t, int64(5000), totals.SubTotal, "total price must be 2 x unit price")
	assert.Equal(t, 2, totals.TotalQuantity)

	require.NoError(t, store.Remove(ctx, blackM))
	assert.Empty(t, store.Lines())
	assert.Equal(t, int64(0), store.Totals().SubTotal)
}

func TestResetClearsMemoryAndBlob(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	store := NewStore("sess-1", nil, nil, cache, time.Hour)

	require.NoError(t, store.Add(ctx, blackM, 1, 2500))
	require.NotEmpty(t, cache.blobs)

	require.NoError(t, store.Reset(ctx))

	assert.Empty(t, store.Lines())
	assert.Empty(t, cache.blobs)
}

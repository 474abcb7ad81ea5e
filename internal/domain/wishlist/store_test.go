package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	lists   map[uint]map[uint]Entry
	failErr error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{lists: make(map[uint]map[uint]Entry)}
}

func (f *fakeRemote) list(userID uint) map[uint]Entry {
	if f.lists[userID] == nil {
		f.lists[userID] = make(map[uint]Entry)
	}
	return f.lists[userID]
}

func (f *fakeRemote) Fetch(userID uint) ([]Entry, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	var entries []Entry
	for _, entry := range f.list(userID) {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (f *fakeRemote) Add(userID, productID uint) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.list(userID)[productID] = Entry{ProductID: productID, AddedAt: time.Now().UTC()}
	return nil
}

func (f *fakeRemote) Remove(userID, productID uint) error {
	if f.failErr != nil {
		return f.failErr
	}
	delete(f.list(userID), productID)
	return nil
}

func (f *fakeRemote) Clear(userID uint) error {
	if f.failErr != nil {
		return f.failErr
	}
	delete(f.lists, userID)
	return nil
}

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

func TestToggleAddsThenRemoves(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	store := NewStore("sess-1", uintPtr(1), remote, newFakeCache(), time.Hour)

	present, err := store.Toggle(ctx, 7)
	require.NoError(t, err)
	assert.True(t, present)
	assert.True(t, store.Contains(7))
	assert.Len(t, remote.list(1), 1)

	present, err = store.Toggle(ctx, 7)
	require.NoError(t, err)
	assert.False(t, present)
	assert.False(t, store.Contains(7))
	assert.Empty(t, remote.list(1))
}

func TestToggleRollsBackOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	store := NewStore("sess-1", uintPtr(1), remote, newFakeCache(), time.Hour)

	_, err := store.Toggle(ctx, 7)
	require.NoError(t, err)
	before := store.Entries()

	remote.failErr = errors.New("backend unavailable")
	_, err = store.Toggle(ctx, 8)

	require.Error(t, err)
	assert.Equal(t, before, store.Entries())
	assert.Error(t, store.LastSyncError())
}

func TestGuestWishlistIsLocalOnly(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	store := NewStore("sess-guest", nil, remote, newFakeCache(), time.Hour)

	_, err := store.Toggle(ctx, 7)
	require.NoError(t, err)

	assert.True(t, store.Contains(7))
	assert.Empty(t, remote.lists)
}

func TestLoadDiscardsAnotherUsersMirror(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	cache := newFakeCache()

	first := NewStore("shared-sess", uintPtr(1), remote, cache, time.Hour)
	_, err := first.Toggle(ctx, 7)
	require.NoError(t, err)

	second := NewStore("shared-sess", uintPtr(2), remote, cache, time.Hour)
	require.NoError(t, second.Load(ctx))

	assert.Empty(t, second.Entries())
}

func TestResyncReplacesLocalState(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	store := NewStore("sess-1", uintPtr(1), remote, newFakeCache(), time.Hour)

	_, err := store.Toggle(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, remote.Clear(1))
	require.NoError(t, remote.Add(1, 42))

	require.NoError(t, store.Resync(ctx))

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, uint(42), entries[0].ProductID)
}

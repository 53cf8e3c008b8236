package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/model"
)

// fakeSecretStore is an in-memory SecretStore. TTLs are recorded but not
// enforced; tests expire entries by deleting them.
type fakeSecretStore struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet bool
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeSecretStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeSecretStore) Get(_ context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("connection refused")
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeSecretStore) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	delete(f.ttls, key)
	return nil
}

func TestSessionCacheRoundTrip(t *testing.T) {
	store := newFakeSecretStore()
	cache := NewSessionCache(store)
	ctx := context.Background()

	p := model.Profile{ID: "42", Name: "Karim", Email: "karim@example.com", Role: model.RoleUser, IsVerified: true}
	require.NoError(t, cache.Set(ctx, 42, p))
	assert.Equal(t, SessionTTL, store.ttls[SessionKey(42)])

	got := cache.Get(ctx, 42)
	require.NotNil(t, got)
	assert.Equal(t, p, *got)
}

func TestSessionCacheMiss(t *testing.T) {
	cache := NewSessionCache(newFakeSecretStore())
	assert.Nil(t, cache.Get(context.Background(), 99))
}

func TestSessionCacheCorruptEntryIsMiss(t *testing.T) {
	store := newFakeSecretStore()
	cache := NewSessionCache(store)
	ctx := context.Background()

	store.data[SessionKey(7)] = "{not json"
	assert.Nil(t, cache.Get(ctx, 7))
}

func TestSessionCacheStoreErrorIsMiss(t *testing.T) {
	store := newFakeSecretStore()
	cache := NewSessionCache(store)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 5, model.Profile{ID: "5"}))
	store.failGet = true
	assert.Nil(t, cache.Get(ctx, 5))
}

func TestSessionCacheDelete(t *testing.T) {
	store := newFakeSecretStore()
	cache := NewSessionCache(store)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 3, model.Profile{ID: "3"}))
	require.NoError(t, cache.Delete(ctx, 3))
	assert.Nil(t, cache.Get(ctx, 3))

	// Deleting an absent key is fine.
	assert.NoError(t, cache.Delete(ctx, 3))
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "activation:a@b.co", ActivationKey("a@b.co"))
	assert.Equal(t, "refresh_token:42", RefreshKey(42))
	assert.Equal(t, "user_state:42", SessionKey(42))
}

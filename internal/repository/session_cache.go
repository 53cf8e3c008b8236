package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/model"
)

// SessionTTL bounds how stale a cached snapshot can get before authenticated
// requests fall back to the credential store.
const SessionTTL = 15 * time.Minute

// SessionCache is a read-through cache of sanitized profile snapshots keyed
// by user id. It stores model.Profile, which carries no password field, so
// the snapshot is sanitized by construction. Concurrent misses re-populating
// the same key are tolerated: the write is idempotent and cheap.
type SessionCache struct {
	store SecretStore
}

func NewSessionCache(store SecretStore) *SessionCache {
	return &SessionCache{store: store}
}

// Set writes the snapshot with the session TTL.
func (c *SessionCache) Set(ctx context.Context, userID uint64, p model.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, SessionKey(userID), string(raw), SessionTTL)
}

// Get returns the cached snapshot or nil on a miss. A corrupt entry or a
// store failure is logged and treated as a miss; callers always have the
// credential store to fall back on.
func (c *SessionCache) Get(ctx context.Context, userID uint64) *model.Profile {
	raw, ok, err := c.store.Get(ctx, SessionKey(userID))
	if err != nil {
		log.Printf("session cache: get %d failed: %v", userID, err)
		return nil
	}
	if !ok {
		return nil
	}
	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("session cache: corrupt entry for %d: %v", userID, err)
		return nil
	}
	return &p
}

// Delete removes the snapshot, used on logout. Deleting an absent key is
// not an error.
func (c *SessionCache) Delete(ctx context.Context, userID uint64) error {
	return c.store.Delete(ctx, SessionKey(userID))
}

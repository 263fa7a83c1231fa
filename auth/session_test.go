package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore()

	sess := &Session{Token: "t1", UserID: 3, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	store.Save(sess)

	got, ok := store.Get("t1", now)
	require.True(t, ok)
	assert.Equal(t, 3, got.UserID)

	// Get hands out copies.
	got.UserID = 99
	again, _ := store.Get("t1", now)
	assert.Equal(t, 3, again.UserID)

	_, ok = store.Get("t1", now.Add(time.Minute))
	assert.False(t, ok, "expired at exactly ExpiresAt")
	assert.Equal(t, 1, store.Len(), "Get does not remove expired entries")

	store.Delete("t1")
	store.Delete("t1")
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_Touch(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.Save(&Session{Token: "t1", UserID: 3, ExpiresAt: now.Add(time.Minute)})

	got, ok := store.Touch("t1", now.Add(30*time.Second), time.Hour)
	require.True(t, ok)
	assert.Equal(t, now.Add(30*time.Second+time.Hour), got.ExpiresAt)

	stored, ok := store.Get("t1", now.Add(30*time.Minute))
	require.True(t, ok, "extended expiry is persisted")
	assert.Equal(t, got.ExpiresAt, stored.ExpiresAt)

	_, ok = store.Touch("t1", got.ExpiresAt, time.Hour)
	assert.False(t, ok, "expired sessions are not revived")

	store.Delete("t1")
	_, ok = store.Touch("t1", now, time.Hour)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(), "Touch never creates entries")
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	now := time.Now()
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := fmt.Sprintf("t%d", i)
			store.Save(&Session{Token: token, UserID: i + 1, ExpiresAt: now.Add(time.Duration(i%2) * time.Hour)})
			store.Get(token, now)
			store.DeleteExpired(now)
		}()
	}
	wg.Wait()

	// Odd indexes were saved with an hour to live; even ones expired on arrival.
	store.DeleteExpired(now)
	assert.Equal(t, 25, store.Len())
}

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		tok, err := newToken()
		require.NoError(t, err)
		assert.Len(t, tok, 43) // 32 bytes, unpadded base64url
		assert.NotContains(t, tok, ".")
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemorySessionStoreCreateValidate(t *testing.T) {
	t.Run("issued token resolves to its user", func(t *testing.T) {
		store := NewMemorySessionStore(time.Hour)

		token, err := store.Create(42)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, token)

		userID, ok := store.Validate(token)
		assert.True(t, ok)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		store := NewMemorySessionStore(time.Hour)

		_, ok := store.Validate(uuid.New())
		assert.False(t, ok)
	})

	t.Run("tokens are unique per session", func(t *testing.T) {
		store := NewMemorySessionStore(time.Hour)

		first, err := store.Create(1)
		require.NoError(t, err)
		second, err := store.Create(1)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("non-positive ttl falls back to default", func(t *testing.T) {
		store := NewMemorySessionStore(0)
		assert.Equal(t, DefaultSessionTTL, store.ttl)
	})
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	newStoreAt := func(at time.Time) (*MemorySessionStore, uuid.UUID) {
		store := NewMemorySessionStore(ttl)
		store.now = func() time.Time { return issued }
		token, err := store.Create(7)
		require.NoError(t, err)
		store.now = func() time.Time { return at }
		return store, token
	}

	t.Run("live strictly before the deadline", func(t *testing.T) {
		store, token := newStoreAt(issued.Add(ttl - time.Nanosecond))
		_, ok := store.Validate(token)
		assert.True(t, ok)
	})

	t.Run("dead exactly at the deadline", func(t *testing.T) {
		store, token := newStoreAt(issued.Add(ttl))
		_, ok := store.Validate(token)
		assert.False(t, ok)
	})

	t.Run("dead after the deadline", func(t *testing.T) {
		store, token := newStoreAt(issued.Add(ttl + time.Minute))
		_, ok := store.Validate(token)
		assert.False(t, ok)
	})

	t.Run("expired entry stays in the map until swept", func(t *testing.T) {
		store, _ := newStoreAt(issued.Add(2 * ttl))
		assert.Equal(t, 1, store.Len())

		assert.Equal(t, 1, store.DeleteExpired())
		assert.Equal(t, 0, store.Len())
	})
}

func TestMemorySessionStoreDeleteExpired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore(time.Hour)

	// Two sessions issued an hour apart: after 90 minutes only the first
	// has expired.
	store.now = func() time.Time { return issued }
	expired, err := store.Create(1)
	require.NoError(t, err)

	store.now = func() time.Time { return issued.Add(time.Hour) }
	live, err := store.Create(2)
	require.NoError(t, err)

	store.now = func() time.Time { return issued.Add(90 * time.Minute) }
	assert.Equal(t, 1, store.DeleteExpired())
	assert.Equal(t, 1, store.Len())

	_, ok := store.Validate(expired)
	assert.False(t, ok)
	userID, ok := store.Validate(live)
	assert.True(t, ok)
	assert.Equal(t, int64(2), userID)

	assert.Equal(t, 0, store.DeleteExpired())
}

func TestMemorySessionStoreConcurrency(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			token, err := store.Create(userID)
			assert.NoError(t, err)
			got, ok := store.Validate(token)
			assert.True(t, ok)
			assert.Equal(t, userID, got)
			store.DeleteExpired()
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 16, store.Len())
}

func TestMemorySessionStoreSweepLoop(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore(time.Hour)
	store.now = func() time.Time { return issued }

	_, err := store.Create(1)
	require.NoError(t, err)
	_, err = store.Create(2)
	require.NoError(t, err)

	store.now = func() time.Time { return issued.Add(2 * time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	sweptCh := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		store.SweepLoop(ctx, time.Millisecond, func(n int) {
			if n > 0 {
				select {
				case sweptCh <- n:
				default:
				}
			}
		})
	}()

	select {
	case n := <-sweptCh:
		assert.Equal(t, 2, n)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never evicted the expired sessions")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}

	assert.Equal(t, 0, store.Len())
}

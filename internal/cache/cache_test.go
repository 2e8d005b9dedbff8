package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationCache(t *testing.T) {
	t.Run("returns stored snapshot", func(t *testing.T) {
		c := New(10, time.Minute)
		c.Put("code-1", Snapshot{TenantID: "demo001", Username: "alice", IsActive: true})

		snap, ok := c.Get("code-1")
		require.True(t, ok)
		assert.Equal(t, "demo001", snap.TenantID)
		assert.Equal(t, "alice", snap.Username)
		assert.True(t, snap.IsActive)
	})

	t.Run("misses unknown code", func(t *testing.T) {
		c := New(10, time.Minute)
		_, ok := c.Get("nope")
		assert.False(t, ok)
	})

	t.Run("expires entries after ttl", func(t *testing.T) {
		c := New(10, 20*time.Millisecond)
		c.Put("code-1", Snapshot{TenantID: "demo001"})

		_, ok := c.Get("code-1")
		require.True(t, ok)

		assert.Eventually(t, func() bool {
			_, ok := c.Get("code-1")
			return !ok
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("last writer wins on repopulation", func(t *testing.T) {
		c := New(10, time.Minute)
		c.Put("code-1", Snapshot{TenantID: "demo001", IsActive: true})
		c.Put("code-1", Snapshot{TenantID: "demo001", IsActive: false})

		snap, ok := c.Get("code-1")
		require.True(t, ok)
		assert.False(t, snap.IsActive)
	})

	t.Run("bounds entry count", func(t *testing.T) {
		c := New(2, time.Minute)
		c.Put("a", Snapshot{})
		c.Put("b", Snapshot{})
		c.Put("c", Snapshot{})

		assert.LessOrEqual(t, c.Len(), 2)
	})

	t.Run("remove evicts immediately", func(t *testing.T) {
		c := New(10, time.Minute)
		c.Put("code-1", Snapshot{TenantID: "demo001"})
		c.Remove("code-1")

		_, ok := c.Get("code-1")
		assert.False(t, ok)
	})
}

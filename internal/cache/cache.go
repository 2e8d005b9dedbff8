package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Snapshot is the cached view of a validated code. Activity and expiry rules
// are re-evaluated from the snapshot on every decision, so a snapshot that
// outlives its code's own expiry can never produce an allow.
type Snapshot struct {
	TenantID  string
	Username  string
	IsActive  bool
	ExpiresAt *time.Time
}

// ValidationCache is a size- and TTL-bounded in-process cache of recently
// validated codes. The TTL is a fixed ceiling on staleness after a
// deactivation reaches the store; it is deliberately short.
type ValidationCache struct {
	lru *expirable.LRU[string, Snapshot]
}

func New(size int, ttl time.Duration) *ValidationCache {
	return &ValidationCache{
		lru: expirable.NewLRU[string, Snapshot](size, nil, ttl),
	}
}

func (c *ValidationCache) Get(code string) (Snapshot, bool) {
	return c.lru.Get(code)
}

// Put records a snapshot. Concurrent populations of the same code race
// last-writer-wins; both writers derived the value from the store, so either
// is fine for the entry's short lifetime.
func (c *ValidationCache) Put(code string, snap Snapshot) {
	c.lru.Add(code, snap)
}

func (c *ValidationCache) Remove(code string) {
	c.lru.Remove(code)
}

func (c *ValidationCache) Len() int {
	return c.lru.Len()
}

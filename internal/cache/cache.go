// Package cache stores fetched payloads keyed by canonical query signature.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"rodent-dashboard/internal/metrics"
	"rodent-dashboard/internal/socrata"
)

// PayloadCache is a volatile TTL+LRU cache. Entries past their TTL are
// never returned; the next lookup misses and the caller refreshes the
// entry. Safe for concurrent use.
type PayloadCache struct {
	lru *expirable.LRU[string, socrata.RawPayload]
}

func New(size int, ttl time.Duration) *PayloadCache {
	return &PayloadCache{
		lru: expirable.NewLRU[string, socrata.RawPayload](size, nil, ttl),
	}
}

func (c *PayloadCache) Get(key string) (socrata.RawPayload, bool) {
	payload, ok := c.lru.Get(key)
	if ok {
		metrics.CacheHits.Inc()
		return payload, true
	}
	metrics.CacheMisses.Inc()
	return nil, false
}

func (c *PayloadCache) Set(key string, payload socrata.RawPayload) {
	c.lru.Add(key, payload)
}

func (c *PayloadCache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry. Used at teardown and in tests.
func (c *PayloadCache) Purge() {
	c.lru.Purge()
}

// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// RangeCache keeps raw range responses by prefix. Only the public bucket
// contents are stored, never a password or a full digest.
type RangeCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewRangeCache creates a cache holding up to maxBytes of response bodies.
// A ttl of 0 keeps entries until evicted.
func NewRangeCache(maxBytes int64, ttl time.Duration) (*RangeCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		// ~30KiB per range, 10 counters per expected item
		NumCounters: max(maxBytes/(30*1024), 1) * 10,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &RangeCache{cache: cache, ttl: ttl}, nil
}

func (c *RangeCache) Get(prefix string) ([]byte, bool) {
	v, ok := c.cache.Get(prefix)
	if !ok {
		return nil, false
	}

	body, ok := v.([]byte)
	return body, ok
}

func (c *RangeCache) Set(prefix string, body []byte) {
	c.cache.SetWithTTL(prefix, body, int64(len(body)), c.ttl)
}

// Wait blocks until pending writes are visible to Get.
func (c *RangeCache) Wait() {
	c.cache.Wait()
}

func (c *RangeCache) Close() {
	c.cache.Close()
}

// Package cache implements an ephemeral, process-local acceleration cache
// for SCC results: entries are keyed by a graph fingerprint, never by a
// persisted id, and every entry carries a TTL. The local tier is a
// bigcache store; an optional github.com/redis/go-redis/v9 second tier
// serves a shared process pool. Bypassing the cache is always correct: it
// never changes what Find computes, only whether it recomputes.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"hash/fnv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/redis/go-redis/v9"

	"github.com/wyfcoding/scc/graph"
	"github.com/wyfcoding/scc/metrics"
)

// Entry is the cacheable shape of an sccresult.Result: a flat
// vertex-to-component map plus the engine that produced it. It avoids
// importing package sccresult directly so package dispatch owns the
// (de)serialization into a live *sccresult.Result.
type Entry struct {
	Engine          string  `json:"engine"`
	VertexComponent []int   `json:"vertex_component"`
	ComponentCount  int     `json:"component_count"`
}

// ResultCache is a bounded-lifetime accelerator in front of SCC computation.
// A nil *ResultCache is valid everywhere it's accepted and behaves as an
// always-miss cache.
type ResultCache struct {
	local *bigcache.BigCache
	redis *redis.Client
	ttl   time.Duration
	m     *metrics.Metrics
}

// Option configures a ResultCache at construction time.
type Option func(*ResultCache)

// WithRedis adds a second tier over a Redis client for cross-process sharing
// within one deployment's process pool.
func WithRedis(client *redis.Client) Option {
	return func(c *ResultCache) { c.redis = client }
}

// WithMetrics records hit/miss counts to m (nil is accepted).
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *ResultCache) { c.m = m }
}

// New builds a ResultCache with the given entry TTL and local-tier size cap
// in megabytes.
func New(ctx context.Context, ttl time.Duration, maxMB int, opts ...Option) (*ResultCache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.HardMaxCacheSize = maxMB
	cfg.CleanWindow = ttl / 2
	if cfg.CleanWindow <= 0 {
		cfg.CleanWindow = time.Minute
	}

	local, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c := &ResultCache{local: local, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fingerprint computes a stable key for g's current edge set: an FNV-1a hash
// over vertex count followed by every (src, dst) pair in graph-layout
// iteration order (see graph.Graph's edge iterator). It is NOT a persisted
// identifier — results are never persisted across process
// runs, and this fingerprint exists only to recognize "the same graph,
// still in this process" within one run's cache TTL.
func Fingerprint(g *graph.Graph) string {
	h := fnv.New64a()
	var buf [8]byte
	putUint64 := func(v uint64) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		_, _ = h.Write(buf[:])
	}
	putUint64(uint64(g.NumVertices()))
	it := g.Edges()
	for it.Next() {
		src, dst := it.Edge()
		putUint64(uint64(src))
		putUint64(uint64(dst))
	}
	var sumBytes [8]byte
	sum := h.Sum64()
	for i := 0; i < 8; i++ {
		sumBytes[i] = byte(sum >> (8 * i))
	}
	return hex.EncodeToString(sumBytes[:])
}

// Get looks up the cached Entry for fingerprint, checking the local tier
// first and falling back to the Redis tier (if configured) on a local miss.
func (c *ResultCache) Get(ctx context.Context, fingerprint string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	key := fingerprint
	if data, err := c.local.Get(key); err == nil {
		c.observe("hit")
		return decode(data)
	}
	if c.redis != nil {
		if data, err := c.redis.Get(ctx, key).Bytes(); err == nil {
			_ = c.local.Set(key, data)
			c.observe("hit")
			return decode(data)
		}
	}
	c.observe("miss")
	return nil, false
}

// Put stores e under fingerprint in every configured tier.
func (c *ResultCache) Put(ctx context.Context, fingerprint string, e *Entry) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	key := fingerprint
	if err := c.local.Set(key, data); err != nil {
		return err
	}
	if c.redis != nil {
		c.redis.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// Invalidate drops any cached entry for fingerprint. The graph's
// MutationHook (package graph) calls this indirectly through the
// dispatcher's subscription to eventbus.Mutated so a stale Result is never
// served after an edit.
func (c *ResultCache) Invalidate(ctx context.Context, fingerprint string) {
	if c == nil {
		return
	}
	key := fingerprint
	_ = c.local.Delete(key)
	if c.redis != nil {
		c.redis.Del(ctx, key)
	}
}

func (c *ResultCache) observe(result string) {
	if c.m != nil {
		c.m.ObserveCache(result)
	}
}

func decode(data []byte) (*Entry, bool) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return &e, true
}


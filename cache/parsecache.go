// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

// Package cache implements the bounded filter-text → dsl.Filter memo the
// engine consults before invoking the parser, grounded on the teacher's
// policy cache: a mutex-guarded map swapped under a short critical
// section, plus metrics describing hit/miss/eviction behavior.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/cyriljoui/squiggly/dsl"
)

const defaultNegativeTTL = 5 * time.Second

// entry is one LRU slot. Exactly one of Filter/Err is set.
type entry struct {
	key       string
	filter    *dsl.Filter
	err       error
	negExpiry time.Time // zero unless err != nil
}

// Option configures a ParseCache.
type Option func(*ParseCache)

// WithMaxEntries sets the LRU capacity (spec §6 parse_cache_max_entries).
// The default is 10000, matching the spec's documented default.
func WithMaxEntries(n int) Option {
	return func(c *ParseCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithNegativeTTL sets how long a parse failure is cached before the next
// request for the same text is allowed to retry the parser.
func WithNegativeTTL(d time.Duration) Option {
	return func(c *ParseCache) {
		c.negativeTTL = d
	}
}

// WithViews injects the ViewSource consulted by every parse this cache
// performs.
func WithViews(views dsl.ViewSource) Option {
	return func(c *ParseCache) {
		c.views = views
	}
}

// WithRegisterer registers this cache's metrics with reg instead of the
// default Prometheus registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *ParseCache) {
		c.registerer = reg
	}
}

// ParseCache memoizes dsl.ParseWithViews, bounded by an LRU of at most
// maxEntries distinct filter texts, with at-most-one-concurrent-parse-per-
// key coalescing and short-lived negative caching of parse failures (spec
// §4.6).
type ParseCache struct {
	maxEntries  int
	negativeTTL time.Duration
	views       dsl.ViewSource
	registerer  prometheus.Registerer

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*list.Element // key -> element in order
	order   *list.List               // front = most recently used

	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

// New builds a ParseCache with the given options applied over the
// documented defaults.
func New(opts ...Option) *ParseCache {
	c := &ParseCache{
		maxEntries:  10000,
		negativeTTL: defaultNegativeTTL,
		entries:     make(map[string]*list.Element),
		order:       list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.registerMetrics()
	return c
}

func (c *ParseCache) registerMetrics() {
	c.hits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "squiggly_parse_cache_hits_total",
		Help: "Total number of parse cache hits, including coalesced negative hits.",
	})
	c.misses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "squiggly_parse_cache_misses_total",
		Help: "Total number of parse cache misses that invoked the parser.",
	})
	c.evictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "squiggly_parse_cache_evictions_total",
		Help: "Total number of LRU evictions performed by the parse cache.",
	})
	reg := c.registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, m := range []prometheus.Collector{c.hits, c.misses, c.evictions} {
		if err := reg.Register(m); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch m {
				case c.hits:
					c.hits = are.ExistingCollector.(prometheus.Counter)
				case c.misses:
					c.misses = are.ExistingCollector.(prometheus.Counter)
				case c.evictions:
					c.evictions = are.ExistingCollector.(prometheus.Counter)
				}
			}
		}
	}
}

// Parse returns the cached dsl.Filter for text, parsing (and caching the
// result, success or failure) on a miss. Concurrent callers for the same
// text coalesce onto a single parse via singleflight.
func (c *ParseCache) Parse(text string) (*dsl.Filter, error) {
	if cached, ok := c.lookup(text); ok {
		c.hits.Inc()
		return cached.filter, cached.err
	}

	result, err, _ := c.group.Do(text, func() (any, error) {
		// Re-check under the group: another goroutine may have
		// populated the cache while we waited to be scheduled.
		if cached, ok := c.lookup(text); ok {
			return cached, nil
		}
		c.misses.Inc()
		filter, parseErr := dsl.ParseWithViews(text, c.views)
		e := &entry{key: text, filter: filter, err: parseErr}
		if parseErr != nil {
			e.negExpiry = time.Now().Add(c.negativeTTL)
		}
		c.store(e)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	e := result.(*entry)
	return e.filter, e.err
}

func (c *ParseCache) lookup(text string) (*entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if e.err != nil && time.Now().After(e.negExpiry) {
		// Negative entry expired: remove it so the next Parse call
		// retries the parser instead of replaying a stale failure.
		c.order.Remove(el)
		delete(c.entries, text)
		return nil, false
	}
	c.order.MoveToFront(el)
	return e, true
}

func (c *ParseCache) store(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[e.key]; ok {
		el.Value = e
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(e)
	c.entries[e.key] = el

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
		c.evictions.Inc()
	}
}

// Len returns the number of entries currently cached, for tests and
// diagnostics.
func (c *ParseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Squiggly Contributors

// Package squiggly is the host-facing façade over the filter DSL: parse
// filter text once (memoized), then apply one or more filters to a
// document tree in sequence.
package squiggly

import (
	"github.com/samber/oops"

	"github.com/cyriljoui/squiggly/cache"
	"github.com/cyriljoui/squiggly/config"
	"github.com/cyriljoui/squiggly/dsl"
	"github.com/cyriljoui/squiggly/function"
	"github.com/cyriljoui/squiggly/walk"
)

// Engine is the stateless-per-invocation entry point described in spec
// §5: every field is immutable after New returns except the parse cache,
// which is internally synchronized.
type Engine struct {
	cache   *cache.ParseCache
	views   dsl.ViewSource
	invoker function.Invoker
	cfg     config.Config
}

// Option configures an Engine at construction.
type Option func(*engineOptions)

type engineOptions struct {
	views     dsl.ViewSource
	invoker   function.Invoker
	cfg       *config.Config
	cacheOpts []cache.Option
}

// WithViews injects the ViewSource consulted as a pre-parse macro for bare
// top-level names (spec §4.8).
func WithViews(views dsl.ViewSource) Option {
	return func(o *engineOptions) { o.views = views }
}

// WithInvoker injects the external function registry (spec §4.5).
func WithInvoker(invoker function.Invoker) Option {
	return func(o *engineOptions) { o.invoker = invoker }
}

// WithConfig overrides the engine's config.Config snapshot (spec §6);
// absent this option the engine uses config.Defaults().
func WithConfig(cfg config.Config) Option {
	return func(o *engineOptions) { o.cfg = &cfg }
}

// WithCacheOptions passes through additional cache.Option values to the
// engine's internal ParseCache (for example cache.WithRegisterer in a
// host that manages its own Prometheus registry).
func WithCacheOptions(opts ...cache.Option) Option {
	return func(o *engineOptions) { o.cacheOpts = append(o.cacheOpts, opts...) }
}

// New builds an Engine. The parse cache's bound is taken from the
// resolved config.Config's ParseCacheMaxEntries unless overridden via
// WithCacheOptions.
func New(opts ...Option) *Engine {
	o := &engineOptions{}
	for _, opt := range opts {
		opt(o)
	}
	cfg := config.Defaults()
	if o.cfg != nil {
		cfg = *o.cfg
	}

	cacheOpts := []cache.Option{cache.WithMaxEntries(cfg.ParseCacheMaxEntries)}
	if o.views != nil {
		cacheOpts = append(cacheOpts, cache.WithViews(o.views))
	}
	cacheOpts = append(cacheOpts, o.cacheOpts...)

	return &Engine{
		cache:   cache.New(cacheOpts...),
		views:   o.views,
		invoker: o.invoker,
		cfg:     cfg,
	}
}

// Parse parses filter text, transparently using (and populating) the
// engine's parse cache.
func (e *Engine) Parse(text string) (*dsl.Filter, error) {
	return e.cache.Parse(text)
}

// Apply parses each of filters (via the cache) and applies them in order
// to root, threading each filter's output into the next as its input
// (spec §4.4, §4.7): the last filter's output is the final result. An
// empty filters list returns root unchanged.
func Apply[T any](e *Engine, root walk.Node[T], builder walk.Builder[T], filters []string) (walk.Node[T], error) {
	current := root
	for i, text := range filters {
		f, err := e.Parse(text)
		if err != nil {
			return nil, oops.With("statement_index", i).With("filter", text).Wrapf(err, "parse filter")
		}
		out, err := walk.Walk[T](current, builder, f.Root(), walk.Options{Invoker: e.invoker})
		if err != nil {
			return nil, oops.With("statement_index", i).With("filter", text).Wrapf(err, "apply filter")
		}
		current = out
	}
	return current, nil
}

// Config returns the engine's resolved configuration snapshot.
func (e *Engine) Config() config.Config {
	return e.cfg
}

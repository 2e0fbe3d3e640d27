// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics holds the process counter registry.
//
// Counters are keyed by an owning scope plus a metric name. They are created
// lazily on first increment, never removed and never decrease.
package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
)

type key struct {
	scope string
	name  string
}

// Registry maps (scope, name) pairs to monotonically increasing counters.
// The zero value is not usable; construct with NewRegistry.
type Registry struct {
	counters sync.Map // key -> *atomic.Uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Increment adds one to the counter for (scope, name), creating it on first use.
func (r *Registry) Increment(scope, name string) {
	r.counter(scope, name).Add(1)
}

// Value returns the current count, or 0 for a key never incremented.
// Reading never creates an entry.
func (r *Registry) Value(scope, name string) uint64 {
	v, ok := r.counters.Load(key{scope: scope, name: name})
	if !ok {
		return 0
	}
	return v.(*atomic.Uint64).Load()
}

// Len returns the number of counters created so far.
func (r *Registry) Len() int {
	n := 0
	r.counters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sample is a point-in-time reading of one counter.
type Sample struct {
	Scope string `json:"scope"`
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// Snapshot returns all counters ordered by scope, then name.
func (r *Registry) Snapshot() []Sample {
	var out []Sample
	r.counters.Range(func(k, v any) bool {
		kk := k.(key)
		out = append(out, Sample{Scope: kk.scope, Name: kk.name, Value: v.(*atomic.Uint64).Load()})
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// counter resolves the single counter instance for a key. LoadOrStore keeps
// concurrent first use from producing two counters.
func (r *Registry) counter(scope, name string) *atomic.Uint64 {
	k := key{scope: scope, name: name}
	if v, ok := r.counters.Load(k); ok {
		return v.(*atomic.Uint64)
	}
	v, _ := r.counters.LoadOrStore(k, new(atomic.Uint64))
	return v.(*atomic.Uint64)
}

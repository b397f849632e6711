// Package xreg is the scheduler's function registry: which workers are
// eligible to run a given function, and the arity all of them agreed to
// register it with (spec §3 Function table, RegisterFunction).
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package xreg

import (
	"sync"

	"github.com/nvaistore-labs/taskmesh/cmn"
)

type entry struct {
	arity    int
	eligible map[cmn.WorkerId]struct{}
}

// Registry maps function name -> {eligible worker set, arity}. Mirrors
// the teacher's xreg registry shape (name -> Renewable entry), just
// keyed on function name instead of xaction kind.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds worker to fn's eligible set. If fn is new, arity is
// recorded; otherwise arity must match every prior registration (spec
// §3, error ArityMismatch).
func (r *Registry) Register(fn string, worker cmn.WorkerId, arity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[fn]
	if !ok {
		e = &entry{arity: arity, eligible: make(map[cmn.WorkerId]struct{})}
		r.entries[fn] = e
	} else if e.arity != arity {
		return &cmn.ErrArityMismatch{Name: fn, Registered: e.arity, Got: arity}
	}
	e.eligible[worker] = struct{}{}
	return nil
}

// Lookup reports whether fn is known, its arity, and its eligible
// worker set (a fresh copy, safe for the caller to range over without
// holding the registry lock).
func (r *Registry) Lookup(fn string) (arity int, eligible map[cmn.WorkerId]struct{}, known bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[fn]
	if !ok {
		return 0, nil, false
	}
	cp := make(map[cmn.WorkerId]struct{}, len(e.eligible))
	for w := range e.eligible {
		cp[w] = struct{}{}
	}
	return e.arity, cp, true
}

// IsEligible reports whether worker may run fn.
func (r *Registry) IsEligible(fn string, worker cmn.WorkerId) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[fn]
	if !ok {
		return false
	}
	_, ok = e.eligible[worker]
	return ok
}

// RemoveWorker drops worker from every function's eligible set, e.g.
// when it is declared unreachable (SPEC_FULL §4 keepalive).
func (r *Registry) RemoveWorker(worker cmn.WorkerId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		delete(e.eligible, worker)
	}
}

// Names returns every known function name, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	return out
}

// Package cluster holds the domain types shared between the scheduler,
// the object store, and worker processes: object references, worker and
// object-store records, and tasks (spec §3).
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package cluster

import (
	"sync"

	"github.com/nvaistore-labs/taskmesh/cmn"
)

// refState is the scheduler's per-ObjRef record. Only canonical refs carry
// locations/contained (invariant I2); non-canonical refs just point at a
// target.
type refState struct {
	mu sync.Mutex

	self    cmn.ObjRef
	target  cmn.ObjRef // == self for a canonical ref
	refcnt  int64
	ready   bool
	retired bool

	locations map[cmn.ObjStoreId]struct{}
	contained []cmn.ObjRef

	// taskFailure is set when this ref is a result ref of a task that
	// raised; readers get ErrTaskFailure instead of data (spec §7).
	taskFailure *cmn.ErrTaskFailure
}

func newCanonical(id cmn.ObjRef) *refState {
	return &refState{
		self:      id,
		target:    id,
		locations: make(map[cmn.ObjStoreId]struct{}),
	}
}

func (r *refState) isCanonical() bool {
	return r.target == r.self
}

// ObjRefTable is the scheduler's authoritative ObjRef registry: the alias
// graph, refcounts, locations, and readiness bits described in spec §3.
// Its locking discipline mirrors the teacher's per-name sharded locker
// (`cluster.lomLocker`/`nlc`) generalized to per-ObjRef locks, so that
// hot refs under concurrent IncrementRefCount/DecrementRefCount/ObjReady
// calls don't serialize on one global mutex; the map itself (which refs
// exist) is still guarded by a single RWMutex since inserts are rare
// relative to reads.
type ObjRefTable struct {
	mu   sync.RWMutex
	refs map[cmn.ObjRef]*refState

	retiredFilter *retiredFilter
}

func NewObjRefTable() *ObjRefTable {
	return &ObjRefTable{
		refs:          make(map[cmn.ObjRef]*refState),
		retiredFilter: newRetiredFilter(),
	}
}

// NewCanonical installs a fresh canonical ref with the given initial
// refcount (callers: SubmitTask, PushObj — spec §4.1).
func (t *ObjRefTable) NewCanonical(id cmn.ObjRef, initialRefcnt int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rs := newCanonical(id)
	rs.refcnt = initialRefcnt
	t.refs[id] = rs
}

// get looks up id's record; every other method funnels its existence and
// retired checks through here. The cuckoo filter lets the hot "definitely
// not retired" path skip the locked rs.retired check below entirely; a
// positive (real or false) falls through to that authoritative check.
func (t *ObjRefTable) get(id cmn.ObjRef) (*refState, error) {
	t.mu.RLock()
	rs, ok := t.refs[id]
	t.mu.RUnlock()
	if !ok {
		return nil, &cmn.ErrRetiredObjRef{ObjRef: id}
	}
	if t.retiredFilter.mayContain(id) {
		rs.mu.Lock()
		retired := rs.retired
		rs.mu.Unlock()
		if retired {
			return nil, &cmn.ErrRetiredObjRef{ObjRef: id}
		}
	}
	return rs, nil
}

// Canonical resolves r to its canonical ObjRef, applying path compression
// across the whole chain (spec §4.1.2, invariant I1). Safe to call
// concurrently; compression races are harmless because every writer sets
// the same terminal value. Every hop is resolved through get, so a
// retired ref anywhere on the chain is rejected via the cuckoo fast-reject
// before the authoritative check.
func (t *ObjRefTable) Canonical(r cmn.ObjRef) (cmn.ObjRef, error) {
	rs, err := t.get(r)
	if err != nil {
		return 0, err
	}

	var chain []*refState
	cur := rs
	for {
		cur.mu.Lock()
		tgt := cur.target
		cur.mu.Unlock()
		if tgt == cur.self {
			break
		}
		chain = append(chain, cur)
		next, err := t.get(tgt)
		if err != nil {
			return 0, err
		}
		cur = next
	}
	terminal := cur.self
	for _, node := range chain {
		node.mu.Lock()
		node.target = terminal
		node.mu.Unlock()
	}
	return terminal, nil
}

// Alias installs alias -> target, transitively resolving target to its
// own canonical first. Rejects a cycle (spec §4.1.2, invariant/error
// AliasCycle). A repeat Alias(a, t) call is a no-op (spec §8).
func (t *ObjRefTable) Alias(alias, target cmn.ObjRef) error {
	canonTarget, err := t.Canonical(target)
	if err != nil {
		return err
	}
	if canonTarget == alias {
		return &cmn.ErrAliasCycle{Alias: alias, Target: target}
	}

	t.mu.Lock()
	aliasRS, ok := t.refs[alias]
	if !ok {
		aliasRS = newCanonical(alias)
		t.refs[alias] = aliasRS
	}
	t.mu.Unlock()
	canonRS, err := t.get(canonTarget)
	if err != nil {
		return err
	}

	aliasRS.mu.Lock()
	if aliasRS.target == canonTarget {
		aliasRS.mu.Unlock()
		return nil // already aliased there: no-op (spec §8)
	}
	wasCanonical := aliasRS.isCanonical()
	movedRefcnt := aliasRS.refcnt
	movedLocations := aliasRS.locations
	movedReady := aliasRS.ready
	aliasRS.target = canonTarget
	if wasCanonical {
		aliasRS.locations = nil
		aliasRS.contained = nil
		aliasRS.refcnt = 0
	}
	aliasRS.mu.Unlock()

	if wasCanonical && movedRefcnt != 0 {
		canonRS.mu.Lock()
		canonRS.refcnt += movedRefcnt
		for loc := range movedLocations {
			canonRS.locations[loc] = struct{}{}
		}
		if movedReady {
			canonRS.ready = true
		}
		canonRS.mu.Unlock()
	}
	return nil
}

// MarkReady records that store holds a finalized payload for the
// canonical of objref (spec ObjReady). Returns the canonical id so the
// caller can check for newly-unblockable tasks.
func (t *ObjRefTable) MarkReady(objref cmn.ObjRef, store cmn.ObjStoreId) (cmn.ObjRef, error) {
	canon, err := t.Canonical(objref)
	if err != nil {
		return 0, err
	}
	rs, err := t.get(canon)
	if err != nil {
		return 0, err
	}
	rs.mu.Lock()
	rs.ready = true
	rs.locations[store] = struct{}{}
	rs.mu.Unlock()
	return canon, nil
}

func (t *ObjRefTable) IsReady(r cmn.ObjRef) (bool, error) {
	canon, err := t.Canonical(r)
	if err != nil {
		return false, err
	}
	rs, err := t.get(canon)
	if err != nil {
		return false, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.taskFailure != nil {
		return false, rs.taskFailure
	}
	return rs.ready, nil
}

// Locations returns the canonical's current store set, lowest id first
// for deterministic tie-breaking (spec §4.1.1 step 3).
func (t *ObjRefTable) Locations(r cmn.ObjRef) ([]cmn.ObjStoreId, error) {
	canon, err := t.Canonical(r)
	if err != nil {
		return nil, err
	}
	rs, err := t.get(canon)
	if err != nil {
		return nil, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]cmn.ObjStoreId, 0, len(rs.locations))
	for loc := range rs.locations {
		out = append(out, loc)
	}
	sortUint64s(out)
	return out, nil
}

// Increment/Decrement implement the distributed refcounting GC of spec
// §4.1.3. Decrement may cascade into contained refs and return the set
// of (canonical, locations) pairs that must be deallocated.
type Deallocation struct {
	Canonical cmn.ObjRef
	Locations []cmn.ObjStoreId
}

func (t *ObjRefTable) Increment(r cmn.ObjRef, delta int64) error {
	canon, err := t.Canonical(r)
	if err != nil {
		return err
	}
	rs, err := t.get(canon)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	rs.refcnt += delta
	rs.mu.Unlock()
	return nil
}

// Decrement applies delta (negative) to r's canonical refcount and
// returns the cascade of deallocations triggered, if any (spec §4.1.3,
// §8 scenario 4). A ref whose count reaches zero before it is ready is
// held, not deallocated. MarkReady does not retire it by itself; a later
// Decrement (the scheduler's ObjReady handler issues one with delta 0)
// retires it once it is ready.
func (t *ObjRefTable) Decrement(r cmn.ObjRef, delta int64) ([]Deallocation, error) {
	canon, err := t.Canonical(r)
	if err != nil {
		return nil, err
	}
	var out []Deallocation
	t.cascadeDecrement(canon, delta, &out)
	return out, nil
}

func (t *ObjRefTable) cascadeDecrement(canon cmn.ObjRef, delta int64, out *[]Deallocation) {
	rs, err := t.get(canon)
	if err != nil {
		return
	}
	rs.mu.Lock()
	rs.refcnt += delta
	shouldRetire := rs.refcnt <= 0 && rs.ready && !rs.retired
	var locs []cmn.ObjStoreId
	var contained []cmn.ObjRef
	if shouldRetire {
		t.retiredFilter.add(canon)
		rs.retired = true
		for loc := range rs.locations {
			locs = append(locs, loc)
		}
		contained = rs.contained
	}
	rs.mu.Unlock()

	if !shouldRetire {
		return
	}
	*out = append(*out, Deallocation{Canonical: canon, Locations: locs})
	for _, c := range contained {
		t.cascadeDecrement(c, -1, out)
	}
}

// AddContained records r's contained refs and increments each one's
// refcount by 1 on behalf of the container (spec AddContainedObjRefs,
// invariant I5: set-once).
func (t *ObjRefTable) AddContained(r cmn.ObjRef, contained []cmn.ObjRef) error {
	canon, err := t.Canonical(r)
	if err != nil {
		return err
	}
	rs, err := t.get(canon)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	if rs.contained != nil {
		rs.mu.Unlock()
		return &cmn.ErrProtocolViolation{Detail: "contained objrefs already set"}
	}
	rs.contained = append([]cmn.ObjRef(nil), contained...)
	rs.mu.Unlock()
	for _, c := range contained {
		if err := t.Increment(c, 1); err != nil {
			return err
		}
	}
	return nil
}

// MarkFailed records a task failure on a result ref: readers fail with
// the captured error message instead of blocking forever (spec §4.3,
// §8 scenario 5).
func (t *ObjRefTable) MarkFailed(r cmn.ObjRef, opID cmn.OperationId, msg string) {
	rs, err := t.get(r)
	if err != nil {
		return
	}
	rs.mu.Lock()
	rs.ready = true
	rs.taskFailure = &cmn.ErrTaskFailure{OperationID: opID, Message: msg}
	rs.mu.Unlock()
}

func sortUint64s(s []cmn.ObjStoreId) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

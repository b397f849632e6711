// Package delivery orchestrates the scheduler-side half of an object
// transfer: pick a source store, ask the destination store to pull from
// it, retry with a different source on failure (spec §5, §9 open
// question "retry budget ... pick a small constant (e.g., 3)"; resolved
// in SPEC_FULL.md §5). Shaped like the teacher's `proxyKeepalive.retry`
// / jogger bounded-retry loops in `reb/resilver.go`: a small fixed
// attempt budget, excluding whatever just failed, no backoff beyond the
// attempt boundary itself.
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package delivery

import (
	"context"

	"github.com/golang/glog"

	"github.com/nvaistore-labs/taskmesh/cluster"
	"github.com/nvaistore-labs/taskmesh/cmn"
)

// SourcePicker returns a candidate source store holding objref, other
// than any id in excluded, or ok=false if none remain.
type SourcePicker func(excluded map[cmn.ObjStoreId]struct{}) (src cluster.ObjStoreRecord, ok bool)

// PullCaller asks destAddr's object store to pull objref from srcAddr
// (an ObjStore.StartDelivery call) and blocks until that pull finalizes
// or fails.
type PullCaller func(ctx context.Context, destAddr, srcAddr string, objref cmn.ObjRef) error

// Orchestrator bounds how many distinct sources a single delivery will
// try before giving up.
type Orchestrator struct {
	Retries int
}

func NewOrchestrator(retries int) *Orchestrator {
	if retries <= 0 {
		retries = 3
	}
	return &Orchestrator{Retries: retries}
}

// Deliver drives objref onto destAddr, trying up to o.Retries distinct
// sources (via pick) through call, excluding each failed source before
// the next attempt. Returns ErrTransferFailure once candidates are
// exhausted or pick reports none remain.
func (o *Orchestrator) Deliver(ctx context.Context, objref cmn.ObjRef, destAddr string, pick SourcePicker, call PullCaller) error {
	excluded := make(map[cmn.ObjStoreId]struct{})
	var tried []cmn.ObjStoreId
	for attempt := 0; attempt < o.Retries; attempt++ {
		src, ok := pick(excluded)
		if !ok {
			break
		}
		tried = append(tried, src.ID)
		err := call(ctx, destAddr, src.Address, objref)
		if err == nil {
			return nil
		}
		glog.Warningf("delivery of objref %d from store %d to %s failed (attempt %d/%d): %v",
			objref, src.ID, destAddr, attempt+1, o.Retries, err)
		excluded[src.ID] = struct{}{}
	}
	return &cmn.ErrTransferFailure{ObjRef: objref, Tried: tried}
}

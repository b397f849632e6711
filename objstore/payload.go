// Package objstore is the per-node object store (spec §4.2): the local
// payload map, the streamed chunk transfer in both directions, and
// alias resolution for co-located workers' GetObj calls.
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package objstore

import (
	"github.com/nvaistore-labs/taskmesh/cmn"
)

// payload is one object's local record (spec §3 "Object payload"). A
// freshly reserved payload exists with finalized=false and a zero-value
// Data; readers block on done until it finalizes (GetObj also returns
// when its context is done).
type payload struct {
	canonical      cmn.ObjRef
	totalSize      int64
	metadataOffset int64
	data           []byte
	checksum       cmn.Checksum
	finalized      bool
	done           chan struct{}
}

func newPayload(canon cmn.ObjRef) *payload {
	return &payload{canonical: canon, done: make(chan struct{})}
}

func (p *payload) finalize(data []byte, metadataOffset int64, cksum cmn.Checksum) {
	p.data = data
	p.metadataOffset = metadataOffset
	p.totalSize = int64(len(data))
	p.checksum = cksum
	p.finalized = true
	close(p.done)
}

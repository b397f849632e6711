package cluster

import (
	"encoding/binary"
	"sync"

	cuckoo "github.com/seiflotfy/cuckoofilter"

	"github.com/nvaistore-labs/taskmesh/cmn"
)

// retiredFilter is a probabilistic fast-reject in front of ObjRefTable's
// authoritative map: most lookups are for live refs, so a cuckoo filter
// lets the common case skip straight past the "is this retired" check
// without taking the per-record lock. False positives just fall
// through to the authoritative (locked) check in ObjRefTable.get; false
// negatives are impossible by construction (insert-before-retire).
type retiredFilter struct {
	mu sync.Mutex
	cf *cuckoo.Filter
}

func newRetiredFilter() *retiredFilter {
	return &retiredFilter{cf: cuckoo.NewFilter(1 << 16)}
}

func (f *retiredFilter) add(id cmn.ObjRef) {
	f.mu.Lock()
	f.cf.InsertUnique(encodeID(id))
	f.mu.Unlock()
}

func (f *retiredFilter) mayContain(id cmn.ObjRef) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cf.Lookup(encodeID(id))
}

func encodeID(id cmn.ObjRef) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

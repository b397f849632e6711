package cmn

import "go.uber.org/atomic"

// WorkerId, ObjStoreId, ObjRef and OperationId are all monotonically
// increasing uint64s minted by the scheduler and never reused within a
// cluster lifetime (spec §3). A single IDGen backs each identifier space.

type (
	WorkerId    = uint64
	ObjStoreId  = uint64
	ObjRef      = uint64
	OperationId = uint64
)

// IDGen hands out strictly increasing, never-reused ids. Zero is reserved
// as "no id" so the first minted value is 1.
type IDGen struct {
	next atomic.Uint64
}

func (g *IDGen) Next() uint64 { return g.next.Add(1) }

// Peek reports the last id minted, without allocating one; used only by
// diagnostics (SchedulerInfo).
func (g *IDGen) Peek() uint64 { return g.next.Load() }

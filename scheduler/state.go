package scheduler

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/nvaistore-labs/taskmesh/cluster"
	"github.com/nvaistore-labs/taskmesh/cmn"
	"github.com/nvaistore-labs/taskmesh/delivery"
	"github.com/nvaistore-labs/taskmesh/xreg"
)

// State is the scheduler's single coarse-locked authority (spec §5:
// "the scheduler is logically single-threaded over its state"). Every
// state-mutating RPC takes mu for the duration of its bookkeeping; the
// network calls a scheduling pass triggers (ExecuteTask, StartDelivery)
// are issued after releasing it, and their completions re-enter as
// fresh RPCs (ObjReady, ReadyForNewTask) that reacquire the lock.
type State struct {
	mu sync.Mutex

	cfg *cmn.GCO

	workerIDs cmn.IDGen
	storeIDs  cmn.IDGen
	objrefIDs cmn.IDGen
	opIDs     cmn.IDGen

	workers map[cmn.WorkerId]*cluster.Worker
	stores  map[cmn.ObjStoreId]*cluster.ObjStoreRecord
	tasks   map[cmn.OperationId]*cluster.Task
	queue   []cmn.OperationId

	functions *xreg.Registry
	objrefs   *cluster.ObjRefTable

	conns    *ConnCache
	delivery *delivery.Orchestrator
	hb       *Heartbeats
	metrics  *Metrics

	retired atomic.Int64
}

func NewState(cfg *cmn.GCO, metrics *Metrics) *State {
	c := cfg.Get()
	return &State{
		cfg:       cfg,
		workers:   make(map[cmn.WorkerId]*cluster.Worker),
		stores:    make(map[cmn.ObjStoreId]*cluster.ObjStoreRecord),
		tasks:     make(map[cmn.OperationId]*cluster.Task),
		functions: xreg.NewRegistry(),
		objrefs:   cluster.NewObjRefTable(),
		conns:     NewConnCache(),
		delivery:  delivery.NewOrchestrator(c.DeliveryRetries),
		hb:        NewHeartbeats(time.Duration(c.KeepaliveTimeoutSec) * time.Second),
		metrics:   metrics,
	}
}

// StartKeepaliveSweep runs until stopCh closes, marking any worker that
// misses its heartbeat window unreachable and excluding it from future
// matches. Object stores are not tracked.
func (s *State) StartKeepaliveSweep(stopCh <-chan struct{}) {
	interval := time.Duration(s.cfg.Get().KeepaliveIntervalSec) * time.Second
	s.hb.Sweep(interval, stopCh, func(id cmn.WorkerId) {
		s.mu.Lock()
		if w, ok := s.workers[id]; ok && w.State != cluster.WorkerUnreachable {
			w.State = cluster.WorkerUnreachable
			s.functions.RemoveWorker(id)
		}
		s.mu.Unlock()
	})
}

func (s *State) refreshGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.QueueDepth.Set(float64(len(s.queue)))
	live := 0
	for _, w := range s.workers {
		if w.State != cluster.WorkerUnreachable {
			live++
		}
	}
	s.metrics.LiveWorkers.Set(float64(live))
	s.metrics.LiveObjStores.Set(float64(len(s.stores)))
	s.metrics.LiveObjRefs.Set(float64(int64(s.objrefIDs.Peek()) - s.retired.Load()))
}

// eligibleIdleWorkers returns the idle workers eligible for fn, lowest
// worker id first (spec §4.1.1 step 2 secondary tie-break).
func (s *State) eligibleIdleWorkers(fn string) []cmn.WorkerId {
	_, eligible, known := s.functions.Lookup(fn)
	if !known {
		return nil
	}
	var out []cmn.WorkerId
	for id := range eligible {
		w, ok := s.workers[id]
		if ok && w.State == cluster.WorkerIdle {
			out = append(out, id)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

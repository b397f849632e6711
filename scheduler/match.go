package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nvaistore-labs/taskmesh/cluster"
	"github.com/nvaistore-labs/taskmesh/cmn"
	"github.com/nvaistore-labs/taskmesh/rpcpb"
)

// runSchedulingPass implements spec §4.1.1. Callers must hold s.mu; it
// returns with s.mu still held. Network calls it triggers (ExecuteTask,
// StartDelivery) are handed to goroutines that reacquire the lock only
// to read/write bookkeeping, never while blocked on the wire.
func (s *State) runSchedulingPass() {
	var remaining []cmn.OperationId
	for _, opID := range s.queue {
		task, ok := s.tasks[opID]
		if !ok {
			continue
		}
		workerID, matched := s.matchWorker(task)
		if !matched {
			remaining = append(remaining, opID)
			continue
		}
		worker := s.workers[workerID]
		missing := s.missingRefs(task, worker.ObjStoreID)

		worker.State = cluster.WorkerBusy
		worker.CurrentTask = opID
		task.AssignedWorker = workerID

		if len(missing) == 0 {
			task.Status = cluster.TaskRunning
			go s.dispatch(opID, workerID)
			continue
		}
		task.SetPendingTransfer(true)
		go s.driveDelivery(opID)
		// dropped from the queue: driveDelivery dispatches it once its
		// arguments land (or fails it), so it is not re-matched while
		// pending (spec §4.1.1 rationale).
	}
	s.queue = remaining
	s.refreshGauges()
}

// matchWorker picks the idle, eligible worker holding the most of
// task's ObjRef arguments locally, lowest worker id breaking ties
// (spec §4.1.1 steps 1-2). Returns ok=false if no worker is eligible
// and idle, or any ref argument is not yet ready.
func (s *State) matchWorker(task *cluster.Task) (cmn.WorkerId, bool) {
	for _, ref := range task.RefArgs() {
		ready, err := s.objrefs.IsReady(ref)
		if err != nil || !ready {
			return 0, false
		}
	}
	idle := s.eligibleIdleWorkers(task.FunctionName)
	if len(idle) == 0 {
		return 0, false
	}
	best := idle[0]
	bestCount := -1
	for _, id := range idle {
		w := s.workers[id]
		count := s.localRefCount(task, w.ObjStoreID)
		if count > bestCount {
			bestCount = count
			best = id
		}
	}
	return best, true
}

func (s *State) localRefCount(task *cluster.Task, store cmn.ObjStoreId) int {
	n := 0
	for _, ref := range task.RefArgs() {
		if s.hasLocation(ref, store) {
			n++
		}
	}
	return n
}

func (s *State) missingRefs(task *cluster.Task, store cmn.ObjStoreId) []cmn.ObjRef {
	var out []cmn.ObjRef
	for _, ref := range task.RefArgs() {
		if !s.hasLocation(ref, store) {
			out = append(out, ref)
		}
	}
	return out
}

func (s *State) hasLocation(ref cmn.ObjRef, store cmn.ObjStoreId) bool {
	locs, err := s.objrefs.Locations(ref)
	if err != nil {
		return false
	}
	for _, l := range locs {
		if l == store {
			return true
		}
	}
	return false
}

// driveDelivery pulls every missing argument of a pending-transfer task
// onto its assigned worker's store, in parallel (golang.org/x/sync's
// errgroup, one goroutine per missing argument with no concurrency
// limit; the same fan-out shape the teacher uses for
// parallel Smap health probing), then completes the match.
func (s *State) driveDelivery(opID cmn.OperationId) {
	s.mu.Lock()
	task, ok := s.tasks[opID]
	if !ok {
		s.mu.Unlock()
		return
	}
	worker := s.workers[task.AssignedWorker]
	destAddr := worker.Address
	destStore := worker.ObjStoreID
	missing := s.missingRefs(task, destStore)
	s.mu.Unlock()

	var g errgroup.Group
	for _, ref := range missing {
		ref := ref
		g.Go(func() error { return s.deliverOne(ref, destAddr, destStore) })
	}
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failTask(task, err.Error())
		worker.State = cluster.WorkerIdle
		worker.CurrentTask = 0
		if s.metrics != nil {
			s.metrics.DeliveryFailures.Inc()
		}
		s.refreshGauges()
		return
	}
	task.SetPendingTransfer(false)
	task.Status = cluster.TaskRunning
	go s.dispatch(opID, task.AssignedWorker)
}

func (s *State) deliverOne(ref cmn.ObjRef, destAddr string, destStore cmn.ObjStoreId) error {
	pick := func(excluded map[cmn.ObjStoreId]struct{}) (cluster.ObjStoreRecord, bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		locs, err := s.objrefs.Locations(ref)
		if err != nil {
			return cluster.ObjStoreRecord{}, false
		}
		for _, id := range locs {
			if id == destStore {
				continue
			}
			if _, bad := excluded[id]; bad {
				continue
			}
			if rec, ok := s.stores[id]; ok {
				return *rec, true
			}
		}
		return cluster.ObjStoreRecord{}, false
	}
	call := func(ctx context.Context, destAddr, srcAddr string, objref cmn.ObjRef) error {
		cli, err := s.conns.ObjStoreClient(destAddr)
		if err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.DeliveriesTotal.Inc()
		}
		_, err = cli.StartDelivery(ctx, &rpcpb.StartDeliveryRequest{SrcAddr: srcAddr, ObjRef: ref})
		return err
	}
	return s.delivery.Deliver(context.Background(), ref, destAddr, pick, call)
}

// dispatch issues ExecuteTask to the chosen worker (spec §4.1.1 step 4).
// Called without s.mu held.
func (s *State) dispatch(opID cmn.OperationId, workerID cmn.WorkerId) {
	s.mu.Lock()
	task := s.tasks[opID]
	worker := s.workers[workerID]
	req := &rpcpb.ExecuteTaskRequest{
		OperationID:   opID,
		FunctionName:  task.FunctionName,
		Args:          toWireArgs(task.Args),
		ResultObjRefs: task.ResultObjRefs,
	}
	addr := worker.Address
	s.mu.Unlock()

	cli, err := s.conns.WorkerClient(addr)
	if err == nil {
		_, err = cli.ExecuteTask(context.Background(), req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failTask(task, err.Error())
		worker.State = cluster.WorkerIdle
		worker.CurrentTask = 0
		s.refreshGauges()
		return
	}
	if s.metrics != nil {
		s.metrics.TasksDispatched.Inc()
	}
}

// failTask records a task failure on the task and every result ref
// (spec §4.3, §7 TaskFailure / TransferFailure-promoted-to-TaskFailure).
func (s *State) failTask(task *cluster.Task, msg string) {
	task.Status = cluster.TaskFailed
	task.ErrorMessage = msg
	for _, r := range task.ResultObjRefs {
		s.objrefs.MarkFailed(r, task.OperationID, msg)
	}
	if s.metrics != nil {
		s.metrics.TasksFailed.Inc()
	}
	s.releaseTaskArgs(task)
}

// releaseTaskArgs drops the per-task hold SubmitTask placed on each ref
// argument (spec §4.1: held "for the lifetime of the task") once the
// task reaches a terminal state, succeeded or failed. Must be called
// with s.mu held.
func (s *State) releaseTaskArgs(task *cluster.Task) {
	for _, r := range task.RefArgs() {
		deallocs, err := s.objrefs.Decrement(r, -1)
		if err != nil {
			continue
		}
		s.processDeallocations(deallocs)
	}
}

func toWireArgs(args []cluster.Arg) []rpcpb.TaskArg {
	out := make([]rpcpb.TaskArg, len(args))
	for i, a := range args {
		out[i] = rpcpb.TaskArg{IsRef: a.IsRef, Literal: a.Literal, Ref: a.Ref}
	}
	return out
}

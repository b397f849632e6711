package scheduler

import (
	"testing"

	"github.com/nvaistore-labs/taskmesh/cluster"
	"github.com/nvaistore-labs/taskmesh/cmn"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	gco, err := cmn.NewGCO("")
	if err != nil {
		t.Fatalf("NewGCO: %v", err)
	}
	return NewState(gco, nil)
}

func addIdleWorker(s *State, id cmn.WorkerId, store cmn.ObjStoreId, fn string, arity int) {
	s.workers[id] = &cluster.Worker{ID: id, State: cluster.WorkerIdle, ObjStoreID: store}
	s.stores[store] = &cluster.ObjStoreRecord{ID: store}
	_ = s.functions.Register(fn, id, arity)
}

func TestMatchWorkerRejectsWhenNoRefArgsReady(t *testing.T) {
	s := newTestState(t)
	addIdleWorker(s, 1, 100, "id", 1)
	s.objrefs.NewCanonical(1, 0) // never marked ready

	task := &cluster.Task{FunctionName: "id", Args: []cluster.Arg{{IsRef: true, Ref: 1}}}
	if _, ok := s.matchWorker(task); ok {
		t.Fatalf("matchWorker should refuse a task with a not-ready ref argument")
	}
}

func TestMatchWorkerPrefersMostLocalRefs(t *testing.T) {
	s := newTestState(t)
	addIdleWorker(s, 1, 100, "concat", 2)
	addIdleWorker(s, 2, 200, "concat", 2)

	s.objrefs.NewCanonical(1, 0)
	s.objrefs.NewCanonical(2, 0)
	// ref 1 lives on both stores; ref 2 only on store 200 (worker 2's store).
	if _, err := s.objrefs.MarkReady(1, 100); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}
	if _, err := s.objrefs.MarkReady(1, 200); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}
	if _, err := s.objrefs.MarkReady(2, 200); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}

	task := &cluster.Task{FunctionName: "concat", Args: []cluster.Arg{
		{IsRef: true, Ref: 1},
		{IsRef: true, Ref: 2},
	}}
	worker, ok := s.matchWorker(task)
	if !ok {
		t.Fatalf("matchWorker failed to match")
	}
	if worker != 2 {
		t.Fatalf("matchWorker picked worker %d, want 2 (holds both ref args locally)", worker)
	}
}

func TestMatchWorkerBreaksTiesOnLowestWorkerID(t *testing.T) {
	s := newTestState(t)
	addIdleWorker(s, 5, 100, "id", 1)
	addIdleWorker(s, 3, 200, "id", 1)
	addIdleWorker(s, 9, 300, "id", 1)

	s.objrefs.NewCanonical(1, 0)
	if _, err := s.objrefs.MarkReady(1, 999); err != nil { // no worker holds it locally: all tied at 0
		t.Fatalf("MarkReady: %v", err)
	}

	task := &cluster.Task{FunctionName: "id", Args: []cluster.Arg{{IsRef: true, Ref: 1}}}
	worker, ok := s.matchWorker(task)
	if !ok {
		t.Fatalf("matchWorker failed to match")
	}
	if worker != 3 {
		t.Fatalf("matchWorker picked worker %d, want 3 (lowest id among tied candidates)", worker)
	}
}

func TestMatchWorkerIgnoresBusyWorkers(t *testing.T) {
	s := newTestState(t)
	addIdleWorker(s, 1, 100, "id", 1)
	s.workers[1].State = cluster.WorkerBusy

	task := &cluster.Task{FunctionName: "id"}
	if _, ok := s.matchWorker(task); ok {
		t.Fatalf("matchWorker should not match a busy worker")
	}
}

func TestMatchWorkerIgnoresIneligibleWorkers(t *testing.T) {
	s := newTestState(t)
	addIdleWorker(s, 1, 100, "concat", 2)

	task := &cluster.Task{FunctionName: "id"} // worker 1 never registered "id"
	if _, ok := s.matchWorker(task); ok {
		t.Fatalf("matchWorker should not match a worker ineligible for the function")
	}
}

func TestMissingRefsReportsOnlyAbsentLocations(t *testing.T) {
	s := newTestState(t)
	s.objrefs.NewCanonical(1, 0)
	s.objrefs.NewCanonical(2, 0)
	if _, err := s.objrefs.MarkReady(1, 100); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}

	task := &cluster.Task{Args: []cluster.Arg{{IsRef: true, Ref: 1}, {IsRef: true, Ref: 2}}}
	missing := s.missingRefs(task, 100)
	if len(missing) != 1 || missing[0] != 2 {
		t.Fatalf("missingRefs = %v, want [2]", missing)
	}
}

func TestRunSchedulingPassDispatchesWhenArgsAlreadyLocal(t *testing.T) {
	s := newTestState(t)
	addIdleWorker(s, 1, 100, "id", 1)
	s.objrefs.NewCanonical(1, 0)
	if _, err := s.objrefs.MarkReady(1, 100); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}

	task := &cluster.Task{OperationID: 1, FunctionName: "id", Args: []cluster.Arg{{IsRef: true, Ref: 1}}}
	s.tasks[1] = task
	s.queue = []cmn.OperationId{1}

	s.mu.Lock()
	s.runSchedulingPass()
	s.mu.Unlock()

	if len(s.queue) != 0 {
		t.Fatalf("queue = %v, want empty after a successful match", s.queue)
	}
	if s.workers[1].State != cluster.WorkerBusy {
		t.Fatalf("worker state = %v, want busy", s.workers[1].State)
	}
	if task.PendingTransfer() {
		t.Fatalf("task should not be pending-transfer when all args were already local")
	}
}

func TestRunSchedulingPassLeavesUnmatchableTasksQueued(t *testing.T) {
	s := newTestState(t)
	task := &cluster.Task{OperationID: 1, FunctionName: "id"}
	s.tasks[1] = task
	s.queue = []cmn.OperationId{1}

	s.mu.Lock()
	s.runSchedulingPass()
	s.mu.Unlock()

	if len(s.queue) != 1 {
		t.Fatalf("queue = %v, want task still queued (no eligible worker exists)", s.queue)
	}
}

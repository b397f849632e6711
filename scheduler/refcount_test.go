package scheduler

import (
	"context"
	"testing"

	"github.com/nvaistore-labs/taskmesh/cluster"
	"github.com/nvaistore-labs/taskmesh/rpcpb"
)

// TestFailTaskReleasesArgRefcount verifies that a task's terminal failure
// drops the per-task hold SubmitTask placed on each ref argument, so the
// cascade can eventually retire it once every other holder lets go.
func TestFailTaskReleasesArgRefcount(t *testing.T) {
	s := newTestState(t)
	s.objrefs.NewCanonical(1, 1) // submitter's own hold
	if err := s.objrefs.Increment(1, 1); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if _, err := s.objrefs.MarkReady(1, 100); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}

	task := &cluster.Task{OperationID: 1, Args: []cluster.Arg{{IsRef: true, Ref: 1}}}
	s.failTask(task, "boom")

	// the task's hold is gone, but the submitter's own hold keeps it alive.
	deallocs, err := s.objrefs.Decrement(1, 0)
	if err != nil {
		t.Fatalf("Decrement: %v", err)
	}
	if len(deallocs) != 0 {
		t.Fatalf("ref retired before the submitter released its hold: %v", deallocs)
	}

	deallocs, err = s.objrefs.Decrement(1, -1)
	if err != nil {
		t.Fatalf("Decrement: %v", err)
	}
	if len(deallocs) != 1 || deallocs[0].Canonical != 1 {
		t.Fatalf("Decrement after releasing submitter hold = %v, want one dealloc for ref 1", deallocs)
	}
}

// TestReadyForNewTaskSuccessReleasesArgRefcount covers the success half
// of the same fix: SubmitTask's per-arg Increment must be matched by a
// release when ReadyForNewTask reports the previous task succeeded.
func TestReadyForNewTaskSuccessReleasesArgRefcount(t *testing.T) {
	s := newTestState(t)
	addIdleWorker(s, 1, 100, "id", 1)
	s.objrefs.NewCanonical(1, 1) // submitter's own hold
	if err := s.objrefs.Increment(1, 1); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if _, err := s.objrefs.MarkReady(1, 100); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}

	task := &cluster.Task{OperationID: 7, Args: []cluster.Arg{{IsRef: true, Ref: 1}}, Status: cluster.TaskRunning}
	s.tasks[7] = task
	s.workers[1].State = cluster.WorkerBusy
	s.workers[1].CurrentTask = 7

	h := NewServer(s)
	_, err := h.ReadyForNewTask(context.Background(), &rpcpb.ReadyForNewTaskRequest{
		WorkerID: 1,
		PrevTask: &rpcpb.PrevTaskInfo{OperationID: 7, Succeeded: true},
	})
	if err != nil {
		t.Fatalf("ReadyForNewTask: %v", err)
	}
	if task.Status != cluster.TaskSucceeded {
		t.Fatalf("task.Status = %v, want TaskSucceeded", task.Status)
	}

	deallocs, err := s.objrefs.Decrement(1, -1)
	if err != nil {
		t.Fatalf("Decrement: %v", err)
	}
	if len(deallocs) != 1 || deallocs[0].Canonical != 1 {
		t.Fatalf("Decrement after ReadyForNewTask success = %v, want one dealloc for ref 1 (task hold already released)", deallocs)
	}
}

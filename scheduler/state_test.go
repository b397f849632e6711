package scheduler

import (
	"testing"

	"github.com/nvaistore-labs/taskmesh/cluster"
)

func TestEligibleIdleWorkersSortedAscending(t *testing.T) {
	s := newTestState(t)
	addIdleWorker(s, 9, 100, "id", 1)
	addIdleWorker(s, 2, 200, "id", 1)
	addIdleWorker(s, 5, 300, "id", 1)

	got := s.eligibleIdleWorkers("id")
	want := []uint64{2, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("eligibleIdleWorkers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("eligibleIdleWorkers = %v, want %v", got, want)
		}
	}
}

func TestEligibleIdleWorkersExcludesBusyAndUnknownFunctions(t *testing.T) {
	s := newTestState(t)
	addIdleWorker(s, 1, 100, "id", 1)
	addIdleWorker(s, 2, 200, "id", 1)
	s.workers[2].State = cluster.WorkerBusy

	got := s.eligibleIdleWorkers("id")
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("eligibleIdleWorkers = %v, want [1]", got)
	}

	if got := s.eligibleIdleWorkers("nope"); got != nil {
		t.Fatalf("eligibleIdleWorkers(unknown) = %v, want nil", got)
	}
}

func TestRefreshGaugesNoopWithoutMetrics(t *testing.T) {
	s := newTestState(t)
	s.refreshGauges() // must not panic when metrics is nil
}

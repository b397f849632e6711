package scheduler

import (
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/nvaistore-labs/taskmesh/cmn"
)

// Heartbeats tracks the last time the scheduler heard from each worker
// (RegisterWorker and ReadyForNewTask touch it; object stores are not
// tracked). It has no counterpart in spec.md (SPEC_FULL §4
// "Worker/store keepalive"); shaped like the teacher's HBTracker: a
// plain last-seen timestamp per id, swept periodically rather than one
// timer per node, which is what `ais/keepalive.go`'s AvgTracker also
// avoids for the same reason (timer-per-node does not scale with
// cluster size).
type Heartbeats struct {
	mu       sync.Mutex
	lastSeen map[cmn.WorkerId]time.Time
	timeout  time.Duration
}

func NewHeartbeats(timeout time.Duration) *Heartbeats {
	return &Heartbeats{lastSeen: make(map[cmn.WorkerId]time.Time), timeout: timeout}
}

func (h *Heartbeats) Touch(id cmn.WorkerId) {
	h.mu.Lock()
	h.lastSeen[id] = time.Now()
	h.mu.Unlock()
}

func (h *Heartbeats) Forget(id cmn.WorkerId) {
	h.mu.Lock()
	delete(h.lastSeen, id)
	h.mu.Unlock()
}

// Expired returns the ids that have missed their keepalive window.
func (h *Heartbeats) Expired() []cmn.WorkerId {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	var out []cmn.WorkerId
	for id, t := range h.lastSeen {
		if now.Sub(t) > h.timeout {
			out = append(out, id)
		}
	}
	return out
}

// Sweep runs Expired on every interval tick and invokes onExpired for
// each id found, until stopCh closes. Callers register their own
// onExpired to fold the result back into scheduler state under its lock.
func (h *Heartbeats) Sweep(interval time.Duration, stopCh <-chan struct{}, onExpired func(cmn.WorkerId)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			for _, id := range h.Expired() {
				glog.Warningf("worker/store %d missed keepalive window, marking unreachable", id)
				onExpired(id)
			}
		case <-stopCh:
			return
		}
	}
}

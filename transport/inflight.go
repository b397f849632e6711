package transport

import (
	"sync"

	"github.com/nvaistore-labs/taskmesh/cmn"
)

// InFlight tracks deliveries currently being pulled into this store, so
// a second StartDelivery for the same canonical ref attaches to the
// existing transfer instead of starting a duplicate one (spec §5
// "second call is a no-op that attaches to the existing transfer",
// §8 round-trip property). Shaped like the teacher's stream collector
// (transport/collect.go) map-of-in-progress-work, minus the idle-timer
// teardown since our transfers are request/response rather than
// long-lived idle-checked sessions.
type InFlight struct {
	mu      sync.Mutex
	waiters map[cmn.ObjRef][]chan error
}

func NewInFlight() *InFlight {
	return &InFlight{waiters: make(map[cmn.ObjRef][]chan error)}
}

// Begin registers objref as in-flight. If it already is, the returned
// channel will be closed (nil error) or receive an error when the
// existing transfer completes, and started is false so the caller
// knows not to start a second stream pull.
func (f *InFlight) Begin(objref cmn.ObjRef) (wait <-chan error, started bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan error, 1)
	existing, inProgress := f.waiters[objref]
	f.waiters[objref] = append(existing, ch)
	return ch, !inProgress
}

// Done completes objref's transfer, waking every attached waiter with
// err (nil on success).
func (f *InFlight) Done(objref cmn.ObjRef, err error) {
	f.mu.Lock()
	waiters := f.waiters[objref]
	delete(f.waiters, objref)
	f.mu.Unlock()
	for _, ch := range waiters {
		ch <- err
		close(ch)
	}
}

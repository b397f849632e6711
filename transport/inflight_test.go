package transport

import "testing"

func TestInFlightFirstCallStarts(t *testing.T) {
	f := NewInFlight()
	_, started := f.Begin(1)
	if !started {
		t.Fatalf("first Begin() for a ref should start the transfer")
	}
}

func TestInFlightSecondCallAttaches(t *testing.T) {
	f := NewInFlight()
	wait1, started1 := f.Begin(1)
	wait2, started2 := f.Begin(1)
	if !started1 {
		t.Fatalf("first Begin() should start")
	}
	if started2 {
		t.Fatalf("second concurrent Begin() for the same ref should attach, not start")
	}

	f.Done(1, nil)

	if err := <-wait1; err != nil {
		t.Fatalf("wait1 got %v, want nil", err)
	}
	if err := <-wait2; err != nil {
		t.Fatalf("wait2 got %v, want nil", err)
	}
}

func TestInFlightPropagatesFailure(t *testing.T) {
	f := NewInFlight()
	wait, _ := f.Begin(1)
	sentinel := errSentinel{}
	f.Done(1, sentinel)
	if err := <-wait; err != sentinel {
		t.Fatalf("wait got %v, want sentinel error", err)
	}
}

type errSentinel struct{}

func (errSentinel) Error() string { return "sentinel" }

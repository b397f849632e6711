package xreg

import "testing"

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("id", 1, 1); err != nil {
		t.Fatalf("Register: %v", err)
	}
	arity, eligible, known := r.Lookup("id")
	if !known {
		t.Fatalf("Lookup(id) not known after Register")
	}
	if arity != 1 {
		t.Fatalf("arity = %d, want 1", arity)
	}
	if _, ok := eligible[1]; !ok {
		t.Fatalf("worker 1 missing from eligible set")
	}
}

func TestRegisterArityMismatchRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("concat", 1, 2); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("concat", 2, 3); err == nil {
		t.Fatalf("expected arity mismatch error")
	}
}

func TestLookupUnknownFunction(t *testing.T) {
	r := NewRegistry()
	if _, _, known := r.Lookup("nope"); known {
		t.Fatalf("Lookup(nope) should be unknown")
	}
}

func TestIsEligible(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("id", 1, 1)
	if !r.IsEligible("id", 1) {
		t.Fatalf("worker 1 should be eligible for id")
	}
	if r.IsEligible("id", 2) {
		t.Fatalf("worker 2 should not be eligible for id")
	}
	if r.IsEligible("nope", 1) {
		t.Fatalf("unknown function should report ineligible")
	}
}

func TestRemoveWorkerDropsFromEverySet(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("id", 1, 1)
	_ = r.Register("concat", 1, 2)
	r.RemoveWorker(1)
	if r.IsEligible("id", 1) || r.IsEligible("concat", 1) {
		t.Fatalf("RemoveWorker did not drop worker from all functions")
	}
}

func TestLookupReturnsACopy(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("id", 1, 1)
	_, eligible, _ := r.Lookup("id")
	eligible[2] = struct{}{}
	if r.IsEligible("id", 2) {
		t.Fatalf("mutating Lookup's returned map leaked into the registry")
	}
}

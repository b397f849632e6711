package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/nvaistore-labs/taskmesh/cluster"
	"github.com/nvaistore-labs/taskmesh/cmn"
)

func TestDeliverSucceedsOnFirstSource(t *testing.T) {
	o := NewOrchestrator(3)
	stores := []cluster.ObjStoreRecord{{ID: 1, Address: "a"}}
	pick := func(excluded map[cmn.ObjStoreId]struct{}) (cluster.ObjStoreRecord, bool) {
		for _, s := range stores {
			if _, out := excluded[s.ID]; !out {
				return s, true
			}
		}
		return cluster.ObjStoreRecord{}, false
	}
	calls := 0
	call := func(ctx context.Context, destAddr, srcAddr string, objref cmn.ObjRef) error {
		calls++
		return nil
	}
	if err := o.Deliver(context.Background(), 1, "dest", pick, call); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDeliverRetriesWithDifferentSource(t *testing.T) {
	o := NewOrchestrator(3)
	stores := []cluster.ObjStoreRecord{{ID: 1, Address: "a"}, {ID: 2, Address: "b"}}
	pick := func(excluded map[cmn.ObjStoreId]struct{}) (cluster.ObjStoreRecord, bool) {
		for _, s := range stores {
			if _, out := excluded[s.ID]; !out {
				return s, true
			}
		}
		return cluster.ObjStoreRecord{}, false
	}
	var tried []string
	call := func(ctx context.Context, destAddr, srcAddr string, objref cmn.ObjRef) error {
		tried = append(tried, srcAddr)
		if srcAddr == "a" {
			return errors.New("store 1 unreachable")
		}
		return nil
	}
	if err := o.Deliver(context.Background(), 1, "dest", pick, call); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if len(tried) != 2 || tried[0] != "a" || tried[1] != "b" {
		t.Fatalf("tried = %v, want [a b]", tried)
	}
}

func TestDeliverExhaustsRetryBudget(t *testing.T) {
	o := NewOrchestrator(2)
	stores := []cluster.ObjStoreRecord{{ID: 1, Address: "a"}, {ID: 2, Address: "b"}, {ID: 3, Address: "c"}}
	pick := func(excluded map[cmn.ObjStoreId]struct{}) (cluster.ObjStoreRecord, bool) {
		for _, s := range stores {
			if _, out := excluded[s.ID]; !out {
				return s, true
			}
		}
		return cluster.ObjStoreRecord{}, false
	}
	calls := 0
	call := func(ctx context.Context, destAddr, srcAddr string, objref cmn.ObjRef) error {
		calls++
		return errors.New("always fails")
	}
	err := o.Deliver(context.Background(), 7, "dest", pick, call)
	if err == nil {
		t.Fatalf("expected a transfer failure")
	}
	var transferErr *cmn.ErrTransferFailure
	if !errors.As(err, &transferErr) {
		t.Fatalf("err = %v, want *cmn.ErrTransferFailure", err)
	}
	if len(transferErr.Tried) != 2 {
		t.Fatalf("Tried = %v, want 2 entries (bounded by retry budget)", transferErr.Tried)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestDeliverStopsWhenSourcesExhausted(t *testing.T) {
	o := NewOrchestrator(5)
	stores := []cluster.ObjStoreRecord{{ID: 1, Address: "a"}}
	pick := func(excluded map[cmn.ObjStoreId]struct{}) (cluster.ObjStoreRecord, bool) {
		for _, s := range stores {
			if _, out := excluded[s.ID]; !out {
				return s, true
			}
		}
		return cluster.ObjStoreRecord{}, false
	}
	calls := 0
	call := func(ctx context.Context, destAddr, srcAddr string, objref cmn.ObjRef) error {
		calls++
		return errors.New("unreachable")
	}
	err := o.Deliver(context.Background(), 1, "dest", pick, call)
	if err == nil {
		t.Fatalf("expected failure")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (only one distinct source existed)", calls)
	}
}

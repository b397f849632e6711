package objstore

import (
	"context"
	"testing"

	"google.golang.org/grpc"

	"github.com/nvaistore-labs/taskmesh/cmn"
	"github.com/nvaistore-labs/taskmesh/rpcpb"
)

// fakeSchedulerClient records ObjReady calls; every other method is
// unused by these tests and left to the embedded nil interface.
type fakeSchedulerClient struct {
	rpcpb.SchedulerClient
	objReadyCalls []*rpcpb.ObjReadyRequest
}

func (f *fakeSchedulerClient) ObjReady(ctx context.Context, req *rpcpb.ObjReadyRequest, opts ...grpc.CallOption) (*rpcpb.ObjReadyResponse, error) {
	f.objReadyCalls = append(f.objReadyCalls, req)
	return &rpcpb.ObjReadyResponse{}, nil
}

func newTestStore(sched rpcpb.SchedulerClient) *Store {
	cfg := cmn.Config{ChunkSizeBytes: 1 << 20}
	return NewStore(1, "store-addr", sched, cfg)
}

func TestResolveLocalFollowsAliasChainWithCompression(t *testing.T) {
	s := newTestStore(&fakeSchedulerClient{})
	s.NotifyAlias(2, 1)
	s.NotifyAlias(3, 2)

	if got := s.resolveLocal(3); got != 1 {
		t.Fatalf("resolveLocal(3) = %d, want 1", got)
	}
	// path compression: 2 should now point directly at 1.
	s.mu.RLock()
	direct := s.aliases[2]
	s.mu.RUnlock()
	if direct != 1 {
		t.Fatalf("alias 2 not compressed: points at %d, want 1", direct)
	}
}

func TestWriteObjThenGetObjReturnsData(t *testing.T) {
	fake := &fakeSchedulerClient{}
	s := newTestStore(fake)

	if err := s.WriteObj(context.Background(), 1, 4, []byte("hello world")); err != nil {
		t.Fatalf("WriteObj: %v", err)
	}
	if len(fake.objReadyCalls) != 1 || fake.objReadyCalls[0].ObjRef != 1 {
		t.Fatalf("ObjReady calls = %+v, want one call for objref 1", fake.objReadyCalls)
	}

	data, metaOffset, err := s.GetObj(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetObj: %v", err)
	}
	if string(data) != "hello world" || metaOffset != 4 {
		t.Fatalf("GetObj = (%q, %d), want (\"hello world\", 4)", data, metaOffset)
	}
}

func TestWriteObjRejectsDoubleFinalize(t *testing.T) {
	s := newTestStore(&fakeSchedulerClient{})
	if err := s.WriteObj(context.Background(), 1, 0, []byte("a")); err != nil {
		t.Fatalf("WriteObj: %v", err)
	}
	if err := s.WriteObj(context.Background(), 1, 0, []byte("b")); err == nil {
		t.Fatalf("expected error on second WriteObj for the same canonical")
	}
}

func TestGetObjUnblocksOnContextCancel(t *testing.T) {
	s := newTestStore(&fakeSchedulerClient{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := s.GetObj(ctx, 99); err == nil {
		t.Fatalf("expected context error for a payload that never finalizes")
	}
}

func TestDeallocateObjectRemovesPayload(t *testing.T) {
	s := newTestStore(&fakeSchedulerClient{})
	if err := s.WriteObj(context.Background(), 1, 0, []byte("a")); err != nil {
		t.Fatalf("WriteObj: %v", err)
	}
	s.DeallocateObject(1)
	entries := s.Info([]cmn.ObjRef{1})
	if len(entries) != 0 {
		t.Fatalf("Info after DeallocateObject = %+v, want empty", entries)
	}
}

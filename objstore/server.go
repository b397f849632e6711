package objstore

import (
	"context"

	"github.com/nvaistore-labs/taskmesh/cmn"
	"github.com/nvaistore-labs/taskmesh/rpcpb"
	"github.com/nvaistore-labs/taskmesh/transport"
)

// Server adapts Store to the rpcpb.ObjStoreServer wire interface.
type Server struct {
	store *Store
}

func NewServer(store *Store) *Server { return &Server{store: store} }

var _ rpcpb.ObjStoreServer = (*Server)(nil)

// StartDelivery dedups concurrent requests for the same ref (spec §5)
// and otherwise performs the pull synchronously, so transport failures
// bubble straight back to the scheduler's delivery.Orchestrator for
// retry with a different source (spec §5 "peer RPC failures bubble up
// to the scheduler, which retries StartDelivery ... with a different
// source store").
func (h *Server) StartDelivery(ctx context.Context, req *rpcpb.StartDeliveryRequest) (*rpcpb.StartDeliveryResponse, error) {
	wait, started := h.store.inflight.Begin(req.ObjRef)
	if !started {
		select {
		case err := <-wait:
			if err != nil {
				return nil, err
			}
			return &rpcpb.StartDeliveryResponse{}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	err := h.store.pullFrom(ctx, req.SrcAddr, req.ObjRef)
	h.store.inflight.Done(req.ObjRef, err)
	if err != nil {
		return nil, err
	}
	return &rpcpb.StartDeliveryResponse{}, nil
}

// StreamObjTo serves a finalized local payload as a chunk sequence
// (spec §4.2 L2: "only finalized payloads may be streamed outbound").
func (h *Server) StreamObjTo(req *rpcpb.StreamObjToRequest, stream rpcpb.ObjStore_StreamObjToServer) error {
	canon := h.store.resolveLocal(req.ObjRef)
	h.store.mu.RLock()
	p, ok := h.store.payloads[canon]
	h.store.mu.RUnlock()
	if !ok || !p.finalized {
		return &cmn.ErrProtocolViolation{Detail: "StreamObjTo: ref not finalized locally"}
	}

	cfg := h.store.cfg
	chunker := transport.NewChunker(p.totalSize, p.metadataOffset, cfg.ChunkSizeBytes, cfg.CompressChunksAboveBytes)
	for _, c := range chunker.Split(p.data) {
		wire := &rpcpb.ObjChunk{TotalSize: c.TotalSize, MetadataOffset: c.MetadataOffset, Data: c.Data, Compressed: c.Compressed}
		if err := stream.Send(wire); err != nil {
			return err
		}
	}
	return nil
}

func (h *Server) NotifyAlias(ctx context.Context, req *rpcpb.NotifyAliasRequest) (*rpcpb.NotifyAliasResponse, error) {
	h.store.NotifyAlias(req.Alias, req.Canonical)
	return &rpcpb.NotifyAliasResponse{}, nil
}

func (h *Server) DeallocateObject(ctx context.Context, req *rpcpb.DeallocateObjectRequest) (*rpcpb.DeallocateObjectResponse, error) {
	h.store.DeallocateObject(req.Canonical)
	return &rpcpb.DeallocateObjectResponse{}, nil
}

func (h *Server) ObjStoreInfo(ctx context.Context, req *rpcpb.ObjStoreInfoRequest) (*rpcpb.ObjStoreInfoResponse, error) {
	entries := h.store.Info(req.ObjRefs)
	out := make([]rpcpb.ObjEntry, len(entries))
	for i, e := range entries {
		out[i] = rpcpb.ObjEntry{ObjRef: e.ObjRef, Finalized: e.Finalized, TotalSize: e.TotalSize, Checksum: e.Checksum}
	}
	return &rpcpb.ObjStoreInfoResponse{Entries: out}, nil
}

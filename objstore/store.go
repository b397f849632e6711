package objstore

import (
	"context"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nvaistore-labs/taskmesh/cmn"
	"github.com/nvaistore-labs/taskmesh/rpcpb"
	"github.com/nvaistore-labs/taskmesh/transport"
)

// Store is the per-node authority over local object payloads (spec §5
// "the map from ObjRef to payload is guarded by a reader-writer
// discipline; finalized payloads are read-only so streaming reads
// require no lock beyond lookup"). It also holds the local mirror of
// the alias graph the scheduler tells it about via NotifyAlias, and
// in-flight transfer dedup (spec §5 "second call is a no-op that
// attaches to the existing transfer").
type Store struct {
	id   cmn.ObjStoreId
	addr string
	cfg  cmn.Config

	mu       sync.RWMutex
	payloads map[cmn.ObjRef]*payload
	aliases  map[cmn.ObjRef]cmn.ObjRef

	inflight  *transport.InFlight
	scheduler rpcpb.SchedulerClient
	peerConns *peerConnCache
}

func NewStore(id cmn.ObjStoreId, addr string, scheduler rpcpb.SchedulerClient, cfg cmn.Config) *Store {
	return &Store{
		id:        id,
		addr:      addr,
		cfg:       cfg,
		payloads:  make(map[cmn.ObjRef]*payload),
		aliases:   make(map[cmn.ObjRef]cmn.ObjRef),
		inflight:  transport.NewInFlight(),
		scheduler: scheduler,
		peerConns: newPeerConnCache(),
	}
}

func (s *Store) ID() cmn.ObjStoreId { return s.id }

// resolveLocal follows the store's local alias mirror to its terminal
// target, with path compression, mirroring the scheduler's own
// cluster.ObjRefTable.Canonical but scoped to what this store has been
// told via NotifyAlias (spec §4.2: "If canonical is not yet finalized
// locally, the store records a pending alias").
func (s *Store) resolveLocal(r cmn.ObjRef) cmn.ObjRef {
	s.mu.RLock()
	var chain []cmn.ObjRef
	cur := r
	for {
		next, ok := s.aliases[cur]
		if !ok {
			break
		}
		chain = append(chain, cur)
		cur = next
	}
	s.mu.RUnlock()
	if len(chain) > 1 {
		s.mu.Lock()
		for _, node := range chain {
			s.aliases[node] = cur
		}
		s.mu.Unlock()
	}
	return cur
}

func (s *Store) getOrCreatePayload(canon cmn.ObjRef) *payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payloads[canon]
	if !ok {
		p = newPayload(canon)
		s.payloads[canon] = p
	}
	return p
}

// GetObj resolves r through the local alias mirror and blocks until the
// resulting canonical's payload is finalized locally, or ctx is done.
// This is the worker-side local call described in spec §4.3; it is not
// a wire RPC (co-located worker and store share memory).
func (s *Store) GetObj(ctx context.Context, r cmn.ObjRef) ([]byte, int64, error) {
	canon := s.resolveLocal(r)
	p := s.getOrCreatePayload(canon)
	select {
	case <-p.done:
		return p.data, p.metadataOffset, nil
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}

// WriteObj finalizes canon's payload locally (the worker's own output,
// per spec §4.3 "write the payload to the local store") and reports
// readiness to the scheduler, the same ObjReady call StartDelivery's
// pull path makes on completion.
func (s *Store) WriteObj(ctx context.Context, canon cmn.ObjRef, metadataOffset int64, data []byte) error {
	p := s.getOrCreatePayload(canon)
	s.mu.Lock()
	if p.finalized {
		s.mu.Unlock()
		return &cmn.ErrProtocolViolation{Detail: "WriteObj: payload already finalized"}
	}
	p.finalize(append([]byte(nil), data...), metadataOffset, cmn.ComputeChecksum(data))
	s.mu.Unlock()
	_, err := s.scheduler.ObjReady(ctx, &rpcpb.ObjReadyRequest{ObjRef: canon, ObjStoreID: s.id})
	return err
}

// NotifyAlias installs a local alias->canonical mapping (spec §4.2).
func (s *Store) NotifyAlias(alias, canonical cmn.ObjRef) {
	s.mu.Lock()
	s.aliases[alias] = canonical
	s.mu.Unlock()
}

// DeallocateObject frees canon's local payload (spec §4.2 "subsequent
// StreamObjTo for that ref fails").
func (s *Store) DeallocateObject(canon cmn.ObjRef) {
	s.mu.Lock()
	delete(s.payloads, canon)
	s.mu.Unlock()
}

// pullFrom performs the actual StartDelivery pull: dial the source
// store, stream its chunks into an Assembler, finalize locally on
// success. Dedup against concurrent callers for the same ref is the
// caller's responsibility (see server.go StartDelivery).
func (s *Store) pullFrom(ctx context.Context, srcAddr string, objref cmn.ObjRef) error {
	cli, err := s.peerConns.get(srcAddr)
	if err != nil {
		return cmn.Wrap(err, "dial source store")
	}
	stream, err := cli.StreamObjTo(ctx, &rpcpb.StreamObjToRequest{ObjRef: objref})
	if err != nil {
		return cmn.Wrap(err, "open StreamObjTo")
	}
	asm := transport.NewAssembler()
	err = rpcpb.DrainStreamObjTo(stream, func(c *rpcpb.ObjChunk) error {
		return asm.Append(transport.Chunk{
			TotalSize:      c.TotalSize,
			MetadataOffset: c.MetadataOffset,
			Data:           c.Data,
			Compressed:     c.Compressed,
		})
	})
	if err != nil {
		return cmn.Wrap(err, "stream chunks")
	}
	data, _, err := asm.Finalize()
	if err != nil {
		return cmn.Wrap(err, "finalize transfer")
	}
	return s.WriteObj(ctx, objref, asm.MetadataOffset(), data)
}

// ObjEntry snapshots one local payload for ObjStoreInfo.
type ObjEntry struct {
	ObjRef    cmn.ObjRef
	Finalized bool
	TotalSize int64
	Checksum  uint64
}

func (s *Store) Info(objrefs []cmn.ObjRef) []ObjEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(objrefs) == 0 {
		out := make([]ObjEntry, 0, len(s.payloads))
		for ref, p := range s.payloads {
			out = append(out, ObjEntry{ObjRef: ref, Finalized: p.finalized, TotalSize: p.totalSize, Checksum: p.checksum.Value})
		}
		return out
	}
	out := make([]ObjEntry, 0, len(objrefs))
	for _, ref := range objrefs {
		if p, ok := s.payloads[ref]; ok {
			out = append(out, ObjEntry{ObjRef: ref, Finalized: p.finalized, TotalSize: p.totalSize, Checksum: p.checksum.Value})
		}
	}
	return out
}

// peerConnCache memoizes outbound connections to peer object stores
// (source side of StartDelivery pulls), the store-side twin of
// scheduler.ConnCache.
type peerConnCache struct {
	mu    sync.Mutex
	conns map[string]rpcpb.ObjStoreClient
}

func newPeerConnCache() *peerConnCache {
	return &peerConnCache{conns: make(map[string]rpcpb.ObjStoreClient)}
}

func (c *peerConnCache) get(addr string) (rpcpb.ObjStoreClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cli, ok := c.conns[addr]; ok {
		return cli, nil
	}
	cc, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpcpb.CodecName)),
	)
	if err != nil {
		return nil, err
	}
	cli := rpcpb.NewObjStoreClient(cc)
	c.conns[addr] = cli
	return cli, nil
}

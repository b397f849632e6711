package scheduler

import (
	"context"

	"github.com/golang/glog"

	"github.com/nvaistore-labs/taskmesh/cluster"
	"github.com/nvaistore-labs/taskmesh/cmn"
	"github.com/nvaistore-labs/taskmesh/rpcpb"
)

// Server adapts State to the rpcpb.SchedulerServer wire interface. Every
// handler takes s.mu for its bookkeeping and releases it before this
// function returns network errors separately from state errors: network
// calls triggered by a pass never block an RPC handler itself.
type Server struct {
	s *State
}

func NewServer(s *State) *Server { return &Server{s: s} }

var _ rpcpb.SchedulerServer = (*Server)(nil)

func (h *Server) RegisterWorker(ctx context.Context, req *rpcpb.RegisterWorkerRequest) (*rpcpb.RegisterWorkerResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stores[req.ObjStoreID]; !ok {
		return nil, &cmn.ErrProtocolViolation{Detail: "RegisterWorker: objstore not registered"}
	}
	id := s.workerIDs.Next()
	s.workers[id] = &cluster.Worker{ID: id, Address: req.WorkerAddr, ObjStoreID: req.ObjStoreID, State: cluster.WorkerRegistering}
	s.hb.Touch(id)
	s.refreshGauges()
	return &rpcpb.RegisterWorkerResponse{WorkerID: id, ObjStoreID: req.ObjStoreID}, nil
}

func (h *Server) RegisterObjStore(ctx context.Context, req *rpcpb.RegisterObjStoreRequest) (*rpcpb.RegisterObjStoreResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.storeIDs.Next()
	s.stores[id] = &cluster.ObjStoreRecord{ID: id, Address: req.Addr}
	s.refreshGauges()
	return &rpcpb.RegisterObjStoreResponse{ObjStoreID: id}, nil
}

func (h *Server) RegisterFunction(ctx context.Context, req *rpcpb.RegisterFunctionRequest) (*rpcpb.RegisterFunctionResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.functions.Register(req.FnName, req.WorkerID, int(req.Arity)); err != nil {
		return nil, err
	}
	s.runSchedulingPass()
	return &rpcpb.RegisterFunctionResponse{}, nil
}

func (h *Server) SubmitTask(ctx context.Context, req *rpcpb.SubmitTaskRequest) (*rpcpb.SubmitTaskResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()

	arity, _, known := s.functions.Lookup(req.FunctionName)
	if !known {
		return &rpcpb.SubmitTaskResponse{FunctionRegistered: false}, nil
	}

	opID := s.opIDs.Next()
	results := make([]cmn.ObjRef, arity)
	for i := range results {
		id := s.objrefIDs.Next()
		s.objrefs.NewCanonical(id, 1)
		results[i] = id
	}

	args := make([]cluster.Arg, len(req.Args))
	for i, a := range req.Args {
		args[i] = cluster.Arg{Literal: a.Literal, Ref: a.Ref, IsRef: a.IsRef}
		if a.IsRef {
			if err := s.objrefs.Increment(a.Ref, 1); err != nil {
				return nil, err
			}
		}
	}

	task := &cluster.Task{
		OperationID:   opID,
		FunctionName:  req.FunctionName,
		Args:          args,
		ResultObjRefs: results,
		Status:        cluster.TaskQueued,
	}
	s.tasks[opID] = task
	s.queue = append(s.queue, opID)
	s.runSchedulingPass()

	return &rpcpb.SubmitTaskResponse{ResultObjRefs: results, FunctionRegistered: true, OperationID: opID}, nil
}

func (h *Server) PushObj(ctx context.Context, req *rpcpb.PushObjRequest) (*rpcpb.PushObjResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.objrefIDs.Next()
	s.objrefs.NewCanonical(id, 1)
	return &rpcpb.PushObjResponse{ObjRef: id}, nil
}

func (h *Server) RequestObj(ctx context.Context, req *rpcpb.RequestObjRequest) (*rpcpb.RequestObjResponse, error) {
	s := h.s
	s.mu.Lock()
	worker, ok := s.workers[req.WorkerID]
	if !ok {
		s.mu.Unlock()
		return nil, &cmn.ErrProtocolViolation{Detail: "RequestObj: unknown worker"}
	}
	canon, err := s.objrefs.Canonical(req.ObjRef)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.hasLocation(canon, worker.ObjStoreID) {
		s.mu.Unlock()
		return &rpcpb.RequestObjResponse{}, nil // already present: no-op (spec §4.1)
	}
	destAddr, destStore := worker.Address, worker.ObjStoreID
	s.mu.Unlock()

	go func() {
		if err := s.deliverOne(canon, destAddr, destStore); err != nil {
			glog.Warningf("RequestObj: delivering %d to store %d: %v", canon, destStore, err)
		}
	}()
	return &rpcpb.RequestObjResponse{}, nil
}

func (h *Server) AliasObjRefs(ctx context.Context, req *rpcpb.AliasObjRefsRequest) (*rpcpb.AliasObjRefsResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()

	preLocs, _ := s.objrefs.Locations(req.Alias)
	if err := s.objrefs.Alias(req.Alias, req.Target); err != nil {
		return nil, err
	}
	canon, err := s.objrefs.Canonical(req.Alias)
	if err != nil {
		return nil, err
	}
	postLocs, _ := s.objrefs.Locations(canon)

	notify := make(map[cmn.ObjStoreId]struct{}, len(preLocs)+len(postLocs))
	for _, id := range preLocs {
		notify[id] = struct{}{}
	}
	for _, id := range postLocs {
		notify[id] = struct{}{}
	}
	for storeID := range notify {
		rec, ok := s.stores[storeID]
		if !ok {
			continue
		}
		addr := rec.Address
		go s.notifyAliasStore(addr, req.Alias, canon)
	}

	s.runSchedulingPass()
	return &rpcpb.AliasObjRefsResponse{}, nil
}

func (s *State) notifyAliasStore(addr string, alias, canonical cmn.ObjRef) {
	cli, err := s.conns.ObjStoreClient(addr)
	if err != nil {
		glog.Warningf("NotifyAlias %s: dial: %v", addr, err)
		return
	}
	if _, err := cli.NotifyAlias(context.Background(), &rpcpb.NotifyAliasRequest{Alias: alias, Canonical: canonical}); err != nil {
		glog.Warningf("NotifyAlias %s: %v", addr, err)
	}
}

func (h *Server) ObjReady(ctx context.Context, req *rpcpb.ObjReadyRequest) (*rpcpb.ObjReadyResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.objrefs.MarkReady(req.ObjRef, req.ObjStoreID); err != nil {
		return nil, err
	}
	// A ref whose count already reached zero while it was not ready is
	// retired now that it is ready.
	deallocs, err := s.objrefs.Decrement(req.ObjRef, 0)
	if err != nil {
		return nil, err
	}
	s.processDeallocations(deallocs)
	s.runSchedulingPass()
	return &rpcpb.ObjReadyResponse{}, nil
}

func (h *Server) IncrementCount(ctx context.Context, req *rpcpb.ChangeCountRequest) (*rpcpb.ChangeCountResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.objrefs.Increment(req.ObjRef, 1); err != nil {
		return nil, err
	}
	return &rpcpb.ChangeCountResponse{}, nil
}

func (h *Server) DecrementCount(ctx context.Context, req *rpcpb.ChangeCountRequest) (*rpcpb.ChangeCountResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	deallocs, err := s.objrefs.Decrement(req.ObjRef, -1)
	if err != nil {
		return nil, err
	}
	s.processDeallocations(deallocs)
	return &rpcpb.ChangeCountResponse{}, nil
}

func (h *Server) IncrementRefCount(ctx context.Context, req *rpcpb.ChangeRefCountsRequest) (*rpcpb.ChangeRefCountsResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range req.ObjRefs {
		if err := s.objrefs.Increment(r, 1); err != nil {
			return nil, err
		}
	}
	return &rpcpb.ChangeRefCountsResponse{}, nil
}

func (h *Server) DecrementRefCount(ctx context.Context, req *rpcpb.ChangeRefCountsRequest) (*rpcpb.ChangeRefCountsResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range req.ObjRefs {
		deallocs, err := s.objrefs.Decrement(r, -1)
		if err != nil {
			return nil, err
		}
		s.processDeallocations(deallocs)
	}
	return &rpcpb.ChangeRefCountsResponse{}, nil
}

// processDeallocations issues fire-and-forget DeallocateObject calls to
// every store holding a retired canonical (spec §4.1.3: "Deallocation
// is fire-and-forget, stores treat it idempotently"). Must be called
// with s.mu held; the network calls themselves run unlocked.
func (s *State) processDeallocations(deallocs []cluster.Deallocation) {
	for _, d := range deallocs {
		s.retired.Inc()
		if s.metrics != nil {
			s.metrics.RetiredObjRefs.Inc()
		}
		for _, storeID := range d.Locations {
			rec, ok := s.stores[storeID]
			if !ok {
				continue
			}
			addr, canon := rec.Address, d.Canonical
			go func() {
				cli, err := s.conns.ObjStoreClient(addr)
				if err != nil {
					glog.Warningf("DeallocateObject %s: dial: %v", addr, err)
					return
				}
				if _, err := cli.DeallocateObject(context.Background(), &rpcpb.DeallocateObjectRequest{Canonical: canon}); err != nil {
					glog.Warningf("DeallocateObject %s obj %d: %v", addr, canon, err)
				}
			}()
		}
	}
}

func (h *Server) AddContainedObjRefs(ctx context.Context, req *rpcpb.AddContainedObjRefsRequest) (*rpcpb.AddContainedObjRefsResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.objrefs.AddContained(req.ObjRef, req.Contained); err != nil {
		return nil, err
	}
	return &rpcpb.AddContainedObjRefsResponse{}, nil
}

func (h *Server) ReadyForNewTask(ctx context.Context, req *rpcpb.ReadyForNewTaskRequest) (*rpcpb.ReadyForNewTaskResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[req.WorkerID]
	if !ok {
		return nil, &cmn.ErrProtocolViolation{Detail: "ReadyForNewTask: unknown worker"}
	}
	if req.PrevTask != nil {
		if task, ok := s.tasks[req.PrevTask.OperationID]; ok {
			if req.PrevTask.Succeeded {
				task.Status = cluster.TaskSucceeded
				s.releaseTaskArgs(task)
			} else {
				s.failTask(task, req.PrevTask.ErrorMessage)
			}
		}
	}
	worker.State = cluster.WorkerIdle
	worker.CurrentTask = 0
	s.hb.Touch(req.WorkerID)
	s.runSchedulingPass()
	return &rpcpb.ReadyForNewTaskResponse{}, nil
}

func (h *Server) SchedulerInfo(ctx context.Context, req *rpcpb.SchedulerInfoRequest) (*rpcpb.SchedulerInfoResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()

	workers := make([]rpcpb.WorkerInfo, 0, len(s.workers))
	for _, w := range s.workers {
		workers = append(workers, rpcpb.WorkerInfo{WorkerID: w.ID, Address: w.Address, ObjStoreID: w.ObjStoreID, State: w.State.String()})
	}
	stores := make([]rpcpb.ObjStoreRef, 0, len(s.stores))
	for _, st := range s.stores {
		stores = append(stores, rpcpb.ObjStoreRef{ObjStoreID: st.ID, Address: st.Address})
	}
	minted := int64(s.objrefIDs.Peek())
	retired := s.retired.Load()
	return &rpcpb.SchedulerInfoResponse{
		Workers:        workers,
		ObjStores:      stores,
		QueueDepth:     int32(len(s.queue)),
		LiveObjRefs:    minted - retired,
		RetiredObjRefs: retired,
	}, nil
}

func (h *Server) TaskInfo(ctx context.Context, req *rpcpb.TaskInfoRequest) (*rpcpb.TaskInfoResponse, error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[req.OperationID]
	if !ok {
		return nil, &cmn.ErrProtocolViolation{Detail: "TaskInfo: unknown operation"}
	}
	return &rpcpb.TaskInfoResponse{
		OperationID:    task.OperationID,
		FunctionName:   task.FunctionName,
		Status:         task.Status.String(),
		AssignedWorker: task.AssignedWorker,
		ErrorMessage:   task.ErrorMessage,
		ResultObjRefs:  task.ResultObjRefs,
	}, nil
}

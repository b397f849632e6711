package worker

import (
	"context"

	"github.com/golang/glog"

	"github.com/nvaistore-labs/taskmesh/cmn"
	"github.com/nvaistore-labs/taskmesh/objstore"
	"github.com/nvaistore-labs/taskmesh/rpcpb"
)

// Worker runs the loop described in spec §4.3: register, go idle, wait
// for ExecuteTask pushes from the scheduler, run the matched function
// against locally-resolved arguments, write outputs, and report back.
type Worker struct {
	id        cmn.WorkerId
	addr      string
	store     *objstore.Store
	scheduler rpcpb.SchedulerClient
	funcs     FuncTable
}

func New(addr string, store *objstore.Store, scheduler rpcpb.SchedulerClient, funcs FuncTable) *Worker {
	return &Worker{addr: addr, store: store, scheduler: scheduler, funcs: funcs}
}

var _ rpcpb.WorkerServiceServer = (*Worker)(nil)

func (w *Worker) ID() cmn.WorkerId { return w.id }

// Register performs RegisterWorker followed by one RegisterFunction per
// entry in the function table (spec §4.1).
func (w *Worker) Register(ctx context.Context) error {
	resp, err := w.scheduler.RegisterWorker(ctx, &rpcpb.RegisterWorkerRequest{WorkerAddr: w.addr, ObjStoreID: w.store.ID()})
	if err != nil {
		return cmn.Wrap(err, "RegisterWorker")
	}
	w.id = resp.WorkerID
	for _, reg := range w.funcs {
		if _, err := w.scheduler.RegisterFunction(ctx, &rpcpb.RegisterFunctionRequest{
			WorkerID: w.id, FnName: reg.Name, Arity: int32(reg.Arity),
		}); err != nil {
			return cmn.Wrap(err, "RegisterFunction "+reg.Name)
		}
	}
	return nil
}

// Announce sends the first ReadyForNewTask (no previous task), entering
// the idle pool and becoming eligible for a scheduling match.
func (w *Worker) Announce(ctx context.Context) error {
	_, err := w.scheduler.ReadyForNewTask(ctx, &rpcpb.ReadyForNewTaskRequest{WorkerID: w.id})
	return err
}

// ExecuteTask is the scheduler's push (spec §6 WorkerService.ExecuteTask).
// It accepts immediately and runs the task asynchronously; the outcome
// is reported via a later ReadyForNewTask call, not the RPC response.
func (w *Worker) ExecuteTask(ctx context.Context, req *rpcpb.ExecuteTaskRequest) (*rpcpb.ExecuteTaskResponse, error) {
	go w.run(req)
	return &rpcpb.ExecuteTaskResponse{Accepted: true}, nil
}

func (w *Worker) run(req *rpcpb.ExecuteTaskRequest) {
	ctx := context.Background()
	succeeded, errMsg := w.execute(ctx, req)

	if _, err := w.scheduler.ReadyForNewTask(ctx, &rpcpb.ReadyForNewTaskRequest{
		WorkerID: w.id,
		PrevTask: &rpcpb.PrevTaskInfo{OperationID: req.OperationID, Succeeded: succeeded, ErrorMessage: errMsg},
	}); err != nil {
		glog.Errorf("worker %d: ReadyForNewTask after op %d: %v", w.id, req.OperationID, err)
	}
}

// execute resolves arguments, runs the matched function, and writes
// every output to the local store. A task that raises (spec §4.3) is
// reported via the boolean/string pair rather than an error return,
// since the scheduler records the failure on the task itself.
func (w *Worker) execute(ctx context.Context, req *rpcpb.ExecuteTaskRequest) (bool, string) {
	reg, ok := w.funcs[req.FunctionName]
	if !ok {
		return false, "worker does not have function " + req.FunctionName + " registered"
	}

	args := make([][]byte, len(req.Args))
	for i, a := range req.Args {
		if !a.IsRef {
			args[i] = a.Literal
			continue
		}
		data, _, err := w.store.GetObj(ctx, a.Ref)
		if err != nil {
			return false, err.Error()
		}
		args[i] = data
	}

	results, err := reg.Fn(args)
	if err != nil {
		return false, err.Error()
	}
	if len(results) != len(req.ResultObjRefs) {
		return false, "function returned wrong result arity"
	}

	for i, res := range results {
		ref := req.ResultObjRefs[i]
		if err := w.store.WriteObj(ctx, ref, res.MetadataOffset, res.Data); err != nil {
			return false, err.Error()
		}
		if len(res.Contained) == 0 {
			continue
		}
		if _, err := w.scheduler.AddContainedObjRefs(ctx, &rpcpb.AddContainedObjRefsRequest{
			ObjRef: ref, Contained: res.Contained,
		}); err != nil {
			return false, err.Error()
		}
	}
	return true, ""
}

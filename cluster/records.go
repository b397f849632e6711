package cluster

import "github.com/nvaistore-labs/taskmesh/cmn"

type WorkerState int

const (
	WorkerRegistering WorkerState = iota
	WorkerIdle
	WorkerBusy
	WorkerUnreachable // missed keepalive; excluded from scheduling (SPEC_FULL §4)
)

func (s WorkerState) String() string {
	switch s {
	case WorkerRegistering:
		return "registering"
	case WorkerIdle:
		return "idle"
	case WorkerBusy:
		return "busy"
	case WorkerUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Worker is the scheduler's record of a registered worker process (spec
// §3 Worker record). It is owned by the scheduler; workers never mutate
// it directly, only via RPCs that flow back through the scheduler.
type Worker struct {
	ID          cmn.WorkerId
	Address     string
	ObjStoreID  cmn.ObjStoreId
	State       WorkerState
	CurrentTask cmn.OperationId // 0 if none
}

// ObjStoreRecord is the scheduler's record of a registered object store
// (spec §3 Object-store record).
type ObjStoreRecord struct {
	ID      cmn.ObjStoreId
	Address string
}

type TaskStatus int

const (
	TaskQueued TaskStatus = iota
	TaskRunning
	TaskSucceeded
	TaskFailed
)

func (s TaskStatus) String() string {
	switch s {
	case TaskQueued:
		return "queued"
	case TaskRunning:
		return "running"
	case TaskSucceeded:
		return "succeeded"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Arg is one task argument: either an inline literal payload or an
// ObjRef (spec §3 Task record, §6 Task descriptor).
type Arg struct {
	Literal []byte   // set iff IsRef is false
	Ref     cmn.ObjRef
	IsRef   bool
}

// Task is the scheduler's record of a submitted function invocation
// (spec §3 Task record).
type Task struct {
	OperationID    cmn.OperationId
	FunctionName   string
	Args           []Arg
	ResultObjRefs  []cmn.ObjRef
	AssignedWorker cmn.WorkerId // 0 until matched
	Status         TaskStatus
	ErrorMessage   string

	// pendingTransfer is true once this task has been matched to a
	// worker but is still waiting on one or more StartDelivery calls
	// to land its arguments locally (spec §4.1.1: "not re-matched
	// while in this pending-transfer state").
	pendingTransfer bool
}

func (t *Task) SetPendingTransfer(v bool) { t.pendingTransfer = v }

func (t *Task) PendingTransfer() bool { return t.pendingTransfer }

func (t *Task) RefArgs() []cmn.ObjRef {
	var out []cmn.ObjRef
	for _, a := range t.Args {
		if a.IsRef {
			out = append(out, a.Ref)
		}
	}
	return out
}

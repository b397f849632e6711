// Package rpcpb carries the wire messages and gRPC service definitions
// for the three RPC services named in spec §6: Scheduler, ObjStore, and
// WorkerService. The message shapes mirror the "interface schema"
// referenced by spec §6 (not itself present in the retrieved sources);
// field names and semantics follow spec §3/§4 one-to-one.
//
// Wire format: these are plain Go structs rather than protoc-generated
// types, because no .proto toolchain ran to produce them (see
// DESIGN.md). They travel over the same google.golang.org/grpc
// transport (HTTP/2 framing, unary + server-streaming RPCs) named in
// spec §6, carried by a small JSON codec (codec.go) registered under
// content-subtype "json" instead of the binary protobuf wire format a
// real protoc-gen-go run would produce.
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package rpcpb

// ---- Scheduler service ----

type RegisterWorkerRequest struct {
	WorkerAddr  string
	ObjStoreID  uint64
}

type RegisterWorkerResponse struct {
	WorkerID   uint64
	ObjStoreID uint64
}

type RegisterObjStoreRequest struct {
	Addr string
}

type RegisterObjStoreResponse struct {
	ObjStoreID uint64
}

type RegisterFunctionRequest struct {
	WorkerID uint64
	FnName   string
	Arity    int32
}

type RegisterFunctionResponse struct{}

type TaskArg struct {
	IsRef   bool
	Literal []byte
	Ref     uint64
}

type SubmitTaskRequest struct {
	FunctionName string
	Args         []TaskArg
}

type SubmitTaskResponse struct {
	ResultObjRefs      []uint64
	FunctionRegistered bool
	OperationID        uint64
}

type PushObjRequest struct{}

type PushObjResponse struct {
	ObjRef uint64
}

type RequestObjRequest struct {
	WorkerID uint64
	ObjRef   uint64
}

type RequestObjResponse struct{}

type AliasObjRefsRequest struct {
	Alias  uint64
	Target uint64
}

type AliasObjRefsResponse struct{}

type ObjReadyRequest struct {
	ObjRef     uint64
	ObjStoreID uint64
}

type ObjReadyResponse struct{}

// ChangeCountRequest backs the single-ref IncrementCount/DecrementCount
// RPCs (submitter-held counts; SPEC_FULL §5).
type ChangeCountRequest struct {
	ObjRef uint64
}

type ChangeCountResponse struct{}

// ChangeRefCountsRequest backs the batch IncrementRefCount/
// DecrementRefCount RPCs (scheduler-internal bookkeeping batches;
// SPEC_FULL §5).
type ChangeRefCountsRequest struct {
	ObjRefs []uint64
}

type ChangeRefCountsResponse struct{}

type AddContainedObjRefsRequest struct {
	ObjRef    uint64
	Contained []uint64
}

type AddContainedObjRefsResponse struct{}

type PrevTaskInfo struct {
	OperationID  uint64
	Succeeded    bool
	ErrorMessage string
}

type ReadyForNewTaskRequest struct {
	WorkerID uint64
	PrevTask *PrevTaskInfo // nil if no previous task
}

type ReadyForNewTaskResponse struct{}

type SchedulerInfoRequest struct{}

type WorkerInfo struct {
	WorkerID   uint64
	Address    string
	ObjStoreID uint64
	State      string
}

type ObjStoreRef struct {
	ObjStoreID uint64
	Address    string
}

type SchedulerInfoResponse struct {
	Workers       []WorkerInfo
	ObjStores     []ObjStoreRef
	QueueDepth    int32
	LiveObjRefs   int64
	RetiredObjRefs int64
}

type TaskInfoRequest struct {
	OperationID uint64
}

type TaskInfoResponse struct {
	OperationID    uint64
	FunctionName   string
	Status         string
	AssignedWorker uint64
	ErrorMessage   string
	ResultObjRefs  []uint64
}

// ---- ObjStore service ----

type StartDeliveryRequest struct {
	SrcAddr string
	ObjRef  uint64
}

type StartDeliveryResponse struct{}

type StreamObjToRequest struct {
	ObjRef uint64
}

type ObjChunk struct {
	TotalSize      int64
	MetadataOffset int64
	Data           []byte
	Compressed     bool
}

type NotifyAliasRequest struct {
	Alias     uint64
	Canonical uint64
}

type NotifyAliasResponse struct{}

type DeallocateObjectRequest struct {
	Canonical uint64
}

type DeallocateObjectResponse struct{}

type ObjStoreInfoRequest struct {
	ObjRefs []uint64
}

type ObjEntry struct {
	ObjRef     uint64
	Finalized  bool
	TotalSize  int64
	Checksum   uint64
}

type ObjStoreInfoResponse struct {
	Entries []ObjEntry
}

// ---- WorkerService ----

type ExecuteTaskRequest struct {
	OperationID  uint64
	FunctionName string
	Args         []TaskArg
	ResultObjRefs []uint64
}

type ExecuteTaskResponse struct {
	Accepted bool
}

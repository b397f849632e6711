package rpcpb

import (
	"context"

	"google.golang.org/grpc"
)

const schedulerServiceName = "rpcpb.Scheduler"

// SchedulerServer is the server API for the Scheduler service (spec §6):
// worker/store/function registration, task submission, ObjRef lifecycle
// RPCs, and the two diagnostic queries.
type SchedulerServer interface {
	RegisterWorker(context.Context, *RegisterWorkerRequest) (*RegisterWorkerResponse, error)
	RegisterObjStore(context.Context, *RegisterObjStoreRequest) (*RegisterObjStoreResponse, error)
	RegisterFunction(context.Context, *RegisterFunctionRequest) (*RegisterFunctionResponse, error)
	SubmitTask(context.Context, *SubmitTaskRequest) (*SubmitTaskResponse, error)
	PushObj(context.Context, *PushObjRequest) (*PushObjResponse, error)
	RequestObj(context.Context, *RequestObjRequest) (*RequestObjResponse, error)
	AliasObjRefs(context.Context, *AliasObjRefsRequest) (*AliasObjRefsResponse, error)
	ObjReady(context.Context, *ObjReadyRequest) (*ObjReadyResponse, error)
	IncrementCount(context.Context, *ChangeCountRequest) (*ChangeCountResponse, error)
	DecrementCount(context.Context, *ChangeCountRequest) (*ChangeCountResponse, error)
	IncrementRefCount(context.Context, *ChangeRefCountsRequest) (*ChangeRefCountsResponse, error)
	DecrementRefCount(context.Context, *ChangeRefCountsRequest) (*ChangeRefCountsResponse, error)
	AddContainedObjRefs(context.Context, *AddContainedObjRefsRequest) (*AddContainedObjRefsResponse, error)
	ReadyForNewTask(context.Context, *ReadyForNewTaskRequest) (*ReadyForNewTaskResponse, error)
	SchedulerInfo(context.Context, *SchedulerInfoRequest) (*SchedulerInfoResponse, error)
	TaskInfo(context.Context, *TaskInfoRequest) (*TaskInfoResponse, error)
}

func RegisterSchedulerServer(s grpc.ServiceRegistrar, srv SchedulerServer) {
	s.RegisterService(&Scheduler_ServiceDesc, srv)
}

var Scheduler_ServiceDesc = grpc.ServiceDesc{
	ServiceName: schedulerServiceName,
	HandlerType: (*SchedulerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterWorker",
			Handler: unaryHandler[RegisterWorkerRequest, RegisterWorkerResponse](schedulerServiceName+"/RegisterWorker",
				func(srv interface{}, ctx context.Context, req *RegisterWorkerRequest) (*RegisterWorkerResponse, error) {
					return srv.(SchedulerServer).RegisterWorker(ctx, req)
				}),
		},
		{
			MethodName: "RegisterObjStore",
			Handler: unaryHandler[RegisterObjStoreRequest, RegisterObjStoreResponse](schedulerServiceName+"/RegisterObjStore",
				func(srv interface{}, ctx context.Context, req *RegisterObjStoreRequest) (*RegisterObjStoreResponse, error) {
					return srv.(SchedulerServer).RegisterObjStore(ctx, req)
				}),
		},
		{
			MethodName: "RegisterFunction",
			Handler: unaryHandler[RegisterFunctionRequest, RegisterFunctionResponse](schedulerServiceName+"/RegisterFunction",
				func(srv interface{}, ctx context.Context, req *RegisterFunctionRequest) (*RegisterFunctionResponse, error) {
					return srv.(SchedulerServer).RegisterFunction(ctx, req)
				}),
		},
		{
			MethodName: "SubmitTask",
			Handler: unaryHandler[SubmitTaskRequest, SubmitTaskResponse](schedulerServiceName+"/SubmitTask",
				func(srv interface{}, ctx context.Context, req *SubmitTaskRequest) (*SubmitTaskResponse, error) {
					return srv.(SchedulerServer).SubmitTask(ctx, req)
				}),
		},
		{
			MethodName: "PushObj",
			Handler: unaryHandler[PushObjRequest, PushObjResponse](schedulerServiceName+"/PushObj",
				func(srv interface{}, ctx context.Context, req *PushObjRequest) (*PushObjResponse, error) {
					return srv.(SchedulerServer).PushObj(ctx, req)
				}),
		},
		{
			MethodName: "RequestObj",
			Handler: unaryHandler[RequestObjRequest, RequestObjResponse](schedulerServiceName+"/RequestObj",
				func(srv interface{}, ctx context.Context, req *RequestObjRequest) (*RequestObjResponse, error) {
					return srv.(SchedulerServer).RequestObj(ctx, req)
				}),
		},
		{
			MethodName: "AliasObjRefs",
			Handler: unaryHandler[AliasObjRefsRequest, AliasObjRefsResponse](schedulerServiceName+"/AliasObjRefs",
				func(srv interface{}, ctx context.Context, req *AliasObjRefsRequest) (*AliasObjRefsResponse, error) {
					return srv.(SchedulerServer).AliasObjRefs(ctx, req)
				}),
		},
		{
			MethodName: "ObjReady",
			Handler: unaryHandler[ObjReadyRequest, ObjReadyResponse](schedulerServiceName+"/ObjReady",
				func(srv interface{}, ctx context.Context, req *ObjReadyRequest) (*ObjReadyResponse, error) {
					return srv.(SchedulerServer).ObjReady(ctx, req)
				}),
		},
		{
			MethodName: "IncrementCount",
			Handler: unaryHandler[ChangeCountRequest, ChangeCountResponse](schedulerServiceName+"/IncrementCount",
				func(srv interface{}, ctx context.Context, req *ChangeCountRequest) (*ChangeCountResponse, error) {
					return srv.(SchedulerServer).IncrementCount(ctx, req)
				}),
		},
		{
			MethodName: "DecrementCount",
			Handler: unaryHandler[ChangeCountRequest, ChangeCountResponse](schedulerServiceName+"/DecrementCount",
				func(srv interface{}, ctx context.Context, req *ChangeCountRequest) (*ChangeCountResponse, error) {
					return srv.(SchedulerServer).DecrementCount(ctx, req)
				}),
		},
		{
			MethodName: "IncrementRefCount",
			Handler: unaryHandler[ChangeRefCountsRequest, ChangeRefCountsResponse](schedulerServiceName+"/IncrementRefCount",
				func(srv interface{}, ctx context.Context, req *ChangeRefCountsRequest) (*ChangeRefCountsResponse, error) {
					return srv.(SchedulerServer).IncrementRefCount(ctx, req)
				}),
		},
		{
			MethodName: "DecrementRefCount",
			Handler: unaryHandler[ChangeRefCountsRequest, ChangeRefCountsResponse](schedulerServiceName+"/DecrementRefCount",
				func(srv interface{}, ctx context.Context, req *ChangeRefCountsRequest) (*ChangeRefCountsResponse, error) {
					return srv.(SchedulerServer).DecrementRefCount(ctx, req)
				}),
		},
		{
			MethodName: "AddContainedObjRefs",
			Handler: unaryHandler[AddContainedObjRefsRequest, AddContainedObjRefsResponse](schedulerServiceName+"/AddContainedObjRefs",
				func(srv interface{}, ctx context.Context, req *AddContainedObjRefsRequest) (*AddContainedObjRefsResponse, error) {
					return srv.(SchedulerServer).AddContainedObjRefs(ctx, req)
				}),
		},
		{
			MethodName: "ReadyForNewTask",
			Handler: unaryHandler[ReadyForNewTaskRequest, ReadyForNewTaskResponse](schedulerServiceName+"/ReadyForNewTask",
				func(srv interface{}, ctx context.Context, req *ReadyForNewTaskRequest) (*ReadyForNewTaskResponse, error) {
					return srv.(SchedulerServer).ReadyForNewTask(ctx, req)
				}),
		},
		{
			MethodName: "SchedulerInfo",
			Handler: unaryHandler[SchedulerInfoRequest, SchedulerInfoResponse](schedulerServiceName+"/SchedulerInfo",
				func(srv interface{}, ctx context.Context, req *SchedulerInfoRequest) (*SchedulerInfoResponse, error) {
					return srv.(SchedulerServer).SchedulerInfo(ctx, req)
				}),
		},
		{
			MethodName: "TaskInfo",
			Handler: unaryHandler[TaskInfoRequest, TaskInfoResponse](schedulerServiceName+"/TaskInfo",
				func(srv interface{}, ctx context.Context, req *TaskInfoRequest) (*TaskInfoResponse, error) {
					return srv.(SchedulerServer).TaskInfo(ctx, req)
				}),
		},
	},
	Metadata: "rpcpb/scheduler.proto",
}

// SchedulerClient is the client API for the Scheduler service.
type SchedulerClient interface {
	RegisterWorker(ctx context.Context, in *RegisterWorkerRequest, opts ...grpc.CallOption) (*RegisterWorkerResponse, error)
	RegisterObjStore(ctx context.Context, in *RegisterObjStoreRequest, opts ...grpc.CallOption) (*RegisterObjStoreResponse, error)
	RegisterFunction(ctx context.Context, in *RegisterFunctionRequest, opts ...grpc.CallOption) (*RegisterFunctionResponse, error)
	SubmitTask(ctx context.Context, in *SubmitTaskRequest, opts ...grpc.CallOption) (*SubmitTaskResponse, error)
	PushObj(ctx context.Context, in *PushObjRequest, opts ...grpc.CallOption) (*PushObjResponse, error)
	RequestObj(ctx context.Context, in *RequestObjRequest, opts ...grpc.CallOption) (*RequestObjResponse, error)
	AliasObjRefs(ctx context.Context, in *AliasObjRefsRequest, opts ...grpc.CallOption) (*AliasObjRefsResponse, error)
	ObjReady(ctx context.Context, in *ObjReadyRequest, opts ...grpc.CallOption) (*ObjReadyResponse, error)
	IncrementCount(ctx context.Context, in *ChangeCountRequest, opts ...grpc.CallOption) (*ChangeCountResponse, error)
	DecrementCount(ctx context.Context, in *ChangeCountRequest, opts ...grpc.CallOption) (*ChangeCountResponse, error)
	IncrementRefCount(ctx context.Context, in *ChangeRefCountsRequest, opts ...grpc.CallOption) (*ChangeRefCountsResponse, error)
	DecrementRefCount(ctx context.Context, in *ChangeRefCountsRequest, opts ...grpc.CallOption) (*ChangeRefCountsResponse, error)
	AddContainedObjRefs(ctx context.Context, in *AddContainedObjRefsRequest, opts ...grpc.CallOption) (*AddContainedObjRefsResponse, error)
	ReadyForNewTask(ctx context.Context, in *ReadyForNewTaskRequest, opts ...grpc.CallOption) (*ReadyForNewTaskResponse, error)
	SchedulerInfo(ctx context.Context, in *SchedulerInfoRequest, opts ...grpc.CallOption) (*SchedulerInfoResponse, error)
	TaskInfo(ctx context.Context, in *TaskInfoRequest, opts ...grpc.CallOption) (*TaskInfoResponse, error)
}

type schedulerClient struct {
	cc grpc.ClientConnInterface
}

func NewSchedulerClient(cc grpc.ClientConnInterface) SchedulerClient {
	return &schedulerClient{cc}
}

func (c *schedulerClient) RegisterWorker(ctx context.Context, in *RegisterWorkerRequest, opts ...grpc.CallOption) (*RegisterWorkerResponse, error) {
	out := new(RegisterWorkerResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/RegisterWorker", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) RegisterObjStore(ctx context.Context, in *RegisterObjStoreRequest, opts ...grpc.CallOption) (*RegisterObjStoreResponse, error) {
	out := new(RegisterObjStoreResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/RegisterObjStore", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) RegisterFunction(ctx context.Context, in *RegisterFunctionRequest, opts ...grpc.CallOption) (*RegisterFunctionResponse, error) {
	out := new(RegisterFunctionResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/RegisterFunction", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) SubmitTask(ctx context.Context, in *SubmitTaskRequest, opts ...grpc.CallOption) (*SubmitTaskResponse, error) {
	out := new(SubmitTaskResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/SubmitTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) PushObj(ctx context.Context, in *PushObjRequest, opts ...grpc.CallOption) (*PushObjResponse, error) {
	out := new(PushObjResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/PushObj", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) RequestObj(ctx context.Context, in *RequestObjRequest, opts ...grpc.CallOption) (*RequestObjResponse, error) {
	out := new(RequestObjResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/RequestObj", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) AliasObjRefs(ctx context.Context, in *AliasObjRefsRequest, opts ...grpc.CallOption) (*AliasObjRefsResponse, error) {
	out := new(AliasObjRefsResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/AliasObjRefs", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) ObjReady(ctx context.Context, in *ObjReadyRequest, opts ...grpc.CallOption) (*ObjReadyResponse, error) {
	out := new(ObjReadyResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/ObjReady", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) IncrementCount(ctx context.Context, in *ChangeCountRequest, opts ...grpc.CallOption) (*ChangeCountResponse, error) {
	out := new(ChangeCountResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/IncrementCount", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) DecrementCount(ctx context.Context, in *ChangeCountRequest, opts ...grpc.CallOption) (*ChangeCountResponse, error) {
	out := new(ChangeCountResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/DecrementCount", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) IncrementRefCount(ctx context.Context, in *ChangeRefCountsRequest, opts ...grpc.CallOption) (*ChangeRefCountsResponse, error) {
	out := new(ChangeRefCountsResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/IncrementRefCount", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) DecrementRefCount(ctx context.Context, in *ChangeRefCountsRequest, opts ...grpc.CallOption) (*ChangeRefCountsResponse, error) {
	out := new(ChangeRefCountsResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/DecrementRefCount", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) AddContainedObjRefs(ctx context.Context, in *AddContainedObjRefsRequest, opts ...grpc.CallOption) (*AddContainedObjRefsResponse, error) {
	out := new(AddContainedObjRefsResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/AddContainedObjRefs", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) ReadyForNewTask(ctx context.Context, in *ReadyForNewTaskRequest, opts ...grpc.CallOption) (*ReadyForNewTaskResponse, error) {
	out := new(ReadyForNewTaskResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/ReadyForNewTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) SchedulerInfo(ctx context.Context, in *SchedulerInfoRequest, opts ...grpc.CallOption) (*SchedulerInfoResponse, error) {
	out := new(SchedulerInfoResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/SchedulerInfo", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schedulerClient) TaskInfo(ctx context.Context, in *TaskInfoRequest, opts ...grpc.CallOption) (*TaskInfoResponse, error) {
	out := new(TaskInfoResponse)
	if err := invokeUnary(ctx, c.cc, schedulerServiceName+"/TaskInfo", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

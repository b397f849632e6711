package rpcpb

import (
	"context"

	"google.golang.org/grpc"
)

const workerServiceName = "rpcpb.WorkerService"

// WorkerServiceServer is the server API for the WorkerService (spec §6):
// the scheduler's only call into a worker, dispatching a matched task to
// the worker that will run it.
type WorkerServiceServer interface {
	ExecuteTask(context.Context, *ExecuteTaskRequest) (*ExecuteTaskResponse, error)
}

func RegisterWorkerServiceServer(s grpc.ServiceRegistrar, srv WorkerServiceServer) {
	s.RegisterService(&WorkerService_ServiceDesc, srv)
}

var WorkerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: workerServiceName,
	HandlerType: (*WorkerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ExecuteTask",
			Handler: unaryHandler[ExecuteTaskRequest, ExecuteTaskResponse](workerServiceName+"/ExecuteTask",
				func(srv interface{}, ctx context.Context, req *ExecuteTaskRequest) (*ExecuteTaskResponse, error) {
					return srv.(WorkerServiceServer).ExecuteTask(ctx, req)
				}),
		},
	},
	Metadata: "rpcpb/worker.proto",
}

// WorkerServiceClient is the client API for the WorkerService, used by
// the scheduler to dispatch a matched task.
type WorkerServiceClient interface {
	ExecuteTask(ctx context.Context, in *ExecuteTaskRequest, opts ...grpc.CallOption) (*ExecuteTaskResponse, error)
}

type workerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewWorkerServiceClient(cc grpc.ClientConnInterface) WorkerServiceClient {
	return &workerServiceClient{cc}
}

func (c *workerServiceClient) ExecuteTask(ctx context.Context, in *ExecuteTaskRequest, opts ...grpc.CallOption) (*ExecuteTaskResponse, error) {
	out := new(ExecuteTaskResponse)
	if err := invokeUnary(ctx, c.cc, workerServiceName+"/ExecuteTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

package rpcpb

import (
	"context"
	"io"

	"google.golang.org/grpc"
)

const objStoreServiceName = "rpcpb.ObjStore"

// ObjStoreServer is the server API for the ObjStore service (spec §6):
// pull-based delivery orchestration, the streamed chunk transfer, alias
// notification, deallocation, and the diagnostic store listing.
type ObjStoreServer interface {
	StartDelivery(context.Context, *StartDeliveryRequest) (*StartDeliveryResponse, error)
	StreamObjTo(*StreamObjToRequest, ObjStore_StreamObjToServer) error
	NotifyAlias(context.Context, *NotifyAliasRequest) (*NotifyAliasResponse, error)
	DeallocateObject(context.Context, *DeallocateObjectRequest) (*DeallocateObjectResponse, error)
	ObjStoreInfo(context.Context, *ObjStoreInfoRequest) (*ObjStoreInfoResponse, error)
}

func RegisterObjStoreServer(s grpc.ServiceRegistrar, srv ObjStoreServer) {
	s.RegisterService(&ObjStore_ServiceDesc, srv)
}

// ObjStore_StreamObjToServer is the server-side handle for the streamed
// chunk sequence a StreamObjTo call sends back to the puller.
type ObjStore_StreamObjToServer interface {
	Send(*ObjChunk) error
	grpc.ServerStream
}

type objStoreStreamObjToServer struct {
	grpc.ServerStream
}

func (s *objStoreStreamObjToServer) Send(m *ObjChunk) error {
	return s.ServerStream.SendMsg(m)
}

func _ObjStore_StreamObjTo_Handler(srv interface{}, stream grpc.ServerStream) error {
	in := new(StreamObjToRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ObjStoreServer).StreamObjTo(in, &objStoreStreamObjToServer{stream})
}

var ObjStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: objStoreServiceName,
	HandlerType: (*ObjStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StartDelivery",
			Handler: unaryHandler[StartDeliveryRequest, StartDeliveryResponse](objStoreServiceName+"/StartDelivery",
				func(srv interface{}, ctx context.Context, req *StartDeliveryRequest) (*StartDeliveryResponse, error) {
					return srv.(ObjStoreServer).StartDelivery(ctx, req)
				}),
		},
		{
			MethodName: "NotifyAlias",
			Handler: unaryHandler[NotifyAliasRequest, NotifyAliasResponse](objStoreServiceName+"/NotifyAlias",
				func(srv interface{}, ctx context.Context, req *NotifyAliasRequest) (*NotifyAliasResponse, error) {
					return srv.(ObjStoreServer).NotifyAlias(ctx, req)
				}),
		},
		{
			MethodName: "DeallocateObject",
			Handler: unaryHandler[DeallocateObjectRequest, DeallocateObjectResponse](objStoreServiceName+"/DeallocateObject",
				func(srv interface{}, ctx context.Context, req *DeallocateObjectRequest) (*DeallocateObjectResponse, error) {
					return srv.(ObjStoreServer).DeallocateObject(ctx, req)
				}),
		},
		{
			MethodName: "ObjStoreInfo",
			Handler: unaryHandler[ObjStoreInfoRequest, ObjStoreInfoResponse](objStoreServiceName+"/ObjStoreInfo",
				func(srv interface{}, ctx context.Context, req *ObjStoreInfoRequest) (*ObjStoreInfoResponse, error) {
					return srv.(ObjStoreServer).ObjStoreInfo(ctx, req)
				}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamObjTo",
			Handler:       _ObjStore_StreamObjTo_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "rpcpb/objstore.proto",
}

// ObjStoreClient is the client API for the ObjStore service.
type ObjStoreClient interface {
	StartDelivery(ctx context.Context, in *StartDeliveryRequest, opts ...grpc.CallOption) (*StartDeliveryResponse, error)
	StreamObjTo(ctx context.Context, in *StreamObjToRequest, opts ...grpc.CallOption) (ObjStore_StreamObjToClient, error)
	NotifyAlias(ctx context.Context, in *NotifyAliasRequest, opts ...grpc.CallOption) (*NotifyAliasResponse, error)
	DeallocateObject(ctx context.Context, in *DeallocateObjectRequest, opts ...grpc.CallOption) (*DeallocateObjectResponse, error)
	ObjStoreInfo(ctx context.Context, in *ObjStoreInfoRequest, opts ...grpc.CallOption) (*ObjStoreInfoResponse, error)
}

type objStoreClient struct {
	cc grpc.ClientConnInterface
}

func NewObjStoreClient(cc grpc.ClientConnInterface) ObjStoreClient {
	return &objStoreClient{cc}
}

func (c *objStoreClient) StartDelivery(ctx context.Context, in *StartDeliveryRequest, opts ...grpc.CallOption) (*StartDeliveryResponse, error) {
	out := new(StartDeliveryResponse)
	if err := invokeUnary(ctx, c.cc, objStoreServiceName+"/StartDelivery", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *objStoreClient) NotifyAlias(ctx context.Context, in *NotifyAliasRequest, opts ...grpc.CallOption) (*NotifyAliasResponse, error) {
	out := new(NotifyAliasResponse)
	if err := invokeUnary(ctx, c.cc, objStoreServiceName+"/NotifyAlias", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *objStoreClient) DeallocateObject(ctx context.Context, in *DeallocateObjectRequest, opts ...grpc.CallOption) (*DeallocateObjectResponse, error) {
	out := new(DeallocateObjectResponse)
	if err := invokeUnary(ctx, c.cc, objStoreServiceName+"/DeallocateObject", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *objStoreClient) ObjStoreInfo(ctx context.Context, in *ObjStoreInfoRequest, opts ...grpc.CallOption) (*ObjStoreInfoResponse, error) {
	out := new(ObjStoreInfoResponse)
	if err := invokeUnary(ctx, c.cc, objStoreServiceName+"/ObjStoreInfo", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ObjStore_StreamObjToClient is the client-side handle for receiving the
// chunk sequence StreamObjTo sends.
type ObjStore_StreamObjToClient interface {
	Recv() (*ObjChunk, error)
	grpc.ClientStream
}

type objStoreStreamObjToClient struct {
	grpc.ClientStream
}

func (x *objStoreStreamObjToClient) Recv() (*ObjChunk, error) {
	m := new(ObjChunk)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *objStoreClient) StreamObjTo(ctx context.Context, in *StreamObjToRequest, opts ...grpc.CallOption) (ObjStore_StreamObjToClient, error) {
	stream, err := newClientStream(ctx, c.cc, &ObjStore_ServiceDesc.Streams[0], objStoreServiceName+"/StreamObjTo", opts...)
	if err != nil {
		return nil, err
	}
	x := &objStoreStreamObjToClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// DrainStreamObjTo reads every chunk of a StreamObjTo response into an
// Assembler-friendly callback, stopping at io.EOF.
func DrainStreamObjTo(stream ObjStore_StreamObjToClient, onChunk func(*ObjChunk) error) error {
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
}

package rpcpb

import (
	"context"

	"google.golang.org/grpc"
)

// unaryHandler builds a grpc.MethodDesc.Handler for one RPC. A real
// protoc-gen-go-grpc run emits one non-generic closure per method; this
// hand-authored package (see DESIGN.md) uses a single generic helper
// instead, since every unary handler here does the same three things:
// decode, optionally run the interceptor chain, dispatch to the typed
// server method.
func unaryHandler[Req, Resp any](fullMethod string, dispatch func(srv interface{}, ctx context.Context, req *Req) (*Resp, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return dispatch(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return dispatch(srv, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// invokeUnary is the client-side mirror: every unary client method in
// this package calls cc.Invoke the same way, forcing the JSON codec.
func invokeUnary(ctx context.Context, cc grpc.ClientConnInterface, method string, in, out interface{}, opts ...grpc.CallOption) error {
	opts = append(opts, grpc.CallContentSubtype(CodecName))
	return cc.Invoke(ctx, method, in, out, opts...)
}

// newClientStream is the client-side mirror for the one server-
// streaming RPC in this package (ObjStore.StreamObjTo).
func newClientStream(ctx context.Context, cc grpc.ClientConnInterface, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	opts = append(opts, grpc.CallContentSubtype(CodecName))
	return cc.NewStream(ctx, desc, method, opts...)
}

package scheduler

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"github.com/nvaistore-labs/taskmesh/rpcpb"
)

// DebugServer exposes SchedulerInfo/TaskInfo read-only over a small
// fasthttp + jsoniter surface (SPEC_FULL §4 "Diagnostic HTTP surface"),
// mirroring the teacher's `/v1/cluster?what=...` GET-diagnostics
// pattern. The gRPC RPCs remain the canonical programmatic interface;
// this is purely for operator visibility.
type DebugServer struct {
	srv *Server
}

func NewDebugServer(srv *Server) *DebugServer { return &DebugServer{srv: srv} }

func (d *DebugServer) Handler(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/v1/scheduler/info":
		resp, err := d.srv.SchedulerInfo(context.Background(), &rpcpb.SchedulerInfoRequest{})
		writeJSON(ctx, resp, err)
	case "/v1/scheduler/task":
		opID := ctx.QueryArgs().GetUintOrZero("op")
		resp, err := d.srv.TaskInfo(context.Background(), &rpcpb.TaskInfoRequest{OperationID: uint64(opID)})
		writeJSON(ctx, resp, err)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, v interface{}, err error) {
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(err.Error())
		return
	}
	ctx.SetContentType("application/json")
	b, _ := jsoniter.Marshal(v)
	ctx.SetBody(b)
}

// ListenAndServe blocks serving the debug surface on addr until the
// process exits (mirrors the teacher's standalone debug listener).
func ListenAndServe(addr string, d *DebugServer) error {
	return fasthttp.ListenAndServe(addr, d.Handler)
}

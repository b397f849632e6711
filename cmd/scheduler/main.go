// Command scheduler runs the cluster's singleton scheduler: worker,
// object-store, and function registration; the task queue and matching
// algorithm; and the ObjRef lifecycle (spec §4.1).
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package main

import (
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/nvaistore-labs/taskmesh/cmn"
	"github.com/nvaistore-labs/taskmesh/rpcpb"
	"github.com/nvaistore-labs/taskmesh/scheduler"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON scheduler config file (optional)")
	flag.Parse()
	defer glog.Flush()

	gco, err := cmn.NewGCO(*configPath)
	if err != nil {
		glog.Fatalf("load config: %v", err)
	}
	cfg := gco.Get()

	stopCh := make(chan struct{})
	go gco.Watch(stopCh)

	promReg := prometheus.NewRegistry()
	metrics := scheduler.NewMetrics(promReg)

	state := scheduler.NewState(gco, metrics)
	go state.StartKeepaliveSweep(stopCh)

	srv := scheduler.NewServer(state)

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		glog.Fatalf("listen %s: %v", cfg.ListenAddr, err)
	}
	grpcSrv := grpc.NewServer(grpc.ForceServerCodec(encoding.GetCodec(rpcpb.CodecName)))
	rpcpb.RegisterSchedulerServer(grpcSrv, srv)

	debugSrv := scheduler.NewDebugServer(srv)
	go func() {
		glog.Infof("scheduler debug surface on %s", cfg.DebugAddr)
		if err := scheduler.ListenAndServe(cfg.DebugAddr, debugSrv); err != nil {
			glog.Errorf("debug surface: %v", err)
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		glog.Infof("scheduler metrics on %s", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			glog.Errorf("metrics surface: %v", err)
		}
	}()

	go func() {
		glog.Infof("scheduler gRPC listening on %s", cfg.ListenAddr)
		if err := grpcSrv.Serve(lis); err != nil {
			glog.Errorf("grpc serve: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	glog.Infof("scheduler shutting down")
	close(stopCh)
	grpcSrv.GracefulStop()
}

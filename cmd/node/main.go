// Command node runs one object store and a configurable number of
// worker processes co-located on it (spec §2: "Worker (many per
// node)"), registering both with a running scheduler.
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"

	"github.com/nvaistore-labs/taskmesh/cmn"
	"github.com/nvaistore-labs/taskmesh/objstore"
	"github.com/nvaistore-labs/taskmesh/rpcpb"
	"github.com/nvaistore-labs/taskmesh/worker"
)

func main() {
	schedulerAddr := flag.String("scheduler-addr", "", "scheduler gRPC address (required)")
	storeAddr := flag.String("store-addr", "", "this node's object-store gRPC listen address (required)")
	workerBaseAddr := flag.String("worker-base-addr", "", "base host:port for this node's workers; each worker binds the next consecutive port (required)")
	numWorkers := flag.Int("workers", 1, "number of worker processes to run on this node")
	configPath := flag.String("config", "", "path to a JSON node config file (optional)")
	flag.Parse()
	defer glog.Flush()

	if *schedulerAddr == "" || *storeAddr == "" || *workerBaseAddr == "" {
		glog.Fatalf("scheduler-addr, store-addr, and worker-base-addr are required")
	}

	gco, err := cmn.NewGCO(*configPath)
	if err != nil {
		glog.Fatalf("load config: %v", err)
	}
	cfg := gco.Get()
	stopCh := make(chan struct{})
	go gco.Watch(stopCh)

	schedConn, err := grpc.NewClient(*schedulerAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpcpb.CodecName)),
	)
	if err != nil {
		glog.Fatalf("dial scheduler %s: %v", *schedulerAddr, err)
	}
	schedClient := rpcpb.NewSchedulerClient(schedConn)

	ctx := context.Background()
	storeResp, err := schedClient.RegisterObjStore(ctx, &rpcpb.RegisterObjStoreRequest{Addr: *storeAddr})
	if err != nil {
		glog.Fatalf("RegisterObjStore: %v", err)
	}

	store := objstore.NewStore(storeResp.ObjStoreID, *storeAddr, schedClient, cfg)
	storeSrv := objstore.NewServer(store)

	storeLis, err := net.Listen("tcp", *storeAddr)
	if err != nil {
		glog.Fatalf("listen %s: %v", *storeAddr, err)
	}
	storeGRPC := grpc.NewServer(grpc.ForceServerCodec(encoding.GetCodec(rpcpb.CodecName)))
	rpcpb.RegisterObjStoreServer(storeGRPC, storeSrv)
	go func() {
		glog.Infof("object store %d listening on %s", storeResp.ObjStoreID, *storeAddr)
		if err := storeGRPC.Serve(storeLis); err != nil {
			glog.Errorf("objstore grpc serve: %v", err)
		}
	}()

	host, basePortStr, err := net.SplitHostPort(*workerBaseAddr)
	if err != nil {
		glog.Fatalf("worker-base-addr: %v", err)
	}
	basePort, err := strconv.Atoi(basePortStr)
	if err != nil {
		glog.Fatalf("worker-base-addr port: %v", err)
	}

	funcs := worker.NewFuncTable(worker.Builtins()...)
	var workerServers []*grpc.Server
	for i := 0; i < *numWorkers; i++ {
		addr := net.JoinHostPort(host, strconv.Itoa(basePort+1+i))
		w := worker.New(addr, store, schedClient, funcs)
		if err := w.Register(ctx); err != nil {
			glog.Fatalf("register worker %s: %v", addr, err)
		}

		lis, err := net.Listen("tcp", addr)
		if err != nil {
			glog.Fatalf("listen %s: %v", addr, err)
		}
		wgrpc := grpc.NewServer(grpc.ForceServerCodec(encoding.GetCodec(rpcpb.CodecName)))
		rpcpb.RegisterWorkerServiceServer(wgrpc, w)
		workerServers = append(workerServers, wgrpc)
		go func(lis net.Listener, wgrpc *grpc.Server, addr string) {
			glog.Infof("worker %d listening on %s", w.ID(), addr)
			if err := wgrpc.Serve(lis); err != nil {
				glog.Errorf("worker grpc serve: %v", err)
			}
		}(lis, wgrpc, addr)

		if err := w.Announce(ctx); err != nil {
			glog.Fatalf("announce worker %s: %v", addr, err)
		}
	}

	fmt.Fprintf(os.Stderr, "node ready: store=%d workers=%d\n", storeResp.ObjStoreID, *numWorkers)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	glog.Infof("node shutting down")
	close(stopCh)
	storeGRPC.GracefulStop()
	for _, s := range workerServers {
		s.GracefulStop()
	}
}

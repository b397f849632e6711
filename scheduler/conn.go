// Package scheduler is the cluster's singleton authority: worker/store/
// function registration, the task queue and matching algorithm (spec
// §4.1), and the ObjRef lifecycle (aliasing, refcounting, GC).
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package scheduler

import (
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nvaistore-labs/taskmesh/rpcpb"
)

// ConnCache memoizes outbound connections to worker and object-store
// addresses. The scheduler's outbound RPCs (ExecuteTask to a worker;
// StartDelivery, NotifyAlias and DeallocateObject to an object store)
// are all addressed by registered addresses, so one small dial cache
// covers them all.
type ConnCache struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

func NewConnCache() *ConnCache {
	return &ConnCache{conns: make(map[string]*grpc.ClientConn)}
}

func (c *ConnCache) dial(addr string) (*grpc.ClientConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cc, ok := c.conns[addr]; ok {
		return cc, nil
	}
	cc, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpcpb.CodecName)),
	)
	if err != nil {
		return nil, err
	}
	c.conns[addr] = cc
	return cc, nil
}

func (c *ConnCache) WorkerClient(addr string) (rpcpb.WorkerServiceClient, error) {
	cc, err := c.dial(addr)
	if err != nil {
		return nil, err
	}
	return rpcpb.NewWorkerServiceClient(cc), nil
}

func (c *ConnCache) ObjStoreClient(addr string) (rpcpb.ObjStoreClient, error) {
	cc, err := c.dial(addr)
	if err != nil {
		return nil, err
	}
	return rpcpb.NewObjStoreClient(cc), nil
}

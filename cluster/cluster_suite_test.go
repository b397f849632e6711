// Package cluster_test exercises the ObjRef lifecycle: alias resolution,
// refcounting, and the cascading GC of contained refs.
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package cluster_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestCluster(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, t.Name())
}

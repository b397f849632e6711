// Package worker implements the worker-side task loop (spec §4.3):
// register with the scheduler, receive ExecuteTask pushes, resolve
// arguments through the co-located object store, run the registered
// function, and report results and outcome back to the scheduler.
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package worker

import "github.com/nvaistore-labs/taskmesh/cmn"

// Result is one function output: the bytes to write to the local
// store, the serialized/binary split point (spec §3 metadata_offset),
// and any ObjRefs this output embeds (reported via
// AddContainedObjRefs, spec §4.3).
type Result struct {
	Data           []byte
	MetadataOffset int64
	Contained      []cmn.ObjRef
}

// Func is a registered function body: one input byte slice per task
// argument in, arity-many Results out (the scheduler allocated exactly
// that many result ObjRefs at SubmitTask time — spec §3 Task record).
type Func func(args [][]byte) ([]Result, error)

// Registration pairs a function with the arity (number of results) it
// will RegisterFunction with the scheduler under.
type Registration struct {
	Name  string
	Arity int
	Fn    Func
}

// FuncTable is the worker process's local function dispatch table
// (spec §9 "the scheduler does not interpret functions; it treats
// function_name -> {workers, arity} as a pure lookup table" — the
// worker is where the name actually resolves to code).
type FuncTable map[string]Registration

func NewFuncTable(regs ...Registration) FuncTable {
	t := make(FuncTable, len(regs))
	for _, r := range regs {
		t[r.Name] = r
	}
	return t
}

// Package cmn holds types, errors, and small utilities shared across the
// scheduler, the object store, and worker processes.
/*
 * Copyright (c) 2024, TaskMesh Authors. All rights reserved.
 */
package cmn

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds surfaced to RPC callers (see spec §7). Each is a distinct Go
// type so callers can `errors.As` against it; `pkg/errors.Wrap` is used at
// RPC-boundary call sites to keep a stack trace attached without losing the
// underlying typed error (`errors.Cause` recovers it).

type ErrUnknownFunction struct{ Name string }

func (e *ErrUnknownFunction) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

type ErrArityMismatch struct {
	Name            string
	Registered, Got int
}

func (e *ErrArityMismatch) Error() string {
	return fmt.Sprintf("function %q: arity mismatch (registered=%d, got=%d)", e.Name, e.Registered, e.Got)
}

type ErrAliasCycle struct{ Alias, Target uint64 }

func (e *ErrAliasCycle) Error() string {
	return fmt.Sprintf("alias %d -> %d would create a cycle", e.Alias, e.Target)
}

type ErrRetiredObjRef struct{ ObjRef uint64 }

func (e *ErrRetiredObjRef) Error() string {
	return fmt.Sprintf("objref %d is retired", e.ObjRef)
}

type ErrTaskFailure struct {
	OperationID uint64
	Message     string
}

func (e *ErrTaskFailure) Error() string {
	return fmt.Sprintf("task %d failed: %s", e.OperationID, e.Message)
}

type ErrTransferFailure struct {
	ObjRef uint64
	Tried  []uint64 // ObjStoreIds exhausted as delivery sources
}

func (e *ErrTransferFailure) Error() string {
	return fmt.Sprintf("objref %d: all %d candidate source(s) exhausted", e.ObjRef, len(e.Tried))
}

type ErrProtocolViolation struct{ Detail string }

func (e *ErrProtocolViolation) Error() string {
	return "protocol violation: " + e.Detail
}

// Wrap attaches call-site context (and a stack trace, via pkg/errors)
// to one of the typed errors above without discarding its type.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}

// Cause unwraps a pkg/errors-wrapped error back to its root cause, the
// same way the teacher's `cmn` error helpers do before classifying an
// error for an RPC status code.
func Cause(err error) error { return errors.Cause(err) }

package worker

import (
	"bytes"
	"testing"
)

func TestBuiltinsRegisterWithCorrectArity(t *testing.T) {
	ft := NewFuncTable(Builtins()...)
	if reg, ok := ft["id"]; !ok || reg.Arity != 1 {
		t.Fatalf("id registration = %+v, ok=%v", reg, ok)
	}
	if reg, ok := ft["concat"]; !ok || reg.Arity != 1 {
		t.Fatalf("concat registration = %+v, ok=%v", reg, ok)
	}
}

func TestIdentityReturnsInputUnchanged(t *testing.T) {
	results, err := identity([][]byte{[]byte("payload")})
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if len(results) != 1 || !bytes.Equal(results[0].Data, []byte("payload")) {
		t.Fatalf("identity results = %+v", results)
	}
}

func TestConcatJoinsBothArguments(t *testing.T) {
	results, err := concat([][]byte{[]byte("foo"), []byte("bar")})
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	if len(results) != 1 || !bytes.Equal(results[0].Data, []byte("foobar")) {
		t.Fatalf("concat results = %+v", results)
	}
}

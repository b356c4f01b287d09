package abi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMutexInitializers(t *testing.T) {
	if got := MutexInitializer(); got.Control != ThreadMutexNonrecursive || got.Owner != ThreadNull {
		t.Errorf("MutexInitializer() = %+v", got)
	}
	if got := RecursiveMutexInitializer(); got.Control != ThreadMutexRecursive {
		t.Errorf("RecursiveMutexInitializer() = %+v", got)
	}
	b, err := new(ThreadCond).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	c := CondInitializer()
	want, err := c.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("CondInitializer() encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestThreadMutexConversion(t *testing.T) {
	m := ThreadMutex{Refcount: 2, Control: ThreadMutexRecursive, Lock: 1, Owner: 0x7000, Queue: ThreadQueue{First: 0x7000, Last: 0x8000}}
	m32, err := m.To32()
	if err != nil {
		t.Fatal(err)
	}
	want := ThreadMutex32{Refcount: 2, Control: ThreadMutexRecursive, Lock: 1, Owner: 0x7000, Queue: ThreadQueue32{First: 0x7000, Last: 0x8000}}
	if diff := cmp.Diff(want, m32); diff != "" {
		t.Errorf("To32() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m, m32.To64()); diff != "" {
		t.Errorf("To64() mismatch (-want +got):\n%s", diff)
	}
}

func TestThreadNarrowingOverflow(t *testing.T) {
	if _, err := (ThreadMutex{Owner: 1 << 40}).To32(); err == nil {
		t.Error("To32() accepted a 41-bit owner")
	}
	if _, err := (ThreadCond{Queue: ThreadQueue{Last: 1 << 32}}).To32(); err == nil {
		t.Error("To32() accepted a 33-bit queue entry")
	}
}

func TestThreadCondConversion(t *testing.T) {
	c32 := ThreadCond32{Lock: 1, Queue: ThreadQueue32{First: 3, Last: 4}}
	c, err := c32.To64().To32()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c32, c); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

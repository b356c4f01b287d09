package abi

import (
	"fmt"
	"math"
)

// Arch names a target architecture whose word size changes record layouts.
type Arch string

// Supported architectures.
const (
	ArchX8664 Arch = "x86_64"
	ArchX86   Arch = "x86"
	// ArchAny marks records whose layout is the same on every architecture.
	ArchAny Arch = ""
)

// ParseArch accepts the names used by compilers and the kernel.
func ParseArch(s string) (Arch, error) {
	switch s {
	case "x86_64", "amd64", "x64":
		return ArchX8664, nil
	case "x86", "i386", "i686", "386":
		return ArchX86, nil
	}
	return ArchAny, fmt.Errorf("unknown architecture %q", s)
}

// WordSize returns the native word size in bytes (SE_WORDSIZE).
func (a Arch) WordSize() int {
	if a == ArchX86 {
		return 4
	}
	return 8
}

// Sizes from sgx_thread.h.
const (
	ThreadQueueSize   = 16
	ThreadMutexSize   = 40
	ThreadCondSize    = 24
	ThreadQueue32Size = 8
	ThreadMutex32Size = 24
	ThreadCond32Size  = 12
)

// Thread is sgx_thread_t on x86_64: the address of a thread's TCS.
type Thread uint64

// ThreadNull is SGX_THREAD_T_NULL.
const ThreadNull Thread = 0

// Mutex control values.
const (
	ThreadMutexNonrecursive uint32 = 0x01
	ThreadMutexRecursive    uint32 = 0x02
)

// ThreadQueue is sgx_thread_queue_t on x86_64.
type ThreadQueue struct {
	First Thread `json:"m_first"`
	Last  Thread `json:"m_last"`
}

// ThreadMutex is sgx_thread_mutex_t on x86_64.
type ThreadMutex struct {
	Refcount uint64      `json:"m_refcount"`
	Control  uint32      `json:"m_control"`
	Lock     uint32      `json:"m_lock"`
	Owner    Thread      `json:"m_owner"`
	Queue    ThreadQueue `json:"m_queue"`
}

// ThreadCond is sgx_thread_cond_t on x86_64.
type ThreadCond struct {
	Lock  uint32 `json:"m_lock"`
	_     [4]byte
	Queue ThreadQueue `json:"m_queue"`
}

// ThreadQueue32 is sgx_thread_queue_t on x86.
type ThreadQueue32 struct {
	First uint32 `json:"m_first"`
	Last  uint32 `json:"m_last"`
}

// ThreadMutex32 is sgx_thread_mutex_t on x86.
type ThreadMutex32 struct {
	Refcount uint32        `json:"m_refcount"`
	Control  uint32        `json:"m_control"`
	Lock     uint32        `json:"m_lock"`
	Owner    uint32        `json:"m_owner"`
	Queue    ThreadQueue32 `json:"m_queue"`
}

// ThreadCond32 is sgx_thread_cond_t on x86.
type ThreadCond32 struct {
	Lock  uint32        `json:"m_lock"`
	Queue ThreadQueue32 `json:"m_queue"`
}

// ThreadMutexAttr is sgx_thread_mutexattr_t.
type ThreadMutexAttr struct {
	Dummy uint8 `json:"m_dummy"`
}

// ThreadCondAttr is sgx_thread_condattr_t.
type ThreadCondAttr struct {
	Dummy uint8 `json:"m_dummy"`
}

// NonrecursiveMutexInitializer returns
// SGX_THREAD_NONRECURSIVE_MUTEX_INITIALIZER.
func NonrecursiveMutexInitializer() ThreadMutex {
	return ThreadMutex{Control: ThreadMutexNonrecursive}
}

// RecursiveMutexInitializer returns SGX_THREAD_RECURSIVE_MUTEX_INITIALIZER.
func RecursiveMutexInitializer() ThreadMutex {
	return ThreadMutex{Control: ThreadMutexRecursive}
}

// MutexInitializer returns SGX_THREAD_MUTEX_INITIALIZER, which is the
// non-recursive initializer.
func MutexInitializer() ThreadMutex { return NonrecursiveMutexInitializer() }

// CondInitializer returns SGX_THREAD_COND_INITIALIZER.
func CondInitializer() ThreadCond { return ThreadCond{} }

func narrow(name string, v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("%s %#x does not fit in a 32-bit word", name, v)
	}
	return uint32(v), nil
}

// To32 converts the queue to its x86 layout.
func (q ThreadQueue) To32() (ThreadQueue32, error) {
	first, err := narrow("m_first", uint64(q.First))
	if err != nil {
		return ThreadQueue32{}, err
	}
	last, err := narrow("m_last", uint64(q.Last))
	if err != nil {
		return ThreadQueue32{}, err
	}
	return ThreadQueue32{First: first, Last: last}, nil
}

// To64 converts the queue to its x86_64 layout.
func (q ThreadQueue32) To64() ThreadQueue {
	return ThreadQueue{First: Thread(q.First), Last: Thread(q.Last)}
}

// To32 converts the mutex to its x86 layout. It fails if any word does not
// fit in 32 bits.
func (m ThreadMutex) To32() (ThreadMutex32, error) {
	refcount, err := narrow("m_refcount", m.Refcount)
	if err != nil {
		return ThreadMutex32{}, err
	}
	owner, err := narrow("m_owner", uint64(m.Owner))
	if err != nil {
		return ThreadMutex32{}, err
	}
	queue, err := m.Queue.To32()
	if err != nil {
		return ThreadMutex32{}, err
	}
	return ThreadMutex32{Refcount: refcount, Control: m.Control, Lock: m.Lock, Owner: owner, Queue: queue}, nil
}

// To64 converts the mutex to its x86_64 layout.
func (m ThreadMutex32) To64() ThreadMutex {
	return ThreadMutex{
		Refcount: uint64(m.Refcount),
		Control:  m.Control,
		Lock:     m.Lock,
		Owner:    Thread(m.Owner),
		Queue:    m.Queue.To64(),
	}
}

// To32 converts the condition variable to its x86 layout.
func (c ThreadCond) To32() (ThreadCond32, error) {
	queue, err := c.Queue.To32()
	if err != nil {
		return ThreadCond32{}, err
	}
	return ThreadCond32{Lock: c.Lock, Queue: queue}, nil
}

// To64 converts the condition variable to its x86_64 layout.
func (c ThreadCond32) To64() ThreadCond {
	return ThreadCond{Lock: c.Lock, Queue: c.Queue.To64()}
}

// Spinlock is sgx_spinlock_t.
type Spinlock uint32

// SpinlockInitializer is SGX_SPINLOCK_INITIALIZER.
const SpinlockInitializer Spinlock = 0

// MarshalBinary implements encoding.BinaryMarshaler.
func (q *ThreadQueue) MarshalBinary() ([]byte, error) { return marshal(q) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (q *ThreadQueue) UnmarshalBinary(data []byte) error { return unmarshal(data, q) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *ThreadMutex) MarshalBinary() ([]byte, error) { return marshal(m) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *ThreadMutex) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *ThreadCond) MarshalBinary() ([]byte, error) { return marshal(c) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *ThreadCond) UnmarshalBinary(data []byte) error { return unmarshal(data, c) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (q *ThreadQueue32) MarshalBinary() ([]byte, error) { return marshal(q) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (q *ThreadQueue32) UnmarshalBinary(data []byte) error { return unmarshal(data, q) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *ThreadMutex32) MarshalBinary() ([]byte, error) { return marshal(m) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *ThreadMutex32) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *ThreadCond32) MarshalBinary() ([]byte, error) { return marshal(c) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *ThreadCond32) UnmarshalBinary(data []byte) error { return unmarshal(data, c) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *ThreadMutexAttr) MarshalBinary() ([]byte, error) { return marshal(a) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *ThreadMutexAttr) UnmarshalBinary(data []byte) error { return unmarshal(data, a) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *ThreadCondAttr) MarshalBinary() ([]byte, error) { return marshal(a) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *ThreadCondAttr) UnmarshalBinary(data []byte) error { return unmarshal(data, a) }

package abi

import "fmt"

// Exception handler return values.
const (
	ExceptionContinueSearch    uint32 = 0
	ExceptionContinueExecution uint32 = 0xFFFFFFFF
)

// Sizes from sgx_trts_exception.h.
const (
	CPUContextSize      = 144
	CPUContext32Size    = 40
	ExceptionInfoSize   = 152
	ExceptionInfo32Size = 48
)

// ExceptionVector is sgx_exception_vector_t.
type ExceptionVector uint32

// Exception vectors delivered to enclave handlers.
const (
	ExceptionVectorDE ExceptionVector = 0
	ExceptionVectorDB ExceptionVector = 1
	ExceptionVectorBP ExceptionVector = 3
	ExceptionVectorBR ExceptionVector = 5
	ExceptionVectorUD ExceptionVector = 6
	ExceptionVectorMF ExceptionVector = 16
	ExceptionVectorAC ExceptionVector = 17
	ExceptionVectorXM ExceptionVector = 19
)

var exceptionVectorNames = map[ExceptionVector]string{
	ExceptionVectorDE: "#DE",
	ExceptionVectorDB: "#DB",
	ExceptionVectorBP: "#BP",
	ExceptionVectorBR: "#BR",
	ExceptionVectorUD: "#UD",
	ExceptionVectorMF: "#MF",
	ExceptionVectorAC: "#AC",
	ExceptionVectorXM: "#XM",
}

func (v ExceptionVector) String() string {
	if s, ok := exceptionVectorNames[v]; ok {
		return s
	}
	return fmt.Sprintf("ExceptionVector(%d)", uint32(v))
}

// ExceptionType is sgx_exception_type_t.
type ExceptionType uint32

// Exception sources.
const (
	ExceptionHardware ExceptionType = 3
	ExceptionSoftware ExceptionType = 6
)

func (t ExceptionType) String() string {
	switch t {
	case ExceptionHardware:
		return "HARDWARE"
	case ExceptionSoftware:
		return "SOFTWARE"
	}
	return fmt.Sprintf("ExceptionType(%d)", uint32(t))
}

// CPUContext is sgx_cpu_context_t on x86_64.
type CPUContext struct {
	RAX    uint64 `json:"rax"`
	RCX    uint64 `json:"rcx"`
	RDX    uint64 `json:"rdx"`
	RBX    uint64 `json:"rbx"`
	RSP    uint64 `json:"rsp"`
	RBP    uint64 `json:"rbp"`
	RSI    uint64 `json:"rsi"`
	RDI    uint64 `json:"rdi"`
	R8     uint64 `json:"r8"`
	R9     uint64 `json:"r9"`
	R10    uint64 `json:"r10"`
	R11    uint64 `json:"r11"`
	R12    uint64 `json:"r12"`
	R13    uint64 `json:"r13"`
	R14    uint64 `json:"r14"`
	R15    uint64 `json:"r15"`
	RFlags uint64 `json:"rflags"`
	RIP    uint64 `json:"rip"`
}

// CPUContext32 is sgx_cpu_context_t on x86.
type CPUContext32 struct {
	EAX    uint32 `json:"eax"`
	ECX    uint32 `json:"ecx"`
	EDX    uint32 `json:"edx"`
	EBX    uint32 `json:"ebx"`
	ESP    uint32 `json:"esp"`
	EBP    uint32 `json:"ebp"`
	ESI    uint32 `json:"esi"`
	EDI    uint32 `json:"edi"`
	EFlags uint32 `json:"eflags"`
	EIP    uint32 `json:"eip"`
}

// ExceptionInfo is sgx_exception_info_t on x86_64.
type ExceptionInfo struct {
	CPUContext      CPUContext      `json:"cpu_context"`
	ExceptionVector ExceptionVector `json:"exception_vector"`
	ExceptionType   ExceptionType   `json:"exception_type"`
}

// ExceptionInfo32 is sgx_exception_info_t on x86.
type ExceptionInfo32 struct {
	CPUContext      CPUContext32    `json:"cpu_context"`
	ExceptionVector ExceptionVector `json:"exception_vector"`
	ExceptionType   ExceptionType   `json:"exception_type"`
}

// ExceptionHandler mirrors sgx_exception_handler_t. It returns
// ExceptionContinueExecution once it has handled the exception, or
// ExceptionContinueSearch to pass it to the next handler.
type ExceptionHandler func(info *ExceptionInfo) uint32

func validateException(v ExceptionVector, t ExceptionType) []error {
	var errs []error
	if _, ok := exceptionVectorNames[v]; !ok {
		errs = append(errs, fmt.Errorf("unknown exception vector %d", uint32(v)))
	}
	if t != ExceptionHardware && t != ExceptionSoftware {
		errs = append(errs, fmt.Errorf("unknown exception type %d", uint32(t)))
	}
	return errs
}

// Validate checks the exception vector and type.
func (e *ExceptionInfo) Validate() error {
	return createValidationError("sgx_exception_info_t", validateException(e.ExceptionVector, e.ExceptionType))
}

// Validate checks the exception vector and type.
func (e *ExceptionInfo32) Validate() error {
	return createValidationError("sgx_exception_info_t", validateException(e.ExceptionVector, e.ExceptionType))
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *CPUContext) MarshalBinary() ([]byte, error) { return marshal(c) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *CPUContext) UnmarshalBinary(data []byte) error { return unmarshal(data, c) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *CPUContext32) MarshalBinary() ([]byte, error) { return marshal(c) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *CPUContext32) UnmarshalBinary(data []byte) error { return unmarshal(data, c) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (e *ExceptionInfo) MarshalBinary() ([]byte, error) { return marshal(e) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *ExceptionInfo) UnmarshalBinary(data []byte) error { return unmarshal(data, e) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (e *ExceptionInfo32) MarshalBinary() ([]byte, error) { return marshal(e) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *ExceptionInfo32) UnmarshalBinary(data []byte) error { return unmarshal(data, e) }

package abi

import "fmt"

// EnclaveID is sgx_enclave_id_t.
type EnclaveID uint64

// LaunchTokenSize is the size of sgx_launch_token_t.
const LaunchTokenSize = 1024

// LaunchToken is sgx_launch_token_t.
type LaunchToken [LaunchTokenSize]byte

// EnclaveState is the initialization state tracked by trts.pic.h.
type EnclaveState uint32

// Enclave initialization states.
const (
	EnclaveInitNotStarted EnclaveState = 0
	EnclaveInitInProgress EnclaveState = 1
	EnclaveInitDone       EnclaveState = 2
	EnclaveCrashed        EnclaveState = 3
)

func (s EnclaveState) String() string {
	switch s {
	case EnclaveInitNotStarted:
		return "NOT_STARTED"
	case EnclaveInitInProgress:
		return "IN_PROGRESS"
	case EnclaveInitDone:
		return "DONE"
	case EnclaveCrashed:
		return "CRASHED"
	}
	return fmt.Sprintf("EnclaveState(%d)", uint32(s))
}

// CPUInfo is sgx_cpuinfo_t: EAX, EBX, ECX and EDX of a CPUID leaf.
type CPUInfo [4]int32

// Constants of sgx_tprotected_fs.h.
const (
	EOF         int32  = -1
	SeekSet     int32  = 0
	SeekCur     int32  = 1
	SeekEnd     int32  = 2
	FilenameMax uint32 = 260
	FopenMax    uint32 = 20
)

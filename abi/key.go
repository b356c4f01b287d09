package abi

import "fmt"

// KeyName selects which key EGETKEY derives.
type KeyName uint16

// Key names.
const (
	KeySelectLicense       KeyName = 0x0000
	KeySelectProvision     KeyName = 0x0001
	KeySelectProvisionSeal KeyName = 0x0002
	KeySelectReport        KeyName = 0x0003
	KeySelectSeal          KeyName = 0x0004
)

func (k KeyName) String() string {
	switch k {
	case KeySelectLicense:
		return "LICENSE"
	case KeySelectProvision:
		return "PROVISION"
	case KeySelectProvisionSeal:
		return "PROVISION_SEAL"
	case KeySelectReport:
		return "REPORT"
	case KeySelectSeal:
		return "SEAL"
	}
	return fmt.Sprintf("KeyName(%#x)", uint16(k))
}

// KeyPolicy selects which measurement registers feed key derivation.
type KeyPolicy uint16

// Key policies.
const (
	// KeyPolicyMREnclave derives the key from the enclave's MRENCLAVE.
	KeyPolicyMREnclave KeyPolicy = 0x0001
	// KeyPolicyMRSigner derives the key from the enclave's MRSIGNER.
	KeyPolicyMRSigner KeyPolicy = 0x0002

	keyPolicyMask = KeyPolicyMREnclave | KeyPolicyMRSigner
)

func (p KeyPolicy) String() string {
	switch p {
	case 0:
		return "NONE"
	case KeyPolicyMREnclave:
		return "MRENCLAVE"
	case KeyPolicyMRSigner:
		return "MRSIGNER"
	case KeyPolicyMREnclave | KeyPolicyMRSigner:
		return "MRENCLAVE|MRSIGNER"
	}
	return fmt.Sprintf("KeyPolicy(%#x)", uint16(p))
}

// Sizes from sgx_key.h.
const (
	KeyIDSize                = 32
	CPUSVNSize               = 16
	KeyRequestReserved2Bytes = 436

	KeyRequestSize = 512
)

// Key128 is sgx_key_128bit_t.
type Key128 [16]byte

// ISVSVN is sgx_isv_svn_t.
type ISVSVN uint16

// CPUSVN is sgx_cpu_svn_t.
type CPUSVN struct {
	SVN [CPUSVNSize]byte `json:"svn"`
}

// KeyID is sgx_key_id_t.
type KeyID struct {
	ID [KeyIDSize]byte `json:"id"`
}

// KeyRequest is sgx_key_request_t.
type KeyRequest struct {
	KeyName       KeyName                        `json:"key_name"`
	KeyPolicy     KeyPolicy                      `json:"key_policy"`
	ISVSVN        ISVSVN                         `json:"isv_svn"`
	Reserved1     uint16                         `json:"reserved1"`
	CPUSVN        CPUSVN                         `json:"cpu_svn"`
	AttributeMask Attributes                     `json:"attribute_mask"`
	KeyID         KeyID                          `json:"key_id"`
	MiscMask      MiscSelect                     `json:"misc_mask"`
	Reserved2     [KeyRequestReserved2Bytes]byte `json:"reserved2"`
}

// Validate checks the fields EGETKEY rejects: unknown key names, unknown
// policy bits and non-zero reserved regions.
func (k *KeyRequest) Validate() error {
	var errs []error
	if k.KeyName > KeySelectSeal {
		errs = append(errs, fmt.Errorf("unknown key name %v", k.KeyName))
	}
	if p := k.KeyPolicy &^ keyPolicyMask; p != 0 {
		errs = append(errs, fmt.Errorf("unknown key policy bits %#x", uint16(p)))
	}
	if k.Reserved1 != 0 {
		errs = append(errs, fmt.Errorf("reserved1: %w", errNotZero))
	}
	if err := checkZero("reserved2", k.Reserved2[:]); err != nil {
		errs = append(errs, err)
	}
	return createValidationError("sgx_key_request_t", errs)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *CPUSVN) MarshalBinary() ([]byte, error) { return marshal(s) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *CPUSVN) UnmarshalBinary(data []byte) error { return unmarshal(data, s) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *KeyID) MarshalBinary() ([]byte, error) { return marshal(k) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *KeyID) UnmarshalBinary(data []byte) error { return unmarshal(data, k) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *KeyRequest) MarshalBinary() ([]byte, error) { return marshal(k) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *KeyRequest) UnmarshalBinary(data []byte) error { return unmarshal(data, k) }

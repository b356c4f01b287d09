package abi

import (
	"errors"
	"fmt"
)

// MiscSelect is the SGX MISCSELECT bit vector.
type MiscSelect uint32

// Enclave flags bit masks.
const (
	// FlagsInitted is set once the enclave is initialized.
	FlagsInitted uint64 = 0x0000000000000001
	// FlagsDebug is set for debug enclaves.
	FlagsDebug uint64 = 0x0000000000000002
	// FlagsMode64Bit is set for 64-bit enclaves.
	FlagsMode64Bit uint64 = 0x0000000000000004
	// FlagsProvisionKey grants access to the provisioning key.
	FlagsProvisionKey uint64 = 0x0000000000000010
	// FlagsEInitTokenKey grants access to the EINITTOKEN key.
	FlagsEInitTokenKey uint64 = 0x0000000000000020
	// FlagsReserved covers every bit not defined above.
	FlagsReserved = ^(FlagsInitted | FlagsDebug | FlagsMode64Bit | FlagsProvisionKey | FlagsEInitTokenKey)
)

// XSAVE feature request masks.
const (
	XFRMLegacy uint64 = 0x0000000000000003
	XFRMAVX    uint64 = 0x0000000000000006
	// XFRMAVX512 is not supported by the SDK.
	XFRMAVX512 uint64 = 0x00000000000000E6
	// XFRMMPX is not supported by the SDK.
	XFRMMPX      uint64 = 0x0000000000000018
	XFRMReserved        = ^(XFRMLegacy | XFRMAVX)
)

// AttributesSize is sizeof(sgx_attributes_t).
const AttributesSize = 16

// MiscAttributeSize is sizeof(sgx_misc_attribute_t).
const MiscAttributeSize = 24

// Attributes is sgx_attributes_t.
type Attributes struct {
	Flags uint64 `json:"flags"`
	XFRM  uint64 `json:"xfrm"`
}

// Initted reports whether FlagsInitted is set.
func (a Attributes) Initted() bool { return a.Flags&FlagsInitted != 0 }

// Debug reports whether FlagsDebug is set.
func (a Attributes) Debug() bool { return a.Flags&FlagsDebug != 0 }

// Mode64Bit reports whether FlagsMode64Bit is set.
func (a Attributes) Mode64Bit() bool { return a.Flags&FlagsMode64Bit != 0 }

// ProvisionKey reports whether FlagsProvisionKey is set.
func (a Attributes) ProvisionKey() bool { return a.Flags&FlagsProvisionKey != 0 }

// EInitTokenKey reports whether FlagsEInitTokenKey is set.
func (a Attributes) EInitTokenKey() bool { return a.Flags&FlagsEInitTokenKey != 0 }

// Validate checks that no reserved flag bits are set.
func (a Attributes) Validate() error {
	var errs []error
	if r := a.Flags & FlagsReserved; r != 0 {
		errs = append(errs, fmt.Errorf("reserved flag bits set: %#x", r))
	}
	return createValidationError("sgx_attributes_t", errs)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *Attributes) MarshalBinary() ([]byte, error) { return marshal(a) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *Attributes) UnmarshalBinary(data []byte) error { return unmarshal(data, a) }

// MiscAttribute is sgx_misc_attribute_t.
type MiscAttribute struct {
	SECSAttr   Attributes `json:"secs_attr"`
	MiscSelect MiscSelect `json:"misc_select"`
	_          [4]byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *MiscAttribute) MarshalBinary() ([]byte, error) { return marshal(m) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *MiscAttribute) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

var errNotZero = errors.New("must be zero")

func checkZero(name string, b []byte) error {
	for _, x := range b {
		if x != 0 {
			return fmt.Errorf("%s: %w", name, errNotZero)
		}
	}
	return nil
}

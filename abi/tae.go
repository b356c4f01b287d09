package abi

// Sizes from sgx_tae_service.h and sgx_uae_service.h.
const (
	MCUUIDCounterIDSize = 3
	MCUUIDNonceSize     = 13

	MCUUIDSize          = 16
	PSSecPropDescSize   = 256
	PSSecPropDescExSize = 292
	PSCapSize           = 8
)

// Time is sgx_time_t, seconds since the platform time source epoch.
type Time uint64

// TimeSourceNonce is sgx_time_source_nonce_t.
type TimeSourceNonce [32]byte

// MCUUID is sgx_mc_uuid_t, the identifier of a monotonic counter.
type MCUUID struct {
	CounterID [MCUUIDCounterIDSize]byte `json:"counter_id"`
	Nonce     [MCUUIDNonceSize]byte     `json:"nonce"`
}

// PSSecPropDesc is sgx_ps_sec_prop_desc_t, an opaque descriptor of the
// platform service security properties.
type PSSecPropDesc struct {
	Desc [PSSecPropDescSize]byte `json:"sgx_ps_sec_prop_desc"`
}

// PSSecPropDescEx is sgx_ps_sec_prop_desc_ex_t.
type PSSecPropDescEx struct {
	PSSecPropDesc PSSecPropDesc `json:"ps_sec_prop_desc"`
	PSEMRSigner   Measurement   `json:"pse_mrsigner"`
	PSEProdID     ProdID        `json:"pse_prod_id"`
	PSEISVSVN     ISVSVN        `json:"pse_isv_svn"`
}

// Monotonic counter owner policies.
const (
	MCPolicySigner  uint16 = 0x01
	MCPolicyEnclave uint16 = 0x02
)

// Platform service capability bits of PSCap.Cap0.
const (
	PSCapTrustedTime      uint32 = 0x1
	PSCapMonotonicCounter uint32 = 0x2
)

// PSCap is sgx_ps_cap_t.
type PSCap struct {
	Cap0 uint32 `json:"ps_cap0"`
	Cap1 uint32 `json:"ps_cap1"`
}

// TrustedTimeAvailable reports whether the trusted time service is
// available.
func (c PSCap) TrustedTimeAvailable() bool { return c.Cap0&PSCapTrustedTime != 0 }

// MonotonicCounterAvailable reports whether the monotonic counter service
// is available.
func (c PSCap) MonotonicCounterAvailable() bool { return c.Cap0&PSCapMonotonicCounter != 0 }

// MarshalBinary implements encoding.BinaryMarshaler.
func (u *MCUUID) MarshalBinary() ([]byte, error) { return marshal(u) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (u *MCUUID) UnmarshalBinary(data []byte) error { return unmarshal(data, u) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (d *PSSecPropDesc) MarshalBinary() ([]byte, error) { return marshal(d) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *PSSecPropDesc) UnmarshalBinary(data []byte) error { return unmarshal(data, d) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (d *PSSecPropDescEx) MarshalBinary() ([]byte, error) { return marshal(d) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *PSSecPropDescEx) UnmarshalBinary(data []byte) error { return unmarshal(data, d) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *PSCap) MarshalBinary() ([]byte, error) { return marshal(c) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *PSCap) UnmarshalBinary(data []byte) error { return unmarshal(data, c) }

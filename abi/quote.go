package abi

import "fmt"

// Sizes from sgx_quote.h.
const (
	PlatformInfoSize  = 101
	SPIDSize          = 16
	BasenameSize      = 32
	QuoteNonceSize    = 16
	UpdateInfoBitSize = 12
	QuoteSize         = 436
)

// EPIDGroupID is sgx_epid_group_id_t.
type EPIDGroupID [4]byte

// SPID is sgx_spid_t, the service provider ID.
type SPID struct {
	ID [16]byte `json:"id"`
}

// Basename is sgx_basename_t.
type Basename struct {
	Name [32]byte `json:"name"`
}

// QuoteNonce is sgx_quote_nonce_t.
type QuoteNonce struct {
	Rand [16]byte `json:"rand"`
}

// UpdateInfoBit is sgx_update_info_bit_t. Each field is non-zero when the
// corresponding platform component needs an update.
type UpdateInfoBit struct {
	UcodeUpdate  int32 `json:"ucodeUpdate"`
	CSMEFwUpdate int32 `json:"csmeFwUpdate"`
	PSWUpdate    int32 `json:"pswUpdate"`
}

// QuoteSignType is sgx_quote_sign_type_t.
type QuoteSignType uint32

// Quote signature types.
const (
	UnlinkableSignature QuoteSignType = 0
	LinkableSignature   QuoteSignType = 1
)

func (t QuoteSignType) String() string {
	switch t {
	case UnlinkableSignature:
		return "UNLINKABLE"
	case LinkableSignature:
		return "LINKABLE"
	}
	return fmt.Sprintf("QuoteSignType(%d)", uint32(t))
}

// Quote is sgx_quote_t, an EPID quote. The signature follows the fixed
// part and is SignatureLen bytes long.
type Quote struct {
	Version      uint16      `json:"version"`
	SignType     uint16      `json:"sign_type"`
	EPIDGroupID  EPIDGroupID `json:"epid_group_id"`
	QESVN        ISVSVN      `json:"qe_svn"`
	PCESVN       ISVSVN      `json:"pce_svn"`
	XEID         uint32      `json:"xeid"`
	Basename     Basename    `json:"basename"`
	ReportBody   ReportBody  `json:"report_body"`
	SignatureLen uint32      `json:"signature_len"`
	Signature    []byte      `json:"signature"`
}

// Validate checks the signature type and that SignatureLen matches the
// signature carried after the fixed part.
func (q *Quote) Validate() error {
	var errs []error
	if t := QuoteSignType(q.SignType); t != UnlinkableSignature && t != LinkableSignature {
		errs = append(errs, fmt.Errorf("unknown sign type %v", t))
	}
	if int(q.SignatureLen) != len(q.Signature) {
		errs = append(errs, lengthMismatch("signature_len", q.SignatureLen, len(q.Signature)))
	}
	return createValidationError("sgx_quote_t", errs)
}

// PlatformInfo is sgx_platform_info_t, the opaque platform info blob
// returned by the attestation service.
type PlatformInfo struct {
	PlatformInfo [PlatformInfoSize]byte `json:"platform_info"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *SPID) MarshalBinary() ([]byte, error) { return marshal(s) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *SPID) UnmarshalBinary(data []byte) error { return unmarshal(data, s) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (b *Basename) MarshalBinary() ([]byte, error) { return marshal(b) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (b *Basename) UnmarshalBinary(data []byte) error { return unmarshal(data, b) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (n *QuoteNonce) MarshalBinary() ([]byte, error) { return marshal(n) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (n *QuoteNonce) UnmarshalBinary(data []byte) error { return unmarshal(data, n) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (u *UpdateInfoBit) MarshalBinary() ([]byte, error) { return marshal(u) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (u *UpdateInfoBit) UnmarshalBinary(data []byte) error { return unmarshal(data, u) }

// MarshalBinary implements encoding.BinaryMarshaler. It fails if
// SignatureLen disagrees with the signature.
func (q *Quote) MarshalBinary() ([]byte, error) {
	if int(q.SignatureLen) != len(q.Signature) {
		return nil, fmt.Errorf("sgx_quote_t: %w", lengthMismatch("signature_len", q.SignatureLen, len(q.Signature)))
	}
	return marshal(q)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (q *Quote) UnmarshalBinary(data []byte) error { return unmarshal(data, q) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *PlatformInfo) MarshalBinary() ([]byte, error) { return marshal(p) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *PlatformInfo) UnmarshalBinary(data []byte) error { return unmarshal(data, p) }

package abi

import "fmt"

// Sizes from sgx_key_exchange.h.
const (
	RAMsg1Size = 68
	RAMsg2Size = 168
	RAMsg3Size = 336
)

// RAContext is sgx_ra_context_t, the handle of a remote attestation
// session inside the enclave.
type RAContext uint32

// RAKey128 is sgx_ra_key_128_t.
type RAKey128 = Key128

// RAKeyType is sgx_ra_key_type_t.
type RAKeyType uint32

// Keys derived by a remote attestation session.
const (
	RAKeySK RAKeyType = 1
	RAKeyMK RAKeyType = 2
	RAKeyVK RAKeyType = 3
)

func (k RAKeyType) String() string {
	switch k {
	case RAKeySK:
		return "SK"
	case RAKeyMK:
		return "MK"
	case RAKeyVK:
		return "VK"
	}
	return fmt.Sprintf("RAKeyType(%d)", uint32(k))
}

// RAMsg1 is sgx_ra_msg1_t.
type RAMsg1 struct {
	GA  EC256Public `json:"g_a"`
	GID EPIDGroupID `json:"gid"`
}

// RAMsg2 is sgx_ra_msg2_t. SigRL carries SigRLSize bytes of signature
// revocation list.
type RAMsg2 struct {
	GB        EC256Public    `json:"g_b"`
	SPID      SPID           `json:"spid"`
	QuoteType uint16         `json:"quote_type"`
	KDFID     uint16         `json:"kdf_id"`
	SignGBGA  EC256Signature `json:"sign_gb_ga"`
	MAC       MAC            `json:"mac"`
	SigRLSize uint32         `json:"sig_rl_size"`
	SigRL     []byte         `json:"sig_rl"`
}

// RAMsg3 is sgx_ra_msg3_t. Quote holds the sgx_quote_t produced by the
// quoting enclave.
type RAMsg3 struct {
	MAC       MAC           `json:"mac"`
	GA        EC256Public   `json:"g_a"`
	PSSecProp PSSecPropDesc `json:"ps_sec_prop"`
	Quote     []byte        `json:"quote"`
}

// Validate checks that SigRLSize matches SigRL.
func (m *RAMsg2) Validate() error {
	var errs []error
	if int(m.SigRLSize) != len(m.SigRL) {
		errs = append(errs, lengthMismatch("sig_rl_size", m.SigRLSize, len(m.SigRL)))
	}
	return createValidationError("sgx_ra_msg2_t", errs)
}

// ParseQuote decodes the quote carried by the message.
func (m *RAMsg3) ParseQuote() (*Quote, error) {
	q := new(Quote)
	if err := q.UnmarshalBinary(m.Quote); err != nil {
		return nil, fmt.Errorf("sgx_ra_msg3_t quote: %w", err)
	}
	return q, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *RAMsg1) MarshalBinary() ([]byte, error) { return marshal(m) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *RAMsg1) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

// MarshalBinary implements encoding.BinaryMarshaler. It fails if SigRLSize
// disagrees with SigRL.
func (m *RAMsg2) MarshalBinary() ([]byte, error) {
	if int(m.SigRLSize) != len(m.SigRL) {
		return nil, fmt.Errorf("sgx_ra_msg2_t: %w", lengthMismatch("sig_rl_size", m.SigRLSize, len(m.SigRL)))
	}
	return marshal(m)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *RAMsg2) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *RAMsg3) MarshalBinary() ([]byte, error) { return marshal(m) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *RAMsg3) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

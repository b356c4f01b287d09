package abi

import "fmt"

// Sizes from sgx_dh.h.
const (
	DHMACSize         = 16
	DHSessionDataSize = 200

	DHMsg1Size                   = 576
	DHMsg2Size                   = 512
	DHMsg3BodySize               = 436
	DHMsg3Size                   = 452
	DHSessionEnclaveIdentitySize = 260
	DHSessionSize                = DHSessionDataSize
)

// DHMsg1 is sgx_dh_msg1_t, sent by the responder to open a local
// attestation session.
type DHMsg1 struct {
	GA     EC256Public `json:"g_a"`
	Target TargetInfo  `json:"target"`
}

// DHMsg2 is sgx_dh_msg2_t.
type DHMsg2 struct {
	GB     EC256Public     `json:"g_b"`
	Report Report          `json:"report"`
	CMAC   [DHMACSize]byte `json:"cmac"`
}

// DHMsg3Body is sgx_dh_msg3_body_t. AdditionalProp carries
// AdditionalPropLength bytes.
type DHMsg3Body struct {
	Report               Report `json:"report"`
	AdditionalPropLength uint32 `json:"additional_prop_length"`
	AdditionalProp       []byte `json:"additional_prop"`
}

// DHMsg3 is sgx_dh_msg3_t.
type DHMsg3 struct {
	CMAC [DHMACSize]byte `json:"cmac"`
	Body DHMsg3Body      `json:"msg3_body"`
}

// DHSessionEnclaveIdentity is sgx_dh_session_enclave_identity_t, the peer
// identity established by a completed session.
type DHSessionEnclaveIdentity struct {
	CPUSVN     CPUSVN      `json:"cpu_svn"`
	MiscSelect MiscSelect  `json:"misc_select"`
	Reserved1  [28]byte    `json:"reserved_1"`
	Attributes Attributes  `json:"attributes"`
	MREnclave  Measurement `json:"mr_enclave"`
	Reserved2  [32]byte    `json:"reserved_2"`
	MRSigner   Measurement `json:"mr_signer"`
	Reserved3  [96]byte    `json:"reserved_3"`
	ISVProdID  ProdID      `json:"isv_prod_id"`
	ISVSVN     ISVSVN      `json:"isv_svn"`
}

// DHSession is sgx_dh_session_t, opaque session state.
type DHSession struct {
	Session [DHSessionDataSize]byte `json:"sgx_dh_session"`
}

// DHSessionRole is sgx_dh_session_role_t.
type DHSessionRole uint32

// Session roles.
const (
	DHSessionInitiator DHSessionRole = 0
	DHSessionResponder DHSessionRole = 1
)

func (r DHSessionRole) String() string {
	switch r {
	case DHSessionInitiator:
		return "INITIATOR"
	case DHSessionResponder:
		return "RESPONDER"
	}
	return fmt.Sprintf("DHSessionRole(%d)", uint32(r))
}

// Identity returns the enclave identity described by the report body.
func (r *ReportBody) Identity() DHSessionEnclaveIdentity {
	return DHSessionEnclaveIdentity{
		CPUSVN:     r.CPUSVN,
		MiscSelect: r.MiscSelect,
		Attributes: r.Attributes,
		MREnclave:  r.MREnclave,
		MRSigner:   r.MRSigner,
		ISVProdID:  r.ISVProdID,
		ISVSVN:     r.ISVSVN,
	}
}

func (b *DHMsg3Body) checkLength() error {
	if int(b.AdditionalPropLength) != len(b.AdditionalProp) {
		return lengthMismatch("additional_prop_length", b.AdditionalPropLength, len(b.AdditionalProp))
	}
	return nil
}

// Validate checks that AdditionalPropLength matches AdditionalProp.
func (b *DHMsg3Body) Validate() error {
	var errs []error
	if err := b.checkLength(); err != nil {
		errs = append(errs, err)
	}
	return createValidationError("sgx_dh_msg3_body_t", errs)
}

// Validate checks the message body.
func (m *DHMsg3) Validate() error {
	var errs []error
	if err := m.Body.checkLength(); err != nil {
		errs = append(errs, fmt.Errorf("msg3_body: %w", err))
	}
	return createValidationError("sgx_dh_msg3_t", errs)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *DHMsg1) MarshalBinary() ([]byte, error) { return marshal(m) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *DHMsg1) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *DHMsg2) MarshalBinary() ([]byte, error) { return marshal(m) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *DHMsg2) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

// MarshalBinary implements encoding.BinaryMarshaler. It fails if
// AdditionalPropLength disagrees with AdditionalProp.
func (b *DHMsg3Body) MarshalBinary() ([]byte, error) {
	if err := b.checkLength(); err != nil {
		return nil, fmt.Errorf("sgx_dh_msg3_body_t: %w", err)
	}
	return marshal(b)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (b *DHMsg3Body) UnmarshalBinary(data []byte) error { return unmarshal(data, b) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *DHMsg3) MarshalBinary() ([]byte, error) {
	if err := m.Body.checkLength(); err != nil {
		return nil, fmt.Errorf("sgx_dh_msg3_t: %w", err)
	}
	return marshal(m)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *DHMsg3) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (i *DHSessionEnclaveIdentity) MarshalBinary() ([]byte, error) { return marshal(i) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (i *DHSessionEnclaveIdentity) UnmarshalBinary(data []byte) error { return unmarshal(data, i) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *DHSession) MarshalBinary() ([]byte, error) { return marshal(s) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *DHSession) UnmarshalBinary(data []byte) error { return unmarshal(data, s) }

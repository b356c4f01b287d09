package abi

import "fmt"

// Sizes from sgx_tcrypto.h.
const (
	SHA256HashSize     = 32
	ECP256KeySize      = 32
	NISTPECP256KeySize = ECP256KeySize / 4
	AESGCMIVSize       = 12
	AESGCMKeySize      = 16
	AESGCMMACSize      = 16
	CMACKeySize        = 16
	CMACMACSize        = 16
	AESCTRKeySize      = 16
	RSA3072KeySize     = 384
	RSA3072PriExpSize  = 384
	RSA3072PubExpSize  = 4

	EC256PublicSize      = 64
	EC256SignatureSize   = 64
	RSA3072PublicSize    = 388
	RSA3072PrivateSize   = 768
	RSA3072SignatureSize = 384
)

// Fixed-size byte strings of sgx_tcrypto.h.
type (
	SHA256Hash   [SHA256HashSize]byte
	AESGCM128Key [AESGCMKeySize]byte
	AESGCM128Tag [AESGCMMACSize]byte
	CMAC128Key   [CMACKeySize]byte
	CMAC128Tag   [CMACMACSize]byte
	AESCTR128Key [AESCTRKeySize]byte
)

// EC256DHShared is sgx_ec256_dh_shared_t, the x coordinate of an ECDH
// shared point, little-endian.
type EC256DHShared struct {
	S [ECP256KeySize]byte `json:"s"`
}

// EC256DHShared512 is sgx_ec256_dh_shared512_t.
type EC256DHShared512 struct {
	X [ECP256KeySize]byte `json:"x"`
	Y [ECP256KeySize]byte `json:"y"`
}

// EC256Private is sgx_ec256_private_t.
type EC256Private struct {
	R [ECP256KeySize]byte `json:"r"`
}

// EC256Public is sgx_ec256_public_t: a P-256 point with both coordinates
// stored little-endian.
type EC256Public struct {
	GX [ECP256KeySize]byte `json:"gx"`
	GY [ECP256KeySize]byte `json:"gy"`
}

// EC256Signature is sgx_ec256_signature_t: r and s as little-endian arrays
// of 32-bit words.
type EC256Signature struct {
	X [NISTPECP256KeySize]uint32 `json:"x"`
	Y [NISTPECP256KeySize]uint32 `json:"y"`
}

// RSA3072PublicKey is sgx_rsa3072_public_key_t.
type RSA3072PublicKey struct {
	Modulus  [RSA3072KeySize]byte    `json:"modulus"`
	Exponent [RSA3072PubExpSize]byte `json:"exponent"`
}

// RSA3072PrivateKey is sgx_rsa3072_private_key_t.
type RSA3072PrivateKey struct {
	Modulus  [RSA3072KeySize]byte    `json:"modulus"`
	Exponent [RSA3072PriExpSize]byte `json:"exponent"`
}

// RSA3072Signature is sgx_rsa3072_signature_t.
type RSA3072Signature struct {
	Signature [RSA3072KeySize]byte `json:"signature"`
}

// GenericECResult is sgx_generic_ecresult_t.
type GenericECResult uint32

// EC validation results.
const (
	ECValid              GenericECResult = 0x00
	ECCompositeBase      GenericECResult = 0x01
	ECComplicatedBase    GenericECResult = 0x02
	ECIsZeroDiscriminant GenericECResult = 0x03
	ECCompositeOrder     GenericECResult = 0x04
	ECInvalidOrder       GenericECResult = 0x05
	ECIsWeakMOV          GenericECResult = 0x06
	ECIsWeakSSA          GenericECResult = 0x07
	ECIsSuperSingular    GenericECResult = 0x08
	ECInvalidPrivateKey  GenericECResult = 0x09
	ECInvalidPublicKey   GenericECResult = 0x0a
	ECInvalidKeyPair     GenericECResult = 0x0b
	ECPointOutOfGroup    GenericECResult = 0x0c
	ECPointIsAtInfinity  GenericECResult = 0x0d
	ECPointIsNotValid    GenericECResult = 0x0e
	ECPointIsEqual       GenericECResult = 0x0f
	ECPointIsNotEqual    GenericECResult = 0x10
	ECInvalidSignature   GenericECResult = 0x11
)

var ecResultNames = [...]string{
	"VALID", "COMPOSITE_BASE", "COMPLICATED_BASE", "IS_ZERO_DISCRIMINANT",
	"COMPOSITE_ORDER", "INVALID_ORDER", "IS_WEAK_MOV", "IS_WEAK_SSA",
	"IS_SUPER_SINGULAR", "INVALID_PRIVATE_KEY", "INVALID_PUBLIC_KEY",
	"INVALID_KEY_PAIR", "POINT_OUT_OF_GROUP", "POINT_IS_AT_INFINITY",
	"POINT_IS_NOT_VALID", "POINT_IS_EQUAL", "POINT_IS_NOT_EQUAL",
	"INVALID_SIGNATURE",
}

func (r GenericECResult) String() string {
	if int(r) < len(ecResultNames) {
		return "SGX_EC_" + ecResultNames[r]
	}
	return fmt.Sprintf("GenericECResult(%#x)", uint32(r))
}

// RSAResult is sgx_rsa_result_t.
type RSAResult uint32

// RSA validation results.
const (
	RSAValid            RSAResult = 0
	RSAInvalidSignature RSAResult = 1
)

func (r RSAResult) String() string {
	switch r {
	case RSAValid:
		return "SGX_RSA_VALID"
	case RSAInvalidSignature:
		return "SGX_RSA_INVALID_SIGNATURE"
	}
	return fmt.Sprintf("RSAResult(%d)", uint32(r))
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *EC256DHShared) MarshalBinary() ([]byte, error) { return marshal(k) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *EC256DHShared) UnmarshalBinary(data []byte) error { return unmarshal(data, k) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *EC256DHShared512) MarshalBinary() ([]byte, error) { return marshal(k) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *EC256DHShared512) UnmarshalBinary(data []byte) error { return unmarshal(data, k) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *EC256Private) MarshalBinary() ([]byte, error) { return marshal(k) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *EC256Private) UnmarshalBinary(data []byte) error { return unmarshal(data, k) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *EC256Public) MarshalBinary() ([]byte, error) { return marshal(k) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *EC256Public) UnmarshalBinary(data []byte) error { return unmarshal(data, k) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *EC256Signature) MarshalBinary() ([]byte, error) { return marshal(s) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *EC256Signature) UnmarshalBinary(data []byte) error { return unmarshal(data, s) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *RSA3072PublicKey) MarshalBinary() ([]byte, error) { return marshal(k) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *RSA3072PublicKey) UnmarshalBinary(data []byte) error { return unmarshal(data, k) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (k *RSA3072PrivateKey) MarshalBinary() ([]byte, error) { return marshal(k) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *RSA3072PrivateKey) UnmarshalBinary(data []byte) error { return unmarshal(data, k) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *RSA3072Signature) MarshalBinary() ([]byte, error) { return marshal(s) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *RSA3072Signature) UnmarshalBinary(data []byte) error { return unmarshal(data, s) }

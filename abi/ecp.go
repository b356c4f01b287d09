package abi

// FEBitSize is the field element size of the SDK's ECC curve, in bits.
const FEBitSize = 256

// ECCParamSize is sizeof(sgx_ecc_param_t).
const ECCParamSize = 192

// ECCParam is sgx_ecc_param_t: the domain parameters of a prime-field curve
// as little-endian 32-bit words.
type ECCParam struct {
	P [NISTPECP256KeySize]uint32    `json:"eccP"`
	A [NISTPECP256KeySize]uint32    `json:"eccA"`
	B [NISTPECP256KeySize]uint32    `json:"eccB"`
	G [2][NISTPECP256KeySize]uint32 `json:"eccG"`
	R [NISTPECP256KeySize]uint32    `json:"eccR"`
}

// ECKey128 is sgx_ec_key_128bit_t.
type ECKey128 [CMACKeySize]byte

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *ECCParam) MarshalBinary() ([]byte, error) { return marshal(p) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *ECCParam) UnmarshalBinary(data []byte) error { return unmarshal(data, p) }

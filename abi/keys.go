package abi

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// SGX stores every EC and RSA integer least significant byte first, so each
// conversion reverses the big-endian form math/big works with.

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, x := range b {
		out[len(b)-1-i] = x
	}
	return out
}

// leIntToBytes writes n into a little-endian buffer of exactly size bytes.
func leIntToBytes(n *big.Int, size int) ([]byte, error) {
	if n.Sign() < 0 || (n.BitLen()+7)/8 > size {
		return nil, fmt.Errorf("integer does not fit in %d bytes", size)
	}
	return reversed(n.FillBytes(make([]byte, size))), nil
}

func leBytesToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(reversed(b))
}

// NewEC256Public converts a P-256 public key to its SGX form.
func NewEC256Public(key *ecdsa.PublicKey) (*EC256Public, error) {
	if key.Curve.Params().Name != "P-256" {
		return nil, fmt.Errorf("unsupported curve: %v", key.Curve.Params().Name)
	}
	x, err := leIntToBytes(key.X, ECP256KeySize)
	if err != nil {
		return nil, fmt.Errorf("gx: %w", err)
	}
	y, err := leIntToBytes(key.Y, ECP256KeySize)
	if err != nil {
		return nil, fmt.Errorf("gy: %w", err)
	}
	var pub EC256Public
	copy(pub.GX[:], x)
	copy(pub.GY[:], y)
	return &pub, nil
}

// ECDSA returns the key as a P-256 public key. It fails if the point is not
// on the curve.
func (k *EC256Public) ECDSA() (*ecdsa.PublicKey, error) {
	uncompressed := make([]byte, 0, 1+2*ECP256KeySize)
	uncompressed = append(uncompressed, 4)
	uncompressed = append(uncompressed, reversed(k.GX[:])...)
	uncompressed = append(uncompressed, reversed(k.GY[:])...)
	if _, err := ecdh.P256().NewPublicKey(uncompressed); err != nil {
		return nil, fmt.Errorf("invalid sgx_ec256_public_t: %w", err)
	}
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     leBytesToInt(k.GX[:]),
		Y:     leBytesToInt(k.GY[:]),
	}, nil
}

func wordsToInt(w [NISTPECP256KeySize]uint32) *big.Int {
	b := make([]byte, ECP256KeySize)
	for i, x := range w {
		binary.LittleEndian.PutUint32(b[4*i:], x)
	}
	return leBytesToInt(b)
}

func intToWords(n *big.Int) ([NISTPECP256KeySize]uint32, error) {
	var w [NISTPECP256KeySize]uint32
	b, err := leIntToBytes(n, ECP256KeySize)
	if err != nil {
		return w, err
	}
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return w, nil
}

// NewEC256Signature converts an ECDSA signature (r, s) to its SGX form.
func NewEC256Signature(r, s *big.Int) (*EC256Signature, error) {
	x, err := intToWords(r)
	if err != nil {
		return nil, fmt.Errorf("r: %w", err)
	}
	y, err := intToWords(s)
	if err != nil {
		return nil, fmt.Errorf("s: %w", err)
	}
	return &EC256Signature{X: x, Y: y}, nil
}

// RS returns the signature components.
func (s *EC256Signature) RS() (r, sig *big.Int) {
	return wordsToInt(s.X), wordsToInt(s.Y)
}

// Verify checks the signature over digest with pub.
func (s *EC256Signature) Verify(pub *EC256Public, digest []byte) (bool, error) {
	key, err := pub.ECDSA()
	if err != nil {
		return false, err
	}
	r, sig := s.RS()
	return ecdsa.Verify(key, digest, r, sig), nil
}

// NewRSA3072PublicKey converts an RSA public key of at most 3072 bits to its
// SGX form.
func NewRSA3072PublicKey(key *rsa.PublicKey) (*RSA3072PublicKey, error) {
	n, err := leIntToBytes(key.N, RSA3072KeySize)
	if err != nil {
		return nil, fmt.Errorf("unexpected RSA modulus size: %d bits", key.N.BitLen())
	}
	if key.E <= 0 || int64(key.E) > math.MaxUint32 {
		return nil, fmt.Errorf("unexpected RSA exponent: %d", key.E)
	}
	var pub RSA3072PublicKey
	copy(pub.Modulus[:], n)
	binary.LittleEndian.PutUint32(pub.Exponent[:], uint32(key.E))
	return &pub, nil
}

// RSA returns the key as an RSA public key.
func (k *RSA3072PublicKey) RSA() (*rsa.PublicKey, error) {
	e := binary.LittleEndian.Uint32(k.Exponent[:])
	if e == 0 || uint64(e) > math.MaxInt {
		return nil, fmt.Errorf("unexpected RSA exponent: %d", e)
	}
	n := leBytesToInt(k.Modulus[:])
	if n.Sign() == 0 {
		return nil, fmt.Errorf("RSA modulus is zero")
	}
	return &rsa.PublicKey{N: n, E: int(e)}, nil
}

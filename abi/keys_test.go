package abi

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"math/big"
	"testing"
)

func TestEC256PublicConversion(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	pub, err := NewEC256Public(&priv.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	xBE := priv.PublicKey.X.FillBytes(make([]byte, 32))
	if pub.GX[0] != xBE[31] || pub.GX[31] != xBE[0] {
		t.Error("gx is not little-endian")
	}
	got, err := pub.ECDSA()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(&priv.PublicKey) {
		t.Error("converted key differs from the original")
	}
}

func TestEC256PublicNotOnCurve(t *testing.T) {
	pub := EC256Public{GX: [32]byte{1}, GY: [32]byte{2}}
	if _, err := pub.ECDSA(); err == nil {
		t.Error("ECDSA() accepted a point off the curve")
	}
}

func TestEC256PublicWrongCurve(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewEC256Public(&priv.PublicKey); err == nil {
		t.Error("NewEC256Public accepted a P-384 key")
	}
}

func TestEC256SignatureConversion(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	digest := sha256.Sum256([]byte("report"))
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		t.Fatal(err)
	}
	sig, err := NewEC256Signature(r, s)
	if err != nil {
		t.Fatal(err)
	}
	if sig.X[0] != uint32(r.Uint64()) {
		t.Errorf("x[0] = %#x, want the low word of r", sig.X[0])
	}
	gotR, gotS := sig.RS()
	if gotR.Cmp(r) != 0 || gotS.Cmp(s) != 0 {
		t.Error("RS() does not match the signature")
	}
	pub, err := NewEC256Public(&priv.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := sig.Verify(pub, digest[:])
	if err != nil || !ok {
		t.Errorf("Verify() = %v, %v", ok, err)
	}
}

func TestEC256SignatureTooLarge(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := NewEC256Signature(n, n); err == nil {
		t.Error("NewEC256Signature accepted a 257-bit integer")
	}
}

func TestRSA3072PublicKeyConversion(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 3072)
	if err != nil {
		t.Fatal(err)
	}
	pub, err := NewRSA3072PublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	if pub.Exponent != [4]byte{0x01, 0x00, 0x01, 0x00} {
		t.Errorf("exponent = % x", pub.Exponent)
	}
	got, err := pub.RSA()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(&priv.PublicKey) {
		t.Error("converted key differs from the original")
	}
}

func TestRSA3072PublicKeyTooLarge(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 3072)
	if _, err := NewRSA3072PublicKey(&rsa.PublicKey{N: n, E: 65537}); err == nil {
		t.Error("NewRSA3072PublicKey accepted a 3073-bit modulus")
	}
	if _, err := (&RSA3072PublicKey{}).RSA(); err == nil {
		t.Error("RSA() accepted an empty key")
	}
}

package abi

import (
	"fmt"
	"math"
)

// Sizes from sgx_tseal.h.
const (
	SealTagSize = AESGCMMACSize
	SealIVSize  = 12

	AESGCMDataSize = 32
	SealedDataSize = 560
)

// AESGCMData is sgx_aes_gcm_data_t. Payload carries PayloadSize bytes: the
// encrypted text followed by the additional MAC text.
type AESGCMData struct {
	PayloadSize uint32            `json:"payload_size"`
	Reserved    [12]byte          `json:"reserved"`
	PayloadTag  [SealTagSize]byte `json:"payload_tag"`
	Payload     []byte            `json:"payload"`
}

// SealedData is sgx_sealed_data_t, the header of a sealed blob together
// with its payload.
type SealedData struct {
	KeyRequest      KeyRequest `json:"key_request"`
	PlainTextOffset uint32     `json:"plain_text_offset"`
	Reserved        [12]byte   `json:"reserved"`
	AESData         AESGCMData `json:"aes_data"`
}

// CalcSealedDataSize returns the size of a sealed blob holding addMAC bytes
// of additional MAC text and encrypt bytes of encrypted text, as
// sgx_calc_sealed_data_size does. It fails when the total does not fit in
// a uint32.
func CalcSealedDataSize(addMAC, encrypt uint32) (uint32, error) {
	if addMAC > math.MaxUint32-encrypt {
		return 0, fmt.Errorf("sealed data payload overflows: %d + %d", addMAC, encrypt)
	}
	payload := addMAC + encrypt
	if payload > math.MaxUint32-SealedDataSize {
		return 0, fmt.Errorf("sealed data size overflows: %d + %d", SealedDataSize, payload)
	}
	return SealedDataSize + payload, nil
}

func (a *AESGCMData) checkLength() error {
	if int(a.PayloadSize) != len(a.Payload) {
		return lengthMismatch("payload_size", a.PayloadSize, len(a.Payload))
	}
	return nil
}

// Validate checks that PayloadSize matches Payload.
func (a *AESGCMData) Validate() error {
	var errs []error
	if err := a.checkLength(); err != nil {
		errs = append(errs, err)
	}
	return createValidationError("sgx_aes_gcm_data_t", errs)
}

// Validate checks the AES-GCM payload and that the plain text offset lies
// within it.
func (s *SealedData) Validate() error {
	var errs []error
	if err := s.AESData.checkLength(); err != nil {
		errs = append(errs, fmt.Errorf("aes_data: %w", err))
	}
	if s.PlainTextOffset > s.AESData.PayloadSize {
		errs = append(errs, fmt.Errorf("plain_text_offset %d exceeds payload_size %d", s.PlainTextOffset, s.AESData.PayloadSize))
	}
	return createValidationError("sgx_sealed_data_t", errs)
}

// EncryptTextLen returns the length of the encrypted text, as
// sgx_get_encrypt_txt_len does.
func (s *SealedData) EncryptTextLen() uint32 { return s.PlainTextOffset }

// AddMACTextLen returns the length of the additional MAC text, as
// sgx_get_add_mac_txt_len does. It is 0 for an inconsistent header.
func (s *SealedData) AddMACTextLen() uint32 {
	if s.PlainTextOffset > s.AESData.PayloadSize {
		return 0
	}
	return s.AESData.PayloadSize - s.PlainTextOffset
}

// EncryptedText returns the encrypted part of the payload.
func (s *SealedData) EncryptedText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.AESData.Payload[:s.PlainTextOffset], nil
}

// AdditionalMACText returns the part of the payload that is authenticated
// but not encrypted.
func (s *SealedData) AdditionalMACText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.AESData.Payload[s.PlainTextOffset:], nil
}

// MarshalBinary implements encoding.BinaryMarshaler. It fails if
// PayloadSize disagrees with Payload.
func (a *AESGCMData) MarshalBinary() ([]byte, error) {
	if err := a.checkLength(); err != nil {
		return nil, fmt.Errorf("sgx_aes_gcm_data_t: %w", err)
	}
	return marshal(a)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *AESGCMData) UnmarshalBinary(data []byte) error { return unmarshal(data, a) }

// MarshalBinary implements encoding.BinaryMarshaler. It fails if the
// payload size disagrees with the payload.
func (s *SealedData) MarshalBinary() ([]byte, error) {
	if err := s.AESData.checkLength(); err != nil {
		return nil, fmt.Errorf("sgx_sealed_data_t: %w", err)
	}
	return marshal(s)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *SealedData) UnmarshalBinary(data []byte) error { return unmarshal(data, s) }

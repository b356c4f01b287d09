package abi

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	validSealed := &SealedData{PlainTextOffset: 2, AESData: AESGCMData{PayloadSize: 2, Payload: []byte{1, 2}}}
	tests := []struct {
		name    string
		record  Validator
		wantErr []string
	}{
		{"attributes ok", Attributes{Flags: FlagsInitted | FlagsDebug | FlagsMode64Bit}, nil},
		{"attributes reserved", Attributes{Flags: 0x100}, []string{"reserved flag bits set: 0x100"}},
		{"key request ok", &KeyRequest{KeyName: KeySelectReport, KeyPolicy: KeyPolicyMREnclave | KeyPolicyMRSigner}, nil},
		{"key request bad", &KeyRequest{KeyName: 9, KeyPolicy: 0x10, Reserved1: 1, Reserved2: [KeyRequestReserved2Bytes]byte{5: 1}},
			[]string{"unknown key name", "unknown key policy bits 0x10", "reserved1: must be zero", "reserved2: must be zero"}},
		{"quote bad", &Quote{SignType: 7, SignatureLen: 3}, []string{"unknown sign type", "signature_len is 3 but 0"}},
		{"ra msg2 ok", &RAMsg2{SigRLSize: 1, SigRL: []byte{1}}, nil},
		{"ra msg2 bad", &RAMsg2{SigRLSize: 2}, []string{"sig_rl_size is 2"}},
		{"dh msg3 body bad", &DHMsg3Body{AdditionalPropLength: 2}, []string{"additional_prop_length is 2"}},
		{"dh msg3 bad", &DHMsg3{Body: DHMsg3Body{AdditionalPropLength: 2}}, []string{"msg3_body: "}},
		{"aes gcm bad", &AESGCMData{PayloadSize: 1}, []string{"payload_size is 1"}},
		{"sealed ok", validSealed, nil},
		{"sealed bad", &SealedData{PlainTextOffset: 4, AESData: AESGCMData{PayloadSize: 1}},
			[]string{"aes_data: ", "plain_text_offset 4 exceeds payload_size 1"}},
		{"exception ok", &ExceptionInfo{ExceptionVector: ExceptionVectorUD, ExceptionType: ExceptionHardware}, nil},
		{"exception bad", &ExceptionInfo{ExceptionVector: 2, ExceptionType: 1},
			[]string{"unknown exception vector 2", "unknown exception type 1"}},
		{"exception32 bad", &ExceptionInfo32{ExceptionVector: ExceptionVectorBP}, []string{"unknown exception type 0"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.record.Validate()
			if len(tc.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() = %v, want a ValidationError", err)
			}
			if len(vErr.Errors) != len(tc.wantErr) {
				t.Fatalf("Validate() found %d errors, want %d: %v", len(vErr.Errors), len(tc.wantErr), err)
			}
			for i, want := range tc.wantErr {
				if !strings.Contains(vErr.Errors[i].Error(), want) {
					t.Errorf("error %d = %q, want it to contain %q", i, vErr.Errors[i], want)
				}
			}
		})
	}
}

func TestValidationErrorUnwrap(t *testing.T) {
	err := (&SealedData{AESData: AESGCMData{PayloadSize: 3}}).Validate()
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("errors.Is(%v, ErrLengthMismatch) = false", err)
	}
	if !strings.HasPrefix(err.Error(), "invalid sgx_sealed_data_t:\n") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestEmptyValidationError(t *testing.T) {
	if got := (&ValidationError{}).Error(); got != invalidValidationError {
		t.Errorf("Error() = %q", got)
	}
}

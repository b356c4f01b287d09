package abi

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalcSealedDataSize(t *testing.T) {
	tests := []struct {
		addMAC, encrypt uint32
		want            uint32
		wantErr         bool
	}{
		{0, 0, 560, false},
		{10, 20, 590, false},
		{math.MaxUint32 - 560, 0, math.MaxUint32, false},
		{math.MaxUint32 - 559, 0, 0, true},
		{math.MaxUint32, 1, 0, true},
		{1, math.MaxUint32, 0, true},
	}
	for _, tc := range tests {
		got, err := CalcSealedDataSize(tc.addMAC, tc.encrypt)
		if (err != nil) != tc.wantErr {
			t.Errorf("CalcSealedDataSize(%d, %d) error = %v, wantErr %v", tc.addMAC, tc.encrypt, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("CalcSealedDataSize(%d, %d) = %d, want %d", tc.addMAC, tc.encrypt, got, tc.want)
		}
	}
}

func TestSealedDataText(t *testing.T) {
	s := SealedData{
		PlainTextOffset: 3,
		AESData:         AESGCMData{PayloadSize: 5, Payload: []byte("abcde")},
	}
	if got := s.EncryptTextLen(); got != 3 {
		t.Errorf("EncryptTextLen() = %d, want 3", got)
	}
	if got := s.AddMACTextLen(); got != 2 {
		t.Errorf("AddMACTextLen() = %d, want 2", got)
	}
	enc, err := s.EncryptedText()
	if err != nil {
		t.Fatal(err)
	}
	mac, err := s.AdditionalMACText()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"abc", "de"}, []string{string(enc), string(mac)}); diff != "" {
		t.Errorf("payload split mismatch (-want +got):\n%s", diff)
	}
}

func TestSealedDataTextInconsistent(t *testing.T) {
	s := SealedData{PlainTextOffset: 9, AESData: AESGCMData{PayloadSize: 1, Payload: []byte{1}}}
	if got := s.AddMACTextLen(); got != 0 {
		t.Errorf("AddMACTextLen() = %d, want 0", got)
	}
	if _, err := s.EncryptedText(); err == nil {
		t.Error("EncryptedText() succeeded")
	}
}

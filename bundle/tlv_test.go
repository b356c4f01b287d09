package bundle

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestTLVRoundTrip(t *testing.T) {
	in := TLV{Type: 4, Value: []byte("record")}
	data, err := in.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data[:5], []byte{4, 0, 0, 0, 6}) {
		t.Errorf("header = % x", data[:5])
	}
	var out TLV
	if err := out.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if out.Type != in.Type || !bytes.Equal(out.Value, in.Value) {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestTLVUnmarshalErrors(t *testing.T) {
	var tlv TLV
	if err := tlv.UnmarshalBinary([]byte{1, 0}); err == nil {
		t.Error("accepted a truncated header")
	}
	if err := tlv.UnmarshalBinary([]byte{1, 0, 0, 0, 2, 9}); err == nil {
		t.Error("accepted a length mismatch")
	}
}

func TestUnmarshalFirstTLV(t *testing.T) {
	buf := bytes.NewBuffer([]byte{1, 0, 0, 0, 1, 0xaa, 2, 0, 0, 0, 0})
	first, err := UnmarshalFirstTLV(buf)
	if err != nil || first.Type != 1 || !bytes.Equal(first.Value, []byte{0xaa}) {
		t.Fatalf("first = %+v, %v", first, err)
	}
	second, err := UnmarshalFirstTLV(buf)
	if err != nil || second.Type != 2 || len(second.Value) != 0 {
		t.Fatalf("second = %+v, %v", second, err)
	}
	if _, err := UnmarshalFirstTLV(buf); err != io.EOF {
		t.Errorf("empty buffer: got %v, want io.EOF", err)
	}
	if _, err := UnmarshalFirstTLV(bytes.NewBuffer([]byte{1, 0, 0, 0, 9, 1})); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("short value: got %v, want io.ErrUnexpectedEOF", err)
	}
}

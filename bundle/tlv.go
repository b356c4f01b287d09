package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	tlvTypeFieldLength   int = 1
	tlvLengthFieldLength int = 4
)

// TLV is a type-length-value field. Length is implicitly defined by
// len(Value), encoded as a big-endian uint32.
type TLV struct {
	Type  uint8
	Value []byte
}

// MarshalBinary marshals a TLV to a byte slice.
func (t TLV) MarshalBinary() (data []byte, err error) {
	if uint64(len(t.Value)) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("TLV value of %d bytes is too long", len(t.Value))
	}
	buf := make([]byte, len(t.Value)+tlvTypeFieldLength+tlvLengthFieldLength)

	buf[0] = t.Type
	binary.BigEndian.PutUint32(buf[tlvTypeFieldLength:], uint32(len(t.Value)))
	copy(buf[tlvTypeFieldLength+tlvLengthFieldLength:], t.Value)

	return buf, nil
}

// UnmarshalBinary unmarshals a byte slice to a TLV.
func (t *TLV) UnmarshalBinary(data []byte) error {
	if len(data) < tlvTypeFieldLength+tlvLengthFieldLength {
		return fmt.Errorf("TLV of %d bytes is shorter than its header", len(data))
	}
	valueLength := binary.BigEndian.Uint32(data[tlvTypeFieldLength : tlvTypeFieldLength+tlvLengthFieldLength])

	if valueLength != uint32(len(data[tlvTypeFieldLength+tlvLengthFieldLength:])) {
		return fmt.Errorf("TLV Length doesn't match the size of its Value")
	}
	t.Type = data[0]
	t.Value = data[tlvTypeFieldLength+tlvLengthFieldLength:]

	return nil
}

// UnmarshalFirstTLV reads and parses the first TLV from buf. It returns
// io.EOF if buf is empty and io.ErrUnexpectedEOF if it ends inside a TLV.
func UnmarshalFirstTLV(buf *bytes.Buffer) (TLV, error) {
	typeByte, err := buf.ReadByte()
	if err != nil {
		return TLV{}, err
	}
	lengthBytes := make([]byte, tlvLengthFieldLength)
	if _, err := io.ReadFull(buf, lengthBytes); err != nil {
		return TLV{}, io.ErrUnexpectedEOF
	}
	valueLength := binary.BigEndian.Uint32(lengthBytes)
	if uint64(valueLength) > uint64(buf.Len()) {
		return TLV{}, io.ErrUnexpectedEOF
	}
	value := make([]byte, valueLength)
	if _, err := io.ReadFull(buf, value); err != nil {
		return TLV{}, io.ErrUnexpectedEOF
	}
	return TLV{Type: typeByte, Value: value}, nil
}

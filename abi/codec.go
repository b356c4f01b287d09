// Package abi contains the binary-compatible record definitions of the Intel
// SGX SDK headers (sgx_report.h, sgx_key.h, sgx_quote.h, sgx_dh.h,
// sgx_tseal.h, ...), together with strict little-endian codecs and layout
// introspection for them.
//
// Every record is a plain Go struct whose fields are declared in native
// order. Blank (_) fields stand in for the padding a C compiler inserts, so
// the encoded size of each struct equals sizeof() of the native type on the
// architecture the record is declared for. A record whose native definition
// ends in a flexible array member carries those trailing bytes in a final
// []byte field.
package abi

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"fmt"
	"io"
	"reflect"
	"sync"
)

// Record is implemented by every SGX structure in this package.
type Record interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// shape is the encoded form of a struct type: the number of bytes before its
// flexible array member (or the whole size if it has none).
type shape struct {
	fixed    int
	flexible bool
}

var shapes sync.Map // reflect.Type -> shape

func shapeOf(t reflect.Type) (shape, error) {
	if s, ok := shapes.Load(t); ok {
		return s.(shape), nil
	}
	s, err := computeShape(t)
	if err != nil {
		return shape{}, err
	}
	shapes.Store(t, s)
	return s, nil
}

func computeShape(t reflect.Type) (shape, error) {
	if t.Kind() != reflect.Struct {
		n := binary.Size(reflect.Zero(t).Interface())
		if n < 0 {
			return shape{}, fmt.Errorf("type %v has no fixed binary size", t)
		}
		return shape{fixed: n}, nil
	}
	var s shape
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		last := i == t.NumField()-1
		if f.Type.Kind() == reflect.Slice {
			if !last || f.Type.Elem().Kind() != reflect.Uint8 {
				return shape{}, fmt.Errorf("%v.%s: only a trailing []byte may have variable length", t, f.Name)
			}
			s.flexible = true
			return s, nil
		}
		fs, err := shapeOf(f.Type)
		if err != nil {
			return shape{}, err
		}
		if fs.flexible && !last {
			return shape{}, fmt.Errorf("%v.%s: variable length member must be the last field", t, f.Name)
		}
		s.fixed += fs.fixed
		s.flexible = fs.flexible
	}
	return s, nil
}

// unmarshal decodes data into the struct pointed to by v. Records without a
// flexible array member must be given exactly their size; records with one
// must be given at least the fixed part, and the remainder becomes the
// trailing slice.
func unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("abi: cannot unmarshal into %T", v)
	}
	rv = rv.Elem()
	s, err := shapeOf(rv.Type())
	if err != nil {
		return err
	}
	if len(data) < s.fixed || (!s.flexible && len(data) != s.fixed) {
		return &SizeError{Record: recordName(rv.Type()), Want: s.fixed, Got: len(data), AtLeast: s.flexible}
	}
	r := bytes.NewReader(data)
	if !s.flexible {
		return binary.Read(r, binary.LittleEndian, v)
	}
	return decodeFields(r, rv)
}

func decodeFields(r *bytes.Reader, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f, fv := t.Field(i), v.Field(i)
		switch {
		case f.Type.Kind() == reflect.Slice:
			rest := make([]byte, r.Len())
			if _, err := io.ReadFull(r, rest); err != nil {
				return err
			}
			if len(rest) == 0 {
				rest = nil
			}
			fv.SetBytes(rest)
		case f.Name == "_":
			n := binary.Size(reflect.Zero(f.Type).Interface())
			if _, err := r.Seek(int64(n), io.SeekCurrent); err != nil {
				return err
			}
		case f.Type.Kind() == reflect.Struct && isFlexible(f.Type):
			if err := decodeFields(r, fv); err != nil {
				return err
			}
		default:
			if err := binary.Read(r, binary.LittleEndian, fv.Addr().Interface()); err != nil {
				return fmt.Errorf("reading %v.%s: %w", t, f.Name, err)
			}
		}
	}
	return nil
}

// marshal encodes the struct v (or pointer to it) in native layout.
func marshal(v any) ([]byte, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("abi: cannot marshal %T", v)
	}
	s, err := shapeOf(rv.Type())
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(s.fixed)
	if !s.flexible {
		if err := binary.Write(&buf, binary.LittleEndian, rv.Interface()); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := encodeFields(&buf, rv); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeFields(buf *bytes.Buffer, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f, fv := t.Field(i), v.Field(i)
		switch {
		case f.Type.Kind() == reflect.Slice:
			buf.Write(fv.Bytes())
		case f.Name == "_":
			buf.Write(make([]byte, binary.Size(reflect.Zero(f.Type).Interface())))
		case f.Type.Kind() == reflect.Struct && isFlexible(f.Type):
			if err := encodeFields(buf, fv); err != nil {
				return err
			}
		default:
			if err := binary.Write(buf, binary.LittleEndian, fv.Interface()); err != nil {
				return fmt.Errorf("writing %v.%s: %w", t, f.Name, err)
			}
		}
	}
	return nil
}

func isFlexible(t reflect.Type) bool {
	s, err := shapeOf(t)
	return err == nil && s.flexible
}

// SizeOf returns the native size of the record v, excluding any trailing
// flexible array member.
func SizeOf(v any) (int, error) {
	t, err := recordType(v)
	if err != nil {
		return 0, err
	}
	s, err := shapeOf(t)
	if err != nil {
		return 0, err
	}
	return s.fixed, nil
}

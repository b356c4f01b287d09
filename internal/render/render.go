// Package render formats SGX records for people and for other tools.
package render

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-sgx-tools/abi"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/types/known/structpb"
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	TextProto Format = "textproto"
	JSON      Format = "json"
	CBOR      Format = "cbor"
	Hex       Format = "hex"
)

// Formats lists every supported format.
var Formats = []Format{TextProto, JSON, CBOR, Hex}

// ParseFormat checks that s names a supported format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q, want one of <%s>", s, strings.Join(names, "|"))
}

var (
	textOptions = prototext.MarshalOptions{Multiline: true, EmitASCII: true}
	jsonOptions = protojson.MarshalOptions{Multiline: true, Indent: "  "}
)

// Marshal encodes record in format f.
func Marshal(f Format, record abi.Record) ([]byte, error) {
	switch f {
	case Hex:
		data, err := record.MarshalBinary()
		if err != nil {
			return nil, err
		}
		return Dump(data), nil
	case CBOR:
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, err
		}
		return em.Marshal(Value(record, true))
	case TextProto, JSON:
		s, err := Struct(record)
		if err != nil {
			return nil, err
		}
		if f == JSON {
			return jsonOptions.Marshal(s)
		}
		return textOptions.Marshal(s)
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// Dump formats the encoded bytes of a record as a hex dump. It accepts
// records whose length fields disagree with their trailing data, which
// Marshal rejects.
func Dump(data []byte) []byte {
	return []byte(hex.Dump(data))
}

// Struct converts record to a protobuf Struct keyed by the record's member
// names.
func Struct(record any) (*structpb.Struct, error) {
	m, ok := Value(record, false).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%T is not a record", record)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("formatting %T: %w", record, err)
	}
	return s, nil
}

// Value converts v to a tree of maps, lists, strings and integers. Members
// are keyed by their native names and padding is dropped. Enumerations are
// shown by name and 64-bit words in hex. Byte strings become hex strings,
// or stay []byte when rawBytes is set.
func Value(v any, rawBytes bool) any {
	return value(reflect.ValueOf(v), rawBytes)
}

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

func value(v reflect.Value, rawBytes bool) any {
	if !v.IsValid() {
		return nil
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	t := v.Type()
	if t.Implements(stringerType) && t.Kind() != reflect.Struct {
		return v.Interface().(fmt.Stringer).String()
	}
	switch t.Kind() {
	case reflect.Struct:
		if b, ok := singleByteArray(v); ok {
			return bytesValue(b, rawBytes)
		}
		m := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Name == "_" || !f.IsExported() {
				continue
			}
			m[memberName(f)] = value(v.Field(i), rawBytes)
		}
		return m
	case reflect.Array, reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return bytesValue(byteSlice(v), rawBytes)
		}
		l := make([]any, v.Len())
		for i := range l {
			l[i] = value(v.Index(i), rawBytes)
		}
		return l
	case reflect.Uint64:
		return fmt.Sprintf("0x%016x", v.Uint())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(v.Uint())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return v.Int()
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

// singleByteArray unwraps structs such as sgx_measurement_t whose only
// member is a byte array.
func singleByteArray(v reflect.Value) ([]byte, bool) {
	t := v.Type()
	if t.NumField() != 1 {
		return nil, false
	}
	f := t.Field(0)
	if f.Type.Kind() != reflect.Array || f.Type.Elem().Kind() != reflect.Uint8 {
		return nil, false
	}
	return byteSlice(v.Field(0)), true
}

func byteSlice(v reflect.Value) []byte {
	b := make([]byte, v.Len())
	reflect.Copy(reflect.ValueOf(b), v)
	return b
}

func bytesValue(b []byte, raw bool) any {
	if raw {
		return b
	}
	return hex.EncodeToString(b)
}

func memberName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("json"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// Layout renders the layout of a record as an aligned table.
func Layout(info abi.RecordInfo, fields []abi.Field) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s", info.Name, info.Header)
	if info.Arch != abi.ArchAny {
		fmt.Fprintf(&sb, ", %s", info.Arch)
	}
	fmt.Fprintf(&sb, "): %d bytes", info.Size)
	if info.Flexible {
		sb.WriteString(" + trailing data")
	}
	sb.WriteString("\n")
	width := len("member")
	for _, f := range fields {
		width = max(width, len(f.Name))
	}
	fmt.Fprintf(&sb, "  %-*s %6s %6s\n", width, "member", "offset", "size")
	for _, f := range fields {
		size := fmt.Sprint(f.Size)
		if f.Flexible {
			size += "+"
		}
		fmt.Fprintf(&sb, "  %-*s %6d %6s\n", width, f.Name, f.Offset, size)
	}
	return sb.String()
}

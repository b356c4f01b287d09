package abi

import (
	"fmt"
	"reflect"
	"strings"
)

// PaddingName is the field name Layout reports for compiler-inserted padding.
const PaddingName = "(padding)"

// Field describes one member of a record as laid out in native memory.
type Field struct {
	// Name is the member name used by the SDK header.
	Name   string
	Offset int
	Size   int
	// Flexible marks a trailing flexible array member. Its Size is 0.
	Flexible bool
}

// Layout returns the native member layout of the record v.
func Layout(v any) ([]Field, error) {
	t, err := recordType(v)
	if err != nil {
		return nil, err
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("abi: %T is not a record", v)
	}
	var fields []Field
	offset := 0
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := fieldName(f)
		if f.Type.Kind() == reflect.Slice {
			fields = append(fields, Field{Name: name, Offset: offset, Flexible: true})
			break
		}
		s, err := shapeOf(f.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Offset: offset, Size: s.fixed, Flexible: s.flexible})
		offset += s.fixed
	}
	return fields, nil
}

// recordType returns the type of v, looking through one pointer so that a
// typed nil such as (*Report)(nil) still describes its record.
func recordType(v any) (reflect.Type, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("abi: nil is not a record")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, nil
}

// Offsetof returns the offset of the member called name in the record v.
func Offsetof(v any, name string) (int, error) {
	fields, err := Layout(v)
	if err != nil {
		return 0, err
	}
	for _, f := range fields {
		if f.Name == name {
			return f.Offset, nil
		}
	}
	return 0, fmt.Errorf("abi: %T has no member %q", v, name)
}

func fieldName(f reflect.StructField) string {
	if f.Name == "_" {
		return PaddingName
	}
	if tag, ok := f.Tag.Lookup("json"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

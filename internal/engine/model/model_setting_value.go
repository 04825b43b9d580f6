package model

import (
	"github.com/bytedance/sonic"
)

// SettingValue is the tagged value union crossing the API boundary: either a
// scalar string or a structure serialized as JSON. The encoding decision is
// made here, not in the write path.
type SettingValue struct {
	scalar     string
	structured any
	isScalar   bool
}

// ScalarValue wraps a plain string value.
func ScalarValue(s string) SettingValue {
	return SettingValue{scalar: s, isScalar: true}
}

// StructuredValue wraps a structure that will be stored JSON-encoded.
func StructuredValue(v any) SettingValue {
	return SettingValue{structured: v}
}

// IsScalar reports whether the value is a plain string.
func (v SettingValue) IsScalar() bool {
	return v.isScalar
}

// Encode returns the text stored in the settings table.
func (v SettingValue) Encode() (string, error) {
	if v.isScalar {
		return v.scalar, nil
	}
	data, err := sonic.Marshal(v.structured)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ValueOf normalizes a caller-supplied value into the union. Strings stay
// scalar; everything else is treated as structured.
func ValueOf(v any) SettingValue {
	switch val := v.(type) {
	case string:
		return ScalarValue(val)
	case SettingValue:
		return val
	default:
		return StructuredValue(val)
	}
}

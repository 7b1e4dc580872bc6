package model

import (
	"strings"
)

// Field selects one of the six numeric record columns.
type Field int

// The zero Field is invalid so that an unset selection is detectable.
const (
	FieldInvalid Field = iota
	FieldTR
	FieldAPM
	FieldPPS
	FieldGlicko
	FieldRD
	FieldVS
)

var fieldNames = [...]string{
	FieldInvalid: "",
	FieldTR:      "TR",
	FieldAPM:     "APM",
	FieldPPS:     "PPS",
	FieldGlicko:  "Glicko",
	FieldRD:      "RD",
	FieldVS:      "VS",
}

// Fields lists the selectable fields in selector order.
func Fields() []Field {
	return []Field{FieldTR, FieldAPM, FieldPPS, FieldGlicko, FieldRD, FieldVS}
}

// ParseField resolves a field name case-insensitively.
func ParseField(s string) (Field, error) {
	name := strings.TrimSpace(s)
	for _, f := range Fields() {
		if strings.EqualFold(fieldNames[f], name) {
			return f, nil
		}
	}
	return FieldInvalid, &FieldError{Value: s}
}

// Valid reports whether f is one of the six selectable fields.
func (f Field) Valid() bool {
	return f > FieldInvalid && int(f) < len(fieldNames)
}

// String returns the canonical spelling, e.g. "Glicko".
func (f Field) String() string {
	if !f.Valid() {
		return "invalid"
	}
	return fieldNames[f]
}

// MarshalText implements encoding.TextMarshaler.
func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, &FieldError{Value: f.String()}
	}
	return []byte(fieldNames[f]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

package table

import (
	"math"
	"strconv"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindString
	KindBool
)

// Value is a single table cell. The zero Value is missing.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Missing is the missing cell.
var Missing = Value{}

// Number returns a numeric cell. NaN is stored as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing
	}
	if f == 0 {
		f = 0 // fold -0
	}
	return Value{kind: KindNumber, num: f}
}

// Int returns a numeric cell holding i.
func Int(i int) Value { return Number(float64(i)) }

// String returns a string cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean cell.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric content of v. Booleans convert to 0/1.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber, KindBool:
		return v.num, true
	}
	return 0, false
}

// Text returns the string content of v.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Truth returns the boolean content of v.
func (v Value) Truth() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.num != 0, true
}

// String formats v for display. Missing cells render as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	}
	return ""
}

// Equal reports whether v and o hold the same kind and content.
// Two missing cells are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber, KindBool:
		return v.num == o.num
	}
	return true
}

// appendKey writes a kind-tagged encoding of v used for duplicate detection.
func (v Value) appendKey(b []byte) []byte {
	b = append(b, byte('0'+v.kind))
	switch v.kind {
	case KindNumber, KindBool:
		b = strconv.AppendFloat(b, v.num, 'g', -1, 64)
	case KindString:
		b = strconv.AppendInt(b, int64(len(v.str)), 10)
		b = append(b, ':')
		b = append(b, v.str...)
	}
	return append(b, 0x1f)
}

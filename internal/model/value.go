package model

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies what a cell Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a single spreadsheet cell. The zero Value is Null.
type Value struct {
	kind Kind
	str  string // text for strings; original spelling for parsed numbers
	num  decimal.Decimal
	b    bool
}

// numericText matches plain decimal literals. Leading zeros ("0012") are
// rejected so account numbers and codes stay text.
var numericText = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// NullValue returns an empty cell.
func NullValue() Value { return Value{} }

// StringValue returns a text cell.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue returns a numeric cell.
func NumberValue(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

// BoolValue returns a boolean cell.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// InferValue types raw delimited text: "" is Null, plain decimal literals are
// Numbers (keeping their original spelling), everything else is a String.
func InferValue(raw string) Value {
	if raw == "" {
		return NullValue()
	}
	if numericText.MatchString(raw) {
		d, err := decimal.NewFromString(raw)
		if err == nil {
			return Value{kind: KindNumber, num: d, str: raw}
		}
	}
	return StringValue(raw)
}

// Kind reports the cell kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is empty.
func (v Value) IsNull() bool { return v.kind == KindNull }

// String coerces the cell to text. Null coerces to "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.str != "" {
			return v.str
		}
		return v.num.String()
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Decimal returns the numeric value and whether the cell is a Number.
func (v Value) Decimal() (decimal.Decimal, bool) {
	return v.num, v.kind == KindNumber
}

// Bool returns the boolean value and whether the cell is a Bool.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Equal reports whether two cells hold the same kind and value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num.Equal(o.num)
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.str == o.str
	default:
		return true
	}
}

// Lower is the lowercase, string-coerced form used for keyword matching.
func (v Value) Lower() string {
	return strings.ToLower(v.String())
}

// MarshalJSON encodes Null as null and Numbers as bare JSON numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

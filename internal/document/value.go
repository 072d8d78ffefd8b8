// Package document models the tagged dynamic row values that flow between
// the Library DB and the staging document. The schema has many columns the
// engine doesn't know about ahead of time, so rows are kept as name→Value
// maps rather than structs, and unknown columns pass through unchanged.
package document

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindReal
	KindText
	KindBlob
)

// Value is a tagged union over SQLite's storage classes, plus the absence
// of a value (KindNull). Exactly one of the typed fields is meaningful for
// a given Kind.
type Value struct {
	Kind Kind
	Int  int64
	Real float64
	Text string
	Blob []byte
}

// Null is the canonical null Value.
func Null() Value { return Value{Kind: KindNull} }

// IntValue wraps an integer.
func IntValue(v int64) Value { return Value{Kind: KindInt, Int: v} }

// RealValue wraps a float, substituting 0 for NaN/Inf per the pack
// serialization rule (a JSON number cannot represent either).
func RealValue(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return Value{Kind: KindReal, Real: v}
}

// TextValue wraps a string.
func TextValue(v string) Value { return Value{Kind: KindText, Text: v} }

// BlobValue wraps raw bytes.
func BlobValue(v []byte) Value { return Value{Kind: KindBlob, Blob: v} }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsString returns the value's Text payload and whether it was text-typed.
// It does not stringify other kinds: row-rewriting only ever reads typed
// ID/foreign-key columns, which are always text in the Library DB.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindText {
		return "", false
	}
	return v.Text, true
}

// AsInt64 returns the value's integer payload and whether it was int-typed.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// Any returns the value unwrapped to its natural Go representation, for
// handing to database/sql as a bind parameter.
func (v Value) Any() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindInt:
		return v.Int
	case KindReal:
		return v.Real
	case KindText:
		return v.Text
	case KindBlob:
		return v.Blob
	default:
		return nil
	}
}

// FromAny converts a database/sql scan result (or a decoded JSON value)
// into a Value, classifying by Go type.
func FromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case int64:
		return IntValue(x)
	case int:
		return IntValue(int64(x))
	case float64:
		return RealValue(x)
	case string:
		return TextValue(x)
	case []byte:
		return BlobValue(x)
	case bool:
		if x {
			return IntValue(1)
		}
		return IntValue(0)
	default:
		return TextValue(fmt.Sprintf("%v", x))
	}
}

// MarshalJSON implements the pack.json serialization rule: null→null,
// int/real→number, text→string, blob→base64 string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return json.Marshal(v.Int)
	case KindReal:
		return json.Marshal(v.Real)
	case KindText:
		return json.Marshal(v.Text)
	case KindBlob:
		return json.Marshal(base64.StdEncoding.EncodeToString(v.Blob))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a pack.json scalar back into a Value. Strings are
// kept as KindText (the staging document never distinguishes base64 blobs
// from plain text at the JSON layer, matching the original implementation
// which always round-trips blob columns as base64 strings without a side
// channel marking them as binary).
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*v = Null()
		return nil
	}
	if len(data) > 0 && (data[0] == '"') {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}
	// JSON numbers: prefer int64 when the literal has no fractional/exponent part.
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	if i, err := num.Int64(); err == nil {
		*v = IntValue(i)
		return nil
	}
	f, err := num.Float64()
	if err != nil {
		return fmt.Errorf("document: value %q is neither int nor float: %w", string(data), err)
	}
	*v = RealValue(f)
	return nil
}

// Row is an open mapping from column name to Value, the transit
// representation of a single Library DB row.
type Row map[string]Value

// Clone returns a shallow copy of r suitable for mutating without
// affecting the original (Value itself is immutable/copy-by-value).
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the row's "ID" column as a string, and whether it was present
// and text-typed.
func (r Row) ID() (string, bool) {
	v, ok := r["ID"]
	if !ok {
		return "", false
	}
	return v.AsString()
}

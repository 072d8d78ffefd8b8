package document

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValueJSONRoundTrip(t *testing.T) {
	cases := []Value{
		Null(),
		IntValue(42),
		RealValue(3.5),
		TextValue("hello"),
		BlobValue([]byte{0xDE, 0xAD, 0xBE, 0xEF}),
	}
	for _, v := range cases {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%+v) error = %v", v, err)
		}
		var out Value
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", b, err)
		}
		if v.Kind == KindBlob {
			// Blobs round-trip through base64 as text, matching the wire format.
			if out.Kind != KindText {
				t.Errorf("blob round-trips as %v, want KindText", out.Kind)
			}
			continue
		}
		if out.Kind != v.Kind {
			t.Errorf("Kind changed: got %v, want %v", out.Kind, v.Kind)
		}
	}
}

func TestRealValueSubstitutesNaNAndInf(t *testing.T) {
	if v := RealValue(math.NaN()); v.Real != 0 {
		t.Errorf("RealValue(NaN).Real = %v, want 0", v.Real)
	}
	if v := RealValue(math.Inf(1)); v.Real != 0 {
		t.Errorf("RealValue(+Inf).Real = %v, want 0", v.Real)
	}
}

func TestBlobMarshalsAsBase64String(t *testing.T) {
	v := BlobValue([]byte("hi"))
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("expected blob to marshal as a JSON string, got %s", b)
	}
	if s != "aGk=" {
		t.Errorf("base64(%q) = %q, want %q", "hi", s, "aGk=")
	}
}

func TestFromAny(t *testing.T) {
	if v := FromAny(nil); !v.IsNull() {
		t.Error("FromAny(nil) should be Null")
	}
	if v := FromAny(int64(7)); v.Kind != KindInt || v.Int != 7 {
		t.Errorf("FromAny(int64(7)) = %+v", v)
	}
	if v := FromAny("x"); v.Kind != KindText || v.Text != "x" {
		t.Errorf("FromAny(\"x\") = %+v", v)
	}
}

func TestRowID(t *testing.T) {
	r := Row{"ID": TextValue("30"), "Title": TextValue("Track")}
	id, ok := r.ID()
	if !ok || id != "30" {
		t.Errorf("Row.ID() = (%q, %v), want (30, true)", id, ok)
	}

	missing := Row{"Title": TextValue("x")}
	if _, ok := missing.ID(); ok {
		t.Error("expected Row.ID() to report false when ID column is absent")
	}
}

func TestRowClone(t *testing.T) {
	r := Row{"ID": TextValue("1")}
	c := r.Clone()
	c["ID"] = TextValue("2")
	if got, _ := r.ID(); got != "1" {
		t.Errorf("mutating clone affected original: r[ID] = %q", got)
	}
}

package rkerr

import (
	"errors"
	"testing"
)

func TestWrapAndIs(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindDB, "insert djmdContent", cause)
	if !Is(err, KindDB) {
		t.Fatal("expected Is(err, KindDB) to be true")
	}
	if Is(err, KindIO) {
		t.Fatal("expected Is(err, KindIO) to be false")
	}
	if !errors.Is(err, cause) && errors.Unwrap(err) != cause {
		t.Fatal("expected Unwrap to return the wrapped cause")
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(KindIO, "x", nil) != nil {
		t.Fatal("expected Wrap(kind, msg, nil) to return nil")
	}
}

func TestNewHasNoCause(t *testing.T) {
	err := New(KindNotFound, "playlist 'Set' not found")
	if errors.Unwrap(err) != nil {
		t.Fatal("expected New() error to have no wrapped cause")
	}
	if !Is(err, KindNotFound) {
		t.Fatal("expected Is(err, KindNotFound) to be true")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindNotFound:           "NotFound",
		KindAmbiguous:          "Ambiguous",
		KindUnsupportedVersion: "UnsupportedVersion",
		KindSchema:             "Schema",
		KindIO:                 "IO",
		KindDB:                 "DB",
		KindArchive:            "Archive",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

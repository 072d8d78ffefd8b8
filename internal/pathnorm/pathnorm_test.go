package pathnorm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestToSlash(t *testing.T) {
	if got := ToSlash(`a\b\c.mp3`); got != "a/b/c.mp3" {
		t.Errorf("ToSlash = %q, want a/b/c.mp3", got)
	}
}

func TestStripDriveLetter(t *testing.T) {
	if got := StripDriveLetter("C:/Music/a.mp3"); got != "Music/a.mp3" {
		t.Errorf("StripDriveLetter(C:/Music/a.mp3) = %q, want Music/a.mp3", got)
	}
	if got := StripDriveLetter("Music/a.mp3"); got != "Music/a.mp3" {
		t.Errorf("StripDriveLetter(no drive) = %q, want unchanged", got)
	}
}

func TestTrimLeadingSlashes(t *testing.T) {
	if got := TrimLeadingSlashes("///ANLZ/x.DAT"); got != "ANLZ/x.DAT" {
		t.Errorf("TrimLeadingSlashes = %q, want ANLZ/x.DAT", got)
	}
}

func TestToNFCNormalizesDecomposedForm(t *testing.T) {
	// "é" as NFD (e + combining acute) should normalize to the same NFC form
	// as the precomposed single code point.
	decomposed := "e\u0301"
	precomposed := "\u00e9"
	if ToNFC(decomposed) != precomposed {
		t.Errorf("ToNFC(decomposed) = %q, want %q", ToNFC(decomposed), precomposed)
	}
}

func TestActualPathFindsRenormalizedEntry(t *testing.T) {
	dir := t.TempDir()
	precomposed := "\u00e9.mp3" // é.mp3 as a single code point
	if err := os.WriteFile(filepath.Join(dir, precomposed), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	decomposedExpected := filepath.Join(dir, "e\u0301.mp3")
	got := ActualPath(decomposedExpected)
	want := filepath.Join(dir, precomposed)
	if got != want {
		t.Errorf("ActualPath = %q, want %q", got, want)
	}
}

func TestActualPathFallsBackWhenNoMatch(t *testing.T) {
	dir := t.TempDir()
	expected := filepath.Join(dir, "missing.mp3")
	if got := ActualPath(expected); got != expected {
		t.Errorf("ActualPath(no match) = %q, want unchanged %q", got, expected)
	}
}

package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/naari3/rkpack/internal/rkerr"
)

func TestWriteAndReadManifest(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "out.rkp")

	w, err := Create(archivePath)
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	type manifest struct {
		Version int    `json:"version"`
		Name    string `json:"name"`
	}
	if err := w.WriteManifest(manifest{Version: 1, Name: "Set"}); err != nil {
		t.Fatalf("WriteManifest error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}

	r, err := Open(archivePath)
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	defer r.Close()

	var got manifest
	if err := r.ReadManifest(&got); err != nil {
		t.Fatalf("ReadManifest error = %v", err)
	}
	if got.Version != 1 || got.Name != "Set" {
		t.Errorf("ReadManifest = %+v, want {1 Set}", got)
	}
}

func TestWriteFileAndExtract(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp3")
	if err := os.WriteFile(src, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(dir, "out.rkp")
	w, err := Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFile("files/a.mp3", src); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	destDir := t.TempDir()
	dest := filepath.Join(destDir, "nested", "a.mp3")
	if err := r.ExtractTo("files/a.mp3", dest); err != nil {
		t.Fatalf("ExtractTo error = %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "audio-bytes" {
		t.Errorf("extracted content = %q, want %q", got, "audio-bytes")
	}
}

func TestExtractMissingEntryIsNotFound(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "out.rkp")
	w, err := Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteManifest(map[string]int{"version": 1}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	err = r.ExtractTo("files/missing.mp3", filepath.Join(dir, "missing.mp3"))
	if !rkerr.Is(err, rkerr.KindNotFound) {
		t.Errorf("expected KindNotFound, got %v", err)
	}
}

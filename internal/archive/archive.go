// Package archive is the Archive I/O component: a keyed blob store over a
// ZIP (DEFLATE) container, with three name-spaces (pack.json, files/…,
// content_data/…) and a single JSON manifest entry. The core never touches
// archive/zip directly; everything funnels through Writer/Reader.
package archive

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/naari3/rkpack/internal/rkerr"
)

// ManifestEntryName is the archive entry the staging document is stored
// under; it is always written last so a partially-written archive never
// looks complete.
const ManifestEntryName = "pack.json"

// Writer assembles a .rkp archive, one entry at a time.
type Writer struct {
	f  *os.File
	zw *zip.Writer
}

// Create opens path for writing and returns a Writer. The parent directory
// must already exist; callers create it (mirrors the original CLI, which
// creates the output directory before opening the file).
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, rkerr.Wrap(rkerr.KindIO, "create archive "+path, err)
	}
	return &Writer{f: f, zw: zip.NewWriter(f)}, nil
}

// WriteFile copies the local file at sourcePath into the archive under
// entryName, using DEFLATE compression.
func (w *Writer) WriteFile(entryName, sourcePath string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return rkerr.Wrap(rkerr.KindIO, "open "+sourcePath, err)
	}
	defer src.Close()

	dst, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:   entryName,
		Method: zip.Deflate,
	})
	if err != nil {
		return rkerr.Wrap(rkerr.KindArchive, "add entry "+entryName, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return rkerr.Wrap(rkerr.KindArchive, "write entry "+entryName, err)
	}
	return nil
}

// WriteManifest JSON-encodes v and writes it as the pack.json entry.
// Callers should call this last, after every other WriteFile call.
func (w *Writer) WriteManifest(v any) error {
	dst, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:   ManifestEntryName,
		Method: zip.Deflate,
	})
	if err != nil {
		return rkerr.Wrap(rkerr.KindArchive, "add entry "+ManifestEntryName, err)
	}
	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return rkerr.Wrap(rkerr.KindArchive, "encode "+ManifestEntryName, err)
	}
	return nil
}

// Close finalizes the ZIP central directory and the underlying file.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		w.f.Close()
		return rkerr.Wrap(rkerr.KindArchive, "finalize archive", err)
	}
	if err := w.f.Close(); err != nil {
		return rkerr.Wrap(rkerr.KindIO, "close archive file", err)
	}
	return nil
}

// Reader opens an existing .rkp archive for random-access entry reads.
type Reader struct {
	f  *os.File
	zr *zip.Reader
}

// Open opens path for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rkerr.Wrap(rkerr.KindIO, "open archive "+path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, rkerr.Wrap(rkerr.KindIO, "stat archive "+path, err)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, rkerr.Wrap(rkerr.KindArchive, "parse archive "+path, err)
	}
	return &Reader{f: f, zr: zr}, nil
}

// ReadManifest decodes the pack.json entry into v.
func (r *Reader) ReadManifest(v any) error {
	return r.ReadJSON(ManifestEntryName, v)
}

// ReadJSON decodes the named entry's contents as JSON into v.
func (r *Reader) ReadJSON(entryName string, v any) error {
	f, err := r.zr.Open(entryName)
	if err != nil {
		return rkerr.Wrap(rkerr.KindNotFound, "entry "+entryName+" not in archive", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return rkerr.Wrap(rkerr.KindArchive, "decode "+entryName, err)
	}
	return nil
}

// ExtractTo copies the named entry's contents to destPath, creating
// destPath's parent directory if needed.
func (r *Reader) ExtractTo(entryName, destPath string) error {
	src, err := r.zr.Open(entryName)
	if err != nil {
		return rkerr.Wrap(rkerr.KindNotFound, "entry "+entryName+" not in archive", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return rkerr.Wrap(rkerr.KindIO, "create dest dir for "+destPath, err)
	}
	dst, err := os.Create(destPath)
	if err != nil {
		return rkerr.Wrap(rkerr.KindIO, "create "+destPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return rkerr.Wrap(rkerr.KindIO, "copy "+entryName+" to "+destPath, err)
	}
	return nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Package pathnorm is the Path Normalization component: NFC normalization
// for archive-relative paths, and a disk-scan fallback that resolves a
// logical filename to whatever name the filesystem actually stored it
// under, for filesystems (notably HFS+/APFS) that silently renormalize
// Unicode filenames on write.
package pathnorm

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ToNFC returns s normalized to Unicode Normalization Form C.
func ToNFC(s string) string {
	return norm.NFC.String(s)
}

// ToSlash converts backslash separators to forward slashes, matching the
// archive's forward-slash-only relative path convention.
func ToSlash(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}

// ActualPath resolves expected (a path the engine just wrote or expects to
// find) to the name the filesystem actually stored its final component
// under. It scans expected's parent directory for an entry whose NFC form
// matches expected's basename's NFC form; if none is found, or the parent
// can't be read, it returns expected unchanged.
func ActualPath(expected string) string {
	dir := filepath.Dir(expected)
	base := filepath.Base(expected)
	wantNFC := ToNFC(base)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return expected
	}
	for _, entry := range entries {
		if ToNFC(entry.Name()) == wantNFC {
			return filepath.Join(dir, entry.Name())
		}
	}
	return expected
}

// StripDriveLetter removes a drive-letter prefix and the separator after it
// ("C:/") from a Windows-style path that has already had its separators
// normalized to forward slashes, as pack does when keep_structure is on.
func StripDriveLetter(slashPath string) string {
	if len(slashPath) > 3 && slashPath[1] == ':' {
		return slashPath[3:]
	}
	return slashPath
}

// TrimLeadingSlashes removes every leading '/' from p, used to turn an
// absolute Pioneer-relative path (e.g. "/ANLZ/...") into an archive- or
// share-dir-relative one.
func TrimLeadingSlashes(p string) string {
	return strings.TrimLeft(p, "/")
}

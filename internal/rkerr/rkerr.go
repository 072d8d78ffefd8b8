// Package rkerr defines the typed error kinds the pack/unpack engine
// surfaces to its caller, each mapped to one exit class at the CLI layer.
package rkerr

import "errors"

// Kind classifies a failure for the purposes of CLI exit codes and
// whether the caller should treat it as a hard abort or a counted warning.
type Kind int

const (
	// KindNotFound: a named resource (playlist, archive entry, pack.json) is absent.
	KindNotFound Kind = iota
	// KindAmbiguous: more than one live row matched a name lookup that expects one.
	KindAmbiguous
	// KindUnsupportedVersion: the staging document's version isn't one this engine understands.
	KindUnsupportedVersion
	// KindSchema: a staged row is missing a field the engine requires (e.g. ID).
	KindSchema
	// KindIO: a filesystem operation (read, copy, stat) failed.
	KindIO
	// KindDB: a database query, insert, or transaction control statement failed.
	KindDB
	// KindArchive: a ZIP read/write operation failed.
	KindArchive
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindAmbiguous:
		return "Ambiguous"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	case KindSchema:
		return "Schema"
	case KindIO:
		return "IO"
	case KindDB:
		return "DB"
	case KindArchive:
		return "Archive"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a Kind, so callers can branch on
// errors.As without string-matching messages.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around an existing error, tagging it with kind.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// Is reports whether err (or something it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

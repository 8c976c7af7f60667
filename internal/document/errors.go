package document

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrOversizeFile      = errors.New("file too large")
	ErrEmptyFile         = errors.New("file is empty")
	ErrCorruptFile       = errors.New("corrupt file")
	ErrEmptyExtraction   = errors.New("no text extracted")
)

// Error is returned by the Parser for every rejected document.
// Kind is one of the Err* sentinels so callers can use errors.Is.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns a short machine readable name for the parse failure kind.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrOversizeFile):
		return "oversize_file"
	case errors.Is(err, ErrEmptyFile):
		return "empty_file"
	case errors.Is(err, ErrCorruptFile):
		return "corrupt_file"
	case errors.Is(err, ErrEmptyExtraction):
		return "empty_extraction"
	default:
		return "unknown"
	}
}

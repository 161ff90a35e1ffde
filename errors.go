package tetanes

import "fmt"

// Kind classifies load/attach-time failures (spec §7 "Error kinds"). Once
// the core is running, it never surfaces errors — ROM-induced conditions
// produce open-bus or documented undefined values, never faults.
type Kind int

const (
	InvalidRom Kind = iota
	UnsupportedMapper
	InvalidSaveState
	CorruptPrgRam
	IoError
)

func (k Kind) String() string {
	switch k {
	case InvalidRom:
		return "InvalidRom"
	case UnsupportedMapper:
		return "UnsupportedMapper"
	case InvalidSaveState:
		return "InvalidSaveState"
	case CorruptPrgRam:
		return "CorruptPrgRam"
	case IoError:
		return "Io"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind with context, the Go analogue of the teacher's plain
// error returns and of original_source's tetanes-core::error::Error enum.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, if any (e.g. io.Error)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Package crackerr defines the typed errors used to classify failures
// across the cipher, attack, and CLI layers so callers can distinguish a
// usage mistake from a broken invariant without string matching.
package crackerr

import "errors"

// Kind identifies which of the seven error categories an error belongs to.
type Kind int

const (
	// UsageError means the command line was malformed: wrong argument
	// count or an unsupported round count.
	UsageError Kind = iota
	// IoError means an input or output file could not be opened, read,
	// or written.
	IoError
	// ParseError means a tuple line did not match its expected format.
	// Callers skip the line rather than aborting the run.
	ParseError
	// InsufficientTuples means fewer than two distinct tuples were
	// available for a round count that requires them.
	InsufficientTuples
	// NoCandidatePairs means a 6/7/8-round pair filter produced no
	// pairs to attack.
	NoCandidatePairs
	// ResourceError means a worker failed to allocate memory for its
	// working set. The worker exits; siblings continue.
	ResourceError
	// InternalInvariant means a broken invariant was detected, such as
	// a dispatcher counter overflow or an S-box self-check mismatch.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case UsageError:
		return "usage error"
	case IoError:
		return "I/O error"
	case ParseError:
		return "parse error"
	case InsufficientTuples:
		return "insufficient tuples"
	case NoCandidatePairs:
		return "no candidate pairs"
	case ResourceError:
		return "resource error"
	case InternalInvariant:
		return "internal invariant violation"
	default:
		return "unknown error"
	}
}

// Error pairs a Kind with an underlying cause. It supports errors.Is and
// errors.As via Unwrap, so callers can test for a Kind without inspecting
// message text.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind, so
// errors.Is(err, crackerr.New(crackerr.IoError, "", nil)) works without
// comparing messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New constructs an Error of the given kind wrapping cause, which may be
// nil.
func New(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// OfKind reports whether err is, or wraps, a *Error of the given kind.
func OfKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

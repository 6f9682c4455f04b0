// Package apterr defines the small error taxonomy shared by the apt codec,
// the aptconn connection core, and the device controllers. It follows the
// wrap-don't-classify style of daedaluz/goserial's own error.go: a single
// struct type carrying an operation name, a coarse Kind, and the underlying
// cause, rather than a hierarchy of exception types.
package apterr

import "errors"

// Kind coarsely classifies an error so callers can branch on category
// without string matching.
type Kind int

const (
	// Other is the zero value: an error apterr did not originate or could
	// not classify.
	Other Kind = iota

	// InvalidArgument means a caller-supplied value is out of range or
	// otherwise malformed before any I/O happens (e.g. an out-of-range
	// move_absolute position).
	InvalidArgument

	// InvalidState means the operation is not valid for the connection's
	// or device's current lifecycle state (e.g. send on an unopened or
	// closing connection).
	InvalidState

	// MalformedMessage means bytes were read off the wire for a known
	// message ID but failed to parse as that message (bad length, wrong
	// high bit, invalid ChanIdent, truncated payload).
	MalformedMessage

	// UnknownMessage means the header's message ID is not one this codec
	// recognizes at all. Distinct from MalformedMessage because an unknown
	// ID is routine noise on a shared bus (a peer's message this host
	// doesn't implement), not a decode failure worth a Warn.
	UnknownMessage

	// TransportIO means the underlying serial port returned an error that
	// was not simply "closed" (a read or write syscall failure).
	TransportIO

	// TransportClosed means the connection or port was already closed
	// when the operation was attempted, or was closed while waiting.
	TransportClosed

	// Timeout means a blocking wait (send_expect_reply, move completion)
	// did not observe a matching message before its deadline.
	Timeout

	// PortNotFound means no serial device could be located for a
	// requested identifier (e.g. serial number not present on the bus).
	PortNotFound
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case InvalidState:
		return "invalid_state"
	case MalformedMessage:
		return "malformed_message"
	case UnknownMessage:
		return "unknown_message"
	case TransportIO:
		return "transport_io"
	case TransportClosed:
		return "transport_closed"
	case Timeout:
		return "timeout"
	case PortNotFound:
		return "port_not_found"
	default:
		return "other"
	}
}

// Error is the concrete error type returned by this module's packages. Op
// names the failing operation (e.g. "aptconn.SendExpectReply"), Kind
// classifies it, and Err (optional) carries the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error with no underlying cause.
func New(kind Kind, op string) error {
	return &Error{Kind: kind, Op: op}
}

// Wrap builds an *Error around an existing error. If err is nil, Wrap
// returns nil so callers can write `return apterr.Wrap(..., err)` unconditionally.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Of extracts the Kind of err, walking Unwrap chains. It returns Other for
// any error that was not produced by this package.
func Of(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// Is reports whether err (or anything in its Unwrap chain) carries kind.
func Is(err error, kind Kind) bool {
	return Of(err) == kind
}

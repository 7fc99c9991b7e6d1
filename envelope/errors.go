package envelope

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Kind classifies a failure by its effect.
type Kind int

const (
	// KindUnknown is reported for errors that carry no kind.
	KindUnknown Kind = iota
	// ConfigurationError - required credential or connection fields unset before use.
	ConfigurationError
	// ConnectionError - transport failure establishing a session.
	ConnectionError
	// CommandError - remote command execution failed or the session was invalid.
	CommandError
	// VerificationError - a destructive operation did not observably take effect.
	VerificationError
	// TransferError - file download failed.
	TransferError
	// RemoteAPIError - non-success status or structured error body from the management API.
	RemoteAPIError
	// NotConnectedError - a session-bound operation was invoked before a successful connect.
	NotConnectedError
)

var kindNames = map[Kind]string{
	KindUnknown:        "UnknownError",
	ConfigurationError: "ConfigurationError",
	ConnectionError:    "ConnectionError",
	CommandError:       "CommandError",
	VerificationError:  "VerificationError",
	TransferError:      "TransferError",
	RemoteAPIError:     "RemoteApiError",
	NotConnectedError:  "NotConnectedError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Error is an error with a Kind, optionally wrapping the underlying cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error

	masked bool
}

// NewError delivers an error of the given kind with no underlying cause.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WrapError delivers an error of the given kind wrapping cause.
// A nil cause yields an error equivalent to NewError.
func WrapError(kind Kind, cause error, msg string) *Error {
	if cause == nil {
		return NewError(kind, msg)
	}
	return &Error{Kind: kind, Msg: msg, Cause: errors.WithStack(cause)}
}

// MaskError delivers an error of the given kind whose message is msg alone.
// The cause stays reachable through Unwrap.
func MaskError(kind Kind, cause error, msg string) *Error {
	e := WrapError(kind, cause, msg)
	e.masked = true
	return e
}

func (e *Error) Error() string {
	switch {
	case e.Cause == nil, e.masked:
		return e.Msg
	case e.Msg == "":
		return e.Cause.Error()
	default:
		return e.Msg + ": " + e.Cause.Error()
	}
}

// Unwrap supports errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf delivers the kind of the first *Error found in the chain of err.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

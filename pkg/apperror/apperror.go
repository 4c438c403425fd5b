package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for callers. Each kind maps to its own HTTP
// status so clients can tell validation, state-machine and storage failures
// apart.
type Kind int

const (
	Unknown Kind = iota
	Unauthorized      // no resolvable actor
	Forbidden         // actor role or department does not permit the action
	InvalidInput      // missing, malformed or out-of-range input
	InvalidState      // the requested transition violates the workflow
	NotFound          // referenced record or user absent
	Conflict          // duplicate key race on (facultyId, academicYear)
	Store             // underlying persistence failure
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case InvalidInput:
		return "invalid_input"
	case InvalidState:
		return "invalid_state"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Store:
		return "store_error"
	default:
		return "unknown"
	}
}

// Error is a kinded error. Message is caller-visible; Err is the wrapped
// cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a kinded error with a caller-visible message.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is lets errors.Is match two kinded errors by kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus maps an error to its response status. Unknown errors are
// reported as internal failures.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case InvalidInput:
		return http.StatusBadRequest
	case InvalidState:
		return http.StatusUnprocessableEntity
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the caller-visible message for err. Store and unknown
// failures are masked behind a generic message; the cause belongs in logs,
// not responses.
func Public(err error) string {
	switch KindOf(err) {
	case Store, Unknown:
		return "internal server error"
	default:
		var e *Error
		errors.As(err, &e)
		return e.Message
	}
}

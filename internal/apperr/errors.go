package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind is the machine-checkable error category carried to clients and logs.
type Kind string

const (
	KindValidation       Kind = "VALIDATION"
	KindNotFound         Kind = "NOT_FOUND"
	KindBindingConflict  Kind = "BINDING_CONFLICT"
	KindUpstream         Kind = "UPSTREAM_FAILURE"
	KindMalformedMessage Kind = "MALFORMED_MESSAGE"
	KindSessionExpired   Kind = "SESSION_EXPIRED"
)

// Error is the single error type crossing service boundaries. Synchronous
// paths convert it to an HTTP response; asynchronous paths re-raise it so the
// queue retry/dead-letter machinery takes over.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func BindingConflict(message string) *Error {
	return New(KindBindingConflict, message)
}

func Upstream(message string, err error) *Error {
	return Wrap(KindUpstream, message, err)
}

func MalformedMessage(message string, err error) *Error {
	return Wrap(KindMalformedMessage, message, err)
}

func SessionExpired(message string) *Error {
	return New(KindSessionExpired, message)
}

// KindOf extracts the Kind from an error chain. Unclassified errors are
// treated as upstream failures so internals never map to client errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// MessageOf returns the client-safe message of an error chain. The wrapped
// cause is deliberately excluded from the result.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error chain to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindBindingConflict:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindSessionExpired:
		return fiber.StatusGone
	case KindMalformedMessage:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadGateway
	}
}

// Package apperr defines the closed set of errors that may cross the HTTP
// boundary and their mapping to a status code and a user-visible message.
package apperr

import (
	"errors"
	"net/http"
)

// Kind tags an Error with one of the supported classes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindNotFound
)

// User-facing messages shared by several layers.
const (
	MsgInternal       = "На сервере произошла ошибка"
	MsgRouteNotFound  = "Страница не найдена"
	MsgUnauthorized   = "Необходима авторизация"
	MsgBadCredentials = "Неправильные почта или пароль"
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// StatusCode returns the HTTP status bound to the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error is raised at the point of failure and consumed by the error pipeline.
// Err keeps the underlying cause for logs only.
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

func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Authentication(message string, cause error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: cause}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: cause}
}

// Response maps any error to the status code and message written to the
// client. Unclassified errors and internal ones never expose their text.
func Response(err error) (int, string) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, MsgInternal
	}

	status := appErr.StatusCode()
	if status == http.StatusInternalServerError {
		return status, MsgInternal
	}

	return status, appErr.Message
}

// Is reports whether err carries an Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	default:
		return "unexpected"
	}
}

var (
	ErrUnauthorized       = Unauthorized("Unauthorized")
	ErrInvalidCredentials = Unauthorized("Invalid login credentials")
	ErrNoteNotFound       = NotFound("Note not found")
	ErrTagNotFound        = NotFound("Tag not found")
	ErrUserNotFound       = NotFound("User not found")
	ErrUserExists         = StoreMessage("User already registered")
)

// AppError wraps errors with the kind used to pick a status code
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on kind and message so sentinel values survive wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Error() == t.Error()
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Store marks an error reported by the backing store. The driver message is passed through.
func Store(err error) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return &AppError{Kind: KindStore, Err: err}
}

func StoreMessage(message string) *AppError {
	return &AppError{Kind: KindStore, Message: message}
}

func Unexpected(err error) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return &AppError{Kind: KindUnexpected, Err: err}
}

// KindOf reports the kind of err; anything that is not an AppError is unexpected.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnexpected
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation, KindStore:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

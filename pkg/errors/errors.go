package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource already exists")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrValidation         = errors.New("validation error")
	ErrConfiguration      = errors.New("fatal configuration error")
	ErrUnavailable        = errors.New("feature unavailable")
)

const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeBadRequest         = "BAD_REQUEST"
	CodeConflict           = "CONFLICT"
	CodeInternalServer     = "INTERNAL_SERVER_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeConfiguration      = "CONFIGURATION_FATAL"
	CodeUnavailable        = "UNAVAILABLE"
)

// AppError carries a stable code and a client-safe message alongside the
// underlying cause. Err is expected to wrap one of the sentinels above.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Message: msg, Err: ErrNotFound}
}

func Unauthenticated(msg string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: msg, Err: ErrUnauthenticated}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: CodeBadRequest, Message: msg, Err: ErrBadRequest}
}

func Validation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Err: ErrValidation}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: CodeConflict, Message: msg, Err: ErrConflict}
}

func EmailExists(msg string) *AppError {
	return &AppError{Code: CodeEmailExists, Message: msg, Err: ErrEmailExists}
}

func InvalidCredentials(msg string) *AppError {
	return &AppError{Code: CodeInvalidCredentials, Message: msg, Err: ErrInvalidCredentials}
}

func Unavailable(msg string) *AppError {
	return &AppError{Code: CodeUnavailable, Message: msg, Err: ErrUnavailable}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: CodeInternalServer, Message: msg, Err: errors.Join(ErrInternalServer, err)}
}

// Configuration marks a startup error that must stop the process before it
// serves any traffic.
func Configuration(msg string, err error) *AppError {
	if err == nil {
		return &AppError{Code: CodeConfiguration, Message: msg, Err: ErrConfiguration}
	}
	return &AppError{Code: CodeConfiguration, Message: msg, Err: errors.Join(ErrConfiguration, err)}
}

// IsFatal reports whether err must abort startup.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// CodeOf returns the AppError code carried by err, or an empty string.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

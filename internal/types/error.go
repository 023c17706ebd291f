package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every CustomError unwraps to one of these.
var (
	ErrValidation   = errors.New("validation failure")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
	ErrInUse        = errors.New("reference in use")
)

// Error types reported to clients
const (
	TypeValidation = "data.validation.input"
	TypeDuplicate  = "data.validation.duplicate"
	TypeReference  = "data.validation.reference"
	TypeNotFound   = "data.notfound"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	kind    error
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Unwrap exposes the error kind to errors.Is
func (e *CustomError) Unwrap() error {
	return e.kind
}

// NewValidationError reports a required field missing, a malformed value or a business rule failure
func NewValidationError(format string, args ...any) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
		Type:    TypeValidation,
		kind:    ErrValidation,
	}
}

// NewDuplicateKeyError reports a unique key collision
func NewDuplicateKeyError(format string, args ...any) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
		Type:    TypeDuplicate,
		kind:    ErrDuplicateKey,
	}
}

// NewNotFoundError reports an id or key that does not resolve
func NewNotFoundError(format string, args ...any) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf(format, args...),
		Type:    TypeNotFound,
		kind:    ErrNotFound,
	}
}

// NewInUseError reports a delete blocked by a live reference
func NewInUseError(format string, args ...any) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
		Type:    TypeReference,
		kind:    ErrInUse,
	}
}

// KindOf names the kind of err for logs and metrics
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDuplicateKey):
		return "duplicate"
	case errors.Is(err, ErrNotFound):
		return "notfound"
	case errors.Is(err, ErrInUse):
		return "inuse"
	}
	return "internal"
}

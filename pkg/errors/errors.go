package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeRemote             Code = "REMOTE_ERROR"
	CodeStateInconsistency Code = "STATE_INCONSISTENCY"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// Metadata tells the web layer how to answer a code. ClientSide codes are
// raised by guards before any catalog request is sent.
type Metadata struct {
	HTTPStatus     int
	PublicMessage  string
	DetailsAllowed bool
	ClientSide     bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:         {http.StatusBadRequest, "validation failed", true, true},
	CodeRemote:             {http.StatusBadGateway, "catalog request failed", true, false},
	CodeStateInconsistency: {http.StatusUnprocessableEntity, "action rejected by client state", true, true},
	CodeNotFound:           {http.StatusNotFound, "resource not found", false, true},
	CodeInternal:           {http.StatusInternalServerError, "internal server error", false, false},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the single error shape used across the storefront. Controllers
// surface Message() to users verbatim, so it must stay human readable.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Validation builds a CodeValidation error carrying per-field messages.
func Validation(message string, fields map[string]string) *Error {
	e := New(CodeValidation, message)
	if len(fields) > 0 {
		e.details = fields
	}
	return e
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsClientSide reports whether err was raised locally, without a catalog
// round trip. Untyped errors are never client side.
func IsClientSide(err error) bool {
	typed := As(err)
	return typed != nil && MetadataFor(typed.Code()).ClientSide
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// UserMessage returns the message a user should see for err, or fallback when
// err carries nothing readable.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if typed := As(err); typed != nil {
		if typed.Message() != "" {
			return typed.Message()
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

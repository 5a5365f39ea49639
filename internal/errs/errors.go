// Package errs defines the error taxonomy surfaced by every bridge action.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine readable failure class.
type Code string

const (
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeInvalidParam    Code = "INVALID_PARAM"
	CodeSymbolMismatch  Code = "SYMBOL_MISMATCH"
	CodeIllegalAddress  Code = "ILLEGAL_ADDRESS"
	CodeAddressMismatch Code = "ADDRESS_MISMATCH"
	CodeStatusInvalid   Code = "STATUS_INVALID"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeInternal        Code = "INTERNAL"
)

// Sentinels for errors.Is matching against a code.
var (
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrAlreadyExists   = &Error{Code: CodeAlreadyExists}
	ErrInvalidParam    = &Error{Code: CodeInvalidParam}
	ErrSymbolMismatch  = &Error{Code: CodeSymbolMismatch}
	ErrIllegalAddress  = &Error{Code: CodeIllegalAddress}
	ErrAddressMismatch = &Error{Code: CodeAddressMismatch}
	ErrStatusInvalid   = &Error{Code: CodeStatusInvalid}
	ErrUnauthorized    = &Error{Code: CodeUnauthorized}
	ErrInternal        = &Error{Code: CodeInternal}
)

// Error carries a taxonomy code and a human readable message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports a match when the target carries the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New builds an Error with a formatted message.
func New(code Code, format string, args ...interface{}) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return New(CodeNotFound, format, args...)
}

func AlreadyExists(format string, args ...interface{}) error {
	return New(CodeAlreadyExists, format, args...)
}

func InvalidParam(format string, args ...interface{}) error {
	return New(CodeInvalidParam, format, args...)
}

func Unauthorized(format string, args ...interface{}) error {
	return New(CodeUnauthorized, format, args...)
}

func StatusInvalid(format string, args ...interface{}) error {
	return New(CodeStatusInvalid, format, args...)
}

// CodeOf extracts the taxonomy code, INTERNAL for anything foreign.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the message without the code prefix.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps a code to the response status used by the API.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeStatusInvalid:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeInvalidParam, CodeSymbolMismatch, CodeIllegalAddress, CodeAddressMismatch:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

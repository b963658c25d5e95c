// Package errs defines the error taxonomy shared by the analysis core.
//
// Every error raised by the core carries a stable, machine-readable Code and
// the offending path or filename so callers can report failures without
// parsing messages.
package errs

import (
	"errors"
	"fmt"
)

// Code is a stable identifier for a class of analysis failure.
type Code string

const (
	// CodeInvalidInput is returned for an empty filename or non-text content.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeFileTooBig is returned when content exceeds the configured size limit.
	CodeFileTooBig Code = "FILE_TOO_BIG"

	// CodePathTraversal is returned when a scan root escapes the upload root.
	CodePathTraversal Code = "PATH_TRAVERSAL"

	// CodeScanFailure is returned when the directory walk itself fails.
	CodeScanFailure Code = "SCAN_FAILURE"

	// CodeFileReadFailure is recorded when a single file cannot be read
	// during batch processing. It never aborts a project scan.
	CodeFileReadFailure Code = "FILE_READ_FAILURE"
)

// Sentinels for errors.Is matching. Only the Code is compared.
var (
	ErrInvalidInput    = &Error{Code: CodeInvalidInput}
	ErrFileTooBig      = &Error{Code: CodeFileTooBig}
	ErrPathTraversal   = &Error{Code: CodePathTraversal}
	ErrScanFailure     = &Error{Code: CodeScanFailure}
	ErrFileReadFailure = &Error{Code: CodeFileReadFailure}
)

// Error is the structured error type returned by the core.
type Error struct {
	Code    Code   `json:"code"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates an Error with the given code, path and message.
func New(code Code, path, message string) *Error {
	return &Error{Code: code, Path: path, Message: message}
}

// Wrap creates an Error that wraps cause. It returns nil when cause is nil.
func Wrap(cause error, code Code, path, message string) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Path: path, Message: message, Err: cause}
}

// InvalidInput is shorthand for New(CodeInvalidInput, ...).
func InvalidInput(path, message string) *Error {
	return New(CodeInvalidInput, path, message)
}

// PathTraversal reports a scan root that resolves outside the upload root.
func PathTraversal(path string) *Error {
	return New(CodePathTraversal, path, "path traversal detected")
}

// CodeOf extracts the Code from err, or "" when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

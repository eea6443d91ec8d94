package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Process errors
	ErrProcessLaunch      ErrorCode = "PROCESS_LAUNCH"
	ErrProcessNonZeroExit ErrorCode = "PROCESS_NON_ZERO_EXIT"
	ErrProcessCancelled   ErrorCode = "PROCESS_CANCELLED"
	ErrMissingExecutable  ErrorCode = "MISSING_EXECUTABLE"

	// Artifact errors
	ErrArtifactExtraction ErrorCode = "ARTIFACT_EXTRACTION"
	ErrArtifactCollision  ErrorCode = "ARTIFACT_NAME_COLLISION"
	ErrRecordParse        ErrorCode = "RECORD_PARSE"

	// FileSystem errors
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrFileWrite      ErrorCode = "FILE_WRITE"
	ErrFilesystemLink ErrorCode = "FILESYSTEM_LINK"
)

// ExpoError represents a structured error with code and details
type ExpoError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ExpoError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ExpoError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ExpoError) Is(target error) bool {
	var targetErr *ExpoError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ExpoError with the given code and message
func New(code ErrorCode, message string) *ExpoError {
	return &ExpoError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ExpoError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ExpoError {
	return &ExpoError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an ExpoError
func Wrap(err error, code ErrorCode, message string) *ExpoError {
	if err == nil {
		return nil
	}
	return &ExpoError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ExpoError {
	if err == nil {
		return nil
	}
	return &ExpoError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ExpoError) WithDetail(key string, value interface{}) *ExpoError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var expoErr *ExpoError
	if errors.As(err, &expoErr) {
		return expoErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an ExpoError
func GetErrorCode(err error) ErrorCode {
	var expoErr *ExpoError
	if errors.As(err, &expoErr) {
		return expoErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an ExpoError
func GetErrorDetails(err error) map[string]interface{} {
	var expoErr *ExpoError
	if errors.As(err, &expoErr) {
		return expoErr.Details
	}
	return nil
}

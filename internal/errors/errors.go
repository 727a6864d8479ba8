package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a JSON file or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Process exit codes reported by the CLI
const (
	ExitOK        = 0
	ExitUsage     = 1
	ExitMalformed = 2
	ExitNotFound  = 4
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeRender  ErrorType = "render"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to reading the input document
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewConfigError creates a new error related to loading configuration
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// NewRenderError creates a new error raised while printing a document
func NewRenderError(message string, err error) *AppError {
	return newError(ErrorTypeRender, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	// Sentinels carry the more precise story, so check them first.
	switch {
	case errors.Is(err, ErrFileNotFound):
		return "=> file not found"
	case errors.Is(err, ErrInvalidJSON), errors.Is(err, ErrMultipleJSON):
		return "=> invalid or malformed file"
	case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrFileEmpty):
		return "=> invalid or malformed file (empty input)"
	case errors.Is(err, ErrNoInput):
		return "where is input json file?"
	case errors.Is(err, ErrInvalidFilePath):
		return "Error: Invalid file path. Please provide a valid file path."
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeRender:
			return fmt.Sprintf("Render error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

// ExitCode maps an error to the process exit code of the CLI
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrFileNotFound) {
		return ExitNotFound
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type == ErrorTypeParsing {
		return ExitMalformed
	}
	if errors.Is(err, ErrInvalidJSON) || errors.Is(err, ErrMultipleJSON) ||
		errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrFileEmpty) {
		return ExitMalformed
	}
	return ExitUsage
}

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidUTF8     = errors.New("file is not valid UTF-8 text")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidNumber   = errors.New("not a valid timestamp number")
	ErrOutOfRange      = errors.New("timestamp out of range")
	ErrUnknownLayout   = errors.New("unrecognised date/time layout")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeFormat    ErrorType = "format"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeIO        ErrorType = "io"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeTimestamp ErrorType = "timestamp"
	ErrorTypeUnknown   ErrorType = "unknown"
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

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewFormatError creates a new error related to serialization
func NewFormatError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFormat,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewIOError creates a new error for file and clipboard failures.
// The cause text is kept verbatim.
func NewIOError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeIO,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewTimestampError creates a new error related to timestamp conversion
func NewTimestampError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTimestamp,
		Message: message,
		Err:     err,
	}
}

// Grammar names a grammar the parser tried.
type Grammar string

const (
	GrammarStrict Grammar = "strict"
	GrammarLoose  Grammar = "loose"
	GrammarRepair Grammar = "repair"
)

// ParseError locates a failure of one grammar inside the input.
// Line and Column are 1-based; Column counts characters, not bytes.
type ParseError struct {
	Grammar    Grammar
	Message    string
	Line       int
	Column     int
	SourceLine string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s grammar: %s (line %d, column %d)", e.Grammar, e.Message, e.Line, e.Column)
}

// Is makes every ParseError match ErrInvalidJSON.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidJSON
}

// CompositeParseError holds one ParseError per grammar attempted, in attempt order.
type CompositeParseError struct {
	Errors []*ParseError
}

func (e *CompositeParseError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, pe := range e.Errors {
		parts[i] = pe.Error()
	}
	return "unable to parse input: " + strings.Join(parts, "; ")
}

// Unwrap exposes the individual grammar errors to errors.Is and errors.As.
func (e *CompositeParseError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		errs[i] = pe
	}
	return errs
}

// ForGrammar returns the error produced by grammar g, if it was attempted.
func (e *CompositeParseError) ForGrammar(g Grammar) (*ParseError, bool) {
	for _, pe := range e.Errors {
		if pe.Grammar == g {
			return pe, true
		}
	}
	return nil, false
}

// IsEmptyInput reports whether err signals empty input rather than a parse failure.
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			if errors.Is(appErr.Err, ErrEmptyInput) {
				return "Warning: the input is empty. Please provide JSON content."
			}
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Parsing error: %s", appErr.Message)
		case ErrorTypeFormat:
			return fmt.Sprintf("Formatting error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeIO:
			if appErr.Err != nil {
				return fmt.Sprintf("I/O error: %s: %v", appErr.Message, appErr.Err)
			}
			return fmt.Sprintf("I/O error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeTimestamp:
			return fmt.Sprintf("Timestamp error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Warning: the input is empty. Please provide JSON content."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input could not be parsed. Please check its syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

// Package errors defines the structured error taxonomy used across the
// matching engine and its CLI. Errors carry a category, a code, an optional
// suggestion for the operator, and contextual key/value data.
//
// Per-field data quality problems (a bad amount on one statement line) are
// deliberately NOT represented here: the engine absorbs those as zero scores
// with diagnostic factor tags. This package covers caller misuse, file and
// configuration problems, and internal failures.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory groups errors by the subsystem that raised them.
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryMatching      ErrorCategory = "matching"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode identifies a specific failure within a category.
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileCorrupted  ErrorCode = "file_corrupted"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeMissingColumn ErrorCode = "missing_column"
	CodeInvalidData   ErrorCode = "invalid_data"
	CodeEncodingError ErrorCode = "encoding_error"

	// Validation errors
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeInvalidDate   ErrorCode = "invalid_date"
	CodeMissingField  ErrorCode = "missing_field"
	CodeOutOfRange    ErrorCode = "out_of_range"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Matching errors
	CodeMatchingFailed  ErrorCode = "matching_failed"
	CodeProcessingError ErrorCode = "processing_error"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// EngineError is the base error type for all application errors.
type EngineError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error.
type Context map[string]interface{}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns the process exit code for the error category.
func (e *EngineError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryMatching, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error.
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error.
func (e *EngineError) WithSuggestion(suggestion string) *EngineError {
	e.Suggestion = suggestion
	return e
}

// New creates a new EngineError.
func New(category ErrorCategory, code ErrorCode, message string) *EngineError {
	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with EngineError context.
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *EngineError {
	if err == nil {
		return nil
	}

	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FileError creates a file-related error.
func FileError(code ErrorCode, path string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileCorrupted:
		message = fmt.Sprintf("file appears to be corrupted: %s", path)
		suggestion = "verify the file integrity and try using a backup copy"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error with file position context.
func ParseError(code ErrorCode, file string, line int, column string, value string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "check the data format and ensure it matches the expected structure"
	case CodeMissingColumn:
		message = fmt.Sprintf("missing required column '%s' in file %s", column, file)
		suggestion = "verify the file has all required columns with correct headers"
	case CodeInvalidData:
		message = fmt.Sprintf("invalid data in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "correct the data format or remove the invalid entry"
	case CodeEncodingError:
		message = fmt.Sprintf("encoding error in file %s at line %d", file, line)
		suggestion = "ensure the file is saved in UTF-8 encoding"
	default:
		message = fmt.Sprintf("parse error in file %s at line %d", file, line)
		suggestion = "check the file format and data integrity"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("line", line).
		WithContext("column", column).
		WithContext("value", value)
}

// ValidationError creates a validation-related error.
func ValidationError(code ErrorCode, field string, value interface{}, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "ensure amounts are valid decimal numbers (e.g., '12.34')"
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid date in field '%s': %v", field, value)
		suggestion = "use date format YYYY-MM-DD"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeOutOfRange:
		message = fmt.Sprintf("value out of range in field '%s': %v", field, value)
		suggestion = "ensure the value is within the acceptable range"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error.
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// MatchingError creates a matching-related error.
func MatchingError(code ErrorCode, operation string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeMatchingFailed:
		message = fmt.Sprintf("matching failed during %s", operation)
		suggestion = "try adjusting the minimum confidence or check data quality"
	case CodeProcessingError:
		message = fmt.Sprintf("processing error during %s", operation)
		suggestion = "check system resources and try again"
	default:
		message = fmt.Sprintf("matching error during %s", operation)
		suggestion = "review the data and configuration"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryMatching, code, message)
	} else {
		result = New(CategoryMatching, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// InternalError creates an internal error.
func InternalError(code ErrorCode, operation string, err error) *EngineError {
	message := fmt.Sprintf("internal error during %s", operation)
	if code == CodeUnexpectedError {
		message = fmt.Sprintf("unexpected error during %s", operation)
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// ErrorSummary aggregates multiple errors, typically from a parsing run.
type ErrorSummary struct {
	Total      int                   `json:"total"`
	ByCategory map[ErrorCategory]int `json:"by_category"`
	ByCode     map[ErrorCode]int     `json:"by_code"`
	Errors     []*EngineError        `json:"errors"`
}

// NewErrorSummary creates a new error summary.
func NewErrorSummary(errs []*EngineError) *ErrorSummary {
	summary := &ErrorSummary{
		Total:      len(errs),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errs,
	}

	for _, err := range errs {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	return summary
}

// Error returns a formatted error message for the summary.
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// HasCategory checks if the summary contains errors of the given category.
func (es *ErrorSummary) HasCategory(category ErrorCategory) bool {
	return es.ByCategory[category] > 0
}

// GetExitCode returns the highest priority exit code from all errors.
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}

// IsEngineError checks if an error is an EngineError.
func IsEngineError(err error) bool {
	_, ok := err.(*EngineError)
	return ok
}

// AsEngineError extracts an EngineError from an error chain.
func AsEngineError(err error) (*EngineError, bool) {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps an error if it's not already an EngineError.
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *EngineError {
	if err == nil {
		return nil
	}

	if engineErr, ok := AsEngineError(err); ok {
		return engineErr
	}

	return Wrap(err, category, code, message)
}

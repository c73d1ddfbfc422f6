package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates one or more settings are invalid.
	ErrValidationFailed = errors.New("validation failed")

	// ErrWatcherClosed indicates the watcher was used after Close.
	ErrWatcherClosed = errors.New("config watcher closed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldError describes one invalid setting.
type FieldError struct {
	// Path is the setting path, e.g. "recognition.min_score".
	Path string
	// Message describes the problem.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// ValidationError collects every invalid setting found by Validate.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func (e *ValidationError) add(path, msg string, value any) {
	e.Fields = append(e.Fields, FieldError{Path: path, Message: msg, Value: value})
}

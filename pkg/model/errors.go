package model

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat means an answer could not be parsed for its declared type.
	ErrFormat = errors.New("invalid format")
	// ErrRange means a parsed answer lies outside its declared range.
	ErrRange = errors.New("out of range")
	// ErrConsistency means an answer conflicts with a previously accepted one.
	ErrConsistency = errors.New("inconsistent answer")
	// ErrCancelled means the user interrupted the run.
	ErrCancelled = errors.New("questionnaire cancelled")
)

// InputError is a recoverable answer error carrying the message shown to the user.
type InputError struct {
	Kind    error
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Unwrap() error { return e.Kind }

// FormatErrorf builds an InputError of kind ErrFormat.
func FormatErrorf(format string, args ...interface{}) error {
	return &InputError{Kind: ErrFormat, Message: fmt.Sprintf(format, args...)}
}

// RangeErrorf builds an InputError of kind ErrRange.
func RangeErrorf(format string, args ...interface{}) error {
	return &InputError{Kind: ErrRange, Message: fmt.Sprintf(format, args...)}
}

// CollaboratorError wraps a failure from the filesystem, a process or the warehouse.
type CollaboratorError struct {
	Collaborator string
	Op           string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Collaborator, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports an absent template, slot, event or party.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a lost reservation race or an overlapping slot
	// detected at persistence time.
	ErrConflict = errors.New("conflict")
	// ErrEmptySlotGeneration reports a generation range that produced no
	// slots at all, as opposed to a batch that skipped every candidate.
	ErrEmptySlotGeneration = errors.New("no slots generated for range")
	// ErrMalformedBatchInput reports a missing or empty candidate
	// collection at the request boundary.
	ErrMalformedBatchInput = errors.New("empty candidate batch")
)

// FieldError names one offending field of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every offending field, not just the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends one field violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns the error if any field was added, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// TransitionError reports an illegal slot state change.
type TransitionError struct {
	From SlotStatus
	To   SlotStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

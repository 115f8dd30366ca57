package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions callers branch on.
var (
	// ErrUnauthorized means no valid session identity was presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound means the session's user id has no profile record.
	ErrUserNotFound = errors.New("user not found")
	// ErrMissingIndustry means insight generation was requested without an industry.
	ErrMissingIndustry = errors.New("industry is required")
	// ErrNotFound means a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey means a create hit the store's unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)

// InvalidAIResponseError means no JSON object could be recovered from the
// model's raw output. Excerpt holds the head of the offending response for
// logging; it is never shown to end users.
type InvalidAIResponseError struct {
	Excerpt string
}

func (e *InvalidAIResponseError) Error() string {
	return fmt.Sprintf("AI returned no parseable JSON object (response starts %q)", e.Excerpt)
}

// InvalidQuizResponseError means the model's quiz JSON parsed but failed
// structural validation.
type InvalidQuizResponseError struct {
	Reason string
}

func (e *InvalidQuizResponseError) Error() string {
	return "invalid quiz response: " + e.Reason
}

// GenerationError wraps any model-invocation or extraction failure during
// insight or quiz generation, keeping the industry for observability.
type GenerationError struct {
	Industry string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for industry %q: %v", e.Industry, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed store operation with the operation name.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Excerpt truncates raw model output for error context and logs.
func Excerpt(raw string) string {
	const max = 120
	if len(raw) > max {
		return raw[:max]
	}
	return raw
}

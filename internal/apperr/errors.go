package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures so transports can map them without string matching.
type Kind string

const (
	// KindData covers a missing, unreadable or malformed dataset.
	KindData Kind = "DATA"

	// KindArtifactMissing means no successful training run has been published yet.
	KindArtifactMissing Kind = "ARTIFACT_MISSING"

	// KindTraining covers datasets that cannot be trained on.
	KindTraining Kind = "TRAINING"

	// KindValidation covers malformed requests.
	KindValidation Kind = "VALIDATION"

	// KindUnavailable means an optional backend is switched off.
	KindUnavailable Kind = "UNAVAILABLE"

	// KindInternal is everything else.
	KindInternal Kind = "INTERNAL"
)

// Error is the application error carried across package boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewDataError creates a dataset error.
func NewDataError(message string, err error) *Error {
	return &Error{Kind: KindData, Message: message, Err: err}
}

// NewArtifactMissing creates an error for a read before the first training run.
func NewArtifactMissing(what string) *Error {
	return &Error{Kind: KindArtifactMissing, Message: what + " not found, run training first"}
}

// NewTrainingError creates a training error.
func NewTrainingError(message string, err error) *Error {
	return &Error{Kind: KindTraining, Message: message, Err: err}
}

// NewValidationError creates a request validation error.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewUnavailableError creates an error for a disabled backend.
func NewUnavailableError(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrResumeNotFound signals a missing resume record.
	ErrResumeNotFound = fmt.Errorf("resume %w", ErrNotFound)
	// ErrJobNotFound signals a missing job record.
	ErrJobNotFound = fmt.Errorf("job %w", ErrNotFound)
	// ErrSessionNotFound signals a missing chat session.
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	// ErrForbidden signals access to a resource owned by another user.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidRole signals a role outside candidate/recruiter.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidInput signals a malformed request (empty user, bad identifiers).
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyDocument signals an ingest call without text.
	ErrEmptyDocument = errors.New("empty document")
	// ErrMissingAttachment signals an ingest intent without file content.
	ErrMissingAttachment = errors.New("missing attachment")

	// ErrLLMProviderError signals a completion provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrMalformedReply signals an LLM reply that could not be decoded.
	ErrMalformedReply = errors.New("malformed llm reply")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexUnavailable signals a vector index failure.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrStorageUnavailable signals a persistence failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InputError carries a user-facing explanation for a rejected request.
// The message is safe to show as-is.
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Unwrap() error { return e.Err }

// NewInputError creates an input error wrapping the given sentinel.
func NewInputError(sentinel error, format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...), Err: sentinel}
}

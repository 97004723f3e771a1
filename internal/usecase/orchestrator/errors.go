package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

var (
	errUnroutable = errors.New("no handler for intent")
	errPanic      = errors.New("handler panicked")
)

const genericFailure = "something went wrong while processing your request"

// safeMessages maps sentinels to text that can be shown to the user.
// Order matters: specific not-found sentinels come before ErrNotFound.
var safeMessages = []struct {
	err error
	msg string
}{
	{domain.ErrInvalidRole, "the role must be candidate or recruiter"},
	{domain.ErrEmptyDocument, "the document appears to be empty"},
	{domain.ErrForbidden, "you do not have access to that record"},
	{domain.ErrResumeNotFound, "the referenced resume was not found"},
	{domain.ErrJobNotFound, "the referenced job was not found"},
	{domain.ErrSessionNotFound, "the conversation was not found"},
	{domain.ErrNotFound, "the requested record was not found"},
	{domain.ErrInvalidInput, "the request is incomplete or malformed"},
	{domain.ErrLLMProviderError, "the language model is unavailable right now"},
	{domain.ErrMalformedReply, "the language model returned a reply I could not read"},
	{domain.ErrEmbeddingProviderError, "the embedding service is unavailable right now"},
	{domain.ErrIndexUnavailable, "the search index is unavailable right now"},
	{domain.ErrStorageUnavailable, "storage is unavailable right now"},
	{context.DeadlineExceeded, "the request took too long"},
	{context.Canceled, "the request was cancelled"},
}

// safeMessage returns user-facing text for err. Raw error strings never leak.
func safeMessage(err error) string {
	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	for _, m := range safeMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return genericFailure
}

// errorMessage formats the degraded reply.
func errorMessage(err error) string {
	return fmt.Sprintf("I encountered an issue: %s. Please try again or rephrase your request.", safeMessage(err))
}

package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/logger"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeForbidden          ErrorCode = "forbidden"
	CodeNotFound           ErrorCode = "not_found"
	CodeResumeNotFound     ErrorCode = "resume_not_found"
	CodeJobNotFound        ErrorCode = "job_not_found"
	CodeSessionNotFound    ErrorCode = "session_not_found"
	CodeLLMProviderError   ErrorCode = "llm_provider_error"
	CodeMalformedReply     ErrorCode = "malformed_llm_reply"
	CodeEmbeddingError     ErrorCode = "embedding_provider_error"
	CodeIndexUnavailable   ErrorCode = "index_unavailable"
	CodeStorageUnavailable ErrorCode = "storage_unavailable"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// errorHandlers are tried in order; specific not-found sentinels precede ErrNotFound.
var errorHandlers = []errorHandler{
	inputErrorHandler,
	sentinelHandler(domain.ErrResumeNotFound, http.StatusNotFound, CodeResumeNotFound),
	sentinelHandler(domain.ErrJobNotFound, http.StatusNotFound, CodeJobNotFound),
	sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrForbidden, http.StatusForbidden, CodeForbidden),
	sentinelHandler(domain.ErrInvalidRole, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrEmptyDocument, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrMissingAttachment, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrLLMProviderError, http.StatusBadGateway, CodeLLMProviderError),
	sentinelHandler(domain.ErrMalformedReply, http.StatusBadGateway, CodeMalformedReply),
	sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingError),
	sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, CodeIndexUnavailable),
	sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable, CodeStorageUnavailable),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	sentinels := []error{
		domain.ErrResumeNotFound,
		domain.ErrJobNotFound,
		domain.ErrSessionNotFound,
		domain.ErrNotFound,
		domain.ErrForbidden,
		domain.ErrInvalidRole,
		domain.ErrInvalidInput,
		domain.ErrEmptyDocument,
		domain.ErrMissingAttachment,
		domain.ErrLLMProviderError,
		domain.ErrMalformedReply,
		domain.ErrEmbeddingProviderError,
		domain.ErrIndexUnavailable,
		domain.ErrStorageUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func inputErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	var inputErr *domain.InputError
	if !errors.As(err, &inputErr) {
		return false
	}
	status := http.StatusBadRequest
	if errors.Is(err, domain.ErrForbidden) {
		status = http.StatusForbidden
	}
	writeError(w, status, CodeValidationFailed, msg)
	return true
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

// Package errors provides standardized error handling for workers and the HTTP API.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"
	ErrCodeModelInferenceFailed  ErrorCode = "MODEL_INFERENCE_FAILED"
	ErrCodeModelArtifactInvalid  ErrorCode = "MODEL_ARTIFACT_INVALID"
	ErrCodeFeatureSchemaMismatch ErrorCode = "FEATURE_SCHEMA_MISMATCH"

	ErrCodeCacheUnavailable     ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeSearchIndexFailed    ErrorCode = "SEARCH_INDEX_FAILED"

	ErrCodeRateLimited   ErrorCode = "RATE_LIMITED"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error metadata and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newStandard(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError reports a missing, malformed or out-of-range request field.
func NewInvalidInputError(details string) *StandardError {
	return newStandard(ErrCodeInvalidInput, "Invalid input", details, false)
}

// NewInvalidFieldError is NewInvalidInputError with the offending field recorded.
func NewInvalidFieldError(field, reason string) *StandardError {
	return NewInvalidInputError(fmt.Sprintf("%s: %s", field, reason)).
		WithMetadata("field", field)
}

// NewModelInferenceFailedError wraps a classifier failure. Inference is
// deterministic for a given vector so it is never retried.
func NewModelInferenceFailedError(err error) *StandardError {
	return newStandard(ErrCodeModelInferenceFailed, "Model inference failed", err.Error(), false)
}

func NewModelArtifactInvalidError(path, details string) *StandardError {
	return newStandard(ErrCodeModelArtifactInvalid, "Model artifact is invalid", details, false).
		WithMetadata("path", path)
}

func NewFeatureSchemaMismatchError(details string) *StandardError {
	return newStandard(ErrCodeFeatureSchemaMismatch, "Model artifact does not match the feature schema", details, false)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newStandard(ErrCodeCacheUnavailable, "Cache unavailable", err.Error(), true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newStandard(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewSearchIndexFailedError(index string, err error) *StandardError {
	return newStandard(ErrCodeSearchIndexFailed, "Elasticsearch indexing failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewRateLimitedError() *StandardError {
	return newStandard(ErrCodeRateLimited, "Too many requests", "request rate limit exceeded", true)
}

func NewInternalError(err error) *StandardError {
	return newStandard(ErrCodeInternalError, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:          "INVALID_INPUT",
	ErrCodeModelInferenceFailed:  "MODEL_INFERENCE_FAILED",
	ErrCodeModelArtifactInvalid:  "MODEL_ARTIFACT_INVALID",
	ErrCodeFeatureSchemaMismatch: "FEATURE_SCHEMA_MISMATCH",
	ErrCodeCacheUnavailable:      "CACHE_UNAVAILABLE",
	ErrCodeDatabaseInsertFailed:  "DATABASE_INSERT_FAILED",
	ErrCodeSearchIndexFailed:     "SEARCH_INDEX_FAILED",
	ErrCodeRateLimited:           "RATE_LIMITED",
	ErrCodeInternalError:         "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseInsertFailed,
		ErrCodeSearchIndexFailed:
		return 3
	case ErrCodeCacheUnavailable,
		ErrCodeRateLimited:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard unwraps err into a *StandardError when one is in the chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "MODEL") || strings.Contains(codeStr, "SCHEMA"):
		return "MODEL"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "RATE"):
		return "TRAFFIC"
	default:
		return "OTHER"
	}
}

// Package errors provides standardized error handling for the reply pipeline and its workers.
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
	// Surfaced to the caller.
	ErrCodeCredentialInvalid ErrorCode = "CREDENTIAL_INVALID"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"

	// Remote call failures, retried by the shared wrapper.
	ErrCodeTransportFailed ErrorCode = "TRANSPORT_FAILED"
	ErrCodeRateLimited     ErrorCode = "RATE_LIMITED"

	// Recovered locally, never surfaced by the pipeline.
	ErrCodeMalformedResponse      ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeInsufficientCandidates ErrorCode = "INSUFFICIENT_CANDIDATES"

	ErrCodeSalePlanFailed ErrorCode = "SALE_PLAN_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a StandardError with the same code, so callers
// can match against the sentinel values below with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrCredentialInvalid      = &StandardError{Code: ErrCodeCredentialInvalid}
	ErrInvalidInput           = &StandardError{Code: ErrCodeInvalidInput}
	ErrTransportFailed        = &StandardError{Code: ErrCodeTransportFailed}
	ErrRateLimited            = &StandardError{Code: ErrCodeRateLimited}
	ErrMalformedResponse      = &StandardError{Code: ErrCodeMalformedResponse}
	ErrInsufficientCandidates = &StandardError{Code: ErrCodeInsufficientCandidates}
	ErrSalePlanFailed         = &StandardError{Code: ErrCodeSalePlanFailed}
)

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

// NewCredentialError creates a non-retryable credential error.
func NewCredentialError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialInvalid,
		Message:   "API credential is missing or invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable transport error (network failure or non-2xx status).
func NewTransportError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailed,
		Message:   fmt.Sprintf("Remote call '%s' failed", operation),
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRateLimitError creates a retryable error for HTTP 429 responses.
func NewRateLimitError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   fmt.Sprintf("Remote call '%s' was rate limited", operation),
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRetriesExhaustedError reports a terminal transport failure after the retry ceiling.
func NewRetriesExhaustedError(operation string, attempts int, last error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailed,
		Message:   fmt.Sprintf("Remote call '%s' failed after %d attempts", operation, attempts),
		Details:   errDetails(last),
		Retryable: false,
		Metadata:  map[string]interface{}{"attempts": attempts},
		Timestamp: time.Now().UTC(),
		cause:     last,
	}
}

// NewMalformedResponseError reports a payload that is not the expected JSON array.
func NewMalformedResponseError(details string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "Remote response could not be parsed",
		Details:   joinDetails(details, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInsufficientCandidatesError reports fewer usable candidates than required.
func NewInsufficientCandidatesError(stage string, got, want int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInsufficientCandidates,
		Message:   "Not enough usable candidates",
		Details:   fmt.Sprintf("stage: %s, got: %d, want: %d", stage, got, want),
		Retryable: false,
		Metadata:  map[string]interface{}{"got": got, "want": want},
		Timestamp: time.Now().UTC(),
	}
}

// NewSalePlanFailedError wraps failures while building a sale plan.
func NewSalePlanFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSalePlanFailed,
		Message:   "Sale plan could not be created",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func joinDetails(details string, err error) string {
	if err == nil {
		return details
	}
	if details == "" {
		return err.Error()
	}
	return details + ": " + err.Error()
}

// ==========================
// 4. Helpers
// ==========================

// IsRetryable reports whether err (or anything it wraps) is a retryable StandardError.
// Errors outside the taxonomy are treated as transport failures and retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return true
}

// CodeOf returns the code of the first StandardError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// BPMNErrorMapping maps internal codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeCredentialInvalid:      "CREDENTIAL_INVALID",
	ErrCodeInvalidInput:           "INVALID_INPUT",
	ErrCodeTransportFailed:        "TRANSPORT_FAILED",
	ErrCodeRateLimited:            "RATE_LIMITED",
	ErrCodeMalformedResponse:      "MALFORMED_RESPONSE",
	ErrCodeInsufficientCandidates: "INSUFFICIENT_CANDIDATES",
	ErrCodeSalePlanFailed:         "SALE_PLAN_FAILED",
}

// GetRetryCount returns how many times a workflow engine should retry a job failing with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeTransportFailed, ErrCodeSalePlanFailed:
		return 3
	case ErrCodeRateLimited:
		return 2
	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError maps a StandardError to the engine-facing representation.
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

// Normalize returns err as a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// GetErrorCategory groups codes for logging and metrics.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CREDENTIAL"):
		return "AUTH"
	case strings.Contains(codeStr, "TRANSPORT") || strings.Contains(codeStr, "RATE"):
		return "REMOTE"
	case strings.Contains(codeStr, "MALFORMED") || strings.Contains(codeStr, "CANDIDATES"):
		return "GENERATION"
	case strings.Contains(codeStr, "SALE"):
		return "SALE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

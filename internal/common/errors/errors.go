// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Intake / gating errors
	ErrCodeIntakeNotFound     ErrorCode = "INTAKE_NOT_FOUND"
	ErrCodeIntakeIncomplete   ErrorCode = "INTAKE_INCOMPLETE"
	ErrCodeIntakeParseFailed  ErrorCode = "INTAKE_PARSE_FAILED"

	// Reference-data errors
	ErrCodeCatalogInvalid         ErrorCode = "CATALOG_INVALID"
	ErrCodeCatalogLoadFailed      ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeQuestionBankLoadFailed ErrorCode = "QUESTION_BANK_LOAD_FAILED"
	ErrCodeSnapshotUnavailable    ErrorCode = "SNAPSHOT_UNAVAILABLE"

	// Computation errors
	ErrCodeScopeComputeFailed   ErrorCode = "SCOPE_COMPUTE_FAILED"
	ErrCodeQuestionFilterFailed ErrorCode = "QUESTION_FILTER_FAILED"

	// Infrastructure errors
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
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
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
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

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ConvertToBPMNError maps a StandardError onto its BPMN form.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(err.Code),
		Message:   err.Message,
		Details:   err.Details,
		Retryable: err.Retryable,
		Retries:   GetRetryCount(err.Code),
		ErrorVariables: map[string]interface{}{
			"failedAt": err.Timestamp.Format(time.RFC3339),
		},
	}
}

// GetRetryCount returns how many retries a failure with this code earns.
// Pure-computation and validation failures never retry; infrastructure
// failures retry a few times.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed, ErrCodeQueryTimeout, ErrCodeCacheUnavailable, ErrCodeSnapshotUnavailable:
		return 3
	case ErrCodeQueryExecutionFailed:
		return 1
	}
	return 0
}

// ==========================
// 3. Error Constructors
// ==========================

// NewIntakeIncompleteError reports a failed pre-submission gate. The
// missing fields travel as structured metadata, never as a generic error.
func NewIntakeIncompleteError(missingFields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntakeIncomplete,
		Message:   "intake record is missing required fields",
		Retryable: false,
		Metadata:  map[string]interface{}{"missingFields": missingFields},
		Timestamp: time.Now().UTC(),
	}
}

// NewIntakeParseError reports an intake payload that could not be decoded.
func NewIntakeParseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntakeParseFailed,
		Message:   "intake record could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogInvalidError reports a malformed requirement catalog entry.
// This propagates to the caller as a data-validation failure rather than
// being silently swallowed.
func NewCatalogInvalidError(code, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogInvalid,
		Message:   fmt.Sprintf("requirement catalog entry %s is malformed", code),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadError reports a failure loading the requirement catalog.
func NewCatalogLoadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "failed to load requirement catalog",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestionBankLoadError reports a failure loading the question bank.
func NewQuestionBankLoadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestionBankLoadFailed,
		Message:   "failed to load question bank",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotUnavailableError reports that no reference-data snapshot has
// been loaded yet.
func NewSnapshotUnavailableError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotUnavailable,
		Message:   "reference-data snapshot is not loaded",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionError reports a database connectivity failure.
func NewDatabaseConnectionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "database connection failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionError reports a failed database query.
func NewQueryExecutionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "query execution failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

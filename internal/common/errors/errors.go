// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
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
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeParseError           ErrorCode = "PARSE_ERROR"

	ErrCodeSnapshotNotFound     ErrorCode = "SNAPSHOT_NOT_FOUND"
	ErrCodeSnapshotInvalid      ErrorCode = "SNAPSHOT_INVALID"
	ErrCodeSnapshotSourceFailed ErrorCode = "SNAPSHOT_SOURCE_FAILED"

	ErrCodeEstimationFailed  ErrorCode = "ESTIMATION_FAILED"
	ErrCodeAggregationFailed ErrorCode = "AGGREGATION_FAILED"

	ErrCodeBrokerUnavailable ErrorCode = "BROKER_UNAVAILABLE"
	ErrCodeBrokerRejected    ErrorCode = "BROKER_REJECTED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches any StandardError carrying the same code, so callers can write
// errors.Is(err, errors.ErrInvalidConfiguration).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidConfiguration = &StandardError{Code: ErrCodeInvalidConfiguration}
	ErrInvalidInput         = &StandardError{Code: ErrCodeInvalidInput}
	ErrSnapshotNotFound     = &StandardError{Code: ErrCodeSnapshotNotFound}
	ErrSnapshotInvalid      = &StandardError{Code: ErrCodeSnapshotInvalid}
	ErrSnapshotSourceFailed = &StandardError{Code: ErrCodeSnapshotSourceFailed}
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

// NewInvalidConfigurationError reports a malformed lookup table or a request
// that needs at least one element but got an empty collection.
func NewInvalidConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidConfiguration,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Job input failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotNotFoundError creates a non-retryable error for an unknown region.
func NewSnapshotNotFoundError(region string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotNotFound,
		Message:   "Snapshot not found",
		Details:   fmt.Sprintf("region: %s", region),
		Retryable: false,
		Metadata:  map[string]interface{}{"region": region},
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotInvalidError creates a non-retryable error for a malformed fixture document.
func NewSnapshotInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotInvalid,
		Message:   "Snapshot document is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotSourceFailedError creates a retryable error for a failing backing store.
func NewSnapshotSourceFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotSourceFailed,
		Message:   fmt.Sprintf("Snapshot source '%s' failed", source),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

func NewEstimationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEstimationFailed,
		Message:   "Salary estimation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAggregationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAggregationFailed,
		Message:   "Analytics aggregation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBrokerUnavailableError reports a transient gateway failure (connection,
// timeout, unavailable).
func NewBrokerUnavailableError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBrokerUnavailable,
		Message:   fmt.Sprintf("Zeebe operation '%s' failed", operation),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

func NewBrokerRejectedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBrokerRejected,
		Message:   fmt.Sprintf("Zeebe rejected operation '%s'", operation),
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidConfiguration: "INVALID_CONFIGURATION",
	ErrCodeInvalidInput:         "INVALID_INPUT",
	ErrCodeParseError:           "PARSE_ERROR",
	ErrCodeSnapshotNotFound:     "SNAPSHOT_NOT_FOUND",
	ErrCodeSnapshotInvalid:      "SNAPSHOT_INVALID",
	ErrCodeSnapshotSourceFailed: "SNAPSHOT_SOURCE_FAILED",
	ErrCodeEstimationFailed:     "ESTIMATION_FAILED",
	ErrCodeAggregationFailed:    "AGGREGATION_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSnapshotSourceFailed, ErrCodeBrokerUnavailable:
		return 3
	default:
		return 0 // usage and data errors: no retry
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

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SNAPSHOT"):
		return "SNAPSHOT"
	case strings.Contains(codeStr, "BROKER"):
		return "BROKER"
	case strings.Contains(codeStr, "CONFIGURATION"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ESTIMATION") || strings.Contains(codeStr, "AGGREGATION"):
		return "COMPUTATION"
	default:
		return "OTHER"
	}
}

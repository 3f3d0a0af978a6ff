// Package errors provides standardized error handling for the prep pipeline.
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
	ErrCodeValidationBlocked ErrorCode = "VALIDATION_BLOCKED"

	ErrCodeAllocationConstraint ErrorCode = "ALLOCATION_CONSTRAINT"
	ErrCodeAllocationDegenerate ErrorCode = "ALLOCATION_DEGENERATE"

	ErrCodeCapabilityTimeout    ErrorCode = "CAPABILITY_TIMEOUT"
	ErrCodeCapabilityFailed     ErrorCode = "CAPABILITY_FAILED"
	ErrCodeCapabilityBadProfile ErrorCode = "CAPABILITY_BAD_PROFILE"
	ErrCodeCapabilityExhausted  ErrorCode = "CAPABILITY_EXHAUSTED"

	ErrCodeRegistryUnknownTarget ErrorCode = "REGISTRY_UNKNOWN_TARGET"
	ErrCodeRegistryBadWeights    ErrorCode = "REGISTRY_BAD_WEIGHTS"

	ErrCodeStateInvalid ErrorCode = "STATE_INVALID"

	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
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
// 2. Typed Domain Errors
// ==========================

// ConstraintError reports an allocation request whose total budget cannot
// cover the per-entry floor. It is surfaced to the Planning caller as-is,
// never silently clamped.
type ConstraintError struct {
	Total       int
	Minimum     int
	ActiveCount int
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("allocation constraint: total %d cannot cover minimum %d across %d active entries",
		e.Total, e.Minimum, e.ActiveCount)
}

// DegenerateInputError reports an allocation request with no usable weight
// mass: nothing to apportion against.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate allocation input: %s", e.Reason)
}

// StateError reports a programming or integration mistake against the state
// machine, such as resuming a gate with input for a different stage. These
// fail loudly and are never swallowed.
type StateError struct {
	State   string
	Attempt string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid state operation: %s while in state %s", e.Attempt, e.State)
}

// ==========================
// 3. Error Constructors
// ==========================

// NewValidationBlockedError creates a non-retryable guardrail block error.
func NewValidationBlockedError(stage string, count int) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationBlocked,
		Message:   "Guardrail evaluation blocked the stage transition",
		Details:   fmt.Sprintf("stage: %s, blockingViolations: %d", stage, count),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCapabilityTimeoutError creates a capability tier timeout error. It is
// marked retryable because the resolver recovers by demoting one tier.
func NewCapabilityTimeoutError(tier string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCapabilityTimeout,
		Message:   "Capability tier call timed out",
		Details:   fmt.Sprintf("tier: %s", tier),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCapabilityFailedError creates a capability tier failure error.
func NewCapabilityFailedError(tier string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCapabilityFailed,
		Message:   "Capability tier call failed",
		Details:   fmt.Sprintf("tier: %s, error: %s", tier, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCapabilityBadProfileError creates an error for a tier whose output failed
// schema validation.
func NewCapabilityBadProfileError(tier string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCapabilityBadProfile,
		Message:   "Capability tier produced an invalid profile",
		Details:   fmt.Sprintf("tier: %s, %s", tier, details),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCapabilityExhaustedError creates a non-retryable error for a resolver
// with no tier left to demote to. The local tier never fails, so seeing this
// error indicates a resolver construction bug.
func NewCapabilityExhaustedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeCapabilityExhausted,
		Message:   "No capability tier available",
		Details:   "all tiers failed or were demoted past the terminal local tier",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistryUnknownTargetError creates a non-retryable unknown target error.
func NewRegistryUnknownTargetError(targetCode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryUnknownTarget,
		Message:   "Target code not present in category registry",
		Details:   fmt.Sprintf("targetCode: %s", targetCode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistryBadWeightsError creates a non-retryable malformed registry error.
func NewRegistryBadWeightsError(targetCode string, sum float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryBadWeights,
		Message:   "Category weights do not sum to 1.0",
		Details:   fmt.Sprintf("targetCode: %s, sum: %.4f", targetCode, sum),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError creates a retryable persistence error.
func NewStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Run store unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

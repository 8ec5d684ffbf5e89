package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error code.
type ErrorCode string

const (
	ErrorCodeUnknown           ErrorCode = "0"
	ErrorCodeConfiguration     ErrorCode = "configuration"
	ErrorCodeNetwork           ErrorCode = "network"
	ErrorCodeProvider          ErrorCode = "provider"
	ErrorCodeValidation        ErrorCode = "validation"
	ErrorCodeGenerationBackend ErrorCode = "generation-backend"
)

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface for ErrorResponse.
func (e *ErrorResponse) Error() string {
	errorJSON, _ := json.Marshal(e)
	return string(errorJSON)
}

// Coded is implemented by every typed error of this package.
type Coded interface {
	error
	Code() ErrorCode
}

// CreateErrorResponseFromError creates an ErrorResponse from a generic error.
// The code of the outermost typed error in the chain wins.
func CreateErrorResponseFromError(err error) error {
	if err == nil {
		return nil
	}
	var errResp *ErrorResponse
	if stderrors.As(err, &errResp) {
		return errResp
	}
	code := ErrorCodeUnknown
	var coded Coded
	if stderrors.As(err, &coded) {
		code = coded.Code()
	}
	return &ErrorResponse{
		Code:    code,
		Details: err.Error(),
	}
}

// ConfigurationError is returned when a required setting is missing or invalid.
// It is fatal and never retried.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Setting, e.Reason)
}

func (e *ConfigurationError) Code() ErrorCode { return ErrorCodeConfiguration }

// NewMissingSettingError reports a required setting that has no value.
func NewMissingSettingError(setting string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Reason: "is not set"}
}

// NetworkError wraps a transport failure reaching a provider.
type NetworkError struct {
	Provider string
	Chain    string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Chain == "" {
		return fmt.Sprintf("network error calling %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("network error calling %s for chain %s: %v", e.Provider, e.Chain, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Code() ErrorCode { return ErrorCodeNetwork }

// ProviderError is a non-success HTTP reply from a provider.
type ProviderError struct {
	Provider   string
	Chain      string
	StatusCode int
	Detail     string
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	if e.Chain != "" {
		msg = fmt.Sprintf("%s for chain %s", msg, e.Chain)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *ProviderError) Code() ErrorCode { return ErrorCodeProvider }

// ValidationError is raised on bad input before any backend call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Code() ErrorCode { return ErrorCodeValidation }

// GenerationFailureReason tells the user which remedy applies.
type GenerationFailureReason string

const (
	GenerationUnauthorized GenerationFailureReason = "unauthorized"
	GenerationRateLimited  GenerationFailureReason = "rate-limited"
	GenerationUnreachable  GenerationFailureReason = "unreachable"
	GenerationFailed       GenerationFailureReason = "failed"
)

// GenerationBackendError is a failure of the story generation backend.
type GenerationBackendError struct {
	Backend    string
	Reason     GenerationFailureReason
	StatusCode int
	Hint       string
	Err        error
}

func (e *GenerationBackendError) Error() string {
	msg := fmt.Sprintf("%s generation %s", e.Backend, e.Reason)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Hint != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Hint)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GenerationBackendError) Unwrap() error { return e.Err }

func (e *GenerationBackendError) Code() ErrorCode { return ErrorCodeGenerationBackend }

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return stderrors.As(err, &target)
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

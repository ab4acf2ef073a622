package errors

import (
	"fmt"
	"time"
)

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeRateLimit  = "RATE_LIMIT_ERROR"
	CodeInference  = "INFERENCE_ERROR"
	CodeParse      = "PARSE_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
	CodeConfig     = "CONFIG_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// ValidationKind tells which input rule was violated.
type ValidationKind string

const (
	ValidationMissing  ValidationKind = "missing"
	ValidationTooShort ValidationKind = "tooShort"
	ValidationTooLong  ValidationKind = "tooLong"
	ValidationUnsafe   ValidationKind = "unsafe"
)

type ValidationError struct {
	*AppError
	Kind  ValidationKind
	Field string
	Value interface{}
}

func NewValidationError(message string, kind ValidationKind, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"kind":  string(kind),
			},
		},
		Kind:  kind,
		Field: field,
		Value: value,
	}
}

type RateLimitError struct {
	*AppError
	Key        string
	RetryAfter time.Duration
}

func NewRateLimitError(key string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{
		AppError: &AppError{
			Message:    "Rate limit exceeded. Please try again later.",
			Code:       CodeRateLimit,
			StatusCode: 429,
			Context: map[string]any{
				"key":         key,
				"retry_after": retryAfter.String(),
			},
		},
		Key:        key,
		RetryAfter: retryAfter,
	}
}

// InferenceKind classifies why a call to the inference service did not produce usable data.
type InferenceKind string

const (
	InferenceNone      InferenceKind = ""
	InferenceRateLimit InferenceKind = "rate_limit"
	InferenceAuth      InferenceKind = "auth"
	InferenceNetwork   InferenceKind = "network"
	InferenceTimeout   InferenceKind = "timeout"
	InferenceServer    InferenceKind = "server"
	InferenceEmpty     InferenceKind = "empty"
	InferenceParse     InferenceKind = "parse"
	InferenceSchema    InferenceKind = "schema"
	InferenceCanceled  InferenceKind = "canceled"
	InferenceUnknown   InferenceKind = "unknown"
)

type InferenceError struct {
	*AppError
	Kind     InferenceKind
	Attempts int
}

func NewInferenceError(message string, kind InferenceKind, attempts int, cause error) *InferenceError {
	return &InferenceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeInference,
			StatusCode: 502,
			Context: map[string]any{
				"kind":     string(kind),
				"attempts": attempts,
			},
			Cause: cause,
		},
		Kind:     kind,
		Attempts: attempts,
	}
}

type ParseError struct {
	*AppError
	Preview string
}

func NewParseError(message, preview string, cause error) *ParseError {
	return &ParseError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeParse,
			StatusCode: 502,
			Context: map[string]any{
				"preview": preview,
			},
			Cause: cause,
		},
		Preview: preview,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// ConfigError reports a missing upstream setting, such as an absent inference credential.
type ConfigError struct {
	*AppError
	Setting string
}

func NewConfigError(message, setting string) *ConfigError {
	return &ConfigError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeConfig,
			StatusCode: 503,
			Context: map[string]any{
				"setting": setting,
			},
		},
		Setting: setting,
	}
}

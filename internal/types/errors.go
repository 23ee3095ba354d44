package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines different types of errors
type ErrorType string

const (
	// ErrGeneration represents generation backend failures
	ErrGeneration ErrorType = "GenerationError"

	// ErrValidation represents post-processing validation failures
	ErrValidation ErrorType = "ValidationError"

	// ErrCache represents cache read/write failures, recovered locally
	ErrCache ErrorType = "CacheFailure"

	// ErrTemplate represents template lookup failures, recovered locally
	ErrTemplate ErrorType = "TemplateLookupFailure"

	// ErrServerError represents internal server errors
	ErrServerError ErrorType = "ServerError"
)

// GenerationError is returned when the generation backend fails or produces
// unusable output. It crosses the pipeline boundary and is never retried
// internally.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError wraps a backend failure
func NewGenerationError(message string, cause error) *GenerationError {
	return &GenerationError{Message: message, Cause: cause}
}

// ValidationError is returned when post-processed content falls below the
// minimum usable length.
type ValidationError struct {
	Message string
	Length  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s (length %d)", e.Message, e.Length)
}

// NewValidationError reports content that is too short to return
func NewValidationError(message string, length int) *ValidationError {
	return &ValidationError{Message: message, Length: length}
}

// IsGenerationError reports whether err wraps a GenerationError
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

const (
	ErrCodeGenerationFailed = "tool-reply.generation_failed"
	ErrMsgGenerationFailed  = "Unable to generate a formatted response. Please try again later."

	ErrCodeValidationFailed = "tool-reply.validation_failed"
	ErrMsgValidationFailed  = "The generated response was too short to be usable."

	ErrCodeInternalError = "tool-reply.internal_error"
	ErrMsgInternalError  = "Internal Server Error. Please try again later."
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode,omitempty"`
	Type       string `json:"type,omitempty"`
}

func NewGenerationFailedError() *APIError {
	return &APIError{
		Code:       ErrCodeGenerationFailed,
		Message:    ErrMsgGenerationFailed,
		Success:    false,
		StatusCode: http.StatusBadGateway,
		Type:       string(ErrGeneration),
	}
}

func NewValidationFailedError() *APIError {
	return &APIError{
		Code:       ErrCodeValidationFailed,
		Message:    ErrMsgValidationFailed,
		Success:    false,
		StatusCode: http.StatusUnprocessableEntity,
		Type:       string(ErrValidation),
	}
}

func NewInternalError() *APIError {
	return &APIError{
		Code:       ErrCodeInternalError,
		Message:    ErrMsgInternalError,
		Success:    false,
		StatusCode: http.StatusInternalServerError,
		Type:       string(ErrServerError),
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf(`{"code":"%s","message":"%s","success":%v}`, e.Code, e.Message, e.Success)
}

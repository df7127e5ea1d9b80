package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors.
//
// ErrModelCall marks a transport/timeout/quota failure at the model-call
// boundary; it downgrades the whole pipeline run. ErrParse marks a model
// response that could not be decoded into its expected shape; callers
// substitute a degraded result and continue. ErrValidation marks a value that
// failed a domain check and was dropped. ErrInvalidPrediction marks a
// prediction that failed the evaluation pre-filter. ErrInvalidInput marks bad
// caller-supplied configuration or arguments.
var (
	ErrModelCall         = errors.New("model call failed")
	ErrParse             = errors.New("response parse failed")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidPrediction = errors.New("invalid prediction")
	ErrInvalidInput      = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

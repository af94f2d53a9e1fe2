package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrSchemeNotFound   = errors.New("scheme not found")
	ErrSettingNotFound  = errors.New("deposit setting not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidCadence   = errors.New("unrecognized installment type")
	ErrValidation       = errors.New("validation failed")
	ErrLoginFailed      = errors.New("wrong mobile number or password")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidCadence      = "INVALID_CADENCE"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeLoginFailed         = "LOGIN_FAILED"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
	ErrCodeNotificationFailure = "NOTIFICATION_FAILURE"
)

// Wrap common errors with business context

func WrapMemberNotFound(memberID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Member with ID %s not found", memberID),
		ErrMemberNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapSchemeNotFound(schemeID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Scheme with ID %s not found", schemeID),
		ErrSchemeNotFound,
	)
}

func WrapSettingNotFound(memberID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Deposit setting for member %s not found", memberID),
		ErrSettingNotFound,
	)
}

func WrapCategoryNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Category with ID %s not found", id),
		ErrCategoryNotFound,
	)
}

func WrapInvalidCadence(installmentType string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCadence,
		fmt.Sprintf("Installment type %q is not recognized", installmentType),
		ErrInvalidCadence,
	)
}

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		message,
		ErrValidation,
	)
}

func WrapLoginFailed() *BusinessError {
	return NewBusinessError(
		ErrCodeLoginFailed,
		"Wrong mobile number or password",
		ErrLoginFailed,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}

func WrapNotificationFailure(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeNotificationFailure,
		"SMS dispatch failed",
		err,
	)
}

// IsNotFound reports whether err is any of the not-found domain errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrLoanNotFound) ||
		errors.Is(err, ErrSchemeNotFound) ||
		errors.Is(err, ErrSettingNotFound) ||
		errors.Is(err, ErrCategoryNotFound)
}

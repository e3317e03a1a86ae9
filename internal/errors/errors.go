package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the engine
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrVersionConflict  = new(ErrCodeVersionConflict, "version conflict")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// Pricing taxonomy. ZoneNotFound is recoverable (the pipeline prices the
	// concern as zero and flags it); the shipping and exchange-rate errors are
	// fatal for the run. Coupon errors reject the coupon, pricing continues.
	ErrZoneNotFound        = new(ErrCodeZoneNotFound, "no matching zone")
	ErrNoShippingRate      = new(ErrCodeNoShippingRate, "no shipping rate available")
	ErrMissingExchangeRate = new(ErrCodeMissingExchangeRate, "missing exchange rate")
	ErrDiscountCodeInvalid = new(ErrCodeDiscountCodeInvalid, "discount code invalid")
	ErrDiscountExpired     = new(ErrCodeDiscountExpired, "discount expired")
	ErrUsageLimitExceeded  = new(ErrCodeUsageLimitExceeded, "discount usage limit exceeded")
	ErrCurrencyMismatch    = new(ErrCodeCurrencyMismatch, "currency mismatch")
)

const (
	ErrCodeSystemError         = "system_error"
	ErrCodeNotFound            = "not_found"
	ErrCodeAlreadyExists       = "already_exists"
	ErrCodeVersionConflict     = "version_conflict"
	ErrCodeValidation          = "validation_error"
	ErrCodeInvalidOperation    = "invalid_operation"
	ErrCodeZoneNotFound        = "zone_not_found"
	ErrCodeNoShippingRate      = "no_shipping_rate_available"
	ErrCodeMissingExchangeRate = "missing_exchange_rate"
	ErrCodeDiscountCodeInvalid = "discount_code_invalid"
	ErrCodeDiscountExpired     = "discount_expired"
	ErrCodeUsageLimitExceeded  = "usage_limit_exceeded"
	ErrCodeCurrencyMismatch    = "currency_mismatch"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsVersionConflict checks if an error is a version conflict error
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsZoneNotFound checks if an error is a zone not found error
func IsZoneNotFound(err error) bool {
	return errors.Is(err, ErrZoneNotFound)
}

// IsNoShippingRate checks if an error is a no shipping rate error
func IsNoShippingRate(err error) bool {
	return errors.Is(err, ErrNoShippingRate)
}

// IsMissingExchangeRate checks if an error is a missing exchange rate error
func IsMissingExchangeRate(err error) bool {
	return errors.Is(err, ErrMissingExchangeRate)
}

// IsCouponRejection reports whether an error is one of the non-fatal coupon
// rejections: the coupon is dropped, pricing continues, and the reason is
// surfaced to the shopper.
func IsCouponRejection(err error) bool {
	return errors.Is(err, ErrDiscountCodeInvalid) ||
		errors.Is(err, ErrDiscountExpired) ||
		errors.Is(err, ErrUsageLimitExceeded)
}


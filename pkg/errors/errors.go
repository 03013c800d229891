package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the checkout pipeline. Validation and configuration problems
// block a transition locally; payment and booking codes are surfaced to the
// customer because money may have moved; cart-clear failures stay internal.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeConfiguration       = "CONFIGURATION_ERROR"
	CodeVendorMismatch      = "VENDOR_MISMATCH"
	CodePrecondition        = "PRECONDITION_FAILED"
	CodePaymentInit         = "PAYMENT_INIT_ERROR"
	CodePaymentVerification = "PAYMENT_VERIFICATION_ERROR"
	CodePaymentCancelled    = "PAYMENT_CANCELLED"
	CodeBookingCreation     = "BOOKING_CREATION_ERROR"
	CodeCartClear           = "CART_CLEAR_ERROR"
	CodeMissingContext      = "MISSING_CONTEXT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInternal            = "INTERNAL_ERROR"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// IsAppError returns the *AppError wrapped anywhere in err's chain, if any.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the taxonomy code of err, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

// Configuration signals that required platform configuration is unavailable.
// The caller must fail closed rather than substitute a default.
func Configuration(message string, err error) *AppError {
	return &AppError{
		Code:       CodeConfiguration,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func VendorMismatch(haveVendor, wantVendor string) *AppError {
	return &AppError{
		Code:       CodeVendorMismatch,
		Message:    "Cart already holds services from another vendor. Clear the cart to book with a different vendor.",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"cart_vendor_id":  haveVendor,
			"added_vendor_id": wantVendor,
		},
	}
}

func Precondition(message string) *AppError {
	return &AppError{
		Code:       CodePrecondition,
		Message:    message,
		HTTPStatus: http.StatusPreconditionFailed,
	}
}

func PaymentInit(err error) *AppError {
	return &AppError{
		Code:       CodePaymentInit,
		Message:    "Could not start the payment. You have not been charged. Please try again.",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func PaymentVerification(err error) *AppError {
	return &AppError{
		Code:       CodePaymentVerification,
		Message:    "Payment could not be verified. No booking was created.",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func PaymentCancelled() *AppError {
	return &AppError{
		Code:       CodePaymentCancelled,
		Message:    "Payment was cancelled. Your cart is unchanged.",
		HTTPStatus: http.StatusConflict,
	}
}

// BookingCreation covers the worst case: payment captured, booking failed.
// supportRef lets support trace the captured payment.
func BookingCreation(err error, supportRef string) *AppError {
	return &AppError{
		Code:       CodeBookingCreation,
		Message:    "Payment was received but the booking could not be confirmed. Contact support with the reference below.",
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"support_reference": supportRef},
		Err:        err,
	}
}

func CartClear(err error) *AppError {
	return &AppError{
		Code:       CodeCartClear,
		Message:    "cart clear failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MissingContext(message string) *AppError {
	return &AppError{
		Code:       CodeMissingContext,
		Message:    message,
		HTTPStatus: http.StatusSeeOther,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]any{"redirect": "/login"},
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource, "id": id},
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

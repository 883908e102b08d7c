package application

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is an orchestration-level failure with a stable code and the
// HTTP status the REST layer should surface it as.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidPaymentState  = "INVALID_PAYMENT_STATE"
	ErrCodeCurrencyNotSupported = "CURRENCY_NOT_SUPPORTED"
	ErrCodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountNotReady      = "ACCOUNT_NOT_READY"
	ErrCodeStoreUnavailable     = "STORE_UNAVAILABLE"
	ErrCodeProviderUnavailable  = "PROVIDER_UNAVAILABLE"
)

func NewInvalidPaymentStateError(status string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidPaymentState,
		Message:    "Invalid payment state.",
		HTTPStatus: http.StatusBadRequest,
		Err:        fmt.Errorf("store payment in state %q", status),
	}
}

func NewCurrencyNotSupportedError(currency string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeCurrencyNotSupported,
		Message:    "Only payments in NOK is accepted.",
		HTTPStatus: http.StatusForbidden,
		Err:        fmt.Errorf("store payment priced in %q", currency),
	}
}

func NewAccountNotFoundError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeAccountNotFound,
		Message:    "Unknown account.",
		HTTPStatus: http.StatusNotFound,
	}
}

func NewAccountNotReadyError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeAccountNotReady,
		Message:    "Account cannot serve payments right now.",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewStoreUnavailableError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeStoreUnavailable,
		Message:    "Could not fetch the payment from the store.",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewProviderUnavailableError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeProviderUnavailable,
		Message:    "Could not initiate a payment.",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

// Package businessflow contains the core business logic and use cases for purchase request tracking
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPasswordTooShort   = errors.New("password is too short")

	// Code table errors
	ErrUnknownLocation   = errors.New("unknown location")
	ErrUnknownDepartment = errors.New("unknown department")

	// Purchase request errors
	ErrPurchaseRequestNotFound = errors.New("purchase request not found")
	ErrDuplicateCode           = errors.New("purchase request code already exists")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrNegativeAmount          = errors.New("estimated amount must not be negative")
	ErrInvalidDate             = errors.New("date_requested must be RFC3339")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsUnknownLocation(err error) bool {
	return errors.Is(err, ErrUnknownLocation)
}

func IsUnknownDepartment(err error) bool {
	return errors.Is(err, ErrUnknownDepartment)
}

func IsUnknownCode(err error) bool {
	return IsUnknownLocation(err) || IsUnknownDepartment(err)
}

func IsPurchaseRequestNotFound(err error) bool {
	return errors.Is(err, ErrPurchaseRequestNotFound)
}

func IsDuplicateCode(err error) bool {
	return errors.Is(err, ErrDuplicateCode)
}

func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}

func IsNegativeAmount(err error) bool {
	return errors.Is(err, ErrNegativeAmount)
}

func IsInvalidDate(err error) bool {
	return errors.Is(err, ErrInvalidDate)
}

func IsPasswordTooShort(err error) bool {
	return errors.Is(err, ErrPasswordTooShort)
}

package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrValidation          = errors.New("validation failed")
	ErrIllegalState        = errors.New("illegal state")
	ErrBookNotFound        = errors.New("book not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrInvalidFineAmount   = errors.New("invalid fine amount")
	ErrPaymentExceedsFines = errors.New("payment exceeds outstanding fines")
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
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeIllegalState        = "ILLEGAL_STATE"
	ErrCodeBookNotFound        = "BOOK_NOT_FOUND"
	ErrCodeMemberNotFound      = "MEMBER_NOT_FOUND"
	ErrCodeInvalidFineAmount   = "INVALID_FINE_AMOUNT"
	ErrCodePaymentExceedsFines = "PAYMENT_EXCEEDS_FINES"
)

// WrapValidation reports malformed input to a constructor or mutator.
func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

// WrapIllegalState reports an operation invoked from a state that does not permit it.
func WrapIllegalState(operation string, state fmt.Stringer) *BusinessError {
	return NewBusinessError(
		ErrCodeIllegalState,
		fmt.Sprintf("cannot %s while in state %s", operation, state),
		ErrIllegalState,
	)
}

func WrapBookNotFound(bookID int) *BusinessError {
	return NewBusinessError(
		ErrCodeBookNotFound,
		fmt.Sprintf("Book with ID %d not found", bookID),
		ErrBookNotFound,
	)
}

func WrapMemberNotFound(memberID int) *BusinessError {
	return NewBusinessError(
		ErrCodeMemberNotFound,
		fmt.Sprintf("Member with ID %d not found", memberID),
		ErrMemberNotFound,
	)
}

func WrapInvalidFineAmount(amount decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidFineAmount,
		fmt.Sprintf("Invalid fine amount: %s", amount.StringFixed(2)),
		errors.Join(ErrInvalidFineAmount, ErrValidation),
	)
}

func WrapPaymentExceedsFines(amount, outstanding decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentExceedsFines,
		fmt.Sprintf("Payment %s exceeds outstanding fines %s", amount.StringFixed(2), outstanding.StringFixed(2)),
		errors.Join(ErrPaymentExceedsFines, ErrValidation),
	)
}

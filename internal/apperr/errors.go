package apperr

import (
	"errors"
	"fmt"
)

// CustomError carries an ErrorCode through the service layer to the HTTP layer.
type CustomError struct {
	ErrorCode ErrorCode
	Cause     error
}

func New(code ErrorCode) *CustomError {
	return &CustomError{ErrorCode: code}
}

func Wrap(code ErrorCode, cause error) *CustomError {
	return &CustomError{ErrorCode: code, Cause: cause}
}

func (e *CustomError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.ErrorCode.Message, e.ErrorCode.Code, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.ErrorCode.Message, e.ErrorCode.Code)
}

func (e *CustomError) Unwrap() error {
	return e.Cause
}

// Is matches any CustomError carrying the same code, so callers can write
// errors.Is(err, apperr.New(apperr.ChatRoomNotFound)).
func (e *CustomError) Is(target error) bool {
	var other *CustomError
	if !errors.As(target, &other) {
		return false
	}
	return other.ErrorCode.Code == e.ErrorCode.Code
}

// CodeOf returns the ErrorCode carried by err, or InternalError for anything unclassified.
func CodeOf(err error) ErrorCode {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.ErrorCode
	}
	return InternalError
}

// HasCode reports whether err carries code.
func HasCode(err error, code ErrorCode) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.ErrorCode.Code == code.Code
}

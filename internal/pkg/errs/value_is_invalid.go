package errs

import (
	"errors"
	"fmt"
)

// ErrValueIsInvalid is the sentinel wrapped by every ValueIsInvalidError.
var ErrValueIsInvalid = errors.New("value is invalid")

// ValueIsInvalidError reports a value that is present but violates a rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
	}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError explaining
// which rule was broken.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// Is matches the cause too, so rule sentinels such as a disallowed status
// edge stay detectable through errors.Is.
func (e *ValueIsInvalidError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

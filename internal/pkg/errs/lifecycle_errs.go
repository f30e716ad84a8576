package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthorized = errors.New("not authorized")
	ErrInvalidState  = errors.New("invalid state")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidStatus = errors.New("invalid status")
	ErrConflict      = errors.New("conflict")
)

// NotAuthorizedError reports that the acting user may not perform Action on the resource.
type NotAuthorizedError struct {
	Action  string
	ActorID any
}

func NewNotAuthorizedError(action string, actorID any) *NotAuthorizedError {
	return &NotAuthorizedError{
		Action:  action,
		ActorID: actorID,
	}
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("%s: %v may not %s", ErrNotAuthorized, e.ActorID, e.Action)
}

func (e *NotAuthorizedError) Unwrap() error {
	return ErrNotAuthorized
}

// InvalidStateError reports an operation that the aggregate's current state forbids.
type InvalidStateError struct {
	Operation string
	State     string
	Cause     error
}

func NewInvalidStateError(operation string, state string) *InvalidStateError {
	return &InvalidStateError{
		Operation: operation,
		State:     state,
	}
}

func NewInvalidStateErrorWithCause(operation string, state string, cause error) *InvalidStateError {
	return &InvalidStateError{
		Operation: operation,
		State:     state,
		Cause:     cause,
	}
}

func (e *InvalidStateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: cannot %s in state %s (cause: %v)", ErrInvalidState, e.Operation, e.State, e.Cause)
	}
	return fmt.Sprintf("%s: cannot %s in state %s", ErrInvalidState, e.Operation, e.State)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// InvalidRoleError reports a referenced user whose role does not fit the operation.
type InvalidRoleError struct {
	ParamName string
	Expected  string
	Actual    string
}

func NewInvalidRoleError(paramName string, expected string, actual string) *InvalidRoleError {
	return &InvalidRoleError{
		ParamName: paramName,
		Expected:  expected,
		Actual:    actual,
	}
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("%s: %s must have role %s, got %s", ErrInvalidRole, e.ParamName, e.Expected, e.Actual)
}

func (e *InvalidRoleError) Unwrap() error {
	return ErrInvalidRole
}

// InvalidStatusError reports a status value outside of the lifecycle enumeration.
type InvalidStatusError struct {
	Value string
}

func NewInvalidStatusError(value string) *InvalidStatusError {
	return &InvalidStatusError{Value: value}
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidStatus, sanitize(e.Value))
}

func (e *InvalidStatusError) Unwrap() error {
	return ErrInvalidStatus
}

// ConflictError reports a uniqueness violation on a persisted value.
type ConflictError struct {
	ParamName string
	Value     any
	Cause     error
}

func NewConflictError(paramName string, value any) *ConflictError {
	return &ConflictError{
		ParamName: paramName,
		Value:     value,
	}
}

func NewConflictErrorWithCause(paramName string, value any, cause error) *ConflictError {
	return &ConflictError{
		ParamName: paramName,
		Value:     value,
		Cause:     cause,
	}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %v already exists (cause: %v)", ErrConflict, e.ParamName, e.Value, e.Cause)
	}
	return fmt.Sprintf("%s: %s %v already exists", ErrConflict, e.ParamName, e.Value)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

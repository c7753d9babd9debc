package errors

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsNotFoundError(err error) bool {
	var notFoundError *NotFoundError
	return errors.As(err, &notFoundError)
}

// IntegrityError marks a dangling reference discovered during reconciliation.
// It is repaired by the audit pass and never surfaced to end users.
type IntegrityError struct {
	Msg string
}

func (e *IntegrityError) Error() string {
	return e.Msg
}

func NewIntegrityError(msg string) error {
	return &IntegrityError{Msg: msg}
}

func IsIntegrityError(err error) bool {
	var integrityError *IntegrityError
	return errors.As(err, &integrityError)
}

type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func IsStoreError(err error) bool {
	var storeError *StoreError
	return errors.As(err, &storeError)
}

var ErrInvalidCategory = NewValidationError("Invalid category")
var ErrInvalidExpenseType = NewValidationError("Type must be 'entrada' or 'saida'")

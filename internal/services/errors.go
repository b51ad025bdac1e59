package services

import (
	"errors"
	"fmt"
	"strings"
)

// Common service errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidState = errors.New("invalid status transition")
)

// ShapeError reports a payment request whose target shape is malformed:
// neither direct nor split, or ambiguously both.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "invalid payment shape: " + e.Reason
}

// NotFoundError reports referenced entities that do not exist.
type NotFoundError struct {
	Entity string
	IDs    []uint
}

func (e *NotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, strings.Join(ids, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AmountMismatchError reports a split payment whose allocations do not
// sum to the payment amount within the monetary epsilon.
type AmountMismatchError struct {
	TotalAllocated float64
	PaymentAmount  float64
	Difference     float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("allocations total %.2f does not match payment amount %.2f (difference %.2f)",
		e.TotalAllocated, e.PaymentAmount, e.Difference)
}

// CurrencyMismatchError reports an allocation whose currency differs
// from the payment's. Allocations always carry the payment's currency;
// conversion to each pledge's currency happens at aggregation time.
type CurrencyMismatchError struct {
	PaymentCurrency    string
	AllocationCurrency string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("allocation currency %s does not match payment currency %s",
		e.AllocationCurrency, e.PaymentCurrency)
}

// PersistenceError wraps a storage failure during the atomic recording
// of a payment. When it is returned no payment row exists: the whole
// insert sequence rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

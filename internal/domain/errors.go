package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrDuplicateProductInDay is returned when a product is already scheduled on the day.
	ErrDuplicateProductInDay = errors.New("product already scheduled for this day")
	// ErrInvalidDiscountRange is returned for a percentage outside [0,100] or a negative value.
	ErrInvalidDiscountRange = errors.New("discount value out of range")
	// ErrDiscountExceedsPrice is returned when a fixed discount is larger than the base price.
	ErrDiscountExceedsPrice = errors.New("discount exceeds product price")
	// ErrInvalidDay is returned for a day id outside 0..6.
	ErrInvalidDay = errors.New("invalid week day")
	// ErrProductNotFound is returned when the catalog has no product with the given id.
	ErrProductNotFound = errors.New("product not found")
	// ErrSnapshotNotFound is returned by snapshot repositories when nothing was saved yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrNoSelection is returned when a dialog is confirmed without a target.
	ErrNoSelection = errors.New("dialog has no selection")
	// ErrUnknownDialog is returned for a dialog name outside the fixed set.
	ErrUnknownDialog = errors.New("unknown dialog")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries field level messages.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds the error from a field map.
func NewValidationError(fields map[string]string) *ValidationError {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &ValidationError{Fields: copied}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrorCode returns the stable code used in structured results.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateProductInDay):
		return "duplicate_product_in_day"
	case errors.Is(err, ErrInvalidDiscountRange):
		return "invalid_discount_range"
	case errors.Is(err, ErrDiscountExceedsPrice):
		return "discount_exceeds_price"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrInvalidDay):
		return "invalid_day"
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrNoSelection):
		return "no_selection"
	case errors.Is(err, ErrUnknownDialog):
		return "unknown_dialog"
	case errors.Is(err, ErrSnapshotNotFound):
		return "snapshot_not_found"
	default:
		return "internal_error"
	}
}

// Recoverable reports whether the error is a rejected mutation rather than an infrastructure fault.
func Recoverable(err error) bool {
	code := ErrorCode(err)
	return code != "" && code != "internal_error"
}

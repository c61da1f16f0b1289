package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/discount"
)

const (
	TitleMinLen       = 3
	TitleMaxLen       = 50
	DescriptionMaxLen = 200
	PositionMin       = 1
	PositionMax       = 100
)

// Result is the outcome of one or more checks.
type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK is a passing result.
func OK() Result {
	return Result{IsValid: true}
}

func fail(field, message string) Result {
	return Result{IsValid: false, Errors: map[string]string{field: message}}
}

// Merge folds results together; the first message per field wins.
func Merge(results ...Result) Result {
	out := OK()
	for _, r := range results {
		if r.IsValid {
			continue
		}
		out.IsValid = false
		if out.Errors == nil {
			out.Errors = make(map[string]string, len(r.Errors))
		}
		for field, msg := range r.Errors {
			if _, ok := out.Errors[field]; !ok {
				out.Errors[field] = msg
			}
		}
	}
	return out
}

// Err converts a failed result into a *domain.ValidationError.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return domain.NewValidationError(r.Errors)
}

// Titled is anything with an id and a title competing for uniqueness.
type Titled struct {
	ID    string
	Title string
}

// Positioned is a sibling holding an order slot.
type Positioned struct {
	ID    string
	Order int
}

// ValidateTitle checks presence, length and case-insensitive uniqueness among siblings,
// skipping the sibling whose id equals selfID.
func ValidateTitle(title string, siblings []Titled, selfID string) Result {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return fail("title", "title is required")
	}
	n := utf8.RuneCountInString(trimmed)
	if n < TitleMinLen {
		return fail("title", fmt.Sprintf("title must have at least %d characters", TitleMinLen))
	}
	if n > TitleMaxLen {
		return fail("title", fmt.Sprintf("title must have at most %d characters", TitleMaxLen))
	}
	for _, s := range siblings {
		if selfID != "" && s.ID == selfID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(s.Title), trimmed) {
			return fail("title", "title is already in use")
		}
	}
	return OK()
}

// ValidateDescription checks the optional description length.
func ValidateDescription(description string) Result {
	if utf8.RuneCountInString(strings.TrimSpace(description)) > DescriptionMaxLen {
		return fail("description", fmt.Sprintf("description must have at most %d characters", DescriptionMaxLen))
	}
	return OK()
}

// ValidatePosition checks an order field: integer in [1,100], unique among siblings.
func ValidatePosition(order int, siblings []Positioned, selfID string) Result {
	if order < PositionMin || order > PositionMax {
		return fail("order", fmt.Sprintf("order must be between %d and %d", PositionMin, PositionMax))
	}
	for _, s := range siblings {
		if selfID != "" && s.ID == selfID {
			continue
		}
		if s.Order == order {
			return fail("order", "order is already in use")
		}
	}
	return OK()
}

// ValidateDiscount wraps the calculator check as a field result.
func ValidateDiscount(d domain.Discount, basePrice float64) Result {
	if err := discount.ValidateDiscount(d, basePrice); err != nil {
		return fail("discount", discountMessage(err))
	}
	return OK()
}

func discountMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDiscountExceedsPrice):
		return "discount exceeds product price"
	default:
		return "discount value out of range"
	}
}

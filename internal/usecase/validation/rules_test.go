package validation

import (
	"errors"
	"strings"
	"testing"

	"menu-highlights/internal/domain"
)

func TestValidateTitle(t *testing.T) {
	siblings := []Titled{{ID: "a", Title: "Destaques"}, {ID: "b", Title: "Promo Sexta"}}
	tests := []struct {
		name   string
		title  string
		selfID string
		valid  bool
	}{
		{name: "empty", title: "   ", valid: false},
		{name: "too short", title: "ab", valid: false},
		{name: "min length", title: "abc", valid: true},
		{name: "too long", title: strings.Repeat("x", 51), valid: false},
		{name: "max length", title: strings.Repeat("x", 50), valid: true},
		{name: "duplicate ignoring case", title: "destaques", valid: false},
		{name: "duplicate of itself while editing", title: "DESTAQUES", selfID: "a", valid: true},
		{name: "multibyte counted as runes", title: "Pão", valid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateTitle(tt.title, siblings, tt.selfID)
			if res.IsValid != tt.valid {
				t.Fatalf("ValidateTitle(%q) valid=%v, want %v (%v)", tt.title, res.IsValid, tt.valid, res.Errors)
			}
			if !res.IsValid && res.Errors["title"] == "" {
				t.Fatalf("expected a message for title")
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	if !ValidateDescription("").IsValid {
		t.Fatal("empty description is allowed")
	}
	if !ValidateDescription(strings.Repeat("d", 200)).IsValid {
		t.Fatal("200 characters are allowed")
	}
	if ValidateDescription(strings.Repeat("d", 201)).IsValid {
		t.Fatal("201 characters must fail")
	}
}

func TestValidatePosition(t *testing.T) {
	siblings := []Positioned{{ID: "x", Order: 1}, {ID: "y", Order: 2}}
	if ValidatePosition(0, siblings, "").IsValid {
		t.Fatal("0 is out of range")
	}
	if ValidatePosition(101, siblings, "").IsValid {
		t.Fatal("101 is out of range")
	}
	if ValidatePosition(2, siblings, "").IsValid {
		t.Fatal("2 is taken")
	}
	if !ValidatePosition(2, siblings, "y").IsValid {
		t.Fatal("own position must be accepted")
	}
	if !ValidatePosition(3, siblings, "").IsValid {
		t.Fatal("3 is free")
	}
}

func TestMergeAndErr(t *testing.T) {
	res := Merge(OK(), ValidateTitle("", nil, ""), ValidateDescription(strings.Repeat("d", 300)))
	if res.IsValid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %v", res.Errors)
	}
	err := res.Err()
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Fields["description"] == "" {
		t.Fatalf("expected description field in %v", err)
	}
	if Merge(OK(), OK()).Err() != nil {
		t.Fatal("passing results must not produce an error")
	}
}

func TestValidateDiscountField(t *testing.T) {
	res := ValidateDiscount(domain.Discount{Type: domain.DiscountFixed, Value: 999}, 35.90)
	if res.IsValid || res.Errors["discount"] != "discount exceeds product price" {
		t.Fatalf("unexpected result %+v", res)
	}
}

package discount

import (
	"errors"
	"testing"

	"menu-highlights/internal/domain"
)

func TestCalculateFinalPrice(t *testing.T) {
	tests := []struct {
		name  string
		base  float64
		d     domain.Discount
		final float64
	}{
		{name: "percentage rounds half up", base: 35.90, d: domain.Discount{Type: domain.DiscountPercentage, Value: 15}, final: 30.52},
		{name: "fixed", base: 28.90, d: domain.Discount{Type: domain.DiscountFixed, Value: 5}, final: 23.90},
		{name: "fixed larger than price floors at zero", base: 10, d: domain.Discount{Type: domain.DiscountFixed, Value: 25}, final: 0},
		{name: "full percentage", base: 42.5, d: domain.Discount{Type: domain.DiscountPercentage, Value: 100}, final: 0},
		{name: "zero percentage", base: 42.5, d: domain.Discount{Type: domain.DiscountPercentage, Value: 0}, final: 42.5},
		{name: "unknown type leaves price", base: 12.34, d: domain.Discount{Type: "bogus", Value: 50}, final: 12.34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateFinalPrice(tt.base, tt.d); got != tt.final {
				t.Fatalf("CalculateFinalPrice(%v, %+v) = %v, want %v", tt.base, tt.d, got, tt.final)
			}
		})
	}
}

func TestPercentageFinalPriceStaysWithinBase(t *testing.T) {
	prices := []float64{0, 0.01, 1, 9.99, 35.90, 120.45, 999.99}
	for _, p := range prices {
		for v := 0.0; v <= 100; v += 2.5 {
			final := CalculateFinalPrice(p, domain.Discount{Type: domain.DiscountPercentage, Value: v})
			if final < 0 || final > p {
				t.Fatalf("price %v with %v%% gave %v", p, v, final)
			}
		}
	}
}

func TestFixedFinalPriceMatchesClampedSubtraction(t *testing.T) {
	cases := []struct{ base, value, want float64 }{
		{base: 20, value: 5, want: 15},
		{base: 20, value: 20, want: 0},
		{base: 20, value: 35, want: 0},
		{base: 7.5, value: 0, want: 7.5},
	}
	for _, c := range cases {
		got := CalculateFinalPrice(c.base, domain.Discount{Type: domain.DiscountFixed, Value: c.value})
		if got != c.want {
			t.Fatalf("fixed %v off %v: got %v, want %v", c.value, c.base, got, c.want)
		}
	}
}

func TestCalculateDiscountAmount(t *testing.T) {
	if got := CalculateDiscountAmount(35.90, domain.Discount{Type: domain.DiscountPercentage, Value: 15}); got != 5.385 {
		t.Fatalf("expected 5.385, got %v", got)
	}
	if got := CalculateDiscountAmount(4, domain.Discount{Type: domain.DiscountFixed, Value: 10}); got != 4 {
		t.Fatalf("fixed amount must be capped at base price, got %v", got)
	}
}

func TestValidateDiscount(t *testing.T) {
	tests := []struct {
		name string
		d    domain.Discount
		base float64
		want error
	}{
		{name: "valid percentage", d: domain.Discount{Type: domain.DiscountPercentage, Value: 50}, base: 10},
		{name: "percentage above 100", d: domain.Discount{Type: domain.DiscountPercentage, Value: 101}, base: 10, want: domain.ErrInvalidDiscountRange},
		{name: "negative percentage", d: domain.Discount{Type: domain.DiscountPercentage, Value: -1}, base: 10, want: domain.ErrInvalidDiscountRange},
		{name: "valid fixed", d: domain.Discount{Type: domain.DiscountFixed, Value: 10}, base: 10},
		{name: "fixed above price", d: domain.Discount{Type: domain.DiscountFixed, Value: 999}, base: 35.90, want: domain.ErrDiscountExceedsPrice},
		{name: "negative fixed", d: domain.Discount{Type: domain.DiscountFixed, Value: -2}, base: 10, want: domain.ErrInvalidDiscountRange},
		{name: "unknown type", d: domain.Discount{Type: "bogo", Value: 1}, base: 10, want: domain.ErrInvalidDiscountRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiscount(tt.d, tt.base)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFormatDiscount(t *testing.T) {
	cases := map[string]domain.Discount{
		"15% OFF":          {Type: domain.DiscountPercentage, Value: 15},
		"12,5% OFF":        {Type: domain.DiscountPercentage, Value: 12.5},
		"33,33% OFF":       {Type: domain.DiscountPercentage, Value: 33.33},
		"R$ 5,00 OFF":      {Type: domain.DiscountFixed, Value: 5},
		"R$ 1.250,90 OFF":  {Type: domain.DiscountFixed, Value: 1250.9},
		"R$ 120.000,00 OFF": {Type: domain.DiscountFixed, Value: 120000},
	}
	for want, d := range cases {
		if got := FormatDiscount(d); got != want {
			t.Fatalf("FormatDiscount(%+v) = %q, want %q", d, got, want)
		}
	}
}

func TestEquivalentPercentage(t *testing.T) {
	if got := EquivalentPercentage(20, domain.Discount{Type: domain.DiscountFixed, Value: 5}); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := EquivalentPercentage(0, domain.Discount{Type: domain.DiscountFixed, Value: 5}); got != 0 {
		t.Fatalf("expected 0 for zero base price, got %v", got)
	}
	if got := EquivalentPercentage(20, domain.Discount{Type: domain.DiscountPercentage, Value: 30}); got != 30 {
		t.Fatalf("expected 30, got %v", got)
	}
}

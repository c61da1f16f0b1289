package discount

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"menu-highlights/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// Breakdown is the priced view of a discount applied to a base price.
type Breakdown struct {
	BasePrice  float64 `json:"basePrice"`
	Amount     float64 `json:"discountAmount"`
	FinalPrice float64 `json:"finalPrice"`
	Label      string  `json:"label"`
}

// Preview prices a discount without validating it.
func Preview(basePrice float64, d domain.Discount) Breakdown {
	return Breakdown{
		BasePrice:  basePrice,
		Amount:     CalculateDiscountAmount(basePrice, d),
		FinalPrice: CalculateFinalPrice(basePrice, d),
		Label:      FormatDiscount(d),
	}
}

// CalculateDiscountAmount returns how much the discount takes off basePrice.
func CalculateDiscountAmount(basePrice float64, d domain.Discount) float64 {
	amount, _ := amountOf(dec(basePrice), d).Float64()
	return amount
}

// CalculateFinalPrice returns basePrice minus the discount, floored at 0 and rounded to cents.
func CalculateFinalPrice(basePrice float64, d domain.Discount) float64 {
	final, _ := finalPrice(basePrice, d).Float64()
	return final
}

func finalPrice(basePrice float64, d domain.Discount) decimal.Decimal {
	base := dec(basePrice)
	final := base.Sub(amountOf(base, d))
	if final.LessThan(zero) {
		final = zero
	}
	return final.Round(2)
}

func amountOf(base decimal.Decimal, d domain.Discount) decimal.Decimal {
	value := dec(d.Value)
	switch d.Type {
	case domain.DiscountPercentage:
		return base.Mul(value).Div(hundred)
	case domain.DiscountFixed:
		return decimal.Min(value, base)
	default:
		return zero
	}
}

// EquivalentPercentage normalises a discount to a percentage of basePrice.
func EquivalentPercentage(basePrice float64, d domain.Discount) float64 {
	switch d.Type {
	case domain.DiscountPercentage:
		return d.Value
	case domain.DiscountFixed:
		if basePrice <= 0 {
			return 0
		}
		base := dec(basePrice)
		pct, _ := decimal.Min(dec(d.Value), base).Div(base).Mul(hundred).Float64()
		return pct
	default:
		return 0
	}
}

// ValidateDiscount checks d against the price it will be applied to.
func ValidateDiscount(d domain.Discount, basePrice float64) error {
	if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) {
		return fmt.Errorf("%w: value must be a finite number", domain.ErrInvalidDiscountRange)
	}
	switch d.Type {
	case domain.DiscountPercentage:
		if d.Value < 0 || d.Value > 100 {
			return fmt.Errorf("%w: percentage must be between 0 and 100, got %v", domain.ErrInvalidDiscountRange, d.Value)
		}
	case domain.DiscountFixed:
		if d.Value < 0 {
			return fmt.Errorf("%w: fixed amount must not be negative, got %v", domain.ErrInvalidDiscountRange, d.Value)
		}
		if d.Value > basePrice {
			return fmt.Errorf("%w: %s exceeds %s", domain.ErrDiscountExceedsPrice, formatBRL(dec(d.Value)), formatBRL(dec(basePrice)))
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", domain.ErrInvalidDiscountRange, d.Type)
	}
	return nil
}

// FormatDiscount renders the label shown next to a highlighted product.
func FormatDiscount(d domain.Discount) string {
	switch d.Type {
	case domain.DiscountFixed:
		return formatBRL(dec(d.Value)) + " OFF"
	default:
		// pt-BR decimal separator, e.g. "12,5% OFF".
		return strings.Replace(dec(d.Value).String(), ".", ",", 1) + "% OFF"
	}
}

// FormatPrice renders a price in the pt-BR currency format, e.g. "R$ 1.234,50".
func FormatPrice(price float64) string {
	return formatBRL(dec(price))
}

func formatBRL(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	fixed := v.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + frac
}

// dec converts a float, mapping NaN and infinities to zero.
func dec(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return zero
	}
	return decimal.NewFromFloat(f)
}

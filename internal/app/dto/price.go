package dto

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Limits of the decimal128 type prices are stored as.
const (
	maxPriceDigits   = 34
	minPriceExponent = -6176
	maxPriceExponent = 6111
)

// checkPrice reports a negative price or one decimal128 cannot hold exactly
func checkPrice(loc []string, d decimal.Decimal) *FieldError {
	if d.IsNegative() {
		return &FieldError{Loc: loc, Msg: "Input should be greater than or equal to 0", Type: "greater_than_equal"}
	}
	return checkDecimal128(loc, d)
}

// checkDecimal128 reports a value decimal128 cannot hold exactly. Only the
// coefficient and exponent are inspected, so the value is never expanded.
func checkDecimal128(loc []string, d decimal.Decimal) *FieldError {
	coef := new(big.Int).Abs(d.Coefficient()).String()
	exp := int64(d.Exponent())
	if trimmed := strings.TrimRight(coef, "0"); trimmed != "" {
		exp += int64(len(coef) - len(trimmed))
		coef = trimmed
	}

	digits := int64(len(coef))
	if digits > maxPriceDigits {
		return &FieldError{
			Loc:  loc,
			Msg:  "Decimal input should have no more than 34 significant digits",
			Type: "decimal_max_digits",
		}
	}
	// A large exponent can still be stored by padding the coefficient with zeros.
	if exp < minPriceExponent || exp-(maxPriceDigits-digits) > maxPriceExponent {
		return &FieldError{
			Loc:  loc,
			Msg:  "Decimal input exponent is out of range",
			Type: "decimal_exponent",
		}
	}
	return nil
}

// formatPrice renders d with the scale it was given, so 8.500 stays 8.500
func formatPrice(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

// MarshalJSON writes the price as a string that keeps its scale
func (o ProductOut) MarshalJSON() ([]byte, error) {
	type plain ProductOut
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain: plain(o), Price: formatPrice(o.Price)})
}

// Package money holds the integer-cent amount type shared by the engine.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Cents is a signed monetary amount in the minor currency unit.
// Positive values are inflows, negative values are outflows.
type Cents int64

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// FromDecimal converts an amount in the major unit to cents, rounding half away from zero.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Mul(hundred).Round(0).IntPart())
}

// Parse reads an amount in the major unit ("-1500.00", "12.5", "$1,200").
func Parse(s string) (Cents, error) {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.Replace(clean, "$", "", 1)
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decimal returns the amount in the major unit.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(hundred)
}

// Abs returns the absolute amount.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String renders the amount in the major unit with two decimals ("-1500.00").
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Format renders the amount as currency with thousands separators ("-$1,500.00").
func (c Cents) Format() string {
	sign := ""
	if c < 0 {
		sign = "-"
	}
	abs := c.Abs()
	whole := int64(abs) / 100
	frac := int64(abs) % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), frac)
}

// Min returns the smaller of two amounts
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}

// MonthlyInterest returns one month of interest on balance at an annual percentage
// rate, round(balance × rate/100 / 12) with halves rounded up. Non-positive balances
// accrue nothing.
func MonthlyInterest(balance Cents, annualPercent decimal.Decimal) Cents {
	if balance <= 0 || !annualPercent.IsPositive() {
		return 0
	}
	interest := decimal.NewFromInt(int64(balance)).
		Mul(annualPercent).
		Div(hundred).
		Div(monthsPerYear)
	return Cents(interest.Round(0).IntPart())
}

// UnmarshalYAML accepts amounts in the major unit written as strings or numbers.
func (c *Cents) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", value.Line)
	}
	parsed, err := Parse(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the amount back in the major unit.
func (c Cents) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Package money holds currency amounts as integer hundredths so that order
// totals never go through binary floating point.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cents is a currency amount in hundredths of the base unit.
type Cents int64

var ErrInvalidAmount = errors.New("invalid money amount")

// Parse reads a decimal string such as "15.99", "12" or "0.5" (at most two
// fraction digits) into Cents.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		whole, frac = s[:dot], s[dot+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two fraction digits", ErrInvalidAmount, s)
	}
	// Pad "15.9" to "15.90".
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return Cents(total), nil
}

// Mul multiplies the amount by an integer quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON writes the amount as a plain decimal number ("15.99"), matching
// what storefront clients send and expect.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

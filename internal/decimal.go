package internal

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

type Decimal struct {
	value apd.Decimal
}

func NewDecimal(s string) (Decimal, error) {
	var d apd.Decimal
	_, _, err := d.SetString(s)
	if err != nil {
		return Decimal{}, errors.Wrap(err, "invalid decimal")
	}
	return Decimal{value: d}, nil
}

// NewDecimalPow returns base raised to exponent, with trailing zeros removed.
func NewDecimalPow(base, exponent string) (Decimal, error) {
	if base == "10" {
		if _, err := strconv.Atoi(exponent); err == nil {
			return NewDecimal("1E" + exponent)
		}
	}

	b, err := NewDecimal(base)
	if err != nil {
		return Decimal{}, errors.Wrap(err, "invalid base")
	}
	e, err := NewDecimal(exponent)
	if err != nil {
		return Decimal{}, errors.Wrap(err, "invalid exponent")
	}

	var result apd.Decimal
	ctx := apd.BaseContext.WithPrecision(34)
	if _, err := ctx.Pow(&result, &b.value, &e.value); err != nil {
		return Decimal{}, errors.Wrapf(err, "cannot raise %s to %s", base, exponent)
	}
	if _, _, err := ctx.Reduce(&result, &result); err != nil {
		return Decimal{}, errors.Wrap(err, "cannot reduce power")
	}
	return Decimal{value: result}, nil
}

func (d Decimal) String() string {
	return d.value.String()
}

// IsFinite reports whether d is a finite number (not NaN or infinite).
func (d Decimal) IsFinite() bool {
	return d.value.Form == apd.Finite
}

func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

func (d Decimal) Cmp(other Decimal) int {
	return d.value.Cmp(&other.value)
}

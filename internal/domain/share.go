package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// sharePlaces is the number of decimal places a share is quantized to.
	sharePlaces = 2
	// amountIntDigits and maxAmountScale bound what a NUMERIC(10,2) column
	// can hold and what is worth rounding.
	amountIntDigits = 8
	maxAmountScale  = 16
)

// MaxAmount is the largest magnitude stored for any money column.
var MaxAmount = decimal.New(9999999999, -sharePlaces)

// ErrAmountOutOfRange is returned for amounts outside ±MaxAmount or with
// more than maxAmountScale decimal places.
var ErrAmountOutOfRange = fmt.Errorf("%w: amount must be between -%s and %s", ErrInvalidInput, MaxAmount.StringFixed(sharePlaces), MaxAmount.StringFixed(sharePlaces))

// ParseMoney parses raw and rounds it to cents. Non-numeric input wraps
// ErrInvalidInput; out-of-range input is ErrAmountOutOfRange.
func ParseMoney(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: not a number", ErrInvalidInput)
	}
	return NormalizeAmount(d)
}

// NormalizeAmount rounds d to cents. The magnitude is checked from the
// exponent and digit count before any arithmetic, so exponent notation such
// as 1e40000000 is rejected without expanding the coefficient.
func NormalizeAmount(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsZero() {
		return decimal.Zero, nil
	}
	exp := int(d.Exponent())
	if exp < -maxAmountScale || d.NumDigits()+exp > amountIntDigits {
		return decimal.Zero, ErrAmountOutOfRange
	}
	rounded := d.Round(sharePlaces)
	if rounded.Abs().GreaterThan(MaxAmount) {
		return decimal.Zero, ErrAmountOutOfRange
	}
	return rounded, nil
}

// ParseAmount parses a money amount rounded to cents. Empty, non-numeric or
// out-of-range input is zero.
func ParseAmount(raw string) decimal.Decimal {
	d, err := ParseMoney(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CalculateShare divides total among the event's participants. With no
// participants yet the group's size gives the expected share; an empty group
// counts as one. The result is rounded half-to-even to cents.
func CalculateShare(total decimal.Decimal, eventMembers, groupMembers int) decimal.Decimal {
	n := eventMembers
	if n <= 0 {
		n = groupMembers
	}
	if n <= 0 {
		n = 1
	}
	return total.Div(decimal.NewFromInt(int64(n))).RoundBank(sharePlaces)
}

// EvaluateStatus returns EventActive when every cap covers share, EventPending
// otherwise. It never returns EventCompleted.
func EvaluateStatus(share decimal.Decimal, caps []decimal.Decimal) EventStatus {
	for _, c := range caps {
		if c.LessThan(share) {
			return EventPending
		}
	}
	return EventActive
}

// FormatAmount renders an amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(sharePlaces)
}

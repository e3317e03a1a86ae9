package types

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RoundingMode controls how final amounts are quantized to currency precision.
// Standard is pinned to banker's rounding (round half to even) so repeated
// repricing of the same cart reproduces identical totals across currencies.
type RoundingMode string

const (
	RoundingModeStandard    RoundingMode = "standard"
	RoundingModeUp          RoundingMode = "up"
	RoundingModeDown        RoundingMode = "down"
	RoundingModeToIncrement RoundingMode = "to_increment"
)

func (r RoundingMode) String() string {
	return string(r)
}

func (r RoundingMode) Validate() error {
	allowed := []RoundingMode{
		RoundingModeStandard,
		RoundingModeUp,
		RoundingModeDown,
		RoundingModeToIncrement,
	}
	if !lo.Contains(allowed, r) {
		return errInvalidEnum("rounding_mode", string(r))
	}
	return nil
}

// Apply rounds amount to the given currency precision. increment is only
// consulted for RoundingModeToIncrement (e.g. 0.05 for Swiss cash rounding);
// a non-positive increment falls back to standard rounding.
func (r RoundingMode) Apply(amount decimal.Decimal, precision int32, increment decimal.Decimal) decimal.Decimal {
	switch r {
	case RoundingModeUp:
		return amount.RoundCeil(precision)
	case RoundingModeDown:
		return amount.RoundFloor(precision)
	case RoundingModeToIncrement:
		if increment.IsPositive() {
			return amount.DivRound(increment, 0).Mul(increment).RoundBank(precision)
		}
		return amount.RoundBank(precision)
	default:
		return amount.RoundBank(precision)
	}
}

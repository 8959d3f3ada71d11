package derive

import "github.com/shopspring/decimal"

// DivisionPrecision is the number of decimal places kept by every division.
const DivisionPrecision int32 = 18

// LPTokenDecimals is the precision of pool LP tokens.
const LPTokenDecimals uint8 = 9

var hundred = decimal.NewFromInt(100)

// ScaleByDecimals converts a raw base-unit amount into whole units. The shift
// is exact.
func ScaleByDecimals(raw decimal.Decimal, decimals uint8) decimal.Decimal {
	return raw.Shift(-int32(decimals))
}

func quo(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, DivisionPrecision)
}

// percentOf returns part/whole × 100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return quo(part, whole).Mul(hundred)
}

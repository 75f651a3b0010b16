package recipe

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

const maxSnapDenominator = 16

// FormatCount renders an ingredient count the way a cook reads it:
// 2.5 becomes "2 1/2" and 0.3333 becomes "1/3". Zero renders as "?".
func FormatCount(count float64) string {
	if count == 0 || math.IsNaN(count) || math.IsInf(count, 0) {
		return "?"
	}

	rounded := math.Round(count*10000) / 10000
	whole, frac := math.Modf(rounded)
	if frac == 0 {
		return strconv.FormatFloat(rounded, 'f', -1, 64)
	}

	num, den := fraction(math.Abs(frac))
	if num == den {
		// frac snapped up to a whole number
		return strconv.FormatFloat(whole+math.Copysign(1, rounded), 'f', -1, 64)
	}
	if whole == 0 {
		if rounded < 0 {
			return fmt.Sprintf("-%d/%d", num, den)
		}
		return fmt.Sprintf("%d/%d", num, den)
	}
	return fmt.Sprintf("%s %d/%d", strconv.FormatFloat(whole, 'f', -1, 64), num, den)
}

// fraction approximates 0 < f < 1 with a small kitchen denominator when one is
// close enough, and otherwise reduces the four-decimal value exactly.
func fraction(f float64) (int64, int64) {
	for den := int64(2); den <= maxSnapDenominator; den++ {
		num := math.Round(f * float64(den))
		if num > 0 && math.Abs(f*float64(den)-num) < 1e-3*float64(den) {
			return int64(num), den
		}
	}
	r := new(big.Rat).SetFrac64(int64(math.Round(f*10000)), 10000)
	return r.Num().Int64(), r.Denom().Int64()
}

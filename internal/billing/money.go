package billing

import (
	"fmt"
	"math"
)

// Amount is a currency value in integer minor units (cents). The ledger
// stores cents so that repeated discount multiplication cannot accumulate
// floating-point drift.
type Amount int64

// AmountFromFloat converts a decimal currency value to cents, rounding
// half away from zero.
func AmountFromFloat(v float64) Amount {
	return Amount(math.Round(v * 100))
}

// Float returns the decimal currency value.
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// String formats the amount as a plain decimal, e.g. "500.00".
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MulBasisPoints scales the amount by bp/10000 with half-up rounding.
// A 90% discount keeps 1000 basis points of the base price.
func (a Amount) MulBasisPoints(bp int64) Amount {
	return Amount((int64(a)*bp + 5000) / 10000)
}

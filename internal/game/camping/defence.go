package camping

import "math"

// carryErosionThreshold is the integer part of the carry-over above which a
// fractional carry lowers the next day's maximum defence.
const carryErosionThreshold = 3

// Defence is the camping defence total and the ceiling it is measured against.
type Defence struct {
	Current float64 `json:"current"`
	Maximum float64 `json:"maximum"`
}

// NeutralDefence is returned for inputs that are transiently invalid while
// the player edits the form.
func NeutralDefence() Defence {
	return Defence{Current: 0, Maximum: MaxPreviousCarry}
}

// ComputeDefence derives the current defence from OD and improvement counts
// plus the carry-over from the previous day, and the maximum defence that
// carry-over leaves available.
//
// Postcondition: Negative od or improvements yield NeutralDefence. A carry
// outside [0, MaxPreviousCarry] is ignored.
func ComputeDefence(od, improvements int, carry float64) Defence {
	if od < 0 || improvements < 0 {
		return NeutralDefence()
	}
	if !(carry >= 0 && carry <= MaxPreviousCarry) {
		carry = 0
	}

	// Whole part and first decimal digit; 4.6*10 must yield 46, not 45.999...
	tenths := int(math.Floor(carry*10 + 1e-6))
	whole, digit := tenths/10, tenths%10

	maximum := MaxPreviousCarry
	if digit != 0 && whole > carryErosionThreshold {
		maximum = 8 + 3.6 - (0.8 - float64(digit)/10)
	}

	current := math.Max(carry-carryErosionThreshold, 0) +
		float64(od)*ODWeight +
		float64(improvements)

	return Defence{
		Current: Round1(current),
		Maximum: Round1(maximum),
	}
}

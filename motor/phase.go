// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor

// Coil terminal order used by Resolve and by the stepper channel writes.
const (
	CoilAMinus = iota
	CoilBPlus
	CoilAPlus
	CoilBMinus
)

// Resolve returns the duty of the four coil terminals at the given microstep
// position, indexed by CoilAMinus, CoilBPlus, CoilAPlus and CoilBMinus.
//
// The position selects a trailing coil, whose current falls along the curve,
// and the next coil in rotation, whose current rises. Unless style is
// Microstep, two equal non-zero currents are raised to MaxDuty so full steps
// taken between two coils keep full torque.
func (c Curve) Resolve(step int64, style Style) [4]uint16 {
	res := int64(c.Resolution())
	trailing := mod(floorDiv(step, res), 4)
	leading := (trailing + 1) % 4
	micro := mod(step, res)

	var duty [4]uint16
	duty[leading] = c[micro]
	duty[trailing] = c[res-micro]
	if style != Microstep && duty[leading] == duty[trailing] && duty[leading] > 0 {
		duty[leading] = MaxDuty
		duty[trailing] = MaxDuty
	}
	return duty
}

// floorDiv and mod round toward negative infinity so that positions below
// zero keep selecting valid coils and curve entries.

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

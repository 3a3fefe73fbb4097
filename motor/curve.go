// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor

import (
	"fmt"
	"math"
)

// MaxDuty is the full scale of a 12-bit PWM channel.
const MaxDuty uint16 = 4095

// Curve is the coil current for each microstep of one electrical quadrant.
// Entry i is MaxDuty·sin(π·i / 2·resolution), so the curve starts at 0, ends
// at MaxDuty and never decreases.
type Curve []uint16

// BuildCurve computes the current curve for the given number of microsteps
// per quadrant.
func BuildCurve(resolution int) (Curve, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: resolution %d", ErrInvalidConfig, resolution)
	}
	c := make(Curve, resolution+1)
	for i := range c {
		v := math.Round(float64(MaxDuty) * math.Sin(math.Pi*float64(i)/float64(2*resolution)))
		c[i] = uint16(math.Min(math.Max(v, 0), float64(MaxDuty)))
	}
	return c, nil
}

// Resolution returns the number of microsteps per quadrant.
func (c Curve) Resolution() int {
	return len(c) - 1
}

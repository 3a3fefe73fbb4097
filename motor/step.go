// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor

import (
	"fmt"
	"strings"
)

// Direction is the rotation direction of a step.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection accepts "forward" or "backward" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "forward", "fwd", "f":
		return Forward, nil
	case "backward", "back", "b":
		return Backward, nil
	}
	return 0, fmt.Errorf("%w: direction %q", ErrInvalidCommand, s)
}

// Style is the stepping granularity.
type Style uint8

const (
	// Single energizes one coil at a time and moves a full step.
	Single Style = iota
	// Double energizes two coils at a time and moves a full step.
	Double
	// Interleave alternates Single and Double positions, moving a half step.
	Interleave
	// Microstep moves one entry of the current curve.
	Microstep
)

func (s Style) String() string {
	switch s {
	case Single:
		return "single"
	case Double:
		return "double"
	case Interleave:
		return "interleave"
	case Microstep:
		return "microstep"
	default:
		return fmt.Sprintf("Style(%d)", uint8(s))
	}
}

// ParseStyle accepts the lower case name of a style in any case.
func ParseStyle(s string) (Style, error) {
	for st := Single; st <= Microstep; st++ {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: style %q", ErrInvalidCommand, s)
}

func checkCommand(dir Direction, style Style) error {
	if dir > Backward {
		return fmt.Errorf("%w: %s", ErrInvalidCommand, dir)
	}
	if style > Microstep {
		return fmt.Errorf("%w: %s", ErrInvalidCommand, style)
	}
	return nil
}

// advance moves *step for one command and returns the displacement applied,
// in microsteps. A position that is not on a half step boundary is first
// snapped to the boundary in the requested direction; that call reports 0.
//
// Single positions are the even half steps and Double positions the odd ones,
// so either style moves a half step when coming from the other one and a full
// step otherwise.
func advance(step *int64, dir Direction, style Style, resolution int) int64 {
	var d int64
	if style == Microstep {
		d = 1
	} else {
		// Resolution 1 has no half step; treat every microstep as one.
		half := int64(max(resolution/2, 1))
		if r := mod(*step, half); r != 0 {
			if dir == Forward {
				*step += half - r
			} else {
				*step -= r
			}
			return 0
		}
		odd := mod(floorDiv(*step, half), 2) == 1
		switch {
		case style == Interleave:
			d = half
		case style == Single && odd, style == Double && !odd:
			d = half
		default:
			d = int64(resolution)
		}
	}
	if dir == Forward {
		*step += d
	} else {
		*step -= d
	}
	return d
}

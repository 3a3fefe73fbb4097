// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor

// Sequencer tracks the microstep position of a stepper and computes the coil
// duties for each step command, without touching any hardware.
//
// The position is relative to where the Sequencer was created and may go
// negative.
type Sequencer struct {
	curve Curve
	step  int64
}

// NewSequencer returns a Sequencer at position 0 using resolution microsteps
// per quadrant.
func NewSequencer(resolution int) (*Sequencer, error) {
	c, err := BuildCurve(resolution)
	if err != nil {
		return nil, err
	}
	return &Sequencer{curve: c}, nil
}

// Resolution returns the number of microsteps per quadrant.
func (s *Sequencer) Resolution() int {
	return s.curve.Resolution()
}

// Curve returns a copy of the current curve.
func (s *Sequencer) Curve() Curve {
	return append(Curve(nil), s.curve...)
}

// Position returns the microstep counter.
func (s *Sequencer) Position() int64 {
	return s.step
}

// Duty returns the coil duties at the current position.
func (s *Sequencer) Duty(style Style) [4]uint16 {
	return s.curve.Resolve(s.step, style)
}

// Next applies one step command and returns the resulting coil duties and the
// displacement applied. A displacement of 0 means the call only realigned the
// position on a half step boundary.
func (s *Sequencer) Next(dir Direction, style Style) ([4]uint16, int64, error) {
	if err := checkCommand(dir, style); err != nil {
		return [4]uint16{}, 0, err
	}
	moved := advance(&s.step, dir, style, s.Resolution())
	return s.Duty(style), moved, nil
}

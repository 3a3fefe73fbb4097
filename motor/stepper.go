// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor

import "fmt"

// StepperChannels is the wiring of a bipolar stepper to the PWM controller.
type StepperChannels struct {
	// Ref1 and Ref2 are the current reference inputs of the two H-bridges.
	Ref1, Ref2 int
	// AIn1 and AIn2 drive coil A, BIn1 and BIn2 drive coil B.
	AIn1, AIn2, BIn1, BIn2 int
}

// coils returns the coil channels in Resolve order.
func (c StepperChannels) coils() [4]int {
	return [4]int{CoilAMinus: c.AIn2, CoilBPlus: c.BIn1, CoilAPlus: c.AIn1, CoilBMinus: c.BIn2}
}

func (c StepperChannels) all() []int {
	return []int{c.Ref1, c.Ref2, c.AIn2, c.BIn1, c.AIn1, c.BIn2}
}

// StepperOpts holds the stepper configuration.
type StepperOpts struct {
	// Microsteps is the number of microsteps per quadrant, that is per quarter
	// of a full step sequence.
	Microsteps int
}

// DefaultStepperOpts is the configuration used when nil is passed.
var DefaultStepperOpts = StepperOpts{
	Microsteps: 16,
}

// Stepper is a bipolar stepper motor driven through six PWM channels.
type Stepper struct {
	pwm PWM
	ch  StepperChannels
	seq *Sequencer
	// released is set by Stop; the references must be driven again before
	// the next step.
	released bool
}

// NewStepper returns a stepper with its references at full duty and all coils
// off. The position starts at 0.
func NewStepper(pwm PWM, ch StepperChannels, opts *StepperOpts) (*Stepper, error) {
	if opts == nil {
		opts = &DefaultStepperOpts
	}
	if err := checkChannels(ch.all()...); err != nil {
		return nil, err
	}
	seq, err := NewSequencer(opts.Microsteps)
	if err != nil {
		return nil, err
	}
	s := &Stepper{pwm: pwm, ch: ch, seq: seq}
	for _, c := range ch.all() {
		if err := setOn(pwm, c, 0); err != nil {
			return nil, err
		}
	}
	if err := s.energize(); err != nil {
		return nil, err
	}
	if err := s.writeCoils([4]uint16{}); err != nil {
		return nil, err
	}
	return s, nil
}

// StepOnce moves the motor by one step of the given style.
//
// The position is updated before the coils are written, so on a
// *ChannelError the position is ahead of the motor; call Stop and step again.
func (s *Stepper) StepOnce(dir Direction, style Style) error {
	duty, _, err := s.seq.Next(dir, style)
	if err != nil {
		return err
	}
	if s.released {
		if err := s.energize(); err != nil {
			return err
		}
	}
	return s.writeCoils(duty)
}

// Stop turns the reference and coil channels fully off. The position is kept.
func (s *Stepper) Stop() error {
	s.released = true
	return setFullOff(s.pwm, s.ch.all()...)
}

// Position returns the microstep counter.
func (s *Stepper) Position() int64 {
	return s.seq.Position()
}

// Resolution returns the number of microsteps per quadrant.
func (s *Stepper) Resolution() int {
	return s.seq.Resolution()
}

// Curve returns a copy of the current curve.
func (s *Stepper) Curve() Curve {
	return s.seq.Curve()
}

// Kind implements Motor.
func (s *Stepper) Kind() Kind {
	return KindStepper
}

func (s *Stepper) String() string {
	return fmt.Sprintf("Stepper{A: %d/%d, B: %d/%d, ref: %d/%d}",
		s.ch.AIn1, s.ch.AIn2, s.ch.BIn1, s.ch.BIn2, s.ch.Ref1, s.ch.Ref2)
}

func (s *Stepper) energize() error {
	if err := setOff(s.pwm, s.ch.Ref1, MaxDuty); err != nil {
		return err
	}
	if err := setOff(s.pwm, s.ch.Ref2, MaxDuty); err != nil {
		return err
	}
	s.released = false
	return nil
}

func (s *Stepper) writeCoils(duty [4]uint16) error {
	for i, c := range s.ch.coils() {
		if err := setOff(s.pwm, c, duty[i]); err != nil {
			return err
		}
	}
	return nil
}

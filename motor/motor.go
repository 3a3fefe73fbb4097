// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor

import (
	"fmt"
	"sort"
	"strings"
)

// Channels is the number of outputs of the PWM controllers this package
// targets.
const Channels = 16

// PWM is the subset of a 12-bit PWM controller used by motors.
//
// *pca9685.Dev implements it.
type PWM interface {
	// SetOn sets the counter value at which the channel goes high.
	SetOn(channel int, tick uint16) error
	// SetOff sets the counter value at which the channel goes low.
	SetOff(channel int, tick uint16) error
	// SetFullOff forces the channel low.
	SetFullOff(channel int) error
}

// Kind is the type of a motor.
type Kind uint8

const (
	KindDC Kind = iota
	KindStepper
)

func (k Kind) String() string {
	switch k {
	case KindDC:
		return "dc"
	case KindStepper:
		return "stepper"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// UnmarshalText parses "dc" or "stepper".
func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "dc":
		*k = KindDC
	case "stepper":
		*k = KindStepper
	default:
		return fmt.Errorf("%w: motor kind %q", ErrInvalidConfig, b)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Motor is implemented by *DCMotor and *Stepper.
type Motor interface {
	Kind() Kind
	// Stop de-energizes every channel of the motor.
	Stop() error
	String() string
}

// Assignment is the wiring of one motor. Only the field matching Kind is
// used.
type Assignment struct {
	Kind    Kind
	DC      DCChannels
	Stepper StepperChannels
}

func (a Assignment) channels() []int {
	if a.Kind == KindStepper {
		return a.Stepper.all()
	}
	return a.DC.all()
}

// Layout maps motor names to their wiring on a board.
type Layout map[string]Assignment

// AdafruitLayout returns the wiring of the Adafruit DC and Stepper Motor HAT:
// DC motors M1 to M4, and steppers Stepper1 (M1+M2) and Stepper2 (M3+M4).
func AdafruitLayout() Layout {
	return Layout{
		"M1": {Kind: KindDC, DC: DCChannels{Ref: 8, Forward: 9, Backward: 10}},
		"M2": {Kind: KindDC, DC: DCChannels{Ref: 13, Forward: 11, Backward: 12}},
		"M3": {Kind: KindDC, DC: DCChannels{Ref: 2, Forward: 3, Backward: 4}},
		"M4": {Kind: KindDC, DC: DCChannels{Ref: 7, Forward: 5, Backward: 6}},
		"Stepper1": {Kind: KindStepper, Stepper: StepperChannels{
			Ref1: 8, Ref2: 13, AIn1: 10, AIn2: 9, BIn1: 11, BIn2: 12}},
		"Stepper2": {Kind: KindStepper, Stepper: StepperChannels{
			Ref1: 2, Ref2: 7, AIn1: 4, AIn2: 3, BIn1: 5, BIn2: 6}},
	}
}

// Names returns the motor names in sorted order.
func (l Layout) Names() []string {
	names := make([]string, 0, len(l))
	for n := range l {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks every assignment: known kind, channels in range and
// distinct within the motor. Motors may share channels with each other, as
// DC and stepper assignments of the same HAT do.
func (l Layout) Validate() error {
	for _, n := range l.Names() {
		a := l[n]
		if a.Kind > KindStepper {
			return fmt.Errorf("%w: %q has %s", ErrInvalidConfig, n, a.Kind)
		}
		if err := checkChannels(a.channels()...); err != nil {
			return fmt.Errorf("%q: %w", n, err)
		}
	}
	return nil
}

// Lookup returns the assignment of the named motor.
func (l Layout) Lookup(name string) (Assignment, error) {
	a, ok := l[name]
	if !ok {
		return Assignment{}, fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownMotor, name)
	}
	return a, nil
}

// Open initializes the named motor on pwm. opts is only used for steppers
// and may be nil.
func (l Layout) Open(pwm PWM, name string, opts *StepperOpts) (Motor, error) {
	a, err := l.Lookup(name)
	if err != nil {
		return nil, err
	}
	var m Motor
	switch a.Kind {
	case KindDC:
		m, err = NewDCMotor(pwm, a.DC)
	case KindStepper:
		m, err = NewStepper(pwm, a.Stepper, opts)
	default:
		err = fmt.Errorf("%w: %q has %s", ErrInvalidConfig, name, a.Kind)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func checkChannels(channels ...int) error {
	var seen [Channels]bool
	for _, c := range channels {
		if c < 0 || c >= Channels {
			return fmt.Errorf("%w: channel %d", ErrInvalidConfig, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: channel %d used twice", ErrInvalidConfig, c)
		}
		seen[c] = true
	}
	return nil
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor

import (
	"fmt"
	"math"
)

// DCChannels is the wiring of a brushed DC motor to the PWM controller.
type DCChannels struct {
	Ref, Forward, Backward int
}

func (c DCChannels) all() []int {
	return []int{c.Ref, c.Forward, c.Backward}
}

// DCMotor is a brushed DC motor on one H-bridge.
type DCMotor struct {
	pwm      PWM
	ch       DCChannels
	throttle float64
	released bool
}

// NewDCMotor returns a DC motor with its reference at full duty.
func NewDCMotor(pwm PWM, ch DCChannels) (*DCMotor, error) {
	if err := checkChannels(ch.all()...); err != nil {
		return nil, err
	}
	m := &DCMotor{pwm: pwm, ch: ch}
	for _, c := range ch.all() {
		if err := setOn(pwm, c, 0); err != nil {
			return nil, err
		}
	}
	if err := m.energize(); err != nil {
		return nil, err
	}
	return m, nil
}

// SetThrottle sets speed and direction. Valid values are in [-1, 1]; positive
// runs forward, negative backward and 0 lets the motor coast.
func (m *DCMotor) SetThrottle(throttle float64) error {
	if math.IsNaN(throttle) || throttle > 1 || throttle < -1 {
		return fmt.Errorf("%w: %g", ErrThrottleRange, throttle)
	}
	if m.released {
		if err := m.energize(); err != nil {
			return err
		}
	}
	duty := uint16(float64(MaxDuty) * math.Abs(throttle))
	var err error
	switch {
	case throttle > 0:
		if err = setFullOff(m.pwm, m.ch.Backward); err == nil {
			err = setOff(m.pwm, m.ch.Forward, duty)
		}
	case throttle < 0:
		if err = setFullOff(m.pwm, m.ch.Forward); err == nil {
			err = setOff(m.pwm, m.ch.Backward, duty)
		}
	default:
		err = setFullOff(m.pwm, m.ch.Forward, m.ch.Backward)
	}
	if err != nil {
		return err
	}
	m.throttle = throttle
	return nil
}

// Throttle returns the last throttle successfully applied.
func (m *DCMotor) Throttle() float64 {
	return m.throttle
}

// Stop turns the reference and both direction channels fully off.
func (m *DCMotor) Stop() error {
	m.released = true
	m.throttle = 0
	return setFullOff(m.pwm, m.ch.all()...)
}

// Kind implements Motor.
func (m *DCMotor) Kind() Kind {
	return KindDC
}

func (m *DCMotor) String() string {
	return fmt.Sprintf("DCMotor{fwd: %d, back: %d, ref: %d}", m.ch.Forward, m.ch.Backward, m.ch.Ref)
}

func (m *DCMotor) energize() error {
	if err := setOff(m.pwm, m.ch.Ref, MaxDuty); err != nil {
		return err
	}
	m.released = false
	return nil
}

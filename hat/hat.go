// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hat brings up a PCA9685 based motor HAT and opens the motors wired
// to it.
//
// # Product Page
//
// https://www.adafruit.com/product/2348
package hat

import (
	"fmt"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/motorhat/motor"
	"github.com/GermanBionicSystems/motorhat/pca9685"
)

// I2CAddr is the default address of the Adafruit DC and Stepper Motor HAT.
const I2CAddr uint16 = 0x60

// Opts holds the configuration options.
type Opts struct {
	// Addr is the I²C address of the PCA9685.
	Addr uint16
	// Prescale sets the PWM frequency, see pca9685.Dev.SetPrescale.
	Prescale byte
	// Layout maps motor names to channels. nil selects
	// motor.AdafruitLayout().
	Layout motor.Layout
}

// DefaultOpts is the recommended default options: address 0x60 and a prescale
// of 100, that is a PWM frequency of about 60Hz.
var DefaultOpts = Opts{
	Addr:     I2CAddr,
	Prescale: 100,
}

// Dev is a motor HAT.
type Dev struct {
	pwm    *pca9685.Dev
	layout motor.Layout
	motors map[string]motor.Motor
}

// NewI2C returns a motor HAT with every channel's on counter at 0 and the
// PWM frequency set.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	layout := opts.Layout
	if layout == nil {
		layout = motor.AdafruitLayout()
	}
	if err := layout.Validate(); err != nil {
		return nil, wrap(err)
	}
	pwm, err := pca9685.NewI2C(b, opts.Addr)
	if err != nil {
		return nil, wrap(err)
	}
	if err := pwm.SetAllOn(0); err != nil {
		return nil, wrap(err)
	}
	if err := pwm.SetPrescale(opts.Prescale); err != nil {
		return nil, wrap(err)
	}
	return &Dev{pwm: pwm, layout: layout, motors: map[string]motor.Motor{}}, nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("hat: %w", err)
}

// PWM returns the underlying PWM controller.
func (d *Dev) PWM() *pca9685.Dev {
	return d.pwm
}

// Layout returns the channel layout in use.
func (d *Dev) Layout() motor.Layout {
	return d.layout
}

// Motor opens the named motor. opts is only used for steppers and may be
// nil.
//
// Opening a motor again initializes its channels again and replaces the
// previous handle.
func (d *Dev) Motor(name string, opts *motor.StepperOpts) (motor.Motor, error) {
	m, err := d.layout.Open(d.pwm, name, opts)
	if err != nil {
		return nil, wrap(err)
	}
	d.motors[name] = m
	return m, nil
}

// DC opens the named DC motor.
func (d *Dev) DC(name string) (*motor.DCMotor, error) {
	if err := d.expect(name, motor.KindDC); err != nil {
		return nil, err
	}
	m, err := d.Motor(name, nil)
	if err != nil {
		return nil, err
	}
	return m.(*motor.DCMotor), nil
}

// Stepper opens the named stepper motor.
func (d *Dev) Stepper(name string, opts *motor.StepperOpts) (*motor.Stepper, error) {
	if err := d.expect(name, motor.KindStepper); err != nil {
		return nil, err
	}
	m, err := d.Motor(name, opts)
	if err != nil {
		return nil, err
	}
	return m.(*motor.Stepper), nil
}

func (d *Dev) expect(name string, kind motor.Kind) error {
	a, err := d.layout.Lookup(name)
	if err != nil {
		return wrap(err)
	}
	if a.Kind != kind {
		return fmt.Errorf("hat: %w: %q is a %s motor", motor.ErrInvalidConfig, name, a.Kind)
	}
	return nil
}

// Halt stops every motor opened so far, then forces all channels off.
// Failures do not prevent the remaining motors from being stopped.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	var err error
	for _, n := range d.layout.Names() {
		if m, ok := d.motors[n]; ok {
			err = multierr.Append(err, m.Stop())
		}
	}
	err = multierr.Append(err, d.pwm.Halt())
	return wrap(err)
}

func (d *Dev) String() string {
	return fmt.Sprintf("MotorHAT{%s}", d.pwm)
}

var _ conn.Resource = &Dev{}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/motorhat/hat"
	"github.com/GermanBionicSystems/motorhat/motor"
)

// config is the YAML board description.
//
//	bus: "1"
//	address: 0x60
//	prescale: 100
//	microsteps: 16
//	motors:
//	  left:  {kind: dc, ref: [8], forward: 9, backward: 10}
//	  table: {kind: stepper, ref: [2, 7], ain1: 4, ain2: 3, bin1: 5, bin2: 6}
type config struct {
	Bus        string                 `yaml:"bus"`
	Address    uint16                 `yaml:"address"`
	Prescale   uint8                  `yaml:"prescale"`
	Microsteps int                    `yaml:"microsteps"`
	Motors     map[string]motorConfig `yaml:"motors"`
}

type motorConfig struct {
	Kind     *motor.Kind `yaml:"kind"`
	Ref      []int       `yaml:"ref"`
	Forward  int         `yaml:"forward"`
	Backward int         `yaml:"backward"`
	AIn1     int         `yaml:"ain1"`
	AIn2     int         `yaml:"ain2"`
	BIn1     int         `yaml:"bin1"`
	BIn2     int         `yaml:"bin2"`
}

func defaultConfig() *config {
	return &config{
		Address:    hat.DefaultOpts.Addr,
		Prescale:   hat.DefaultOpts.Prescale,
		Microsteps: motor.DefaultStepperOpts.Microsteps,
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults, which describe the Adafruit HAT on the default bus. Unknown keys
// are rejected.
func loadConfig(path string) (*config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// layout returns the configured motors, or the Adafruit wiring when none are
// listed.
func (c *config) layout() (motor.Layout, error) {
	if len(c.Motors) == 0 {
		return motor.AdafruitLayout(), nil
	}
	l := motor.Layout{}
	for name, m := range c.Motors {
		if m.Kind == nil {
			return nil, fmt.Errorf("%w: %q has no kind", motor.ErrInvalidConfig, name)
		}
		a := motor.Assignment{Kind: *m.Kind}
		switch a.Kind {
		case motor.KindDC:
			if len(m.Ref) != 1 {
				return nil, fmt.Errorf("%w: %q needs 1 reference channel, got %d", motor.ErrInvalidConfig, name, len(m.Ref))
			}
			a.DC = motor.DCChannels{Ref: m.Ref[0], Forward: m.Forward, Backward: m.Backward}
		case motor.KindStepper:
			if len(m.Ref) != 2 {
				return nil, fmt.Errorf("%w: %q needs 2 reference channels, got %d", motor.ErrInvalidConfig, name, len(m.Ref))
			}
			a.Stepper = motor.StepperChannels{
				Ref1: m.Ref[0], Ref2: m.Ref[1],
				AIn1: m.AIn1, AIn2: m.AIn2, BIn1: m.BIn1, BIn2: m.BIn2,
			}
		}
		l[name] = a
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (c *config) hatOpts() (*hat.Opts, error) {
	l, err := c.layout()
	if err != nil {
		return nil, err
	}
	return &hat.Opts{Addr: c.Address, Prescale: c.Prescale, Layout: l}, nil
}

func (c *config) stepperOpts() *motor.StepperOpts {
	return &motor.StepperOpts{Microsteps: c.Microsteps}
}

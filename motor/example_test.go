// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor_test

import (
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/motorhat/motor"
	"github.com/GermanBionicSystems/motorhat/pca9685"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	pwm, err := pca9685.NewI2C(b, 0x60)
	if err != nil {
		log.Fatal(err)
	}
	if err := pwm.SetPrescale(100); err != nil {
		log.Fatal(err)
	}

	a, err := motor.AdafruitLayout().Lookup("Stepper1")
	if err != nil {
		log.Fatal(err)
	}
	s, err := motor.NewStepper(pwm, a.Stepper, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Stop()

	// One revolution of a 200 steps motor, 100 steps per second.
	for range 200 {
		if err := s.StepOnce(motor.Forward, motor.Double); err != nil {
			log.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	fmt.Println(s.Position())
}

func ExampleSequencer() {
	s, err := motor.NewSequencer(4)
	if err != nil {
		log.Fatal(err)
	}
	for range 4 {
		duty, _, err := s.Next(motor.Forward, motor.Interleave)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(s.Position(), duty)
	}
	// Output:
	// 2 [4095 4095 0 0]
	// 4 [0 4095 0 0]
	// 6 [0 4095 4095 0]
	// 8 [0 0 4095 0]
}

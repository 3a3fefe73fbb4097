// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package motor drives DC and stepper motors wired to the outputs of a 12-bit
// PWM controller such as the PCA9685 found on motor HATs.
//
// A DC motor uses three channels: a reference channel held at full duty and
// one channel per direction whose duty sets the speed.
//
// A stepper motor uses two reference channels and four coil channels. Each
// StepOnce call advances a microstep counter and energizes the two coils of
// the current electrical quadrant with duties taken from a quarter-sine
// current curve, so Microstep moves rotate smoothly and Single, Double and
// Interleave moves land on the classic full and half step positions.
//
// Nothing in this package sleeps, logs or locks. Step rate is set by how often
// the caller invokes StepOnce, and steppers sharing one controller must be
// serialized by the caller.
//
// # More Details
//
// https://learn.adafruit.com/adafruit-dc-and-stepper-motor-hat-for-raspberry-pi
package motor

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package motorhat is a container for the packages driving DC and stepper
// motors through a PCA9685 motor HAT.
//
// pca9685 talks to the PWM controller, motor turns steps and throttles into
// channel duties, and hat ties both to a board layout.
package motorhat

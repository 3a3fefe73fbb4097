// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hat_test

import (
	"log"
	"time"

	"github.com/GermanBionicSystems/motorhat/hat"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Open default I²C bus.
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer bus.Close()

	d, err := hat.NewI2C(bus, &hat.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	m, err := d.DC("M1")
	if err != nil {
		log.Fatal(err)
	}
	if err := m.SetThrottle(0.5); err != nil {
		log.Fatal(err)
	}
	time.Sleep(5 * time.Second)
	if err := m.SetThrottle(0); err != nil {
		log.Fatal(err)
	}
}

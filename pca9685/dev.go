// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// The PCA9685 is a sixteen-channel, 12-bit PWM controller. Each channel has
// an on-time and an off-time counter; the output is high between the two.
//
// # Datasheet
//
// https://www.nxp.com/docs/en/data-sheet/PCA9685.pdf
package pca9685

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// I2CAddr is the power-on default address of a PCA9685 with all address pins
// tied low.
const I2CAddr uint16 = 0x40

const (
	// Channels is the number of PWM outputs.
	Channels = 16
	// MaxTick is the largest on or off counter value.
	MaxTick uint16 = 4095

	// Oscillator is the frequency of the internal clock.
	Oscillator = 25 * physic.MegaHertz

	// MinPrescale is the lowest value the chip accepts in PRE_SCALE.
	MinPrescale byte = 3
)

const (
	// Register offsets from the datasheet
	_MODE1     byte = 0x00
	_MODE2     byte = 0x01
	_LED0_ON_L byte = 0x06
	_ALL_ON_L  byte = 0xFA
	_ALL_OFF_L byte = 0xFC
	_PRE_SCALE byte = 0xFE
)

const (
	_MODE1_ALLCALL byte = 0x01
	_MODE1_SLEEP   byte = 0x10
	_MODE1_AI      byte = 0x20
	_MODE1_RESTART byte = 0x80
	_MODE2_OUTDRV  byte = 0x04
	// Bit 4 of the high byte of an ON or OFF counter forces the output.
	_FULL byte = 0x10
)

var (
	// ErrInvalidChannel is returned for a channel outside [0, 15].
	ErrInvalidChannel = errors.New("pca9685: invalid channel")
	// ErrInvalidTick is returned for a counter value above MaxTick.
	ErrInvalidTick = errors.New("pca9685: tick out of range")
	// ErrInvalidPrescale is returned for a prescale below MinPrescale or a
	// frequency that cannot be reached.
	ErrInvalidPrescale = errors.New("pca9685: invalid prescale")
)

// Dev represents a PCA9685 PWM controller.
type Dev struct {
	d conn.Conn
	// bit settings for mode register 1 while awake
	mode1 byte
}

// NewI2C returns an initialized PCA9685 device, awake and with register
// auto-increment enabled. The default address is pca9685.I2CAddr.
func NewI2C(bus i2c.Bus, address uint16) (*Dev, error) {
	dev := &Dev{
		d:     &i2c.Dev{Bus: bus, Addr: address},
		mode1: _MODE1_AI | _MODE1_ALLCALL,
	}
	return dev, dev.init()
}

func (dev *Dev) init() error {
	err := dev.d.Tx([]byte{_MODE2, _MODE2_OUTDRV}, nil)
	if err == nil {
		err = dev.d.Tx([]byte{_MODE1, dev.mode1}, nil)
	}
	return wrap(err)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("pca9685: %w", err)
}

func channelReg(channel int) (byte, error) {
	if channel < 0 || channel >= Channels {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	return _LED0_ON_L + 4*byte(channel), nil
}

func (dev *Dev) write16(reg byte, tick uint16) error {
	if tick > MaxTick {
		return fmt.Errorf("%w: %d", ErrInvalidTick, tick)
	}
	return wrap(dev.d.Tx([]byte{reg, byte(tick), byte(tick >> 8)}, nil))
}

// SetOn programs the counter value at which the channel output goes high.
func (dev *Dev) SetOn(channel int, tick uint16) error {
	reg, err := channelReg(channel)
	if err != nil {
		return err
	}
	return dev.write16(reg, tick)
}

// SetOff programs the counter value at which the channel output goes low.
//
// Writing the off counter also clears a previous SetFullOff.
func (dev *Dev) SetOff(channel int, tick uint16) error {
	reg, err := channelReg(channel)
	if err != nil {
		return err
	}
	return dev.write16(reg+2, tick)
}

// SetFullOff forces the channel output low regardless of its counters.
func (dev *Dev) SetFullOff(channel int) error {
	reg, err := channelReg(channel)
	if err != nil {
		return err
	}
	return wrap(dev.d.Tx([]byte{reg + 2, 0, _FULL}, nil))
}

// SetFullOn forces the channel output high. The off counter is cleared since
// full off takes precedence over full on.
func (dev *Dev) SetFullOn(channel int) error {
	reg, err := channelReg(channel)
	if err != nil {
		return err
	}
	return wrap(dev.d.Tx([]byte{reg, 0, _FULL, 0, 0}, nil))
}

// SetAllOn programs the on counter of every channel at once.
func (dev *Dev) SetAllOn(tick uint16) error {
	return dev.write16(_ALL_ON_L, tick)
}

// SetPrescale sets the PWM period divider. The output frequency is
// Oscillator / (4096 * (prescale + 1)).
//
// The chip only latches PRE_SCALE while asleep, so the oscillator is stopped
// for the duration of the write. Channels that were running resume with their
// previous counters once the oscillator is stable.
func (dev *Dev) SetPrescale(prescale byte) error {
	if prescale < MinPrescale {
		return fmt.Errorf("%w: %d", ErrInvalidPrescale, prescale)
	}
	err := dev.d.Tx([]byte{_MODE1, dev.mode1 | _MODE1_SLEEP}, nil)
	if err == nil {
		err = dev.d.Tx([]byte{_PRE_SCALE, prescale}, nil)
	}
	if err == nil {
		err = dev.d.Tx([]byte{_MODE1, dev.mode1}, nil)
	}
	if err == nil {
		time.Sleep(oscillatorStartup)
		err = dev.d.Tx([]byte{_MODE1, dev.mode1 | _MODE1_RESTART}, nil)
	}
	return wrap(err)
}

// oscillatorStartup is the worst case time for the oscillator to settle after
// SLEEP is cleared.
const oscillatorStartup = 500 * time.Microsecond

// Prescale returns the prescale value closest to the requested frequency.
func Prescale(f physic.Frequency) (byte, error) {
	if f <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPrescale, f)
	}
	period := 4096 * f
	p := (Oscillator+period/2)/period - 1
	if p < physic.Frequency(MinPrescale) || p > 255 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPrescale, f)
	}
	return byte(p), nil
}

// SetFrequency sets the PWM output frequency, rounded to the nearest
// reachable prescale.
func (dev *Dev) SetFrequency(f physic.Frequency) error {
	p, err := Prescale(f)
	if err != nil {
		return err
	}
	return dev.SetPrescale(p)
}

// Halt forces every channel fully off. Implements conn.Resource.
func (dev *Dev) Halt() error {
	return wrap(dev.d.Tx([]byte{_ALL_OFF_L, 0, _FULL}, nil))
}

func (dev *Dev) String() string {
	return fmt.Sprintf("PCA9685::%#v", dev.d)
}

var _ conn.Resource = &Dev{}

// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pwmsim emulates a 12-bit PWM controller and shows the duty of each
// channel on the terminal (stdout) using ANSI color codes.
//
// Useful to try motor sequences without a motor HAT, or while the stepper is
// still in the mail.
package pwmsim

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
)

// MaxTick is the largest counter value of a channel.
const MaxTick uint16 = 4095

var (
	errInvalidChannel = errors.New("pwmsim: invalid channel")
	errInvalidTick    = errors.New("pwmsim: tick out of range")
)

// Opts represents the options available for this emulator.
type Opts struct {
	// Channels defaults to 16.
	Channels int
	Palette  *ansi256.Palette
	// W defaults to stdout.
	W io.Writer

	_ struct{}
}

type state struct {
	on, off         uint16
	fullOn, fullOff bool
}

// Dev is a PWM controller emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	ch      []state
	writes  int

	buf bytes.Buffer
}

// New returns a Dev with every channel low.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	n := opts.Channels
	if n <= 0 {
		n = 16
	}
	return &Dev{w: w, palette: *p, ch: make([]state, n)}
}

func (d *Dev) String() string {
	return fmt.Sprintf("PWMSim{%d}", len(d.ch))
}

// Halt implements conn.Resource.
//
// It forces every channel off and resets the terminal colors.
func (d *Dev) Halt() error {
	for i := range d.ch {
		d.ch[i].fullOff = true
	}
	if err := d.refresh(); err != nil {
		return err
	}
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// SetOn sets the counter value at which the channel goes high.
func (d *Dev) SetOn(channel int, tick uint16) error {
	return d.update(channel, tick, func(c *state) {
		c.on = tick
		c.fullOn = false
	})
}

// SetOff sets the counter value at which the channel goes low.
func (d *Dev) SetOff(channel int, tick uint16) error {
	return d.update(channel, tick, func(c *state) {
		c.off = tick
		c.fullOff = false
	})
}

// SetFullOff forces the channel low.
func (d *Dev) SetFullOff(channel int) error {
	return d.update(channel, 0, func(c *state) { c.fullOff = true })
}

// SetFullOn forces the channel high.
func (d *Dev) SetFullOn(channel int) error {
	return d.update(channel, 0, func(c *state) {
		c.fullOn = true
		c.fullOff = false
		c.off = 0
	})
}

// SetAllOn sets the on counter of every channel.
func (d *Dev) SetAllOn(tick uint16) error {
	if tick > MaxTick {
		return errInvalidTick
	}
	for i := range d.ch {
		d.ch[i].on = tick
		d.ch[i].fullOn = false
	}
	d.writes++
	return d.refresh()
}

// Duty returns the number of counts per period the channel is high, from 0
// to 4096.
func (d *Dev) Duty(channel int) uint16 {
	if channel < 0 || channel >= len(d.ch) {
		return 0
	}
	c := d.ch[channel]
	switch {
	case c.fullOff:
		return 0
	case c.fullOn:
		return MaxTick + 1
	}
	return (c.off - c.on) & MaxTick
}

// Writes returns the number of register writes received.
func (d *Dev) Writes() int {
	return d.writes
}

func (d *Dev) update(channel int, tick uint16, f func(c *state)) error {
	if channel < 0 || channel >= len(d.ch) {
		return fmt.Errorf("%w: %d", errInvalidChannel, channel)
	}
	if tick > MaxTick {
		return fmt.Errorf("%w: %d", errInvalidTick, tick)
	}
	f(&d.ch[channel])
	d.writes++
	return d.refresh()
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := range d.ch {
		v := uint8(uint32(d.Duty(i)) * 255 / uint32(MaxTick+1))
		c := color.NRGBA{v, v / 2, 0, 255}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ conn.Resource = &Dev{}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when a motor cannot be built from the
	// supplied resolution or channel assignment.
	ErrInvalidConfig = errors.New("motor: invalid configuration")

	// ErrUnknownMotor is returned when a layout has no assignment for the
	// requested motor name. It is always reported together with
	// ErrInvalidConfig.
	ErrUnknownMotor = errors.New("motor: unknown motor")

	// ErrThrottleRange is returned when a throttle is outside [-1, 1].
	ErrThrottleRange = errors.New("motor: throttle out of range")

	// ErrInvalidCommand is returned for a direction or step style that is not
	// one of the declared constants.
	ErrInvalidCommand = errors.New("motor: invalid command")
)

// ChannelError reports a PWM write that failed. Writes that preceded it in
// the same call have already been applied.
type ChannelError struct {
	Channel int
	Op      string
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("motor: %s on channel %d: %v", e.Op, e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

func setOn(p PWM, channel int, tick uint16) error {
	if err := p.SetOn(channel, tick); err != nil {
		return &ChannelError{Channel: channel, Op: "set on", Err: err}
	}
	return nil
}

func setOff(p PWM, channel int, tick uint16) error {
	if err := p.SetOff(channel, tick); err != nil {
		return &ChannelError{Channel: channel, Op: "set off", Err: err}
	}
	return nil
}

func setFullOff(p PWM, channels ...int) error {
	for _, c := range channels {
		if err := p.SetFullOff(c); err != nil {
			return &ChannelError{Channel: c, Op: "set full off", Err: err}
		}
	}
	return nil
}

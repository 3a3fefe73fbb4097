// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// write is one call recorded by fakePWM.
type write struct {
	op      string
	channel int
	tick    uint16
}

func on(c int, tick uint16) write  { return write{"on", c, tick} }
func off(c int, tick uint16) write { return write{"off", c, tick} }
func fullOff(c int) write          { return write{"full off", c, 0} }

var errWrite = errors.New("bus failure")

// fakePWM records writes. When failAt is n > 0, the n-th write fails.
type fakePWM struct {
	writes []write
	calls  int
	failAt int
}

func (f *fakePWM) SetOn(channel int, tick uint16) error {
	return f.record(on(channel, tick))
}

func (f *fakePWM) SetOff(channel int, tick uint16) error {
	return f.record(off(channel, tick))
}

func (f *fakePWM) SetFullOff(channel int) error {
	return f.record(fullOff(channel))
}

func (f *fakePWM) record(w write) error {
	f.calls++
	if f.calls == f.failAt {
		return errWrite
	}
	f.writes = append(f.writes, w)
	return nil
}

func (f *fakePWM) take() []write {
	w := f.writes
	f.writes = nil
	return w
}

func checkWrites(t *testing.T, f *fakePWM, want []write) {
	t.Helper()
	if diff := cmp.Diff(f.take(), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(write{})); diff != "" {
		t.Fatalf("writes difference (-got +want):\n%s", diff)
	}
}

func TestAdafruitLayout(t *testing.T) {
	l := AdafruitLayout()
	if err := l.Validate(); err != nil {
		t.Fatal(err)
	}
	want := []string{"M1", "M2", "M3", "M4", "Stepper1", "Stepper2"}
	if got := l.Names(); !slices.Equal(got, want) {
		t.Fatalf("wanted: %v, got: %v", want, got)
	}
	// Each call returns an independent copy.
	delete(l, "M1")
	if _, err := AdafruitLayout().Lookup("M1"); err != nil {
		t.Fatal(err)
	}
}

func TestLayoutValidate(t *testing.T) {
	for _, test := range []struct {
		name   string
		layout Layout
	}{
		{"channel out of range", Layout{"a": {Kind: KindDC, DC: DCChannels{Ref: 1, Forward: 2, Backward: 16}}}},
		{"negative channel", Layout{"a": {Kind: KindDC, DC: DCChannels{Ref: -1, Forward: 2, Backward: 3}}}},
		{"shared channel", Layout{"a": {Kind: KindStepper, Stepper: StepperChannels{
			Ref1: 8, Ref2: 13, AIn1: 10, AIn2: 9, BIn1: 11, BIn2: 9}}}},
		{"unknown kind", Layout{"a": {Kind: Kind(7)}}},
	} {
		t.Run(test.name, func(t *testing.T) {
			if err := test.layout.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected error: %v, got: %v", ErrInvalidConfig, err)
			}
		})
	}
}

func TestLayoutOpen(t *testing.T) {
	l := AdafruitLayout()
	for _, test := range []struct {
		name string
		kind Kind
	}{
		{"M3", KindDC},
		{"Stepper2", KindStepper},
	} {
		t.Run(test.name, func(t *testing.T) {
			p := &fakePWM{}
			m, err := l.Open(p, test.name, nil)
			if err != nil {
				t.Fatal(err)
			}
			if m.Kind() != test.kind {
				t.Fatalf("wanted: %s, got: %s", test.kind, m.Kind())
			}
			if len(p.writes) == 0 {
				t.Fatal("no channel initialized")
			}
		})
	}

	p := &fakePWM{}
	m, err := l.Open(p, "M5", nil)
	if !errors.Is(err, ErrUnknownMotor) || !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected error: %v, got: %v", ErrUnknownMotor, err)
	}
	if m != nil || len(p.writes) != 0 {
		t.Fatalf("unexpected motor %v, writes %v", m, p.writes)
	}

	m, err = l.Open(&fakePWM{failAt: 1}, "M1", nil)
	if !errors.Is(err, errWrite) || m != nil {
		t.Fatalf("expected error: %v, got: %v, %v", errWrite, m, err)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{KindDC, KindStepper} {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Kind
		if err := got.UnmarshalText(b); err != nil || got != k {
			t.Fatalf("wanted: %s, got: %s, %v", k, got, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("servo")); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected error: %v, got: %v", ErrInvalidConfig, err)
	}
}

func TestChannelError(t *testing.T) {
	err := error(&ChannelError{Channel: 9, Op: "set off", Err: errWrite})
	var ce *ChannelError
	if !errors.As(fmt.Errorf("step: %w", err), &ce) || ce.Channel != 9 {
		t.Fatalf("unexpected %v", ce)
	}
	if !errors.Is(err, errWrite) {
		t.Fatal("not unwrapped")
	}
	if s := err.Error(); s != "motor: set off on channel 9: bus failure" {
		t.Fatal(s)
	}
}

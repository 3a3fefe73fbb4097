// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepplot

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/GermanBionicSystems/motorhat/motor"
)

func TestSample(t *testing.T) {
	seq, err := motor.NewSequencer(16)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Sample(seq, motor.Forward, motor.Single, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := [][4]uint16{
		{4095, 0, 0, 0},
		{0, 4095, 0, 0},
		{0, 0, 4095, 0},
		{0, 0, 0, 4095},
		{4095, 0, 0, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("wanted: %v, got: %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: wanted: %v, got: %v", i, want[i], got[i])
		}
	}
	if _, err := Sample(seq, motor.Direction(9), motor.Single, 1); !errors.Is(err, motor.ErrInvalidCommand) {
		t.Fatalf("expected error: %v, got: %v", motor.ErrInvalidCommand, err)
	}
}

func TestDraw(t *testing.T) {
	seq, err := motor.NewSequencer(16)
	if err != nil {
		t.Fatal(err)
	}
	samples, err := Sample(seq, motor.Forward, motor.Microstep, 64)
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOpts
	opts.Title = "microstep"
	img, err := Draw(samples, &opts)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != opts.Width || b.Dy() != opts.Height {
		t.Fatalf("unexpected bounds %v", b)
	}
	colored := false
	for y := b.Min.Y; y < b.Max.Y && !colored; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != g || g != bl {
				colored = true
				break
			}
		}
	}
	if !colored {
		t.Fatal("no trace drawn")
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	samples := [][4]uint16{{4095, 0, 0, 0}}
	if err := Render(&buf, samples, &Opts{Width: 100, Height: 80, FontSize: 8}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 100 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if err := Render(&buf, nil, nil); !errors.Is(err, errNoSamples) {
		t.Fatalf("expected error: %v, got: %v", errNoSamples, err)
	}
}

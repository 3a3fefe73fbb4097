// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stepplot draws the coil duties of a stepper sequence as a chart,
// one lane per coil terminal.
package stepplot

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/motorhat/motor"
)

// Opts holds the chart options.
type Opts struct {
	// Width and height of the image in pixels.
	Width, Height int
	// Title is drawn above the lanes when not empty.
	Title string
	// FontSize in points.
	FontSize float64
}

// DefaultOpts is used when nil is passed.
var DefaultOpts = Opts{
	Width:    640,
	Height:   360,
	FontSize: 12,
}

var errNoSamples = errors.New("stepplot: no samples")

var labels = [4]string{
	motor.CoilAMinus: "A-",
	motor.CoilBPlus:  "B+",
	motor.CoilAPlus:  "A+",
	motor.CoilBMinus: "B-",
}

var colors = [4][3]float64{
	{0.85, 0.33, 0.10},
	{0.00, 0.45, 0.74},
	{0.93, 0.69, 0.13},
	{0.47, 0.67, 0.19},
}

var goRegular = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

func face(size float64) (font.Face, error) {
	f, err := goRegular()
	if err != nil {
		return nil, fmt.Errorf("stepplot: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// Sample runs n step commands on seq and returns the coil duties before the
// first command followed by the duties after each one.
func Sample(seq *motor.Sequencer, dir motor.Direction, style motor.Style, n int) ([][4]uint16, error) {
	out := make([][4]uint16, 0, n+1)
	out = append(out, seq.Duty(style))
	for range n {
		d, _, err := seq.Next(dir, style)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Draw renders the samples as four stacked step charts.
func Draw(samples [][4]uint16, opts *Opts) (image.Image, error) {
	dc, err := draw(samples, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Render draws the samples and writes the chart to w as PNG.
func Render(w io.Writer, samples [][4]uint16, opts *Opts) error {
	dc, err := draw(samples, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func draw(samples [][4]uint16, opts *Opts) (*gg.Context, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if len(samples) == 0 {
		return nil, errNoSamples
	}
	ff, err := face(opts.FontSize)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(ff)

	const left, right = 40.0, 10.0
	top := 10.0
	if opts.Title != "" {
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, top, 0.5, 1)
		top += 2 * opts.FontSize
	}
	laneH := (float64(opts.Height) - top - 10) / 4
	plotW := float64(opts.Width) - left - right
	dx := plotW / float64(max(len(samples)-1, 1))

	for coil := range 4 {
		base := top + laneH*float64(coil+1) - 4
		scale := (laneH - 8) / float64(motor.MaxDuty)

		dc.SetRGB(0.8, 0.8, 0.8)
		dc.SetLineWidth(1)
		dc.DrawLine(left, base, left+plotW, base)
		dc.Stroke()

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(labels[coil], left/2, base-laneH/2, 0.5, 0.5)

		c := colors[coil]
		dc.SetRGB(c[0], c[1], c[2])
		dc.SetLineWidth(2)
		for i, s := range samples {
			x := left + dx*float64(i)
			y := base - float64(s[coil])*scale
			if i == 0 {
				dc.MoveTo(x, y)
				continue
			}
			// Hold the previous value until this sample.
			dc.LineTo(x, base-float64(samples[i-1][coil])*scale)
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}
	return dc, nil
}

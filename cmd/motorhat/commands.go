// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/GermanBionicSystems/motorhat/motor"
	"github.com/GermanBionicSystems/motorhat/stepplot"
)

func runDC(ctx context.Context, b board, args []string) error {
	fs := flag.NewFlagSet("dc", flag.ContinueOnError)
	name := fs.String("motor", "M1", "motor name")
	throttle := fs.Float64("throttle", 0.5, "throttle in [-1, 1], negative runs backward")
	d := fs.Duration("for", 2*time.Second, "how long to run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := b.Motor(*name, nil)
	if err != nil {
		return err
	}
	dc, ok := m.(*motor.DCMotor)
	if !ok {
		return fmt.Errorf("%q is a %s motor", *name, m.Kind())
	}

	l := log.WithFields(log.Fields{"motor": *name, "throttle": *throttle})
	l.WithField("for", *d).Info("running")
	if err := dc.SetThrottle(*throttle); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		l.Warn("interrupted")
	case <-time.After(*d):
	}
	return dc.SetThrottle(0)
}

func runStep(ctx context.Context, b board, cfg *config, args []string) error {
	fs := flag.NewFlagSet("step", flag.ContinueOnError)
	name := fs.String("motor", "Stepper1", "motor name")
	n := fs.Int("n", 200, "number of steps")
	dirName := fs.String("dir", "forward", "forward or backward")
	styleName := fs.String("style", "single", "single, double, interleave or microstep")
	delay := fs.Duration("delay", 10*time.Millisecond, "time between steps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dir, err := motor.ParseDirection(*dirName)
	if err != nil {
		return err
	}
	style, err := motor.ParseStyle(*styleName)
	if err != nil {
		return err
	}
	if *delay <= 0 {
		return errors.New("-delay must be positive")
	}
	m, err := b.Motor(*name, cfg.stepperOpts())
	if err != nil {
		return err
	}
	s, ok := m.(*motor.Stepper)
	if !ok {
		return fmt.Errorf("%q is a %s motor", *name, m.Kind())
	}

	l := log.WithFields(log.Fields{"motor": *name, "dir": dir, "style": style})
	l.WithField("steps", *n).Info("stepping")
	t := time.NewTicker(*delay)
	defer t.Stop()
	for i := range *n {
		if err := s.StepOnce(dir, style); err != nil {
			return err
		}
		l.WithFields(log.Fields{"step": i, "position": s.Position()}).Debug("step")
		select {
		case <-ctx.Done():
			l.WithField("position", s.Position()).Warn("interrupted")
			return nil
		case <-t.C:
		}
	}
	l.WithField("position", s.Position()).Info("done")
	return nil
}

func runList(cfg *config) error {
	l, err := cfg.layout()
	if err != nil {
		return err
	}
	return printLayout(os.Stdout, l)
}

func printLayout(w io.Writer, l motor.Layout) error {
	for _, n := range l.Names() {
		a := l[n]
		var err error
		switch a.Kind {
		case motor.KindDC:
			_, err = fmt.Fprintf(w, "%-10s dc       ref %d, forward %d, backward %d\n",
				n, a.DC.Ref, a.DC.Forward, a.DC.Backward)
		case motor.KindStepper:
			c := a.Stepper
			_, err = fmt.Fprintf(w, "%-10s stepper  ref %d/%d, A %d/%d, B %d/%d\n",
				n, c.Ref1, c.Ref2, c.AIn1, c.AIn2, c.BIn1, c.BIn2)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func runPlot(cfg *config, args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	microsteps := fs.Int("microsteps", cfg.Microsteps, "microsteps per quadrant")
	n := fs.Int("n", 64, "number of steps")
	dirName := fs.String("dir", "forward", "forward or backward")
	styleName := fs.String("style", "microstep", "single, double, interleave or microstep")
	out := fs.String("o", "coils.png", "output PNG file")
	width := fs.Int("width", stepplot.DefaultOpts.Width, "image width")
	height := fs.Int("height", stepplot.DefaultOpts.Height, "image height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dir, err := motor.ParseDirection(*dirName)
	if err != nil {
		return err
	}
	style, err := motor.ParseStyle(*styleName)
	if err != nil {
		return err
	}
	seq, err := motor.NewSequencer(*microsteps)
	if err != nil {
		return err
	}
	samples, err := stepplot.Sample(seq, dir, style, *n)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	opts := stepplot.DefaultOpts
	opts.Width, opts.Height = *width, *height
	opts.Title = fmt.Sprintf("%d %s %s steps, %d microsteps", *n, dir, style, *microsteps)
	if err := stepplot.Render(f, samples, &opts); err != nil {
		f.Close()
		return err
	}
	log.WithFields(log.Fields{"file": *out, "samples": len(samples)}).Info("plot written")
	return f.Close()
}

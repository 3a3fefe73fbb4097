// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// motorhat drives the DC and stepper motors of a PCA9685 motor HAT.
//
// Usage:
//
//	motorhat [-config board.yaml] [-sim] [-v] dc -motor M1 -throttle 0.5 -for 5s
//	motorhat [-config board.yaml] [-sim] [-v] step -motor Stepper1 -n 200 -style double
//	motorhat [-config board.yaml] list
//	motorhat [-config board.yaml] plot -style microstep -n 64 -o coils.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/motorhat/hat"
	"github.com/GermanBionicSystems/motorhat/motor"
	"github.com/GermanBionicSystems/motorhat/pwmsim"
)

// board is implemented by *hat.Dev and *simBoard.
type board interface {
	Motor(name string, opts *motor.StepperOpts) (motor.Motor, error)
	Halt() error
	String() string
}

// simBoard runs the configured layout on a terminal PWM emulator.
type simBoard struct {
	pwm    *pwmsim.Dev
	layout motor.Layout
	opened []motor.Motor
}

func (s *simBoard) Motor(name string, opts *motor.StepperOpts) (motor.Motor, error) {
	m, err := s.layout.Open(s.pwm, name, opts)
	if err != nil {
		return nil, err
	}
	s.opened = append(s.opened, m)
	return m, nil
}

func (s *simBoard) Halt() error {
	var err error
	for _, m := range s.opened {
		err = multierr.Append(err, m.Stop())
	}
	return multierr.Append(err, s.pwm.Halt())
}

func (s *simBoard) String() string {
	return s.pwm.String()
}

// openBoard returns the board and a function releasing the bus.
func openBoard(cfg *config, sim bool) (board, func() error, error) {
	opts, err := cfg.hatOpts()
	if err != nil {
		return nil, nil, err
	}
	if sim {
		b := &simBoard{pwm: pwmsim.New(&pwmsim.Opts{}), layout: opts.Layout}
		return b, func() error { return nil }, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, nil, err
	}
	d, err := hat.NewI2C(bus, opts)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	return d, bus.Close, nil
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <dc|step|list|plot> [command flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func mainImpl() error {
	cfgPath := flag.String("config", "", "YAML board description; defaults to the Adafruit motor HAT")
	sim := flag.Bool("sim", false, "emulate the PWM controller on the terminal")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Usage = usage
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if flag.NArg() == 0 {
		usage()
		return errors.New("missing command")
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "plot":
		return runPlot(cfg, args)
	case "list":
		return runList(cfg)
	}

	b, closeBus, err := openBoard(cfg, *sim)
	if err != nil {
		return err
	}
	log.WithField("board", b.String()).Debug("board ready")
	defer func() {
		if err := multierr.Append(b.Halt(), closeBus()); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "dc":
		return runDC(ctx, b, args)
	case "step":
		return runStep(ctx, b, cfg, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "motorhat: %s.\n", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Run   RunCommand   `command:"run" alias:"teleop" description:"Start keyboard teleoperation against the built-in step engine"`
	Setup SetupCommand `command:"setup" description:"Scan for a servo arm and calibrate the hardware mirror"`
	Init  InitCommand  `command:"init" description:"Write a default robot configuration file"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "teleoparm - keyboard teleoperation for a planar 2-link robot arm, mobile base, and pan/tilt head"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

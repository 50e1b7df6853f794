package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"uav-deconfliction/pkg/types"
)

var ErrUnknownCommand = errors.New("unknown command")

type commandType int

const (
	cmdSeek commandType = iota
	cmdPlay
	cmdPause
	cmdRate
	cmdSelect
	cmdFit
)

type command struct {
	Type  commandType
	Value float64       // seconds for cmdSeek, multiplier for cmdRate
	Drone types.DroneID // cmdSelect; empty clears the selection
}

// parseCommand parses one line typed into the command prompt:
//
//	T|TIME <sec>   seek to seconds since the scene start
//	PLAY, PAUSE
//	RATE <x>       playback speed multiplier
//	SELECT [drone]
//	FIT            frame the whole scene
func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, fmt.Errorf("%w: empty", ErrUnknownCommand)
	}

	value := func() (float64, error) {
		if len(parts) != 2 {
			return 0, fmt.Errorf("%s: expected one value", parts[0])
		}
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid value %q", parts[0], parts[1])
		}
		return v, nil
	}

	switch strings.ToUpper(parts[0]) {
	case "T", "TIME":
		v, err := value()
		if err != nil {
			return command{}, err
		}
		if v < 0 {
			return command{}, fmt.Errorf("%s: time must not be negative", parts[0])
		}
		return command{Type: cmdSeek, Value: v}, nil
	case "RATE":
		v, err := value()
		if err != nil {
			return command{}, err
		}
		if v <= 0 {
			return command{}, fmt.Errorf("%s: rate must be positive", parts[0])
		}
		return command{Type: cmdRate, Value: v}, nil
	case "PLAY":
		return command{Type: cmdPlay}, nil
	case "PAUSE":
		return command{Type: cmdPause}, nil
	case "FIT":
		return command{Type: cmdFit}, nil
	case "SELECT":
		if len(parts) > 2 {
			return command{}, fmt.Errorf("%s: expected at most one drone", parts[0])
		}
		c := command{Type: cmdSelect}
		if len(parts) == 2 {
			c.Drone = types.DroneID(parts[1])
		}
		return c, nil
	default:
		return command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, parts[0])
	}
}

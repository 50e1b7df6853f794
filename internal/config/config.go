package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"uav-deconfliction/pkg/types"
)

// Config holds the analysis parameters and ambient settings shared by the
// command line tools.
type Config struct {
	// Sampling
	TimeStep time.Duration `json:"time_step"` // simulator step and merge tolerance base

	// Separation
	SafetyBuffer float64       `json:"safety_buffer"` // meters
	TimeBuffer   time.Duration `json:"time_buffer"`   // max sample time offset

	// Missions
	DefaultSpeed float64 `json:"default_speed"` // m/s when a drone gives none

	// Detection
	Workers int `json:"workers"` // concurrent mission pair scans; <= 0 means NumCPU

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

func DefaultConfig() *Config {
	return &Config{
		TimeStep:     50 * time.Millisecond,
		SafetyBuffer: 1.0,
		TimeBuffer:   15100 * time.Millisecond,
		DefaultSpeed: 5,
		Workers:      runtime.NumCPU(),
		LogLevel:     "info",
	}
}

// Load reads a JSON config file on top of the defaults. Durations are
// given in seconds in the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f struct {
		TimeStep     *float64 `json:"time_step"`
		SafetyBuffer *float64 `json:"safety_buffer"`
		TimeBuffer   *float64 `json:"time_buffer"`
		DefaultSpeed *float64 `json:"default_speed"`
		Workers      *int     `json:"workers"`
		LogLevel     *string  `json:"log_level"`
		LogFile      *string  `json:"log_file"`
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if f.TimeStep != nil {
		cfg.TimeStep = types.Seconds(*f.TimeStep)
	}
	if f.SafetyBuffer != nil {
		cfg.SafetyBuffer = *f.SafetyBuffer
	}
	if f.TimeBuffer != nil {
		cfg.TimeBuffer = types.Seconds(*f.TimeBuffer)
	}
	if f.DefaultSpeed != nil {
		cfg.DefaultSpeed = *f.DefaultSpeed
	}
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	if f.LogFile != nil {
		cfg.LogFile = *f.LogFile
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.TimeStep <= 0 {
		return fmt.Errorf("time step must be positive, got %s", c.TimeStep)
	}
	if c.SafetyBuffer < 0 {
		return fmt.Errorf("safety buffer must not be negative, got %g", c.SafetyBuffer)
	}
	if c.TimeBuffer < 0 {
		return fmt.Errorf("time buffer must not be negative, got %s", c.TimeBuffer)
	}
	if c.DefaultSpeed <= 0 {
		return fmt.Errorf("default speed must be positive, got %g", c.DefaultSpeed)
	}
	return nil
}

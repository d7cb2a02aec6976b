// Package config loads slider and CLI configuration from the environment,
// .env files and an optional YAML file.
package config

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/teranos/rangeseek"
)

// Default values. Struct tag defaults in env.go must match these.
const (
	DefaultMin          = 0.0
	DefaultMax          = 100.0
	DefaultSteps        = 20
	DefaultGap          = 1
	DefaultTolerance    = 1.0
	DefaultHandleWidth  = 1.0
	DefaultHandleHeight = 1.0
	DefaultMargin       = 1
	DefaultLogLevel     = "INFO"
)

// Config is the resolved application configuration.
type Config struct {
	Min          float64
	Max          float64
	Steps        int
	Gap          int
	Tolerance    float64
	HandleWidth  float64
	HandleHeight float64
	Margin       int
	StateFile    string
	LogLevel     string
	LogFile      string
}

// NewConfig returns the defaults.
func NewConfig() Config {
	return Config{
		Min:          DefaultMin,
		Max:          DefaultMax,
		Steps:        DefaultSteps,
		Gap:          DefaultGap,
		Tolerance:    DefaultTolerance,
		HandleWidth:  DefaultHandleWidth,
		HandleHeight: DefaultHandleHeight,
		Margin:       DefaultMargin,
		LogLevel:     DefaultLogLevel,
	}
}

// Scale returns the configured value range.
func (c Config) Scale() rangeseek.Scale {
	return rangeseek.Scale{Min: c.Min, Max: c.Max, Steps: c.Steps}
}

// ControllerConfig builds the controller configuration for a track.
func (c Config) ControllerConfig(track rangeseek.Track, logger logrus.FieldLogger) rangeseek.Config {
	return rangeseek.Config{
		Scale:      c.Scale(),
		Track:      track,
		HandleSize: rangeseek.Size{Width: c.HandleWidth, Height: c.HandleHeight},
		Gap:        c.Gap,
		Tolerance:  c.Tolerance,
		Logger:     logger,
	}
}

// ModelConfig builds the terminal model configuration.
func (c Config) ModelConfig(logger logrus.FieldLogger) rangeseek.ModelConfig {
	return rangeseek.ModelConfig{
		Scale:     c.Scale(),
		Gap:       c.Gap,
		Tolerance: c.Tolerance,
		Margin:    c.Margin,
		Logger:    logger,
	}
}

// Validate applies the controller's construction rules. The error matches
// rangeseek.ErrConfiguration.
func (c Config) Validate() error {
	if _, err := c.ParseLogLevel(); err != nil {
		return err
	}
	return c.ControllerConfig(rangeseek.Track{}, nil).Validate()
}

// ParseLogLevel maps LogLevel, in any case, to a logrus level.
func (c Config) ParseLogLevel() (logrus.Level, error) {
	return logrus.ParseLevel(strings.ToLower(c.LogLevel))
}

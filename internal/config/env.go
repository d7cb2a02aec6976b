package config

import (
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable, e.g. RANGESEEK_STEPS.
const EnvPrefix = "RANGESEEK"

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Min is the value at the left end of the track.
	// Env: MIN (default: 0)
	Min float64 `envconfig:"MIN" default:"0"`

	// Max is the value at the right end of the track.
	// Env: MAX (default: 100)
	Max float64 `envconfig:"MAX" default:"100"`

	// Steps is the number of equal steps between Min and Max.
	// Env: STEPS (default: 20)
	Steps int `envconfig:"STEPS" default:"20"`

	// Gap is the minimum number of steps between the handles.
	// Env: GAP (default: 1)
	Gap int `envconfig:"GAP" default:"1"`

	// Tolerance expands handle hit areas, in cells.
	// Env: TOLERANCE (default: 1)
	Tolerance float64 `envconfig:"TOLERANCE" default:"1"`

	// HandleWidth and HandleHeight size the handles for rendered frames.
	// Env: HANDLE_WIDTH, HANDLE_HEIGHT (default: 1)
	HandleWidth  float64 `envconfig:"HANDLE_WIDTH" default:"1"`
	HandleHeight float64 `envconfig:"HANDLE_HEIGHT" default:"1"`

	// Margin is the number of blank columns on each side of the track.
	// Env: MARGIN (default: 1)
	Margin int `envconfig:"MARGIN" default:"1"`

	// StateFile is where the selected range is kept between runs.
	// Env: STATE_FILE
	// Default: no persistence
	StateFile string `envconfig:"STATE_FILE"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFile receives logs while the terminal UI owns stdout.
	// Env: LOG_FILE
	// Default: logs are discarded while the UI runs
	LogFile string `envconfig:"LOG_FILE"`
}

// LoadFromEnv loads configuration from RANGESEEK_ variables.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvWithPrefix(EnvPrefix)
}

// LoadFromEnvWithPrefix loads configuration using a custom prefix.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToConfig converts EnvConfig to a Config.
func (e EnvConfig) ToConfig() Config {
	return Config{
		Min:          e.Min,
		Max:          e.Max,
		Steps:        e.Steps,
		Gap:          e.Gap,
		Tolerance:    e.Tolerance,
		HandleWidth:  e.HandleWidth,
		HandleHeight: e.HandleHeight,
		Margin:       e.Margin,
		StateFile:    e.StateFile,
		LogLevel:     e.LogLevel,
		LogFile:      e.LogFile,
	}
}

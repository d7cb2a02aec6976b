package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file. Only the keys present in the
// file override the environment.
//
//	min: 0
//	max: 500
//	steps: 50
//	gap: 2
//	state_file: ~/.rangeseek/state.yaml
type FileConfig struct {
	Min          *float64 `yaml:"min"`
	Max          *float64 `yaml:"max"`
	Steps        *int     `yaml:"steps"`
	Gap          *int     `yaml:"gap"`
	Tolerance    *float64 `yaml:"tolerance"`
	HandleWidth  *float64 `yaml:"handle_width"`
	HandleHeight *float64 `yaml:"handle_height"`
	Margin       *int     `yaml:"margin"`
	StateFile    *string  `yaml:"state_file"`
	LogLevel     *string  `yaml:"log_level"`
	LogFile      *string  `yaml:"log_file"`
}

// LoadFile reads a YAML configuration file. Unknown keys are rejected.
func LoadFile(path string) (FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileConfig{}, err
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return FileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// Apply returns cfg with every key set in the file overridden.
func (fc FileConfig) Apply(cfg Config) Config {
	setFloat(&cfg.Min, fc.Min)
	setFloat(&cfg.Max, fc.Max)
	setInt(&cfg.Steps, fc.Steps)
	setInt(&cfg.Gap, fc.Gap)
	setFloat(&cfg.Tolerance, fc.Tolerance)
	setFloat(&cfg.HandleWidth, fc.HandleWidth)
	setFloat(&cfg.HandleHeight, fc.HandleHeight)
	setInt(&cfg.Margin, fc.Margin)
	setString(&cfg.StateFile, fc.StateFile)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFile, fc.LogFile)
	return cfg
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

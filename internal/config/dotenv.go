package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file.
// If path is empty, it loads from ".env" in the current directory.
// If the file does not exist, it silently returns nil (not an error).
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	return godotenv.Load(path)
}

// LoadConfig resolves configuration in order: defaults, the .env file
// (optional), environment variables, then the YAML file when filePath is
// set. The result is validated.
func LoadConfig(envPath, filePath string) (Config, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return Config{}, err
	}

	envCfg, err := LoadFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg := envCfg.ToConfig()

	if filePath != "" {
		fc, err := LoadFile(filePath)
		if err != nil {
			return Config{}, err
		}
		cfg = fc.Apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

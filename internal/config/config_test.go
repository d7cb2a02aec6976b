package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/rangeseek"
)

var envVars = []string{
	"RANGESEEK_MIN",
	"RANGESEEK_MAX",
	"RANGESEEK_STEPS",
	"RANGESEEK_GAP",
	"RANGESEEK_TOLERANCE",
	"RANGESEEK_HANDLE_WIDTH",
	"RANGESEEK_HANDLE_HEIGHT",
	"RANGESEEK_MARGIN",
	"RANGESEEK_STATE_FILE",
	"RANGESEEK_LOG_LEVEL",
	"RANGESEEK_LOG_FILE",
}

// clearEnvVars unsets every variable for the duration of the test.
func clearEnvVars(t *testing.T) {
	t.Helper()

	for _, v := range envVars {
		t.Setenv(v, "")
		_ = os.Unsetenv(v)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, NewConfig(), cfg.ToConfig(), "struct tag defaults should match NewConfig")
	assert.Equal(t, "", cfg.StateFile)
	assert.Equal(t, "", cfg.LogFile)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("RANGESEEK_MIN", "-50")
	t.Setenv("RANGESEEK_MAX", "50")
	t.Setenv("RANGESEEK_STEPS", "10")
	t.Setenv("RANGESEEK_GAP", "3")
	t.Setenv("RANGESEEK_STATE_FILE", "/tmp/state.yaml")
	t.Setenv("RANGESEEK_LOG_LEVEL", "debug")

	env, err := LoadFromEnv()
	require.NoError(t, err)
	cfg := env.ToConfig()

	assert.Equal(t, rangeseek.Scale{Min: -50, Max: 50, Steps: 10}, cfg.Scale())
	assert.Equal(t, 3, cfg.Gap)
	assert.Equal(t, "/tmp/state.yaml", cfg.StateFile)

	level, err := cfg.ParseLogLevel()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, level)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("RANGESEEK_STEPS", "many")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnvWithPrefix(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SLIDER_STEPS", "7")

	cfg, err := LoadFromEnvWithPrefix("SLIDER")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Steps)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, NewConfig().Validate())

	cases := map[string]func(*Config){
		"zero steps":      func(c *Config) { c.Steps = 0 },
		"inverted scale":  func(c *Config) { c.Min, c.Max = 10, 0 },
		"gap above steps": func(c *Config) { c.Gap = c.Steps + 1 },
		"negative handle": func(c *Config) { c.HandleWidth = -1 },
		"negative tol":    func(c *Config) { c.Tolerance = -0.5 },
		"NaN tol":         func(c *Config) { c.Tolerance = math.NaN() },
		"infinite max":    func(c *Config) { c.Max = math.Inf(1) },
		"NaN min":         func(c *Config) { c.Min = math.NaN() },
		"infinite handle": func(c *Config) { c.HandleHeight = math.Inf(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, rangeseek.ErrConfiguration))
		})
	}

	cfg := NewConfig()
	cfg.LogLevel = "chatty"
	assert.Error(t, cfg.Validate())
}

func TestConfig_ControllerConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.HandleWidth = 3

	track := rangeseek.Track{Start: 1, Length: 40}
	cc := cfg.ControllerConfig(track, nil)
	assert.Equal(t, track, cc.Track)
	assert.Equal(t, rangeseek.Size{Width: 3, Height: 1}, cc.HandleSize)
	assert.Equal(t, cfg.Gap, cc.Gap)

	ctrl, err := rangeseek.NewController(cc)
	require.NoError(t, err)
	lesser, larger := ctrl.Steps()
	assert.Equal(t, 0, lesser)
	assert.Equal(t, DefaultSteps, larger)

	mc := cfg.ModelConfig(nil)
	assert.Equal(t, DefaultMargin, mc.Margin)
	assert.Equal(t, cfg.Scale(), mc.Scale)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "rangeseek.yaml", "max: 500\nsteps: 50\nstate_file: state.yaml\n")

	fc, err := LoadFile(path)
	require.NoError(t, err)

	cfg := fc.Apply(NewConfig())
	assert.Equal(t, 0.0, cfg.Min, "absent keys keep their value")
	assert.Equal(t, 500.0, cfg.Max)
	assert.Equal(t, 50, cfg.Steps)
	assert.Equal(t, "state.yaml", cfg.StateFile)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = LoadFile(writeFile(t, "bad.yaml", "steps: [1, 2\n"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "unknown.yaml", "stepz: 5\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestLoadDotEnv(t *testing.T) {
	clearEnvVars(t)

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := writeFile(t, "test.env", "RANGESEEK_STEPS=8\nRANGESEEK_GAP=2\n")
	require.NoError(t, LoadDotEnv(path))

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Steps)
	assert.Equal(t, 2, cfg.Gap)
}

func TestLoadConfig(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("RANGESEEK_STEPS", "40")

	envPath := writeFile(t, "test.env", "RANGESEEK_STEPS=8\nRANGESEEK_MAX=400\n")
	filePath := writeFile(t, "rangeseek.yaml", "gap: 4\n")

	cfg, err := LoadConfig(envPath, filePath)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Steps, "environment wins over .env")
	assert.Equal(t, 400.0, cfg.Max)
	assert.Equal(t, 4, cfg.Gap)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnvVars(t)

	filePath := writeFile(t, "rangeseek.yaml", "gap: 500\n")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"), filePath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rangeseek.ErrConfiguration))

	_, err = LoadConfig("", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_NonFinite(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	for name, env := range map[string][2]string{
		"infinite max":  {"RANGESEEK_MAX", "Inf"},
		"NaN tolerance": {"RANGESEEK_TOLERANCE", "NaN"},
	} {
		t.Run(name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv(env[0], env[1])

			_, err := LoadConfig(missing, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, rangeseek.ErrConfiguration), "got %v", err)
		})
	}
}

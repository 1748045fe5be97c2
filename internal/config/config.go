// Package config loads go-affect runtime settings from the environment and
// scenario definitions from YAML files.
package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults applied when a variable is unset or unparsable.
const (
	DefaultLogLevel    = "info"
	DefaultDecayPeriod = time.Second
	DefaultDecaySteps  = 10
)

// Config holds runtime settings.
type Config struct {
	LogLevel     string
	DecayPeriod  time.Duration
	DecaySteps   int
	WebPort      string
	JournalPath  string
	ScenarioPath string
}

// Load reads AFFECT_* env vars and applies defaults.
// An empty WebPort disables the dashboard; an empty JournalPath disables the journal.
func Load() Config {
	cfg := Config{
		LogLevel:     getEnv("AFFECT_LOG_LEVEL", DefaultLogLevel),
		DecayPeriod:  getEnvDuration("AFFECT_DECAY_PERIOD", DefaultDecayPeriod),
		DecaySteps:   getEnvInt("AFFECT_DECAY_STEPS", DefaultDecaySteps),
		WebPort:      os.Getenv("AFFECT_WEB_PORT"),
		JournalPath:  os.Getenv("AFFECT_JOURNAL"),
		ScenarioPath: os.Getenv("AFFECT_SCENARIO"),
	}

	if cfg.DecayPeriod <= 0 {
		cfg.DecayPeriod = DefaultDecayPeriod
	}
	if cfg.DecaySteps <= 0 {
		cfg.DecaySteps = DefaultDecaySteps
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

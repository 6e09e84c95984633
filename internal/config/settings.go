package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PLANNER"

// Settings holds process-level options for the CLI and API server. Plan
// inputs live in parameter files, not here.
type Settings struct {
	Log    LogSettings
	Server ServerSettings
	Solver SolverSettings
}

type LogSettings struct {
	Level  string
	Format string
}

type ServerSettings struct {
	Addr         string
	SolveTimeout time.Duration
}

type SolverSettings struct {
	Tolerance     float64
	MaxIterations int
}

var defaults = map[string]any{
	"log.level":             "info",
	"log.format":            "console",
	"server.addr":           ":8080",
	"server.solve_timeout":  "10s",
	"solver.tolerance":      100.0,
	"solver.max_iterations": 500,
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// LoadSettings reads the settings file at path, when path is non-empty, and
// applies PLANNER_* environment overrides (PLANNER_SERVER_ADDR and so on)
// on top of the defaults.
func LoadSettings(path string) (*Settings, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	}

	s := &Settings{
		Log: LogSettings{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Server: ServerSettings{
			Addr:         v.GetString("server.addr"),
			SolveTimeout: v.GetDuration("server.solve_timeout"),
		},
		Solver: SolverSettings{
			Tolerance:     v.GetFloat64("solver.tolerance"),
			MaxIterations: v.GetInt("solver.max_iterations"),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return s, nil
}

// Validate checks ranges and enumerations.
func (s *Settings) Validate() error {
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", s.Log.Level)
	}
	switch s.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json: got %q", s.Log.Format)
	}
	if s.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if s.Server.SolveTimeout <= 0 {
		return fmt.Errorf("server.solve_timeout must be positive")
	}
	if s.Solver.Tolerance <= 0 {
		return fmt.Errorf("solver.tolerance must be positive")
	}
	if s.Solver.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations must be positive")
	}
	return nil
}

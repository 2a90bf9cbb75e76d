package main

import (
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/baseball-sim/matchup-engine/simulation"
)

// TestNewConfig tests environment overrides and defaults
func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"PORT", "DB_HOST", "DATABASE_ENABLED", "WORKERS", "SIMULATION_RUNS", "MAX_SIMULATION_RUNS", "LOG_LEVEL"} {
			t.Setenv(key, "")
		}

		config := NewConfig()
		assert.Equal(t, "8081", config.Port)
		assert.False(t, config.DatabaseEnabled)
		assert.Equal(t, runtime.NumCPU(), config.Workers)
		assert.Equal(t, 1000, config.SimulationRuns)
		assert.Equal(t, simulation.DefaultMaxSimulationRuns, config.MaxSimulationRuns)
		assert.Equal(t, "info", config.LogLevel)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DATABASE_ENABLED", "true")
		t.Setenv("WORKERS", "3")
		t.Setenv("SIMULATION_RUNS", "not-a-number")
		t.Setenv("MAX_SIMULATION_RUNS", "5000")
		for _, key := range []string{"DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
			t.Setenv(key, "")
		}

		config := NewConfig()
		assert.Equal(t, "9000", config.Port)
		assert.True(t, config.DatabaseEnabled)
		assert.Equal(t, 3, config.Workers)
		assert.Equal(t, 1000, config.SimulationRuns, "bad ints fall back to the default")
		assert.Equal(t, 5000, config.MaxSimulationRuns)
		assert.Equal(t, "postgresql://baseball_user:baseball_pass@db:5432/baseball_sim", config.DatabaseURL())
	})
}

// TestNewLogger tests level parsing
func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, newLogger(tt.level).GetLevel())
		})
	}
}

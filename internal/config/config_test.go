package config

import (
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
)

func TestNewDefaults(t *testing.T) {
	c := New()
	require.NoError(t, c.Validate())
	assert.Equal(t, 9997, c.Port)
	assert.Equal(t, "0.0.0.0:9997", c.Addr())
	assert.Equal(t, SourceNoise, c.Source)
	assert.Equal(t, 0.1, c.Amp)

	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"block size", func(c *Config) { c.BlockSize = -1 }},
		{"ramp time", func(c *Config) { c.RampTime = 0 }},
		{"source", func(c *Config) { c.Source = "" }},
		{"negative amp", func(c *Config) { c.Amp = -1 }},
		{"NaN amp", func(c *Config) { c.Amp = math.NaN() }},
		{"describe interval", func(c *Config) { c.DescribeInterval = -time.Second }},
		{"log level", func(c *Config) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestLevel(t *testing.T) {
	c := New()
	c.LogLevel = "DEBUG"
	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestProcessorOptions(t *testing.T) {
	c := New()
	c.SampleRate = 48000
	c.BlockSize = 128
	c.RampTime = 20 * time.Millisecond

	pc := core.ApplyProcessorOptions(c.ProcessorOptions()...)
	assert.Equal(t, core.ProcessorConfig{SampleRate: 48000, BlockSize: 128, RampTime: 0.02}, pc)
}

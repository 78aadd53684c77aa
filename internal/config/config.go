// Package config holds the startup settings of the equalizer process.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Defaults.
const (
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 9997
	DefaultSampleRate       = 44100
	DefaultBlockSize        = 256
	DefaultRampTime         = 50 * time.Millisecond
	DefaultAmp              = 0.1
	DefaultDescribeInterval = time.Second
	DefaultLogLevel         = "info"
)

// SourceNoise selects the built-in white noise source.
const SourceNoise = "noise"

// Config is the process configuration.
type Config struct {
	// Host and Port are the UDP address the control server binds.
	Host string
	Port int

	SampleRate int
	BlockSize  int
	RampTime   time.Duration

	// Source is SourceNoise or the path of a WAV file played in a loop.
	Source string

	// Amp is the output gain applied after the equalizer.
	Amp float64

	// DescribeInterval is the period of the settings printout; 0 disables it.
	DescribeInterval time.Duration

	LogLevel string
}

// New returns the default configuration.
func New() Config {
	return Config{
		Host:             DefaultHost,
		Port:             DefaultPort,
		SampleRate:       DefaultSampleRate,
		BlockSize:        DefaultBlockSize,
		RampTime:         DefaultRampTime,
		Source:           SourceNoise,
		Amp:              DefaultAmp,
		DescribeInterval: DefaultDescribeInterval,
		LogLevel:         DefaultLogLevel,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("config: port %d: %w", c.Port, ErrInvalid)
	case c.SampleRate <= 0:
		return fmt.Errorf("config: sample rate %d: %w", c.SampleRate, ErrInvalid)
	case c.BlockSize <= 0:
		return fmt.Errorf("config: block size %d: %w", c.BlockSize, ErrInvalid)
	case c.RampTime <= 0:
		return fmt.Errorf("config: ramp time %v: %w", c.RampTime, ErrInvalid)
	case c.Source == "":
		return fmt.Errorf("config: empty source: %w", ErrInvalid)
	case c.Amp < 0 || math.IsNaN(c.Amp) || math.IsInf(c.Amp, 0):
		return fmt.Errorf("config: amp %v: %w", c.Amp, ErrInvalid)
	case c.DescribeInterval < 0:
		return fmt.Errorf("config: describe interval %v: %w", c.DescribeInterval, ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", c.LogLevel, ErrInvalid)
	}
	return lvl, nil
}

// ProcessorOptions maps the audio settings onto chain options.
func (c Config) ProcessorOptions() []core.ProcessorOption {
	return []core.ProcessorOption{
		core.WithSampleRate(float64(c.SampleRate)),
		core.WithBlockSize(c.BlockSize),
		core.WithRampTime(c.RampTime.Seconds()),
	}
}

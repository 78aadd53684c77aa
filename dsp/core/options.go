package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned by ProcessorConfig.Validate.
var ErrInvalidConfig = errors.New("invalid processor config")

// ProcessorConfig defines the real-time processing settings fixed at startup.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int

	// RampTime is the time in seconds a parameter smoother needs to sweep its
	// full span. It bounds the per-sample step of every smoothed parameter.
	RampTime float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the defaults used by the equalizer process.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 44100,
		BlockSize:  256,
		RampTime:   0.05,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithRampTime sets the smoothing ramp time in seconds.
func WithRampTime(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			cfg.RampTime = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports whether cfg can drive a processor.
func (cfg ProcessorConfig) Validate() error {
	if !IsFinite(cfg.SampleRate) || cfg.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, cfg.BlockSize)
	}
	if !IsFinite(cfg.RampTime) || cfg.RampTime <= 0 {
		return fmt.Errorf("%w: ramp time %v", ErrInvalidConfig, cfg.RampTime)
	}
	return nil
}

// Nyquist returns half the sample rate.
func (cfg ProcessorConfig) Nyquist() float64 {
	return cfg.SampleRate / 2
}

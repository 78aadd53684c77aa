package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/eq"
	"github.com/RiccardoCataldi/OscParametricEq/internal/config"
	"github.com/RiccardoCataldi/OscParametricEq/measure/response"
)

// measureLength is the impulse length used for response measurements.
const measureLength = 1 << 15

// measureSnapshot loads snap into an offline chain and measures its
// impulse response. The live chain is not touched.
func measureSnapshot(cfg config.Config, snap eq.Snapshot) (*response.Result, error) {
	opts := append(cfg.ProcessorOptions(), core.WithSampleRate(snap.SampleRate))
	chain, err := eq.NewChain(opts...)
	if err != nil {
		return nil, err
	}
	for i, b := range snap.Bands {
		for _, f := range eq.Fields {
			if err := chain.SetParameter(i, f, b.Get(f)); err != nil {
				return nil, err
			}
		}
	}
	if err := chain.SetMul(snap.Mul); err != nil {
		return nil, err
	}
	chain.Reset()

	return response.Measure(chain, measureLength, snap.SampleRate)
}

// responseMonitor logs the measured gain at each band frequency at debug
// level whenever the settings change.
type responseMonitor struct {
	cfg    config.Config
	logger *slog.Logger

	last   eq.Snapshot
	primed bool
}

func (m *responseMonitor) check(ctx context.Context, snap eq.Snapshot) {
	if !m.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	snap.Faults = 0
	if m.primed && snap == m.last {
		return
	}
	m.last, m.primed = snap, true

	res, err := measureSnapshot(m.cfg, snap)
	if err != nil {
		m.logger.Warn("measure response", "err", err)
		return
	}

	attrs := make([]any, 0, 2*eq.NumBands)
	for _, b := range snap.Bands {
		attrs = append(attrs, b.Label, fmt.Sprintf("%.2fdB@%gHz", res.At(b.Freq), b.Freq))
	}
	m.logger.Debug("measured response", attrs...)
}

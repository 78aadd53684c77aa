// Command parameq runs the five-band parametric equalizer on a noise or WAV
// source and listens for OSC control messages.
//
// Usage:
//
//	parameq [flags]
//
// Examples:
//
//	parameq
//	parameq -port 9000 -source loop.wav -amp 0.3
//	parameq -log-level debug -describe 0
//
// Control addresses: /freq1../freq5, /q1../q5, /boost1../boost5,
// /bypass1../bypass5 and /mul, each taking one numeric argument. /play 0
// silences the output and /play 1 resumes it. At -log-level debug the
// measured response is logged whenever the settings change.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RiccardoCataldi/OscParametricEq/control"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/eq"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/filter/biquad"
	"github.com/RiccardoCataldi/OscParametricEq/internal/audio"
	"github.com/RiccardoCataldi/OscParametricEq/internal/config"
	"github.com/RiccardoCataldi/OscParametricEq/internal/oscserver"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (config.Config, error) {
	cfg := config.New()

	fs := flag.NewFlagSet("parameq", flag.ContinueOnError)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "OSC listen host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "OSC listen port")
	fs.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "sample rate in Hz")
	fs.IntVar(&cfg.BlockSize, "block", cfg.BlockSize, "processing block size in samples")
	fs.DurationVar(&cfg.RampTime, "ramp", cfg.RampTime, "parameter smoothing ramp time")
	fs.StringVar(&cfg.Source, "source", cfg.Source, `input: "noise" or the path of a WAV file to loop`)
	fs.Float64Var(&cfg.Amp, "amp", cfg.Amp, "output gain after the equalizer")
	fs.DurationVar(&cfg.DescribeInterval, "describe", cfg.DescribeInterval, "settings printout period (0 disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: parameq [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Runs a five-band parametric equalizer controlled over OSC.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	chain, err := eq.NewChain(cfg.ProcessorOptions()...)
	if err != nil {
		return err
	}
	logger.Debug("equalizer ready", "rate", cfg.SampleRate, "block", cfg.BlockSize, "kernel", biquad.KernelName())
	surface, err := control.New(chain, control.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := surface.ApplyDefaults(); err != nil {
		return err
	}

	src, err := openSource(cfg, logger)
	if err != nil {
		return err
	}
	renderer, err := audio.NewRenderer(src, chain, cfg.BlockSize)
	if err != nil {
		return err
	}
	renderer.SetAmp(cfg.Amp)

	player, err := audio.NewPlayer(cfg.SampleRate, 0, renderer)
	if err != nil {
		return err
	}
	defer player.Close()
	player.Play()

	server, err := oscserver.New(cfg.Addr(), controls{eq: surface, player: renderer}, oscserver.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.ListenAndServe(ctx) }()

	monitor := &responseMonitor{cfg: cfg, logger: logger}
	monitor.check(ctx, chain.Snapshot())

	fmt.Print(surface.Describe())
	if cfg.DescribeInterval > 0 {
		go describeLoop(ctx, os.Stdout, cfg.DescribeInterval, surface, func() {
			logger.Info("status",
				"playing", renderer.Playing(),
				"blocks", renderer.Blocks(),
				"faults", chain.Faults(),
				"messages", server.Received(),
				"rejected", server.Rejected(),
				"ignored", server.Ignored(),
			)
			monitor.check(ctx, chain.Snapshot())
		})
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		<-serveErr
		return nil
	case err := <-serveErr:
		return err
	}
}

func openSource(cfg config.Config, logger *slog.Logger) (audio.Source, error) {
	if cfg.Source == config.SourceNoise {
		return audio.NewNoise(time.Now().UnixNano(), 1), nil
	}

	loop, err := audio.LoadWAV(cfg.Source)
	if err != nil {
		return nil, err
	}
	if loop.SampleRate() != cfg.SampleRate {
		logger.Warn("wav sample rate differs from output rate; pitch will shift",
			"file", cfg.Source, "wav_rate", loop.SampleRate(), "rate", cfg.SampleRate)
	}
	logger.Info("looping wav", "file", cfg.Source, "samples", loop.Len())
	return loop, nil
}

type describer interface {
	Describe() string
}

// describeLoop prints the settings every interval until ctx is done.
func describeLoop(ctx context.Context, w io.Writer, interval time.Duration, d describer, status func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, d.Describe())
			if status != nil {
				status()
			}
		}
	}
}

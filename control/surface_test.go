package control

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/eq"
	"github.com/RiccardoCataldi/OscParametricEq/internal/testutil"
)

func newSurface(t *testing.T, opts ...Option) (*Surface, *eq.Chain) {
	t.Helper()
	chain, err := eq.NewChain(core.WithSampleRate(44100), core.WithBlockSize(256))
	require.NoError(t, err)
	s, err := New(chain, opts...)
	require.NoError(t, err)
	return s, chain
}

func TestNewRejectsNilChain(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestAddresses(t *testing.T) {
	s, _ := newSurface(t)

	want := []string{
		"/freq1", "/freq2", "/freq3", "/freq4", "/freq5",
		"/q1", "/q2", "/q3", "/q4", "/q5",
		"/boost1", "/boost2", "/boost3", "/boost4", "/boost5",
		"/mul",
		"/bypass1", "/bypass2", "/bypass3", "/bypass4", "/bypass5",
	}
	assert.Equal(t, want, s.Addresses())

	// The returned slice is a copy.
	addrs := s.Addresses()
	addrs[0] = "/changed"
	assert.Equal(t, "/freq1", s.Addresses()[0])
}

func TestRoute(t *testing.T) {
	s, _ := newSurface(t)

	r, ok := s.Route("/q4")
	require.True(t, ok)
	assert.Equal(t, Route{Address: "/q4", Band: 3, Field: eq.Q}, r)
	assert.False(t, r.Global())

	r, ok = s.Route(MulAddress)
	require.True(t, ok)
	assert.True(t, r.Global())

	_, ok = s.Route("/freq6")
	assert.False(t, ok)
}

func TestOnUpdateRoutesToChain(t *testing.T) {
	s, chain := newSurface(t)

	require.NoError(t, s.OnUpdate("/freq3", 1500))
	require.NoError(t, s.OnUpdate("/q3", 2.5))
	require.NoError(t, s.OnUpdate("/boost3", -6))
	require.NoError(t, s.OnUpdate("/bypass3", 0.25))
	require.NoError(t, s.OnUpdate("/mul", 0.7))

	assert.Equal(t, eq.Params{Freq: 1500, Q: 2.5, Boost: -6, Bypass: 0.25}, chain.Band(2).Params())
	assert.Equal(t, 0.7, chain.Mul())

	v, ok := s.Value("/boost3")
	require.True(t, ok)
	assert.Equal(t, -6.0, v)
	v, ok = s.Value("/mul")
	require.True(t, ok)
	assert.Equal(t, 0.7, v)
	_, ok = s.Value("/nope")
	assert.False(t, ok)
}

func TestOnUpdateErrors(t *testing.T) {
	s, chain := newSurface(t)

	err := s.OnUpdate("/gain1", 3)
	require.ErrorIs(t, err, ErrUnknownAddress)

	require.NoError(t, s.OnUpdate("/boost2", 4))
	err = s.OnUpdate("/boost2", math.NaN())
	require.ErrorIs(t, err, eq.ErrInvalidValue)
	assert.Equal(t, 4.0, chain.Band(1).Params().Boost, "prior value must be kept")

	err = s.OnUpdate("/mul", math.Inf(-1))
	require.ErrorIs(t, err, eq.ErrInvalidValue)
	assert.Equal(t, 1.0, chain.Mul())
}

func TestOnUpdateIsIdempotent(t *testing.T) {
	once, chainA := newSurface(t)
	twice, chainB := newSurface(t)

	require.NoError(t, once.OnUpdate("/freq2", 800))
	require.NoError(t, twice.OnUpdate("/freq2", 800))
	require.NoError(t, twice.OnUpdate("/freq2", 800))
	assert.Equal(t, chainA.Snapshot(), chainB.Snapshot())

	in := make([]float64, 1024)
	in[0] = 1
	outA := make([]float64, len(in))
	outB := make([]float64, len(in))
	require.NoError(t, chainA.ProcessMono(outA, in))
	require.NoError(t, chainB.ProcessMono(outB, in))
	assert.Equal(t, outA, outB)
}

func TestDefaults(t *testing.T) {
	s, chain := newSurface(t)

	d := s.Defaults()
	assert.Len(t, d, 21)
	assert.Equal(t, 100.0, d["/freq1"])
	assert.Equal(t, 250.0, d["/freq2"])
	assert.Equal(t, 1000.0, d["/freq3"])
	assert.Equal(t, 4000.0, d["/freq4"])
	assert.Equal(t, 10000.0, d["/freq5"])
	for i := 1; i <= 5; i++ {
		n := string(rune('0' + i))
		assert.Equal(t, 1.0, d["/q"+n])
		assert.Equal(t, 0.0, d["/boost"+n])
		assert.Equal(t, 0.0, d["/bypass"+n])
	}
	assert.Equal(t, 1.0, d["/mul"])

	require.NoError(t, s.OnUpdate("/boost5", 9))
	require.NoError(t, s.OnUpdate("/mul", 0.1))
	require.NoError(t, s.ApplyDefaults())
	for addr, want := range d {
		got, ok := s.Value(addr)
		require.True(t, ok)
		assert.Equal(t, want, got, addr)
	}
	assert.Equal(t, 0.0, chain.Band(4).Params().Boost)
}

func TestDescribe(t *testing.T) {
	s, _ := newSurface(t)
	require.NoError(t, s.OnUpdate("/q2", 0.5))

	lines := strings.Split(strings.TrimSuffix(s.Describe(), "\n"), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "Lowpass freq=100", lines[0])
	assert.Equal(t, "Peak1 Q=0.5", lines[6])
	assert.Equal(t, "Highpass bypass=0", lines[19])
	assert.Equal(t, "Mul=1", lines[20])
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, _ := newSurface(t, WithLogger(logger))

	require.NoError(t, s.OnUpdate("/freq1", 120))
	require.Error(t, s.OnUpdate("/bogus", 1))

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=update address=/freq1 value=120")
	assert.Contains(t, out, "level=WARN msg=\"rejected update\" address=/bogus")
}

// stream feeds in through chain.Process in 256-sample blocks, as the audio
// callback does, and returns the left channel.
func stream(t *testing.T, chain *eq.Chain, in []float64) []float64 {
	t.Helper()
	const block = 256
	left := make([]float64, len(in))
	right := make([]float64, len(in))
	for off := 0; off < len(in); off += block {
		end := min(off+block, len(in))
		require.NoError(t, chain.Process(left[off:end], right[off:end], in[off:end]))
	}
	testutil.RequireFinite(t, left)
	testutil.RequireNearlyEqual(t, right, left, 1e-12)
	return left
}

func TestLowShelfUpdateWhileStreaming(t *testing.T) {
	const rate = 44100.0
	s, chain := newSurface(t)
	require.NoError(t, s.ApplyDefaults())

	// Center pan scales each channel by cos(pi/4).
	panDB := 20 * math.Log10(math.Cos(math.Pi/4))

	warm := testutil.Sine(50, rate, 0.5, 4096)
	out := stream(t, chain, warm)
	assert.InDelta(t, panDB, testutil.GainDB(warm, out, 0), 0.05, "flat before the update")

	require.NoError(t, s.OnUpdate("/boost1", 12))
	require.NoError(t, s.OnUpdate("/freq1", 100))

	// The smoothers ramp over 50 ms; measure once they have settled.
	low := testutil.Sine(50, rate, 0.5, int(rate))
	out = stream(t, chain, low)
	lowGain := testutil.GainDB(low, out, int(rate/4)) - panDB
	assert.Greater(t, lowGain, 6.0, "50 Hz is boosted below the shelf corner")
	assert.True(t, chain.Band(eq.LowShelfBand).Settled())

	high := testutil.Sine(5000, rate, 0.5, int(rate/2))
	out = stream(t, chain, high)
	highGain := testutil.GainDB(high, out, int(rate/10)) - panDB
	assert.InDelta(t, 0, highGain, 0.5, "5 kHz is outside the shelf")

	want := chain.ResponseDB([]float64{50, 5000})
	assert.InDelta(t, want[0], lowGain, 0.3)
	assert.InDelta(t, want[1], highGain, 0.3)
}

package audio

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Source produces mono input blocks.
type Source interface {
	// Fill overwrites buf with the next len(buf) samples.
	Fill(buf []float64)
}

// Noise is a uniform white noise source.
type Noise struct {
	rng *rand.Rand
	amp float64
}

// NewNoise creates a noise source with peak amplitude amp.
func NewNoise(seed int64, amp float64) *Noise {
	return &Noise{rng: rand.New(rand.NewSource(seed)), amp: amp}
}

// Fill writes len(buf) noise samples.
func (n *Noise) Fill(buf []float64) {
	for i := range buf {
		buf[i] = (n.rng.Float64()*2 - 1) * n.amp
	}
}

// ErrEmptyWAV is returned for a WAV file without samples.
var ErrEmptyWAV = errors.New("wav file has no samples")

// WAVLoop plays a decoded file in an endless loop.
type WAVLoop struct {
	samples    []float64
	sampleRate int
	pos        int
}

// LoadWAV decodes the WAV file at path into memory.
func LoadWAV(path string) (*WAVLoop, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	loop, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("audio: %s: %w", path, err)
	}
	return loop, nil
}

// DecodeWAV reads a PCM WAV stream and downmixes it to mono in [-1, 1].
func DecodeWAV(r io.ReadSeeker) (*WAVLoop, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode pcm: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	frames := len(buf.Data) / channels
	if frames == 0 {
		return nil, ErrEmptyWAV
	}

	bitDepth := int(dec.BitDepth)
	scale := float64(goaudio.IntMaxSignedValue(bitDepth))
	if scale == 0 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	offset := 0
	if bitDepth == 8 {
		// 8-bit PCM is unsigned.
		offset = 128
	}

	samples := make([]float64, frames)
	norm := 1 / (scale * float64(channels))
	for i := range samples {
		var sum int
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[i*channels+ch] - offset
		}
		samples[i] = float64(sum) * norm
	}

	return &WAVLoop{samples: samples, sampleRate: buf.Format.SampleRate}, nil
}

// SampleRate returns the rate the file was recorded at.
func (w *WAVLoop) SampleRate() int { return w.sampleRate }

// Len returns the loop length in samples.
func (w *WAVLoop) Len() int { return len(w.samples) }

// Fill copies the next len(buf) samples, wrapping at the end of the file.
func (w *WAVLoop) Fill(buf []float64) {
	for len(buf) > 0 {
		n := copy(buf, w.samples[w.pos:])
		buf = buf[n:]
		w.pos += n
		if w.pos == len(w.samples) {
			w.pos = 0
		}
	}
}

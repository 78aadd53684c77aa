package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"sync/atomic"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// BytesPerFrame is the size of one interleaved stereo float32 frame.
const BytesPerFrame = 8

// Processor turns a mono block into a stereo pair.
type Processor interface {
	Process(outL, outR, in []float64) error
}

// Renderer is an io.Reader of interleaved stereo float32LE frames.
//
// Read is called by the playback goroutine only. SetPlaying and SetAmp may
// be called from any goroutine.
type Renderer struct {
	src  Source
	proc Processor

	in    []float64
	left  []float64
	right []float64

	pending []byte
	off     int

	playing atomic.Bool
	amp     atomic.Uint64
	blocks  atomic.Uint64
}

// NewRenderer creates a renderer pulling blocks of blockSize samples. It
// starts playing with unity amp.
func NewRenderer(src Source, proc Processor, blockSize int) (*Renderer, error) {
	if src == nil || proc == nil {
		return nil, errors.New("audio: nil source or processor")
	}
	if blockSize <= 0 {
		return nil, errors.New("audio: block size must be > 0")
	}

	r := &Renderer{
		src:     src,
		proc:    proc,
		in:      make([]float64, blockSize),
		left:    make([]float64, blockSize),
		right:   make([]float64, blockSize),
		pending: make([]byte, blockSize*BytesPerFrame),
	}
	r.off = len(r.pending)
	r.playing.Store(true)
	r.SetAmp(1)
	return r, nil
}

// SetPlaying switches between processed output and silence. The chain keeps
// its settings while stopped.
func (r *Renderer) SetPlaying(on bool) { r.playing.Store(on) }

// Playing reports whether the renderer produces audio.
func (r *Renderer) Playing() bool { return r.playing.Load() }

// SetAmp sets the output gain applied after processing. Negative or
// non-finite values are ignored.
func (r *Renderer) SetAmp(amp float64) {
	if amp < 0 || math.IsNaN(amp) || math.IsInf(amp, 0) {
		return
	}
	r.amp.Store(math.Float64bits(amp))
}

// Amp returns the output gain.
func (r *Renderer) Amp() float64 { return math.Float64frombits(r.amp.Load()) }

// Blocks returns the number of blocks rendered so far.
func (r *Renderer) Blocks() uint64 { return r.blocks.Load() }

// Read fills p with frames, rendering new blocks as needed.
func (r *Renderer) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.off == len(r.pending) {
			if err := r.render(); err != nil {
				return n, err
			}
		}
		c := copy(p[n:], r.pending[r.off:])
		r.off += c
		n += c
	}
	return n, nil
}

func (r *Renderer) render() error {
	if !r.playing.Load() {
		clear(r.pending)
		r.off = 0
		return nil
	}

	r.src.Fill(r.in)
	if err := r.proc.Process(r.left, r.right, r.in); err != nil {
		return err
	}

	if amp := r.Amp(); amp != 1 {
		vecmath.ScaleBlockInPlace(r.left, amp)
		vecmath.ScaleBlockInPlace(r.right, amp)
	}

	for i := range r.in {
		binary.LittleEndian.PutUint32(r.pending[i*BytesPerFrame:], math.Float32bits(float32(r.left[i])))
		binary.LittleEndian.PutUint32(r.pending[i*BytesPerFrame+4:], math.Float32bits(float32(r.right[i])))
	}
	r.off = 0
	r.blocks.Add(1)
	return nil
}

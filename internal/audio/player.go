package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player streams a Renderer to the default output device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewPlayer opens the output device for stereo float32 at sampleRate and
// attaches r. bufferSize 0 uses the driver default. Only one Player may
// exist per process.
func NewPlayer(sampleRate int, bufferSize time.Duration, r io.Reader) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: open device: %w", err)
	}
	<-ready

	return &Player{ctx: ctx, player: ctx.NewPlayer(r)}, nil
}

// Play starts or resumes playback.
func (p *Player) Play() { p.player.Play() }

// Pause stops playback, keeping the stream position.
func (p *Player) Pause() { p.player.Pause() }

// Err returns the first error reported by the device or the reader.
func (p *Player) Err() error {
	if err := p.player.Err(); err != nil {
		return err
	}
	return p.ctx.Err()
}

// Close releases the player.
func (p *Player) Close() error {
	return p.player.Close()
}

package main

import (
	"fmt"
	"math"

	"github.com/RiccardoCataldi/OscParametricEq/internal/oscserver"
)

// playAddress starts (nonzero) or stops (zero) the audio output.
const playAddress = "/play"

type playSwitch interface {
	SetPlaying(on bool)
}

// controls adds the /play address to the equalizer surface.
type controls struct {
	eq     oscserver.Updater
	player playSwitch
}

func (c controls) Addresses() []string {
	return append(c.eq.Addresses(), playAddress)
}

func (c controls) OnUpdate(address string, value float64) error {
	if address != playAddress {
		return c.eq.OnUpdate(address, value)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s=%v: not a finite value", address, value)
	}
	c.player.SetPlaying(value != 0)
	return nil
}

package gameboy

import (
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
	"github.com/thelolagemann/gomeboy-ppu/pkg/log"
)

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

func AsModel(m types.Model) Opt {
	return func(gb *GameBoy) {
		gb.model = m
	}
}

func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = log
	}
}

// WithState restores the machine from b once it has been created.
func WithState(b []byte) Opt {
	return func(gb *GameBoy) {
		gb.state = b
	}
}

// WithProcessor attaches a CPU to the machine. It should drive the
// machine through GameBoy.Bus.
func WithProcessor(p Processor) Opt {
	return func(gb *GameBoy) {
		gb.CPU = p
	}
}

// WithPalette selects the shade palette used by legacy models.
func WithPalette(p int) Opt {
	return func(gb *GameBoy) {
		if p >= 0 && p < len(palette.Palettes) {
			palette.Current = p
		}
	}
}

func Speed(speed float64) Opt {
	return func(gb *GameBoy) {
		if speed > 0 {
			gb.speed = speed
		}
	}
}

// Package gameboy provides the machine the video controller runs in: a
// memory bus, the PPU, and an optional processor driving them.
package gameboy

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/thelolagemann/gomeboy-ppu/internal/io"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/lcd"
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
	"github.com/thelolagemann/gomeboy-ppu/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = 4194304 // 4.194304 MHz
	// FrameTime is the time taken to draw a single frame at normal speed.
	FrameTime = time.Second * lcd.FrameDots / ClockSpeed
)

// ErrNoState is returned when loading from an empty state.
var ErrNoState = errors.New("gameboy: no state to load")

// Processor is the CPU side of the machine. Step executes a single
// instruction against the bus and returns the number of dots it took.
type Processor interface {
	Step() int
}

// halted is the Processor used when none is attached. It behaves as
// a CPU sat in HALT, letting the PPU run freely.
type halted struct{}

func (halted) Step() int { return 4 }

// GameBoy represents a Game Boy, as far as the video hardware is
// concerned. It is the main entry point for the emulator.
type GameBoy struct {
	CPU Processor
	PPU *ppu.PPU

	b *io.Bus

	log.Logger

	model   types.Model
	speed   float64
	state   []byte
	paused  atomic.Bool
	onFrame []func(ppu.Frame)

	loadedFromState bool
}

// NewGameBoy returns a new GameBoy configured by opts. If a state was
// provided with WithState, the machine is restored from it, and its
// model is used unless one was set explicitly.
func NewGameBoy(opts ...Opt) (*GameBoy, error) {
	g := &GameBoy{
		CPU:    halted{},
		Logger: log.NewNullLogger(),
		speed:  1.0,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.model == types.Unset && len(g.state) > 0 {
		if s, err := types.StateFromBytes(g.state); err == nil {
			g.model = types.Model(s.Read8())
		}
	}
	if g.model == types.Unset {
		g.model = types.DMGABC
	}

	g.b = io.NewBus(io.WithModel(g.model), io.WithLogger(log.WithField(g.Logger, "component", "bus")))
	g.PPU = ppu.New(g.b, ppu.WithLogger(log.WithField(g.Logger, "component", "ppu")))
	g.b.Boot()

	if g.state != nil {
		if err := g.Load(g.state); err != nil {
			return nil, err
		}
		g.loadedFromState = true
	}

	g.Debugf("created %s machine", g.model)
	return g, nil
}

// Bus returns the memory bus, for attaching a Processor.
func (g *GameBoy) Bus() *io.Bus {
	return g.b
}

// Model returns the model being emulated.
func (g *GameBoy) Model() types.Model {
	return g.model
}

// step executes a single processor step, ticking the PPU for each of
// the dots it took, and returns the number of dots.
func (g *GameBoy) step() int {
	dots := g.CPU.Step()
	for i := 0; i < dots; i++ {
		g.PPU.Tick()
	}
	return dots
}

// Frame will step the emulation until the PPU has finished rendering
// the current frame, and return a copy of it. If the LCD is switched
// off, a frame's worth of dots is stepped and the last completed
// frame is returned.
func (g *GameBoy) Frame() ppu.Frame {
	g.PPU.ClearRefresh()
	for dots := 0; dots < lcd.FrameDots && !g.PPU.HasFrame(); {
		dots += g.step()
	}

	return g.PPU.Frame()
}

// Start runs the emulation in real time, sending each completed frame
// to fb as packed RGB until ctx is done. Frames are dropped rather than
// blocking when fb is full.
func (g *GameBoy) Start(ctx context.Context, fb chan<- []byte) error {
	if !g.loadedFromState {
		g.Warnf("starting without a state, the display will be blank: %v", ErrNoState)
	}

	// very high speeds would round the period down to nothing
	period := max(time.Duration(float64(FrameTime)/g.speed), time.Nanosecond)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	g.Infof("starting emulation at %.2fx", g.speed)
	for {
		select {
		case <-ctx.Done():
			g.Infof("stopping emulation")
			return nil
		case <-ticker.C:
			if g.Paused() {
				continue
			}

			frame := g.Frame()
			for _, f := range g.onFrame {
				f(frame)
			}

			select {
			case fb <- frame.Bytes():
			default:
				g.Debugf("frame dropped")
			}
		}
	}
}

// OnFrame registers f to be called with every frame produced by Start.
// Callbacks run in the order they were registered, on the goroutine
// running Start, and must be registered before Start is called.
func (g *GameBoy) OnFrame(f func(ppu.Frame)) {
	g.onFrame = append(g.onFrame, f)
}

// Pause pauses the emulation.
func (g *GameBoy) Pause() {
	g.paused.Store(true)
}

// Unpause resumes the emulation.
func (g *GameBoy) Unpause() {
	g.paused.Store(false)
}

// Paused returns true if the emulation is paused.
func (g *GameBoy) Paused() bool {
	return g.paused.Load()
}

// Save returns a snapshot of the machine.
func (g *GameBoy) Save() *types.State {
	s := types.NewState()
	s.Write8(uint8(g.model))
	g.b.Save(s)
	g.PPU.Save(s)
	return s
}

// Load restores the machine from a snapshot created by Save. The
// snapshot is decoded into a scratch machine first, so a bad snapshot
// leaves the running machine untouched.
func (g *GameBoy) Load(raw []byte) error {
	if len(raw) == 0 {
		return ErrNoState
	}

	scratch := io.NewBus(io.WithModel(g.model))
	if err := g.restore(scratch, ppu.New(scratch), raw); err != nil {
		return err
	}
	if err := g.restore(g.b, g.PPU, raw); err != nil {
		return err
	}

	g.Infof("loaded %d byte state", len(raw))
	return nil
}

// restore decodes raw into b and p.
func (g *GameBoy) restore(b *io.Bus, p *ppu.PPU, raw []byte) error {
	s, err := types.StateFromBytes(raw)
	if err != nil {
		return fmt.Errorf("gameboy: loading state: %w", err)
	}
	if m := types.Model(s.Read8()); m != g.model {
		return fmt.Errorf("gameboy: state was saved from a %s, not a %s", m, g.model)
	}

	b.Load(s)
	p.Load(s)
	if err := s.Err(); err != nil {
		return fmt.Errorf("gameboy: loading state: %w", err)
	}
	return nil
}

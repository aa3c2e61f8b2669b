package ppu

import (
	"github.com/thelolagemann/gomeboy-ppu/internal/io"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/lcd"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
	"github.com/thelolagemann/gomeboy-ppu/pkg/log"
)

const (
	// ScreenWidth is the width of the screen in pixels.
	ScreenWidth = 160
	// ScreenHeight is the height of the screen in pixels.
	ScreenHeight = 144
)

// Frame is a complete screen of RGB pixels, indexed [y][x].
type Frame [ScreenHeight][ScreenWidth][3]uint8

// Bytes packs the frame into 24-bit RGB, row by row.
func (f *Frame) Bytes() []byte {
	b := make([]byte, 0, ScreenWidth*ScreenHeight*3)
	for y := range f {
		for x := range f[y] {
			b = append(b, f[y][x][:]...)
		}
	}
	return b
}

// Bus is the part of the memory bus the PPU depends on. The PPU only
// holds this handle; the bus reaches the PPU solely through the
// handlers reserved on it.
type Bus interface {
	Get(addr uint16) byte
	Set(addr uint16, value byte)
	Read(addr uint16) byte
	GetVRAM(addr uint16, bank uint8) byte
	SetVRAM(addr uint16, bank uint8, value byte)
	VRAMBank() uint8
	OAM() []byte
	ReserveAddress(addr uint16, handler func(byte) byte)
	ReserveLazyReader(addr uint16, handler func() byte)
	RaiseInterrupt(interrupt byte)
	IsGBC() bool
}

var _ Bus = (*io.Bus)(nil)

// PPU implements the Game Boy's (P)ixel (P)rocessing (U)nit.
//
// The PPU is stepped a single dot at a time through Tick. Each
// scanline is rendered in one go when the pixel transfer period
// ends, with scroll and palette registers sampled per column.
//
// References:
//   - [Pan Docs](https://gbdev.io/pandocs/Graphics.html)
//   - [Hacktix GBEDG](https://hacktix.github.io/GBEDG/ppu/)
type PPU struct {
	// LCDC & STAT registers
	lcdc lcd.Controller
	stat lcd.Status

	// Timing state
	mode    lcd.Mode // Current mode, mirrored into STAT
	dots    uint16   // Dots elapsed in the current mode
	ly      uint8    // Current line (0-153)
	wly     uint8    // Window line counter
	enabled bool     // LCDC.7 as seen by the previous tick

	// Scanline state
	objBuffer [10]Object         // Objects selected for the current line
	objCount  int                // Number of valid entries in objBuffer
	line      [ScreenWidth]pixel // Scanline being composited

	// Frame buffers
	frame         Frame // Frame being drawn
	PreparedFrame Frame // Last completed frame
	frameReady    bool  // PreparedFrame holds a frame not yet consumed

	// CGB-specific features
	cgbMode    bool
	bgPalette  *palette.CGBPalette
	objPalette *palette.CGBPalette
	hdma       *HDMA

	// Debug controls
	Debug struct {
		OBJDisabled        bool // Force disable OBJ rendering
		BackgroundDisabled bool // Force disable BG layer
		WindowDisabled     bool // Force disable window layer
	}

	b   Bus
	log log.Logger
}

// Opt configures a PPU.
type Opt func(p *PPU)

// WithLogger sets the logger used by the PPU.
func WithLogger(l log.Logger) Opt {
	return func(p *PPU) {
		p.log = l
	}
}

// New creates and initializes a PPU instance, reserving its
// registers on b.
func New(b Bus, opts ...Opt) *PPU {
	p := &PPU{
		b:          b,
		log:        log.NewNullLogger(),
		cgbMode:    b.IsGBC(),
		bgPalette:  palette.NewCGBPalette(),
		objPalette: palette.NewCGBPalette(),
	}
	for _, opt := range opts {
		opt(p)
	}

	b.ReserveAddress(types.LCDC, func(v byte) byte {
		p.lcdc.Write(v)
		return p.lcdc.Read()
	})
	b.ReserveAddress(types.STAT, func(v byte) byte {
		p.stat.Write(v)
		return p.stat.Read()
	})
	b.ReserveLazyReader(types.STAT, p.stat.Read)
	b.ReserveAddress(types.LY, func(v byte) byte {
		// LY is read only
		return p.ly
	})
	b.ReserveAddress(types.LYC, func(v byte) byte {
		b.Set(types.LYC, v)
		if p.lcdc.Enabled {
			p.checkLYC()
		}
		return v
	})

	// setup CGB only registers
	if p.cgbMode {
		b.ReserveAddress(types.BCPS, func(v byte) byte {
			p.bgPalette.SetIndex(v)
			return p.bgPalette.GetIndex()
		})
		b.ReserveLazyReader(types.BCPS, p.bgPalette.GetIndex)
		b.ReserveAddress(types.BCPD, func(v byte) byte {
			p.bgPalette.Write(v)
			return v
		})
		b.ReserveLazyReader(types.BCPD, p.bgPalette.Read)
		b.ReserveAddress(types.OCPS, func(v byte) byte {
			p.objPalette.SetIndex(v)
			return p.objPalette.GetIndex()
		})
		b.ReserveLazyReader(types.OCPS, p.objPalette.GetIndex)
		b.ReserveAddress(types.OCPD, func(v byte) byte {
			p.objPalette.Write(v)
			return v
		})
		b.ReserveLazyReader(types.OCPD, p.objPalette.Read)

		p.hdma = NewHDMA(b, p.log)
	}

	return p
}

// Tick advances the PPU by a single dot.
func (p *PPU) Tick() {
	if !p.lcdc.Enabled {
		if p.enabled {
			p.log.Debugf("ppu: LCD disabled on line %d (%s)", p.ly, p.mode)
			p.enabled = false
		}

		// when the LCD is off, LY reads 0, and STAT mode reads 0 (HBlank)
		p.mode, p.stat.Mode = lcd.HBlank, lcd.HBlank
		p.ly, p.dots, p.wly = 0, 0, 0
		p.b.Set(types.LY, 0)
		return
	}

	if !p.enabled {
		// the first line after enabling the LCD starts with an OAM scan
		p.log.Debugf("ppu: LCD enabled")
		p.enabled = true
		p.mode, p.stat.Mode = lcd.OAM, lcd.OAM
		p.dots = 0
	}

	p.dots++
	p.checkLYC()

	if p.dots < p.mode.Duration() {
		return
	}
	p.dots = 0

	next := p.mode.Next(p.ly)
	switch p.mode {
	case lcd.OAM:
		p.scanOAM()
	case lcd.VRAM:
		p.renderScanline()
	case lcd.HBlank:
		p.ly++
		p.b.Set(types.LY, p.ly)

		if p.hdma != nil && p.hdma.Active() {
			p.hdma.Step()
		}

		if next == lcd.VBlank {
			p.PreparedFrame = p.frame
			p.frameReady = true
			p.b.RaiseInterrupt(io.VBlankINT)
		}
	case lcd.VBlank:
		if next == lcd.OAM {
			p.ly, p.wly = 0, 0
			p.b.Set(types.LY, 0)
		} else {
			p.ly++
			p.b.Set(types.LY, p.ly)
		}
	}

	// LY may have changed
	p.checkLYC()
	p.setMode(next)
}

// setMode switches to mode, requesting the STAT interrupt if the
// mode has changed and its interrupt source is enabled.
func (p *PPU) setMode(mode lcd.Mode) {
	if mode != p.mode && p.stat.InterruptEnabled(mode) {
		p.b.RaiseInterrupt(io.LCDINT)
	}
	p.mode, p.stat.Mode = mode, mode
}

// checkLYC compares LY against LYC, updating the coincidence flag.
// The STAT interrupt is only requested when the flag goes from low
// to high, so a line matching for many dots only requests it once.
func (p *PPU) checkLYC() {
	coincidence := p.ly == p.b.Get(types.LYC)
	if coincidence && !p.stat.Coincidence && p.stat.CoincidenceInterrupt {
		p.b.RaiseInterrupt(io.LCDINT)
	}
	p.stat.Coincidence = coincidence
}

// Mode returns the current mode of the PPU.
func (p *PPU) Mode() lcd.Mode {
	return p.mode
}

// Dots returns the number of dots elapsed in the current mode.
func (p *PPU) Dots() uint16 {
	return p.dots
}

// LY returns the current scanline.
func (p *PPU) LY() uint8 {
	return p.ly
}

// WindowLine returns the internal window line counter.
func (p *PPU) WindowLine() uint8 {
	return p.wly
}

// HasFrame returns true if a completed frame is waiting to be consumed.
func (p *PPU) HasFrame() bool {
	return p.frameReady
}

// ClearRefresh marks the prepared frame as consumed.
func (p *PPU) ClearRefresh() {
	p.frameReady = false
}

// Frame returns a copy of the last completed frame, and marks it
// as consumed. The copy is unaffected by any further ticks.
func (p *PPU) Frame() Frame {
	p.frameReady = false
	return p.PreparedFrame
}

// BackgroundPalette returns the background palette memory.
func (p *PPU) BackgroundPalette() *palette.CGBPalette {
	return p.bgPalette
}

// ObjectPalette returns the object palette memory.
func (p *PPU) ObjectPalette() *palette.CGBPalette {
	return p.objPalette
}

var _ types.Stater = (*PPU)(nil)

// Load restores the PPU from s. The bus is expected to have been
// loaded first, as the register values are decoded from it.
func (p *PPU) Load(s *types.State) {
	p.lcdc.Write(p.b.Get(types.LCDC))
	p.stat.Write(s.Read8())
	p.stat.Coincidence = s.ReadBool()
	p.mode = lcd.Mode(s.Read8() & 3)
	p.stat.Mode = p.mode
	p.dots = s.Read16()
	p.ly = s.Read8()
	p.wly = s.Read8()
	p.enabled = s.ReadBool()
	p.frameReady = s.ReadBool()

	if p.cgbMode {
		p.bgPalette.Load(s)
		p.objPalette.Load(s)
		p.hdma.Load(s)
	}

	// objects picked by the last OAM scan, drawn when VRAM mode ends
	p.objCount = min(int(s.Read8()), maxObjectsPerLine)
	var obj [5]byte
	for i := 0; i < p.objCount; i++ {
		s.ReadData(obj[:])
		p.objBuffer[i] = Object{
			y:     obj[0],
			x:     obj[1],
			id:    obj[2],
			attr:  decodeObjectAttributes(obj[3]),
			index: obj[4],
		}
	}

	loadFrame(s, &p.frame)
	loadFrame(s, &p.PreparedFrame)
	p.b.Set(types.LY, p.ly)
}

// Save saves the PPU to s.
func (p *PPU) Save(s *types.State) {
	s.Write8(p.stat.Read())
	s.WriteBool(p.stat.Coincidence)
	s.Write8(uint8(p.mode))
	s.Write16(p.dots)
	s.Write8(p.ly)
	s.Write8(p.wly)
	s.WriteBool(p.enabled)
	s.WriteBool(p.frameReady)

	if p.cgbMode {
		p.bgPalette.Save(s)
		p.objPalette.Save(s)
		p.hdma.Save(s)
	}

	s.Write8(uint8(p.objCount))
	for _, obj := range p.objBuffer[:p.objCount] {
		s.WriteData([]byte{obj.y, obj.x, obj.id, obj.attr.encode(), obj.index})
	}

	saveFrame(s, &p.frame)
	saveFrame(s, &p.PreparedFrame)
}

func saveFrame(s *types.State, f *Frame) {
	for y := range f {
		for x := range f[y] {
			s.WriteData(f[y][x][:])
		}
	}
}

func loadFrame(s *types.State, f *Frame) {
	for y := range f {
		for x := range f[y] {
			s.ReadData(f[y][x][:])
		}
	}
}

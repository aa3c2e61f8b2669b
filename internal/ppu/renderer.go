package ppu

import (
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/background"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
	"github.com/thelolagemann/gomeboy-ppu/pkg/bits"
	"github.com/thelolagemann/gomeboy-ppu/pkg/utils"
)

// pixel is a single composited pixel of the current scanline. The
// colour number of the background is kept alongside the resolved
// colour so that objects can be tested against it.
type pixel struct {
	colour   [3]uint8
	index    uint8 // BG/window colour number (0-3)
	priority bool  // BG attribute priority (CGB only)
}

// renderScanline composites the background, window and objects for
// the current line, and writes the result to the frame.
func (p *PPU) renderScanline() {
	p.renderBackground()
	p.renderWindow()
	if p.lcdc.SpriteEnabled && !p.Debug.OBJDisabled {
		p.renderObjects()
	}

	for x := range p.line {
		p.frame[p.ly][x] = p.line[x].colour
	}
}

// renderBackground fills the line with the background layer, or
// the backdrop colour if the background is disabled.
func (p *PPU) renderBackground() {
	if !p.lcdc.BackgroundEnabled || p.Debug.BackgroundDisabled {
		backdrop := p.bgColour(0, 0)
		if !p.cgbMode {
			backdrop = palette.GetColour(0)
		}
		for x := range p.line {
			p.line[x] = pixel{colour: backdrop}
		}
		return
	}

	for x := uint8(0); x < ScreenWidth; x++ {
		mapX := x + p.b.Get(types.SCX)
		mapY := p.ly + p.b.Get(types.SCY)
		p.line[x] = p.fetchPixel(p.lcdc.BackgroundTileMapAddress, mapX, mapY)
	}
}

// renderWindow overlays the window onto the line. The window line
// counter only advances on lines the window actually covered.
func (p *PPU) renderWindow() {
	if !p.lcdc.WindowEnabled || !p.lcdc.BackgroundEnabled || p.Debug.WindowDisabled {
		return
	}
	if p.ly < p.b.Get(types.WY) {
		return
	}

	wx := int(p.b.Get(types.WX)) - 7
	start := utils.Clamp(0, wx, ScreenWidth)
	if start >= ScreenWidth {
		return
	}

	for x := start; x < ScreenWidth; x++ {
		p.line[x] = p.fetchPixel(p.lcdc.WindowTileMapAddress, uint8(x-wx), p.wly)
	}
	p.wly++
}

// fetchPixel returns the pixel at (x, y) of the 256x256 map at mapBase.
func (p *PPU) fetchPixel(mapBase uint16, x, y uint8) pixel {
	mapAddr := background.MapAddress(mapBase, x, y)
	tileNo := p.b.GetVRAM(mapAddr, 0)

	var attr TileAttributes
	if p.cgbMode {
		attr = DecodeTileAttributes(p.b.GetVRAM(mapAddr, 1))
	}

	row, col := y&7, x&7
	if attr.YFlip {
		row = 7 - row
	}
	if attr.XFlip {
		col = 7 - col
	}

	addr := background.TileAddress(p.lcdc.UsingSignedTileData(), tileNo, row)
	index := bits.Pixel(p.b.GetVRAM(addr, attr.VRAMBank), p.b.GetVRAM(addr+1, attr.VRAMBank), col)

	return pixel{
		colour:   p.bgColour(attr.PaletteNumber, index),
		index:    index,
		priority: attr.UseBGPriority,
	}
}

// bgColour resolves a background colour number. BGP is read every
// time, so writes made between columns are honoured.
func (p *PPU) bgColour(pal, index uint8) [3]uint8 {
	if p.cgbMode {
		return p.bgPalette.GetColour(pal, index)
	}
	return palette.GetColour(palette.Shade(p.b.Get(types.BGP), index))
}

// renderObjects draws the selected objects from lowest to highest
// priority, so that higher priority objects are drawn last.
func (p *PPU) renderObjects() {
	size := p.lcdc.SpriteSize
	for i := p.objCount - 1; i >= 0; i-- {
		obj := &p.objBuffer[i]

		row := (p.ly + 16 - obj.y) & (size - 1)
		if obj.attr.flipY {
			row = ^row & (size - 1)
		}

		// in 8x16 mode the top half is always the even tile
		tile := obj.id
		if size == 16 {
			tile = tile&^1 | row>>3
		}

		var bank uint8
		if p.cgbMode {
			bank = obj.attr.vramBank
		}
		addr := background.TileAddress(false, tile, row&7)
		lo, hi := p.b.GetVRAM(addr, bank), p.b.GetVRAM(addr+1, bank)
		if obj.attr.flipX {
			lo, hi = bits.Flip(lo), bits.Flip(hi)
		}

		for col := uint8(0); col < 8; col++ {
			x := int(obj.x) + int(col) - 8
			if x < 0 || x >= ScreenWidth {
				continue
			}

			index := bits.Pixel(lo, hi, col)
			if index == 0 {
				continue // transparent
			}

			bg := p.line[x]
			if bg.index != 0 && (obj.attr.behindBG || p.cgbMode && bg.priority && p.lcdc.BackgroundEnabled) {
				continue
			}

			p.line[x].colour = p.objColour(obj, index)
		}
	}
}

// objColour resolves an object colour number.
func (p *PPU) objColour(obj *Object, index uint8) [3]uint8 {
	if p.cgbMode {
		return p.objPalette.GetColour(obj.attr.cgbPalette, index)
	}

	reg := p.b.Get(types.OBP0)
	if obj.attr.useSecondPalette {
		reg = p.b.Get(types.OBP1)
	}
	return palette.GetColour(palette.Shade(reg, index))
}

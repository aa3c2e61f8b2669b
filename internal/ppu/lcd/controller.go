package lcd

import (
	"github.com/thelolagemann/gomeboy-ppu/pkg/bits"
)

// Controller is the decoded LCD Control Register (0xFF40). It decides
// whether the LCD is on, and which layers are drawn from where.
//
//	Bit 7 - LCD Enable                     (0=Off, 1=On)
//	Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Display Enable          (0=Off, 1=On)
//	Bit 4 - BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ (Sprite) Size              (0=8x8, 1=8x16)
//	Bit 1 - OBJ (Sprite) Display Enable    (0=Off, 1=On)
//	Bit 0 - BG/Window Display/Priority     (0=Off, 1=On)
type Controller struct {
	// Enabled is the LCD Enable bit. When clear, the PPU is held in
	// HBlank on scanline 0.
	Enabled bool
	// WindowTileMapAddress is the start address of the tile map used
	// by the window, either 0x9800 or 0x9C00.
	WindowTileMapAddress uint16
	// WindowEnabled is the Window Display Enable bit.
	WindowEnabled bool
	// TileDataAddress is the base address tile indices are resolved
	// against. 0x8000 uses unsigned indices, whilst 0x9000 treats the
	// index as signed, covering 0x8800-0x97FF.
	TileDataAddress uint16
	// BackgroundTileMapAddress is the start address of the tile map
	// used by the background, either 0x9800 or 0x9C00.
	BackgroundTileMapAddress uint16
	// SpriteSize is the height of objects, 8 or 16.
	SpriteSize uint8
	// SpriteEnabled is the OBJ Display Enable bit.
	SpriteEnabled bool
	// BackgroundEnabled is the BG/Window Display/Priority bit.
	BackgroundEnabled bool
}

// Write decodes value into the controller.
func (c *Controller) Write(value uint8) {
	c.Enabled = bits.Test(value, 7)
	c.WindowTileMapAddress = 0x9800 | uint16(bits.Val(value, 6))<<10
	c.WindowEnabled = bits.Test(value, 5)
	if bits.Test(value, 4) {
		c.TileDataAddress = 0x8000
	} else {
		c.TileDataAddress = 0x9000
	}
	c.BackgroundTileMapAddress = 0x9800 | uint16(bits.Val(value, 3))<<10
	c.SpriteSize = 8 + bits.Val(value, 2)*8
	c.SpriteEnabled = bits.Test(value, 1)
	c.BackgroundEnabled = bits.Test(value, 0)
}

// Read encodes the controller back into its register value.
func (c *Controller) Read() uint8 {
	var value uint8
	if c.Enabled {
		value = bits.Set(value, 7)
	}
	if c.WindowTileMapAddress == 0x9C00 {
		value = bits.Set(value, 6)
	}
	if c.WindowEnabled {
		value = bits.Set(value, 5)
	}
	if c.TileDataAddress == 0x8000 {
		value = bits.Set(value, 4)
	}
	if c.BackgroundTileMapAddress == 0x9C00 {
		value = bits.Set(value, 3)
	}
	if c.SpriteSize == 16 {
		value = bits.Set(value, 2)
	}
	if c.SpriteEnabled {
		value = bits.Set(value, 1)
	}
	if c.BackgroundEnabled {
		value = bits.Set(value, 0)
	}
	return value
}

// UsingSignedTileData returns true if tile indices are signed.
func (c *Controller) UsingSignedTileData() bool {
	return c.TileDataAddress == 0x9000
}

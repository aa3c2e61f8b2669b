package ppu

// TileAttributes are the attributes of a background or window tile
// on colour models. They are stored in VRAM bank 1, at the same
// address as the tile number in the tile map.
type TileAttributes struct {
	// UseBGPriority is the BG Priority bit. When set, non-zero colours
	// of the tile are drawn over objects.
	UseBGPriority bool
	// YFlip is the Y Flip bit. When set, the tile is flipped vertically.
	YFlip bool
	// XFlip is the X Flip bit. When set, the tile is flipped horizontally.
	XFlip bool
	// PaletteNumber selects the background palette (0-7).
	PaletteNumber uint8
	// VRAMBank is the bank (0-1) the tile data is fetched from.
	VRAMBank uint8
}

// DecodeTileAttributes decodes a tile attribute byte.
//
//	Bit 7 - BG-to-OAM Priority (0=Use OAM priority bit, 1=BG Priority)
//	Bit 6 - Vertical Flip
//	Bit 5 - Horizontal Flip
//	Bit 4 - Not used
//	Bit 3 - Tile VRAM Bank number
//	Bit 2-0 - Background Palette number
func DecodeTileAttributes(value uint8) TileAttributes {
	return TileAttributes{
		UseBGPriority: value&0x80 != 0,
		YFlip:         value&0x40 != 0,
		XFlip:         value&0x20 != 0,
		PaletteNumber: value & 0b111,
		VRAMBank:      value >> 3 & 1,
	}
}

// Byte encodes the attributes back into their VRAM representation.
func (t TileAttributes) Byte() uint8 {
	var val uint8
	if t.UseBGPriority {
		val |= 0x80
	}
	if t.YFlip {
		val |= 0x40
	}
	if t.XFlip {
		val |= 0x20
	}
	return val | t.VRAMBank&1<<3 | t.PaletteNumber&0b111
}

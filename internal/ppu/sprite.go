package ppu

// objectAttributes represents the attribute byte of an object.
type objectAttributes struct {
	// Bit 7 - OBJ-to-BG priority (0=OBJ Above BG, 1=OBJ Behind BG color 1-3)
	// (Used for both BG and Window. BG color 0 is always behind OBJ)
	behindBG bool
	// Bit 6 - Y flip          (0=Normal, 1=Vertically mirrored)
	flipY bool
	// Bit 5 - X flip          (0=Normal, 1=Horizontally mirrored)
	flipX bool
	// Bit 4 - Palette number  **Non CGB mode Only** (0=OBP0, 1=OBP1)
	useSecondPalette bool
	// Bit 3 - Tile VRAM-Bank  **CGB mode Only**     (0=Bank 0, 1=Bank 1)
	vramBank uint8
	// Bit 0-2 - Palette number  **CGB mode Only**     (OBP0-7)
	cgbPalette uint8
}

func decodeObjectAttributes(value uint8) objectAttributes {
	return objectAttributes{
		behindBG:         value&0x80 != 0,
		flipY:            value&0x40 != 0,
		flipX:            value&0x20 != 0,
		useSecondPalette: value&0x10 != 0,
		vramBank:         value >> 3 & 1,
		cgbPalette:       value & 0x07,
	}
}

// encode packs the attributes back into their OAM byte.
func (a objectAttributes) encode() uint8 {
	v := a.vramBank<<3 | a.cgbPalette
	if a.behindBG {
		v |= 0x80
	}
	if a.flipY {
		v |= 0x40
	}
	if a.flipX {
		v |= 0x20
	}
	if a.useSecondPalette {
		v |= 0x10
	}
	return v
}

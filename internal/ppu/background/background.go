// Package background provides the tile map and tile data addressing
// shared by the background and window layers.
//
// Both layers are a 256x256 pixel map made up of 32x32 tiles, each
// tile being 8x8 pixels. As the display only has 160x144 pixels, the
// background is scrolled to display different parts of the map.
package background

// MapAddress returns the address of the tile map entry covering
// pixel (x, y) of the map starting at base.
func MapAddress(base uint16, x, y uint8) uint16 {
	return base | uint16(y>>3)<<5 | uint16(x>>3)
}

// TileAddress returns the address of row (0-7) of tile tileNo. When
// signed is set, tileNo is treated as a signed offset from 0x9000,
// otherwise as an unsigned offset from 0x8000.
//
//	signed=false:   0 - 255 -> 0x8000 - 0x8FF0
//	signed=true:    0 - 127 -> 0x9000 - 0x97F0
//	              128 - 255 -> 0x8800 - 0x8FF0
func TileAddress(signed bool, tileNo, row uint8) uint16 {
	var addressMode uint16
	if signed {
		addressMode = 1
	}
	return 0x8000 | uint16(tileNo)<<4 | (addressMode&^uint16(tileNo>>7))<<12 | uint16(row&7)<<1
}

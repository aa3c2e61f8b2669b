package views

import (
	"image"
	"image/color"

	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/background"
	"github.com/thelolagemann/gomeboy-ppu/pkg/bits"
)

const (
	tilesPerBank = 384
	tilesPerRow  = 16
)

// VRAM is the video memory a view is drawn from.
type VRAM interface {
	GetVRAM(addr uint16, bank uint8) byte
}

// Tiles draws every tile of a VRAM bank as a 16 tile wide sheet,
// resolving colour numbers through shade.
func Tiles(v VRAM, bank uint8, shade func(index uint8) [3]uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, tilesPerRow*8, tilesPerBank/tilesPerRow*8))
	for tile := 0; tile < tilesPerBank; tile++ {
		drawTile(img, v, bank, 0x8000+uint16(tile)<<4, (tile%tilesPerRow)*8, (tile/tilesPerRow)*8, shade)
	}
	return img
}

// Tilemap draws the 32x32 tile map at base, as the background would
// see it with the given tile data addressing.
func Tilemap(v VRAM, base uint16, signed bool, shade func(index uint8) [3]uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			tileNo := v.GetVRAM(background.MapAddress(base, uint8(x*8), uint8(y*8)), 0)
			drawTile(img, v, 0, background.TileAddress(signed, tileNo, 0), x*8, y*8, shade)
		}
	}
	return img
}

func drawTile(img *image.RGBA, v VRAM, bank uint8, addr uint16, x, y int, shade func(uint8) [3]uint8) {
	for row := 0; row < 8; row++ {
		lo := v.GetVRAM(addr+uint16(row)*2, bank)
		hi := v.GetVRAM(addr+uint16(row)*2+1, bank)
		for col := uint8(0); col < 8; col++ {
			rgb := shade(bits.Pixel(lo, hi, col))
			img.SetRGBA(x+int(col), y+row, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF})
		}
	}
}

package palette

import (
	"image"
	"image/color"

	"github.com/thelolagemann/gomeboy-ppu/internal/types"
)

// CGBPalette is one of the two 64 byte palette memories of colour
// models: 8 palettes of 4 colours, each colour being a little-endian
// 15-bit RGB value. It is only accessible through an index register
// and a data register.
type CGBPalette struct {
	Data         [64]byte
	Index        byte
	Incrementing bool
}

// NewCGBPalette returns a palette memory with every colour set to white.
func NewCGBPalette() *CGBPalette {
	p := &CGBPalette{}
	for i := range p.Data {
		p.Data[i] = 0xFF
		if i&1 == 1 {
			p.Data[i] = 0x7F
		}
	}
	return p
}

// SetIndex updates the index of the palette.
func (p *CGBPalette) SetIndex(value byte) {
	p.Index = value & 0x3F
	p.Incrementing = value&types.Bit7 != 0
}

// GetIndex returns the index register as read by the CPU. Bit 6 is
// unused and always reads as set.
func (p *CGBPalette) GetIndex() byte {
	v := p.Index | types.Bit6
	if p.Incrementing {
		v |= types.Bit7
	}
	return v
}

// Read returns the byte of palette memory at the current index.
func (p *CGBPalette) Read() byte {
	return p.Data[p.Index&0x3F]
}

// Write stores value at the current index, and advances the index
// if auto increment is enabled. Only the low 6 bits of the index
// wrap; the increment flag is left alone.
func (p *CGBPalette) Write(value byte) {
	p.Data[p.Index&0x3F] = value
	if p.Incrementing {
		p.Index = (p.Index + 1) & 0x3F
	}
}

// Raw returns the 15-bit colour for the given palette and colour number.
func (p *CGBPalette) Raw(palette, colour uint8) uint16 {
	i := (palette&7)<<3 | (colour&3)<<1
	return uint16(p.Data[i]) | uint16(p.Data[i+1]&0x7F)<<8
}

// GetColour returns the colour for a given palette index,
// and colour index, expanded to 8 bits per channel.
func (p *CGBPalette) GetColour(palette, colour uint8) [3]uint8 {
	return ToRGB(p.Raw(palette, colour))
}

// ToRGB expands a 15-bit colour into 8 bits per channel, repeating
// the upper bits into the lower bits so that 0x1F maps to 0xFF.
func ToRGB(c uint16) [3]uint8 {
	r, g, b := uint8(c&0x1F), uint8(c>>5&0x1F), uint8(c>>10&0x1F)
	return [3]uint8{r<<3 | r>>2, g<<3 | g>>2, b<<3 | b>>2}
}

// Image draws the palette memory as a grid of swatches, one row
// per colour number and one column per palette.
func (p *CGBPalette) Image(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8*size, 4*size))
	for pal := uint8(0); pal < 8; pal++ {
		for c := uint8(0); c < 4; c++ {
			rgb := p.GetColour(pal, c)
			col := color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}
			for x := 0; x < size; x++ {
				for y := 0; y < size; y++ {
					img.SetRGBA(int(pal)*size+x, int(c)*size+y, col)
				}
			}
		}
	}
	return img
}

var _ types.Stater = (*CGBPalette)(nil)

func (p *CGBPalette) Load(s *types.State) {
	s.ReadData(p.Data[:])
	p.SetIndex(s.Read8())
}

func (p *CGBPalette) Save(s *types.State) {
	s.WriteData(p.Data[:])
	s.Write8(p.GetIndex())
}

// Package palette resolves colour numbers into RGB colours, either
// through the legacy 4-shade palette registers or through the
// palette memory of colour models.
package palette

import (
	"fmt"
	"strings"
)

const (
	// Greyscale is the default greyscale palette.
	Greyscale = iota
	// Green is the green palette which attempts to emulate
	// the original colour palette as it would have appeared
	// on the original Game Boy.
	Green
	// Red is a red palette.
	Red
	// Yellow is a yellow palette.
	Yellow
)

// Palette represents a palette. A palette is an array of 4 RGB values,
// indexed by shade (0 lightest, 3 darkest).
type Palette [4][3]uint8

// Current is the currently selected palette used for shades.
var Current = Greyscale

// Palettes is a list of all available shade palettes.
var Palettes = []Palette{
	// Greyscale
	{
		{0xFF, 0xFF, 0xFF},
		{0xCC, 0xCC, 0xCC},
		{0x77, 0x77, 0x77},
		{0x00, 0x00, 0x00},
	},
	// Green
	{
		{0x9B, 0xBC, 0x0F},
		{0x8B, 0xAC, 0x0F},
		{0x30, 0x62, 0x30},
		{0x0F, 0x38, 0x0F},
	},
	// Red
	{
		{0xFF, 0x00, 0x00},
		{0xCC, 0x00, 0x00},
		{0x77, 0x00, 0x00},
		{0x00, 0x00, 0x00},
	},
	// Yellow
	{
		{0xFF, 0xFF, 0x00},
		{0xCC, 0xCC, 0x00},
		{0x77, 0x77, 0x00},
		{0x00, 0x00, 0x00},
	},
}

var paletteNames = []string{"greyscale", "green", "red", "yellow"}

// ByName returns the index of the named shade palette.
func ByName(name string) (int, error) {
	for i, n := range paletteNames {
		if n == strings.ToLower(name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("palette: unknown palette %q", name)
}

// Shade returns the 2-bit shade that the palette register reg
// assigns to colour number index.
func Shade(reg, index uint8) uint8 {
	return reg >> ((index & 3) << 1) & 3
}

// GetColour returns the colour of shade using the Current palette.
func GetColour(shade uint8) [3]uint8 {
	return Palettes[Current][shade&3]
}

// ByteToPalette creates a new palette from a palette register value,
// using the Current palette for shades.
func ByteToPalette(b byte) Palette {
	var p Palette
	for i := uint8(0); i < 4; i++ {
		p[i] = GetColour(Shade(b, i))
	}
	return p
}

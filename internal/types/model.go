package types

import "strings"

type Model int // The Model used in emulation.

const (
	Unset  Model = iota // Unset - Model hasn't been set - behaves as DMGABC
	DMGABC              // DMGABC - Standard Game Boy, legacy colour only
	CGBABC              // CGBABC - Game Boy Colour, extended colour and VRAM banking
)

var ModelNames = map[Model]string{
	Unset:  "Unset",
	DMGABC: "DMG",
	CGBABC: "CGB",
}

// StringToModel converts a string to a Model.
func StringToModel(s string) Model {
	for m, n := range ModelNames {
		if n == strings.ToUpper(s) {
			return m
		}
	}

	return Unset
}

func (m Model) String() string {
	return ModelNames[m]
}

// IsColour reports whether the model uses the extended colour
// subsystem (palette memory, VRAM bank 1, VRAM DMA).
func (m Model) IsColour() bool {
	return m == CGBABC
}

// ModelIO - model specific starting IO registers, as they are left
// after the boot ROM has handed over to the cartridge.
var ModelIO = map[Model]map[HardwareAddress]uint8{
	Unset:  {},
	DMGABC: {},
	CGBABC: {BCPS: 0xC8, OCPS: 0xD0},
}

// CommonIO - common starting IO registers.
var CommonIO = map[HardwareAddress]uint8{
	BGP:  0xFC,
	LCDC: 0x91,
	IF:   0xE1,
	STAT: 0x85,
}

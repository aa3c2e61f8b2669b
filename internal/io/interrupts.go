package io

import (
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
)

const (
	// VBlankINT is the VBlank interrupt flag (bit 0),
	// which is requested every time the PPU enters
	// VBlank mode (lcd.VBlank).
	VBlankINT = types.Bit0
	// LCDINT is the LCD interrupt flag (bit 1), which
	// is requested by the LCD STAT register (types.STAT),
	// when certain conditions are met.
	LCDINT = types.Bit1
	// TimerINT is the Timer interrupt flag (bit 2).
	TimerINT = types.Bit2
	// SerialINT is the Serial interrupt flag (bit 3).
	SerialINT = types.Bit3
	// JoypadINT is the Joypad interrupt Flag (bit 4).
	JoypadINT = types.Bit4
)

// RaiseInterrupt raises the specified interrupt by setting
// the flag in the types.IF register. Flags are only ever
// cleared by whoever services them.
func (b *Bus) RaiseInterrupt(interrupt byte) {
	b.SetBit(types.IF, interrupt&0x1F)
}

// Interrupts returns the pending interrupt flags, without the
// unused upper bits.
func (b *Bus) Interrupts() byte {
	return b.data[types.IF] & 0x1F
}

// HasInterrupts returns true if there are pending interrupts
// that are also enabled in types.IE.
func (b *Bus) HasInterrupts() bool {
	return b.data[types.IE]&b.data[types.IF]&0x1F != 0
}

// IRQVector returns the vector of the highest priority interrupt
// that is both requested and enabled in irq, and clears its flag.
// Interrupts are serviced in the order of priority:
//
//   - VBlank
//   - LCD
//   - Timer
//   - Serial
//   - Joypad
//
// A vector of 0 means nothing was pending.
func (b *Bus) IRQVector(irq byte) uint16 {
	for i := uint8(0); i < 5; i++ {
		flag := uint8(1 << i)

		if irq&flag == flag && b.TestBit(types.IF, flag) {
			b.ClearBit(types.IF, flag)
			return uint16(0x0040 + i*8)
		}
	}

	return 0
}

// Package io provides the shared memory bus that the video controller
// and its collaborators are attached to.
package io

import (
	"fmt"

	"github.com/thelolagemann/gomeboy-ppu/internal/types"
	"github.com/thelolagemann/gomeboy-ppu/pkg/log"
)

// WriteHandler is a function that handles writing to a memory address.
// It should return the new value to be written back to the memory address.
type WriteHandler func(byte) byte

// ReadHandler is a function that produces the value of a memory address
// when it is read, for registers whose value is derived rather than stored.
type ReadHandler func() byte

// Bus is the memory bus. It owns the register file, video memory (one
// bank, or two on colour models), object attribute memory and the
// interrupt flags.
//
// Peripherals that need to interpret their registers reserve them with
// ReserveAddress and ReserveLazyReader. Registers without handlers are
// plain storage, with the last writer winning.
type Bus struct {
	data [0x10000]byte
	vram [2][types.VRAMSize]byte

	vramBank uint8
	model    types.Model

	writeHandlers [0x80]WriteHandler
	readHandlers  [0x80]ReadHandler

	log log.Logger
}

// Opt configures a Bus.
type Opt func(b *Bus)

// WithModel sets the model the bus is emulating.
func WithModel(m types.Model) Opt {
	return func(b *Bus) {
		b.model = m
	}
}

// WithLogger sets the logger used by the bus.
func WithLogger(l log.Logger) Opt {
	return func(b *Bus) {
		b.log = l
	}
}

// NewBus creates a new Bus and reserves the registers the bus
// itself is responsible for.
func NewBus(opts ...Opt) *Bus {
	b := &Bus{log: log.NewNullLogger()}
	for _, opt := range opts {
		opt(b)
	}

	// the upper 3 bits of IF are unused
	b.ReserveAddress(types.IF, func(v byte) byte {
		return v | 0xE0
	})
	b.data[types.IF] = 0xE0
	b.ReserveAddress(types.DMA, func(v byte) byte {
		b.oamDMA(v)
		return v
	})

	if b.IsGBC() {
		b.ReserveAddress(types.VBK, func(v byte) byte {
			b.vramBank = v & types.Bit0
			return 0xFE | b.vramBank
		})
		b.data[types.VBK] = 0xFE
	}

	return b
}

// Boot writes the registers as they are left by the boot ROM for
// the configured model, passing them through any reserved handlers.
// It should be called after all peripherals have been attached.
func (b *Bus) Boot() {
	for addr, v := range types.CommonIO {
		b.Write(addr, v)
	}
	for addr, v := range types.ModelIO[b.model] {
		b.Write(addr, v)
	}
	b.log.Debugf("bus: booted as %s", b.model)
}

// Model returns the model the bus is emulating.
func (b *Bus) Model() types.Model {
	return b.model
}

// IsGBC returns true if the bus is emulating a colour model.
func (b *Bus) IsGBC() bool {
	return b.model.IsColour()
}

// ReserveAddress reserves a memory address on the bus. Writes through
// Write are passed to the handler, and the value it returns is stored.
func (b *Bus) ReserveAddress(addr uint16, handler func(byte) byte) {
	idx := ioIndex(addr)
	if b.writeHandlers[idx] != nil {
		panic(fmt.Sprintf("address %04X has already been reserved", addr))
	}
	b.writeHandlers[idx] = handler
}

// ReserveLazyReader reserves the read side of a memory address,
// so that its value is computed by handler when read.
func (b *Bus) ReserveLazyReader(addr uint16, handler func() byte) {
	idx := ioIndex(addr)
	if b.readHandlers[idx] != nil {
		panic(fmt.Sprintf("address %04X already has a reader", addr))
	}
	b.readHandlers[idx] = handler
}

// ioIndex maps a hardware address into the handler tables. IE shares
// the last slot, which is otherwise unused.
func ioIndex(addr uint16) uint16 {
	switch {
	case addr == types.IE:
		return 0x7F
	case addr >= types.IOStart && addr < types.IOStart+0x7F:
		return addr - types.IOStart
	}
	panic(fmt.Sprintf("address %04X is not a hardware register", addr))
}

// isIO returns true if the address lies within the hardware register window.
func isIO(addr uint16) bool {
	return addr >= types.IOStart && addr < types.IOStart+0x7F || addr == types.IE
}

// Read reads the value at the given address as seen by the CPU.
func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr >= types.VRAMStart && addr < types.VRAMStart+types.VRAMSize:
		return b.vram[b.vramBank][addr-types.VRAMStart]
	case isIO(addr):
		if h := b.readHandlers[ioIndex(addr)]; h != nil {
			return h()
		}
	}
	return b.data[addr]
}

// Write writes the value to the given address as the CPU would,
// passing it through any reserved handler.
func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr >= types.VRAMStart && addr < types.VRAMStart+types.VRAMSize:
		b.vram[b.vramBank][addr-types.VRAMStart] = value
		return
	case isIO(addr):
		if h := b.writeHandlers[ioIndex(addr)]; h != nil {
			value = h(value)
		}
	}
	b.data[addr] = value
}

// Get gets the value at the specified memory address. This function
// ignores any read handler and returns the stored value.
func (b *Bus) Get(addr uint16) byte {
	if addr >= types.VRAMStart && addr < types.VRAMStart+types.VRAMSize {
		return b.vram[b.vramBank][addr-types.VRAMStart]
	}
	return b.data[addr]
}

// Set sets the value at the specified memory address. This function
// ignores the write handler and just sets the value.
func (b *Bus) Set(addr uint16, value byte) {
	if addr >= types.VRAMStart && addr < types.VRAMStart+types.VRAMSize {
		b.vram[b.vramBank][addr-types.VRAMStart] = value
		return
	}
	b.data[addr] = value
}

// GetVRAM returns the byte at addr (0x8000-0x9FFF) in the given bank,
// regardless of the bank currently selected by VBK.
func (b *Bus) GetVRAM(addr uint16, bank uint8) byte {
	return b.vram[bank&b.bankMask()][(addr-types.VRAMStart)&(types.VRAMSize-1)]
}

// SetVRAM sets the byte at addr (0x8000-0x9FFF) in the given bank.
func (b *Bus) SetVRAM(addr uint16, bank uint8, value byte) {
	b.vram[bank&b.bankMask()][(addr-types.VRAMStart)&(types.VRAMSize-1)] = value
}

// VRAMBank returns the VRAM bank currently selected by VBK.
func (b *Bus) VRAMBank() uint8 {
	return b.vramBank
}

// bankMask restricts legacy models to bank 0.
func (b *Bus) bankMask() uint8 {
	if b.IsGBC() {
		return 1
	}
	return 0
}

// OAM returns the raw 160 bytes of object attribute memory.
func (b *Bus) OAM() []byte {
	return b.data[types.OAMStart : types.OAMStart+types.OAMSize]
}

// SetBit sets the bit at the specified memory address.
func (b *Bus) SetBit(addr uint16, bit byte) {
	b.data[addr] |= bit
}

// ClearBit clears the bit at the specified memory address.
func (b *Bus) ClearBit(addr uint16, bit byte) {
	b.data[addr] &^= bit
}

// TestBit tests the bit at the specified memory address.
func (b *Bus) TestBit(addr uint16, bit byte) bool {
	return b.data[addr]&bit != 0
}

var _ types.Stater = (*Bus)(nil)

// Load loads the bus from the given state. Register handlers are
// not invoked; peripherals restore their own state separately.
func (b *Bus) Load(s *types.State) {
	s.ReadData(b.data[:])
	s.ReadData(b.vram[0][:])
	s.ReadData(b.vram[1][:])
	b.vramBank = s.Read8() & b.bankMask()
}

// Save saves the bus to the given state.
func (b *Bus) Save(s *types.State) {
	s.WriteData(b.data[:])
	s.WriteData(b.vram[0][:])
	s.WriteData(b.vram[1][:])
	s.Write8(b.vramBank)
}

package ppu

import (
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
	"github.com/thelolagemann/gomeboy-ppu/pkg/log"
	"github.com/thelolagemann/gomeboy-ppu/pkg/utils"
)

// hdmaComplete is the value HDMA5 reads once no transfer is active.
const hdmaComplete = 0xFF

// HDMA is the VRAM DMA engine of colour models. It copies blocks of
// 16 bytes into VRAM, either all at once (general purpose DMA) or a
// block at a time at the end of each HBlank (HBlank DMA).
type HDMA struct {
	// bits 15 - 4 respected only for source
	source uint16
	// bits 12 - 4 respected only for destination
	destination uint16

	remaining uint16 // bytes left in an HBlank transfer
	active    bool   // HBlank transfer in progress
	status    uint8  // value read from HDMA5 when inactive

	b   Bus
	log log.Logger
}

// NewHDMA creates a new HDMA engine and reserves HDMA1-HDMA5 on b.
func NewHDMA(b Bus, l log.Logger) *HDMA {
	h := &HDMA{
		status: hdmaComplete,
		b:      b,
		log:    l,
	}

	b.ReserveAddress(types.HDMA1, func(v byte) byte {
		_, lo := utils.Uint16ToBytes(h.source)
		h.source = utils.BytesToUint16(v, lo)
		return 0xFF
	})
	b.ReserveAddress(types.HDMA2, func(v byte) byte {
		hi, _ := utils.Uint16ToBytes(h.source)
		h.source = utils.BytesToUint16(hi, v&0xF0)
		return 0xFF
	})
	b.ReserveAddress(types.HDMA3, func(v byte) byte {
		_, lo := utils.Uint16ToBytes(h.destination)
		h.destination = utils.BytesToUint16(v&0x1F, lo)
		return 0xFF
	})
	b.ReserveAddress(types.HDMA4, func(v byte) byte {
		hi, _ := utils.Uint16ToBytes(h.destination)
		h.destination = utils.BytesToUint16(hi, v&0xF0)
		return 0xFF
	})
	b.ReserveAddress(types.HDMA5, func(v byte) byte {
		h.start(v)
		return h.Status()
	})
	b.ReserveLazyReader(types.HDMA5, h.Status)

	return h
}

// start handles a write to HDMA5.
func (h *HDMA) start(v byte) {
	length := (uint16(v&0x7F) + 1) * 16

	if v&types.Bit7 == 0 {
		// writing with bit 7 clear during an HBlank transfer stops it
		if h.active {
			h.active = false
			h.status = types.Bit7 | h.blocks()
			h.log.Debugf("hdma: cancelled with %d bytes remaining", h.remaining)
			return
		}

		h.log.Debugf("hdma: general purpose %04X -> %04X (%d bytes)", h.source, h.destination|0x8000, length)
		h.copy(length)
		h.status = hdmaComplete
		return
	}

	h.log.Debugf("hdma: hblank %04X -> %04X (%d bytes)", h.source, h.destination|0x8000, length)
	h.remaining = length
	h.active = true
}

// Step copies the next 16 byte block of an HBlank transfer. It is
// only called while the transfer is Active.
func (h *HDMA) Step() {
	h.copy(16)
	h.remaining -= 16
	if h.remaining == 0 {
		h.active = false
		h.status = hdmaComplete
	}
}

// Active returns true if an HBlank transfer is in progress.
func (h *HDMA) Active() bool {
	return h.active
}

// Status returns the value of HDMA5 as read by the CPU. During an
// HBlank transfer bit 7 is clear and bits 6-0 hold the number of
// blocks left minus one.
func (h *HDMA) Status() uint8 {
	if h.active {
		return h.blocks()
	}
	return h.status
}

func (h *HDMA) blocks() uint8 {
	return uint8(h.remaining/16-1) & 0x7F
}

// copy transfers length bytes into the currently selected VRAM bank,
// advancing the source and destination as it goes.
func (h *HDMA) copy(length uint16) {
	bank := h.b.VRAMBank()
	for i := uint16(0); i < length; i++ {
		h.b.SetVRAM(0x8000|h.destination, bank, h.b.Read(h.source))

		h.source++
		h.destination = (h.destination + 1) & 0x1FFF
	}
}

var _ types.Stater = (*HDMA)(nil)

func (h *HDMA) Load(s *types.State) {
	h.source = s.Read16()
	h.destination = s.Read16() & 0x1FFF
	h.remaining = s.Read16()
	h.active = s.ReadBool()
	h.status = s.Read8()
}

func (h *HDMA) Save(s *types.State) {
	s.Write16(h.source)
	s.Write16(h.destination)
	s.Write16(h.remaining)
	s.WriteBool(h.active)
	s.Write8(h.status)
}

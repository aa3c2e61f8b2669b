package io

import "github.com/thelolagemann/gomeboy-ppu/internal/types"

// oamDMA copies 160 bytes from (source << 8) into OAM. The copy
// happens in full as soon as the register is written; the bus
// contention of the real transfer isn't modelled.
func (b *Bus) oamDMA(source byte) {
	src := uint16(source) << 8
	if src >= 0xE000 {
		// sources above WRAM are mirrored down
		src -= 0x2000
	}

	for i := uint16(0); i < types.OAMSize; i++ {
		b.data[types.OAMStart+i] = b.Get(src + i)
	}
	b.log.Debugf("bus: OAM DMA from %04X", src)
}

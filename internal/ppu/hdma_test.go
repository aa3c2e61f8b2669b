package ppu

import (
	"testing"

	"github.com/thelolagemann/gomeboy-ppu/internal/io"
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
)

// setupHDMA fills WRAM at 0xC000 with a pattern and points the
// transfer from there to 0x8000.
func setupHDMA(b *io.Bus) {
	for i := uint16(0); i < 0x100; i++ {
		b.Set(0xC000+i, uint8(i+1))
	}
	b.Write(types.HDMA1, 0xC0)
	b.Write(types.HDMA2, 0x00)
	b.Write(types.HDMA3, 0x80)
	b.Write(types.HDMA4, 0x00)
}

// copied returns the number of leading bytes at 0x8000 that match
// the pattern written by setupHDMA.
func copied(b *io.Bus, bank uint8) int {
	n := 0
	for i := uint16(0); i < 0x100; i++ {
		if b.GetVRAM(0x8000+i, bank) != uint8(i+1) {
			break
		}
		n++
	}
	return n
}

func TestHDMA_GeneralPurpose(t *testing.T) {
	b, _ := newTestPPU(types.CGBABC)
	setupHDMA(b)

	b.Write(types.HDMA5, 0x00)
	if n := copied(b, 0); n != 16 {
		t.Errorf("expected 16 bytes copied, got %d", n)
	}
	if v := b.Read(types.HDMA5); v != 0xFF {
		t.Errorf("expected HDMA5 to read 0xFF, got %02X", v)
	}

	// the registers carry on from where the last transfer ended
	b.Write(types.HDMA5, 0x01)
	if n := copied(b, 0); n != 48 {
		t.Errorf("expected 48 bytes copied, got %d", n)
	}
}

func TestHDMA_Registers(t *testing.T) {
	b, _ := newTestPPU(types.CGBABC)

	// low nibble of the source and the top bits of the destination are ignored
	for i := uint16(0); i < 0x20; i++ {
		b.Set(0xD120+i, 0xAA)
	}
	b.Write(types.HDMA1, 0xD1)
	b.Write(types.HDMA2, 0x2F)
	b.Write(types.HDMA3, 0xE1)
	b.Write(types.HDMA4, 0x5A)
	b.Write(types.HDMA5, 0x00)

	for i := uint16(0); i < 16; i++ {
		if v := b.GetVRAM(0x8150+i, 0); v != 0xAA {
			t.Fatalf("byte %d: expected 0xAA at %04X, got %02X", i, 0x8150+i, v)
		}
	}
	if v := b.GetVRAM(0x8160, 0); v != 0 {
		t.Errorf("copied past the end of the block")
	}

	for _, reg := range []uint16{types.HDMA1, types.HDMA2, types.HDMA3, types.HDMA4} {
		if v := b.Read(reg); v != 0xFF {
			t.Errorf("%04X: expected 0xFF, got %02X", reg, v)
		}
	}
}

func TestHDMA_VRAMBank(t *testing.T) {
	b, _ := newTestPPU(types.CGBABC)
	setupHDMA(b)
	b.Write(types.VBK, 1)

	b.Write(types.HDMA5, 0x00)
	if n := copied(b, 1); n != 16 {
		t.Errorf("expected 16 bytes in bank 1, got %d", n)
	}
	if n := copied(b, 0); n != 0 {
		t.Errorf("expected bank 0 untouched, got %d bytes", n)
	}
}

func TestHDMA_HBlank(t *testing.T) {
	b, p := newTestPPU(types.CGBABC)
	setupHDMA(b)
	b.Write(types.LCDC, 0x91)

	b.Write(types.HDMA5, 0x81)
	if v := b.Read(types.HDMA5); v != 0x01 {
		t.Fatalf("expected HDMA5 to read 0x01, got %02X", v)
	}
	if n := copied(b, 0); n != 0 {
		t.Fatalf("expected nothing copied before HBlank, got %d", n)
	}

	tickUntilLY(t, p, 1)
	if n := copied(b, 0); n != 16 {
		t.Errorf("expected 16 bytes after first HBlank, got %d", n)
	}
	if v := b.Read(types.HDMA5); v != 0x00 {
		t.Errorf("expected HDMA5 to read 0x00, got %02X", v)
	}

	tickUntilLY(t, p, 2)
	if n := copied(b, 0); n != 32 {
		t.Errorf("expected 32 bytes after second HBlank, got %d", n)
	}
	if v := b.Read(types.HDMA5); v != 0xFF {
		t.Errorf("expected HDMA5 to read 0xFF, got %02X", v)
	}

	tickUntilLY(t, p, 3)
	if n := copied(b, 0); n != 32 {
		t.Errorf("copied after completion: %d bytes", n)
	}
}

func TestHDMA_Cancel(t *testing.T) {
	b, p := newTestPPU(types.CGBABC)
	setupHDMA(b)
	b.Write(types.LCDC, 0x91)

	b.Write(types.HDMA5, 0x83)
	tickUntilLY(t, p, 1)

	b.Write(types.HDMA5, 0x00)
	if v := b.Read(types.HDMA5); v != 0x82 {
		t.Errorf("expected HDMA5 to read 0x82, got %02X", v)
	}

	tickUntilLY(t, p, 3)
	if n := copied(b, 0); n != 16 {
		t.Errorf("expected transfer to stop at 16 bytes, got %d", n)
	}
}

func TestHDMA_NotOnLegacy(t *testing.T) {
	b, p := newTestPPU(types.DMGABC)
	if p.hdma != nil {
		t.Fatalf("HDMA created for a legacy model")
	}

	setupHDMA(b)
	b.Write(types.HDMA5, 0x00)
	if n := copied(b, 0); n != 0 {
		t.Errorf("expected no transfer, got %d bytes", n)
	}
}

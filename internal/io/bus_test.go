package io

import (
	"testing"

	"github.com/thelolagemann/gomeboy-ppu/internal/types"
)

func TestBus_Handlers(t *testing.T) {
	b := NewBus()

	var written byte
	b.ReserveAddress(types.SCX, func(v byte) byte {
		written = v
		return v &^ 1
	})
	b.Write(types.SCX, 0x13)
	if written != 0x13 {
		t.Errorf("handler received %02X", written)
	}
	if v := b.Read(types.SCX); v != 0x12 {
		t.Errorf("expected handler result 0x12 to be stored, got %02X", v)
	}

	// Set bypasses the handler
	b.Set(types.SCX, 0x55)
	if written != 0x13 || b.Get(types.SCX) != 0x55 {
		t.Errorf("Set went through the handler")
	}

	b.ReserveLazyReader(types.SCX, func() byte { return 0x42 })
	if v := b.Read(types.SCX); v != 0x42 {
		t.Errorf("expected lazy reader value, got %02X", v)
	}
	if v := b.Get(types.SCX); v != 0x55 {
		t.Errorf("Get went through the lazy reader")
	}
}

func TestBus_ReserveTwice(t *testing.T) {
	b := NewBus()
	b.ReserveAddress(types.WX, func(v byte) byte { return v })

	defer func() {
		if recover() == nil {
			t.Errorf("expected reserving an address twice to panic")
		}
	}()
	b.ReserveAddress(types.WX, func(v byte) byte { return v })
}

func TestBus_PlainRegisters(t *testing.T) {
	b := NewBus()
	b.Write(types.WY, 0x10)
	b.Write(types.WY, 0x20)
	if v := b.Read(types.WY); v != 0x20 {
		t.Errorf("expected last write to win, got %02X", v)
	}
}

func TestBus_Interrupts(t *testing.T) {
	b := NewBus()
	if v := b.Read(types.IF); v != 0xE0 {
		t.Errorf("expected IF to read 0xE0, got %02X", v)
	}

	b.RaiseInterrupt(LCDINT)
	b.RaiseInterrupt(VBlankINT)
	if b.Interrupts() != LCDINT|VBlankINT {
		t.Errorf("unexpected flags %02X", b.Interrupts())
	}
	if b.HasInterrupts() {
		t.Errorf("reported interrupts with IE clear")
	}

	b.Write(types.IE, LCDINT)
	if !b.HasInterrupts() {
		t.Errorf("expected pending interrupt")
	}
	if v := b.IRQVector(b.Read(types.IE)); v != 0x48 {
		t.Errorf("expected LCD vector 0x48, got %04X", v)
	}
	if v := b.IRQVector(0x1F); v != 0x40 {
		t.Errorf("expected VBlank vector 0x40, got %04X", v)
	}
	if v := b.IRQVector(0x1F); v != 0 {
		t.Errorf("expected no vector, got %04X", v)
	}
}

func TestBus_VRAMBanks(t *testing.T) {
	b := NewBus(WithModel(types.CGBABC))
	if v := b.Read(types.VBK); v != 0xFE {
		t.Errorf("expected VBK to read 0xFE, got %02X", v)
	}

	b.Write(0x8000, 0x11)
	b.Write(types.VBK, 0xFF)
	if v := b.Read(types.VBK); v != 0xFF {
		t.Errorf("expected VBK to read 0xFF, got %02X", v)
	}
	b.Write(0x8000, 0x22)

	if b.GetVRAM(0x8000, 0) != 0x11 || b.GetVRAM(0x8000, 1) != 0x22 {
		t.Errorf("banks not independent")
	}
	if b.Read(0x8000) != 0x22 {
		t.Errorf("expected read from bank 1")
	}
	if b.VRAMBank() != 1 {
		t.Errorf("expected bank 1 selected")
	}
}

func TestBus_LegacyVRAM(t *testing.T) {
	b := NewBus(WithModel(types.DMGABC))
	b.Write(types.VBK, 0x01)
	if b.VRAMBank() != 0 {
		t.Errorf("legacy model switched VRAM bank")
	}

	b.SetVRAM(0x8000, 1, 0x33)
	if b.GetVRAM(0x8000, 0) != 0x33 {
		t.Errorf("expected bank 1 to alias bank 0 on legacy models")
	}
}

func TestBus_OAMDMA(t *testing.T) {
	b := NewBus()
	for i := uint16(0); i < types.OAMSize; i++ {
		b.Set(0xC100+i, uint8(i))
	}

	b.Write(types.DMA, 0xC1)
	for i, v := range b.OAM() {
		if v != uint8(i) {
			t.Fatalf("OAM byte %d: expected %02X, got %02X", i, i, v)
		}
	}

	// echo RAM is mirrored down
	b.Set(0xC200, 0x99)
	b.Write(types.DMA, 0xE2)
	if b.OAM()[0] != 0x99 {
		t.Errorf("expected mirrored source, got %02X", b.OAM()[0])
	}
}

func TestBus_Boot(t *testing.T) {
	b := NewBus(WithModel(types.CGBABC))
	b.Boot()

	if v := b.Read(types.LCDC); v != 0x91 {
		t.Errorf("expected LCDC 0x91, got %02X", v)
	}
	if v := b.Read(types.BCPS); v != 0xC8 {
		t.Errorf("expected BCPS 0xC8, got %02X", v)
	}
}

func TestBus_State(t *testing.T) {
	b := NewBus(WithModel(types.CGBABC))
	b.Write(types.VBK, 1)
	b.Write(0x9000, 0xAB)
	b.Write(types.SCY, 0x12)

	s := types.NewState()
	b.Save(s)

	restored, err := types.StateFromBytes(s.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	b2 := NewBus(WithModel(types.CGBABC))
	b2.Load(restored)
	if err := restored.Err(); err != nil {
		t.Fatal(err)
	}

	if b2.VRAMBank() != 1 || b2.Read(0x9000) != 0xAB || b2.Read(types.SCY) != 0x12 {
		t.Errorf("bus not restored")
	}
}

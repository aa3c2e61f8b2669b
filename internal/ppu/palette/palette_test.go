package palette

import "testing"

func TestCGBPalette_RoundTrip(t *testing.T) {
	p := NewCGBPalette()
	p.SetIndex(0x05)

	p.Write(0xAB)
	if got := p.Read(); got != 0xAB {
		t.Errorf("expected to read back 0xAB, got %02X", got)
	}
	if p.Index != 0x05 {
		t.Errorf("index changed without auto increment: %02X", p.Index)
	}
	if p.GetIndex()&0x80 != 0 {
		t.Errorf("auto increment bit unexpectedly set")
	}
}

func TestCGBPalette_AutoIncrement(t *testing.T) {
	p := NewCGBPalette()
	p.SetIndex(0x80 | 0x3F)

	p.Write(0x12)
	if p.Data[0x3F] != 0x12 {
		t.Errorf("expected byte stored at 0x3F, got %02X", p.Data[0x3F])
	}
	if p.Index != 0 {
		t.Errorf("expected index to wrap to 0, got %02X", p.Index)
	}
	if !p.Incrementing {
		t.Errorf("auto increment flag cleared by wrap")
	}
	if got := p.GetIndex(); got != 0xC0 {
		t.Errorf("expected index register 0xC0, got %02X", got)
	}

	for i := 0; i < 64; i++ {
		before := p.Index
		p.Write(byte(i))
		if p.Index != (before+1)&0x3F {
			t.Fatalf("write %d: index %02X -> %02X", i, before, p.Index)
		}
	}
}

func TestCGBPalette_GetColour(t *testing.T) {
	p := NewCGBPalette()
	if got := p.GetColour(7, 3); got != [3]uint8{0xFF, 0xFF, 0xFF} {
		t.Errorf("expected white after reset, got %v", got)
	}

	// palette 2, colour 1 = pure red (0x001F)
	p.SetIndex(0x80 | 2<<3 | 1<<1)
	p.Write(0x1F)
	p.Write(0x00)
	if got := p.GetColour(2, 1); got != [3]uint8{0xFF, 0, 0} {
		t.Errorf("expected red, got %v", got)
	}

	// blue 0x10 expands to 0x84
	if got := ToRGB(0x10 << 10); got != [3]uint8{0, 0, 0x84} {
		t.Errorf("unexpected expansion %v", got)
	}
}

func TestShade(t *testing.T) {
	const bgp = 0b11_10_01_00
	for i := uint8(0); i < 4; i++ {
		if got := Shade(bgp, i); got != i {
			t.Errorf("Shade(%08b, %d) = %d", bgp, i, got)
		}
	}
	if got := Shade(0b00_00_00_11, 0); got != 3 {
		t.Errorf("expected colour 0 to map to shade 3, got %d", got)
	}
}

func TestByName(t *testing.T) {
	if i, err := ByName("Green"); err != nil || i != Green {
		t.Errorf("ByName(Green) = %d, %v", i, err)
	}
	if _, err := ByName("purple"); err == nil {
		t.Errorf("expected error for unknown palette")
	}
}

func TestByteToPalette(t *testing.T) {
	p := ByteToPalette(0b00_01_10_11)
	for i := range p {
		if want := Palettes[Current][3-i]; p[i] != want {
			t.Errorf("colour %d: expected %v, got %v", i, want, p[i])
		}
	}
}
